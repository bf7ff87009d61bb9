package render

import (
	"math"

	"github.com/matzehuels/phylotree/pkg/layout"
)

// xy is a screen-space position.
type xy struct {
	X, Y float64
}

// project maps layout coordinates onto the canvas. Polar styles are
// centered with the largest radius scaled to fit inside the margins;
// the rectangular style maps depth to x (leaving a gutter for leaf
// labels) and canonical rank to y.
func project(l *layout.Layout, opts Options) []xy {
	switch l.Style {
	case layout.StyleRectangular:
		return projectRect(l, opts)
	default:
		return projectPolar(l, opts)
	}
}

func projectPolar(l *layout.Layout, opts Options) []xy {
	cx := float64(opts.Width) / 2
	cy := float64(opts.Height) / 2

	maxR := 0.0
	for _, p := range l.Polar {
		maxR = math.Max(maxR, p.Radius)
	}
	scale := 1.0
	if maxR > 0 {
		scale = (math.Min(cx, cy) - margin - labelGutter/2) / maxR
	}

	out := make([]xy, len(l.Polar))
	for i, p := range l.Polar {
		out[i] = xy{
			X: cx + p.Radius*scale*math.Cos(p.Angle),
			Y: cy + p.Radius*scale*math.Sin(p.Angle),
		}
	}
	return out
}

func projectRect(l *layout.Layout, opts Options) []xy {
	maxX, maxY := 0.0, 0.0
	for _, p := range l.Points {
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	drawW := float64(opts.Width) - 2*margin - labelGutter
	drawH := float64(opts.Height) - 2*margin
	sx, sy := 1.0, 1.0
	if maxX > 0 {
		sx = drawW / maxX
	}
	if maxY > 0 {
		sy = drawH / maxY
	}

	out := make([]xy, len(l.Points))
	for i, p := range l.Points {
		out[i] = xy{X: margin + p.X*sx, Y: margin + p.Y*sy}
	}
	return out
}

// heatmapCell computes the square cell geometry for an n-leaf matrix:
// origin of the grid, cell side length, and the label offset.
func heatmapCell(n int, opts Options) (originX, originY, side float64) {
	avail := math.Min(float64(opts.Width), float64(opts.Height)) - 2*margin - labelGutter
	side = avail / float64(n)
	return margin + labelGutter, margin + labelGutter, side
}
