package render

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/phylotree/pkg/colors"
	"github.com/matzehuels/phylotree/pkg/layout"
)

const (
	leafDotRadius = 4
	edgeStyle     = "stroke:#555555;stroke-width:1.5;fill:none"
	labelStyle    = "fill:#333333;font-size:12px;font-family:monospace"
	titleStyle    = "fill:#111111;font-size:16px;font-family:monospace;font-weight:bold"
)

func renderSVG(scene *Scene, opts Options) []byte {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#FFFFFF")

	if opts.Title != "" {
		canvas.Text(int(margin), 30, opts.Title, titleStyle)
	}

	if scene.Layout.Style == layout.StyleHeatmap {
		drawHeatmapSVG(canvas, scene, opts)
	} else {
		drawTreeSVG(canvas, scene, opts)
		drawLegendSVG(canvas, scene, opts)
	}

	canvas.End()
	return buf.Bytes()
}

func drawTreeSVG(canvas *svg.SVG, scene *Scene, opts Options) {
	pos := project(scene.Layout, opts)
	rect := scene.Layout.Style == layout.StyleRectangular

	for _, e := range scene.Layout.Edges {
		p, c := pos[e.Parent], pos[e.Child]
		if rect {
			// Dendrogram elbow: drop to the child's row, then run out
			// to its depth.
			canvas.Polyline(
				[]int{int(p.X), int(p.X), int(c.X)},
				[]int{int(p.Y), int(c.Y), int(c.Y)},
				edgeStyle)
		} else {
			canvas.Line(int(p.X), int(p.Y), int(c.X), int(c.Y), edgeStyle)
		}
	}

	for _, idx := range scene.Layout.LeafOrder {
		n := scene.Tree.At(idx)
		p := pos[idx]
		fill := fmt.Sprintf("fill:%s", scene.leafColor(n.Name))
		canvas.Circle(int(p.X), int(p.Y), leafDotRadius, fill)

		lx, ly := labelAnchor(scene.Layout, idx, p)
		canvas.Text(int(lx), int(ly), n.Name, labelStyle)
	}
}

// labelAnchor offsets a leaf label away from its marker: rightwards in
// rectangular layouts, outwards along the leaf's angle otherwise.
func labelAnchor(l *layout.Layout, idx int, p xy) (float64, float64) {
	if l.Style == layout.StyleRectangular {
		return p.X + 8, p.Y + 4
	}
	a := l.Polar[idx].Angle
	return p.X + 10*math.Cos(a), p.Y + 10*math.Sin(a) + 4
}

func drawLegendSVG(canvas *svg.SVG, scene *Scene, opts Options) {
	if len(scene.Legend) == 0 {
		return
	}
	x, y := opts.Width-int(labelGutter)-40, int(margin)
	canvas.Text(x, y, "Groups", titleStyle)
	for i, e := range scene.Legend {
		ry := y + 14 + i*20
		canvas.Rect(x, ry, 12, 12, fmt.Sprintf("fill:%s;stroke:#333333", e.Color))
		canvas.Text(x+18, ry+10, fmt.Sprintf("%s (%d)", e.Group, e.Count), labelStyle)
	}
}

func drawHeatmapSVG(canvas *svg.SVG, scene *Scene, opts Options) {
	m := scene.Layout.Matrix
	n := m.Dim()
	ox, oy, side := heatmapCell(n, opts)
	maxD := m.Max()

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			t := 0.0
			if maxD > 0 {
				t = m.At(i, j) / maxD
			}
			canvas.Rect(
				int(ox+float64(j)*side), int(oy+float64(i)*side),
				int(math.Ceil(side)), int(math.Ceil(side)),
				fmt.Sprintf("fill:%s", colors.Ramp(t)))
		}
	}

	for i, name := range m.Leaves() {
		ty := int(oy + float64(i)*side + side/2 + 4)
		canvas.Text(int(margin), ty, name, labelStyle)

		tx := int(ox + float64(i)*side + side/2)
		canvas.TranslateRotate(tx, int(oy)-8, -90)
		canvas.Text(0, 4, name, labelStyle)
		canvas.Gend()
	}

	drawScaleBarSVG(canvas, opts, maxD)
}

// drawScaleBarSVG draws the distance color scale under the matrix.
func drawScaleBarSVG(canvas *svg.SVG, opts Options, maxD float64) {
	const steps = 32
	barW := 200.0
	x, y := int(margin), opts.Height-int(margin)/2
	for s := 0; s < steps; s++ {
		canvas.Rect(x+int(float64(s)*barW/steps), y-12, int(math.Ceil(barW/steps)), 12,
			fmt.Sprintf("fill:%s", colors.Ramp(float64(s)/(steps-1))))
	}
	canvas.Text(x, y+14, "0", labelStyle)
	canvas.Text(x+int(barW)-20, y+14, fmt.Sprintf("%.3g", maxD), labelStyle)
}
