package render

import (
	"bytes"
	"fmt"
	"math"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/phylotree/pkg/colors"
	"github.com/matzehuels/phylotree/pkg/layout"
)

func renderPNG(scene *Scene, opts Options) ([]byte, error) {
	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetHexColor("#FFFFFF")
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	if opts.Title != "" {
		dc.SetHexColor("#111111")
		dc.DrawString(opts.Title, margin, 30)
	}

	if scene.Layout.Style == layout.StyleHeatmap {
		drawHeatmapPNG(dc, scene, opts)
	} else {
		drawTreePNG(dc, scene, opts)
		drawLegendPNG(dc, scene, opts)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTreePNG(dc *gg.Context, scene *Scene, opts Options) {
	pos := project(scene.Layout, opts)
	rect := scene.Layout.Style == layout.StyleRectangular

	dc.SetHexColor("#555555")
	dc.SetLineWidth(1.5)
	for _, e := range scene.Layout.Edges {
		p, c := pos[e.Parent], pos[e.Child]
		if rect {
			dc.DrawLine(p.X, p.Y, p.X, c.Y)
			dc.Stroke()
			dc.DrawLine(p.X, c.Y, c.X, c.Y)
		} else {
			dc.DrawLine(p.X, p.Y, c.X, c.Y)
		}
		dc.Stroke()
	}

	for _, idx := range scene.Layout.LeafOrder {
		n := scene.Tree.At(idx)
		p := pos[idx]
		dc.SetHexColor(scene.leafColor(n.Name))
		dc.DrawCircle(p.X, p.Y, leafDotRadius)
		dc.Fill()

		lx, ly := labelAnchor(scene.Layout, idx, p)
		dc.SetHexColor("#333333")
		dc.DrawString(n.Name, lx, ly)
	}
}

func drawLegendPNG(dc *gg.Context, scene *Scene, opts Options) {
	if len(scene.Legend) == 0 {
		return
	}
	x := float64(opts.Width) - labelGutter - 40
	y := margin
	dc.SetHexColor("#111111")
	dc.DrawString("Groups", x, y)
	for i, e := range scene.Legend {
		ry := y + 14 + float64(i)*20
		dc.SetHexColor(e.Color)
		dc.DrawRectangle(x, ry, 12, 12)
		dc.Fill()
		dc.SetHexColor("#333333")
		dc.DrawStringAnchored(e.Group, x+18, ry+6, 0, 0.35)
	}
}

func drawHeatmapPNG(dc *gg.Context, scene *Scene, opts Options) {
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
			dc.SetHexColor(colors.Ramp(t))
			dc.DrawRectangle(ox+float64(j)*side, oy+float64(i)*side,
				math.Ceil(side), math.Ceil(side))
			dc.Fill()
		}
	}

	dc.SetHexColor("#333333")
	for i, name := range m.Leaves() {
		dc.DrawString(name, margin, oy+float64(i)*side+side/2+4)

		dc.Push()
		dc.RotateAbout(-math.Pi/2, ox+float64(i)*side+side/2, oy-8)
		dc.DrawString(name, ox+float64(i)*side+side/2, oy-8)
		dc.Pop()
	}

	// Distance color scale under the matrix.
	const steps = 32
	barW := 200.0
	y := float64(opts.Height) - margin/2
	for s := 0; s < steps; s++ {
		dc.SetHexColor(colors.Ramp(float64(s) / (steps - 1)))
		dc.DrawRectangle(margin+float64(s)*barW/steps, y-12, math.Ceil(barW/steps), 12)
		dc.Fill()
	}
	dc.SetHexColor("#333333")
	dc.DrawString("0", margin, y+14)
	dc.DrawStringAnchored(fmt.Sprintf("%.3g", maxD), margin+barW, y+14, 1, 0)
}
