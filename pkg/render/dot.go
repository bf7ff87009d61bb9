package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// ToDOT converts the scene's tree to Graphviz DOT as an undirected
// graph. Graphviz computes its own (unrooted) placement, which makes
// this a useful topology preview independent of the layout styles.
// Leaf nodes are filled with their assigned color.
func ToDOT(scene *Scene) string {
	var buf bytes.Buffer
	buf.WriteString("graph tree {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=point, width=0.08];\n")
	buf.WriteString("  edge [color=\"#555555\"];\n")
	buf.WriteString("\n")

	scene.Tree.Walk(func(idx int) {
		n := scene.Tree.At(idx)
		if n.IsLeaf() {
			fmt.Fprintf(&buf, "  n%d [shape=circle, style=filled, width=0.25, label=%q, fillcolor=%q];\n",
				idx, n.Name, scene.leafColor(n.Name))
		}
	})

	buf.WriteString("\n")
	for _, e := range scene.Layout.Edges {
		bl := scene.Tree.At(e.Child).BranchLength
		fmt.Fprintf(&buf, "  n%d -- n%d [len=%s];\n", e.Parent, e.Child, trimFloat(bl))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// GraphvizSVG renders DOT text to SVG bytes using Graphviz. Used by
// the preview server to show .dot artifacts in the browser.
func GraphvizSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
