// Package layout computes per-node drawing coordinates for a tree.
//
// Each style is a pure function of the tree: same tree and style, same
// coordinates. All styles share the canonical leaf order as the
// positional reference, so a leaf keeps its neighbors across styles.
package layout

import (
	"github.com/matzehuels/phylotree/pkg/errors"
	"github.com/matzehuels/phylotree/pkg/tree"
)

// Style selects one of the supported tree drawings.
type Style string

const (
	StyleCircular    Style = "circular"
	StyleRectangular Style = "rectangular"
	StyleRadial      Style = "radial"
	StyleHeatmap     Style = "heatmap"
)

// Styles lists every supported style in presentation order.
var Styles = []Style{StyleCircular, StyleRectangular, StyleRadial, StyleHeatmap}

// ParseStyle validates a user-supplied style name.
func ParseStyle(s string) (Style, error) {
	for _, st := range Styles {
		if string(st) == s {
			return st, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidStyle,
		"unknown style %q, want one of %v", s, Styles)
}

// Polar is a node position in polar coordinates. Angle is in radians,
// measured counterclockwise from the positive x axis.
type Polar struct {
	Angle  float64
	Radius float64
}

// Point is a node position in cartesian coordinates.
type Point struct {
	X, Y float64
}

// Edge is one parent→child branch in draw order.
type Edge struct {
	Parent, Child int
}

// Layout holds the computed geometry for one style. Exactly one of
// Polar, Points, or Matrix is populated depending on the style:
// polar coordinates for circular and radial, cartesian for
// rectangular, the leaf-by-leaf distance matrix for heatmap.
// Positions are indexed by node index.
type Layout struct {
	Style  Style
	Polar  []Polar
	Points []Point
	Matrix *tree.DistanceMatrix

	// Edges lists every branch in depth-first preorder, the order
	// they should be drawn in.
	Edges []Edge
	// LeafOrder holds the leaf node indices in canonical order.
	LeafOrder []int
}

// Compute builds the layout for the requested style.
func Compute(t *tree.Tree, style Style) (*Layout, error) {
	switch style {
	case StyleCircular:
		return circularLayout(t), nil
	case StyleRectangular:
		return rectangularLayout(t), nil
	case StyleRadial:
		return radialLayout(t), nil
	case StyleHeatmap:
		return heatmapLayout(t), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidStyle,
			"unknown style %q, want one of %v", style, Styles)
	}
}

// edges collects every parent→child branch in preorder.
func edges(t *tree.Tree) []Edge {
	out := make([]Edge, 0, t.Len()-1)
	t.Walk(func(idx int) {
		for _, c := range t.At(idx).Children {
			out = append(out, Edge{Parent: idx, Child: c})
		}
	})
	return out
}

func (s Style) String() string { return string(s) }
