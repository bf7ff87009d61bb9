package layout

import (
	"github.com/matzehuels/phylotree/pkg/tree"
)

// rectangularLayout produces a dendrogram: leaves at integer y equal
// to their canonical rank, x equal to cumulative depth, and internal
// nodes at the mean y of their children.
func rectangularLayout(t *tree.Tree) *Layout {
	points := make([]Point, t.Len())

	for rank, idx := range t.Leaves() {
		points[idx] = Point{X: t.At(idx).Depth, Y: float64(rank)}
	}

	var fill func(idx int)
	fill = func(idx int) {
		n := t.At(idx)
		if n.IsLeaf() {
			return
		}
		sum := 0.0
		for _, c := range n.Children {
			fill(c)
			sum += points[c].Y
		}
		points[idx] = Point{X: n.Depth, Y: sum / float64(len(n.Children))}
	}
	fill(t.Root())

	return &Layout{
		Style:     StyleRectangular,
		Points:    points,
		Edges:     edges(t),
		LeafOrder: t.Leaves(),
	}
}
