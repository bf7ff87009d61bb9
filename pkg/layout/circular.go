package layout

import (
	"math"

	"github.com/matzehuels/phylotree/pkg/tree"
)

// angles assigns each leaf the center of an angular slot of size
// 2π/leafCount in canonical order, and each internal node the midpoint
// of its children's angular span. Shared by circular and radial.
func angles(t *tree.Tree) []float64 {
	out := make([]float64, t.Len())
	slot := 2 * math.Pi / float64(t.LeafCount())

	for rank, idx := range t.Leaves() {
		out[idx] = (float64(rank) + 0.5) * slot
	}

	// Children are finalized before their parent in postorder, so a
	// parent's midpoint only reads already-assigned child angles.
	var fill func(idx int)
	fill = func(idx int) {
		n := t.At(idx)
		if n.IsLeaf() {
			return
		}
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, c := range n.Children {
			fill(c)
			lo = math.Min(lo, out[c])
			hi = math.Max(hi, out[c])
		}
		out[idx] = (lo + hi) / 2
	}
	fill(t.Root())
	return out
}

// circularLayout places every node at angle per its leaf slot or
// children's span, with radius proportional to depth normalized by
// the tree's maximum depth, so the deepest node sits on the unit
// circle regardless of branch-length scale.
func circularLayout(t *tree.Tree) *Layout {
	ang := angles(t)
	maxDepth := t.MaxDepth()

	polar := make([]Polar, t.Len())
	for i := range polar {
		r := 0.0
		if maxDepth > 0 {
			r = t.At(i).Depth / maxDepth
		}
		polar[i] = Polar{Angle: ang[i], Radius: r}
	}

	return &Layout{
		Style:     StyleCircular,
		Polar:     polar,
		Edges:     edges(t),
		LeafOrder: t.Leaves(),
	}
}
