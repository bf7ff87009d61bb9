package layout

import (
	"github.com/matzehuels/phylotree/pkg/tree"
)

// radialLayout uses the same angular assignment as circular, but the
// radius is the raw cumulative depth with no normalization ceiling.
// Leaves end up at unequal outer radii, exposing branch-length
// differences that circular's scaled radius hides.
func radialLayout(t *tree.Tree) *Layout {
	ang := angles(t)

	polar := make([]Polar, t.Len())
	for i := range polar {
		polar[i] = Polar{Angle: ang[i], Radius: t.At(i).Depth}
	}

	return &Layout{
		Style:     StyleRadial,
		Polar:     polar,
		Edges:     edges(t),
		LeafOrder: t.Leaves(),
	}
}
