package layout

import (
	"github.com/matzehuels/phylotree/pkg/tree"
)

// heatmapLayout is not a tree drawing: it pairs the canonical leaf
// order with the full patristic distance matrix, both rows and
// columns in that order. The renderer maps cell values to colors.
func heatmapLayout(t *tree.Tree) *Layout {
	return &Layout{
		Style:     StyleHeatmap,
		Matrix:    tree.Distances(t),
		LeafOrder: t.Leaves(),
	}
}
