package tree

import (
	"gonum.org/v1/gonum/mat"
)

// DistanceMatrix holds pairwise patristic distances between leaves,
// ordered by the tree's canonical leaf order. It is computed once and
// read-only afterwards.
type DistanceMatrix struct {
	leaves []string
	index  map[string]int
	m      *mat.SymDense
}

// Distances computes the patristic distance matrix of t: for each leaf
// pair, the sum of branch lengths along the path through their nearest
// common ancestor. The diagonal is zero.
func Distances(t *Tree) *DistanceMatrix {
	leaves := t.Leaves()
	n := len(leaves)

	dm := &DistanceMatrix{
		leaves: t.LeafNames(),
		index:  make(map[string]int, n),
		m:      mat.NewSymDense(n, nil),
	}
	for i, name := range dm.leaves {
		dm.index[name] = i
	}

	// dist(a, b) = depth(a) + depth(b) - 2*depth(lca(a, b)).
	// Ancestor paths are short relative to leaf count, so the O(n^2 * h)
	// walk is fine for the tree sizes iqtree produces.
	ancestors := make([]map[int]struct{}, n)
	for i, idx := range leaves {
		path := make(map[int]struct{})
		for a := idx; a != NoParent; a = t.At(a).Parent {
			path[a] = struct{}{}
		}
		ancestors[i] = path
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			lca := leaves[j]
			for a := leaves[j]; a != NoParent; a = t.At(a).Parent {
				if _, ok := ancestors[i][a]; ok {
					lca = a
					break
				}
			}
			d := t.At(leaves[i]).Depth + t.At(leaves[j]).Depth - 2*t.At(lca).Depth
			dm.m.SetSym(i, j, d)
		}
	}

	return dm
}

// Dim returns the number of leaves covered by the matrix.
func (dm *DistanceMatrix) Dim() int { return len(dm.leaves) }

// Leaves returns the leaf names in matrix (canonical) order.
func (dm *DistanceMatrix) Leaves() []string {
	out := make([]string, len(dm.leaves))
	copy(out, dm.leaves)
	return out
}

// At returns the distance between leaves i and j in canonical order.
func (dm *DistanceMatrix) At(i, j int) float64 { return dm.m.At(i, j) }

// Between returns the distance between two leaves by name.
func (dm *DistanceMatrix) Between(a, b string) (float64, bool) {
	i, ok := dm.index[a]
	if !ok {
		return 0, false
	}
	j, ok := dm.index[b]
	if !ok {
		return 0, false
	}
	return dm.m.At(i, j), true
}

// Max returns the largest distance in the matrix. Used by renderers to
// normalize heatmap cell intensity.
func (dm *DistanceMatrix) Max() float64 {
	max := 0.0
	n := dm.Dim()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if d := dm.m.At(i, j); d > max {
				max = d
			}
		}
	}
	return max
}
