// Package tree provides the in-memory phylogenetic tree model.
//
// A Tree owns a flat arena of nodes addressed by integer index, with
// explicit parent/child index fields. This avoids pointer ownership
// cycles and makes the structure trivially safe to share read-only
// across parallel layout computations.
//
// Trees are built once (normally by [newick.Parse]) and never mutated
// afterwards. The canonical leaf order - leaves in first-encountered,
// depth-first order - is the stable reference ordering used by every
// downstream component.
package tree

import (
	"github.com/matzehuels/phylotree/pkg/errors"
)

// NoParent is the parent index of the root node.
const NoParent = -1

// MinLeaves is the minimum number of leaves for a usable tree.
// Phylogenetic analysis is meaningless below three taxa.
const MinLeaves = 3

// Node is a single vertex in the arena. Leaves carry a Name; internal
// nodes may carry a Label (bootstrap value or clade name from the
// source text, preserved only for round-trip serialization).
type Node struct {
	Name         string  // leaf name; empty for internal nodes
	Label        string  // optional internal-node label
	BranchLength float64 // length of the branch to the parent (>= 0)
	Parent       int     // index of the parent, NoParent for root
	Children     []int   // ordered child indices; empty for leaves

	// Cached at construction time.
	Depth     float64 // sum of branch lengths from the root
	LeafCount int     // number of leaves in this node's subtree
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Tree is an immutable rooted tree over an arena of nodes.
type Tree struct {
	nodes     []Node
	root      int
	leafOrder []int          // node indices of leaves, canonical order
	leafIndex map[string]int // leaf name -> node index
	maxDepth  float64
}

// New finalizes an arena into a Tree. It wires caches (depths, subtree
// leaf counts, canonical leaf order) and validates the structure:
// every leaf must have a unique non-empty name and the tree must have
// at least MinLeaves leaves.
//
// The arena is owned by the returned Tree and must not be modified by
// the caller afterwards.
func New(nodes []Node, root int) (*Tree, error) {
	if root < 0 || root >= len(nodes) {
		return nil, errors.New(errors.ErrCodeInternal, "root index %d out of range", root)
	}

	t := &Tree{
		nodes:     nodes,
		root:      root,
		leafIndex: make(map[string]int),
	}

	t.nodes[root].Parent = NoParent
	t.nodes[root].Depth = 0
	if err := t.finalize(root); err != nil {
		return nil, err
	}

	if len(t.leafOrder) < MinLeaves {
		return nil, errors.New(errors.ErrCodeTreeTooSmall,
			"tree has %d leaves, need at least %d for phylogenetic analysis",
			len(t.leafOrder), MinLeaves)
	}

	return t, nil
}

// finalize walks the subtree rooted at idx in depth-first order,
// computing depths, leaf counts, the canonical leaf order, and the
// name index.
func (t *Tree) finalize(idx int) error {
	n := &t.nodes[idx]
	if n.Depth > t.maxDepth {
		t.maxDepth = n.Depth
	}

	if n.IsLeaf() {
		if n.Name == "" {
			return errors.New(errors.ErrCodeParseTree, "leaf node %d has no name", idx)
		}
		if _, dup := t.leafIndex[n.Name]; dup {
			return errors.New(errors.ErrCodeDuplicateLeaf, "duplicate leaf name %q", n.Name)
		}
		n.LeafCount = 1
		t.leafIndex[n.Name] = idx
		t.leafOrder = append(t.leafOrder, idx)
		return nil
	}

	n.LeafCount = 0
	for _, c := range n.Children {
		t.nodes[c].Parent = idx
		t.nodes[c].Depth = n.Depth + t.nodes[c].BranchLength
		if err := t.finalize(c); err != nil {
			return err
		}
		n.LeafCount += t.nodes[c].LeafCount
	}
	return nil
}

// Root returns the index of the root node.
func (t *Tree) Root() int { return t.root }

// Len returns the total node count (internal + leaf).
func (t *Tree) Len() int { return len(t.nodes) }

// At returns a read-only view of the node at index i.
func (t *Tree) At(i int) *Node { return &t.nodes[i] }

// LeafCount returns the number of leaves.
func (t *Tree) LeafCount() int { return len(t.leafOrder) }

// Leaves returns the node indices of all leaves in canonical order.
// The returned slice is a copy and safe to retain.
func (t *Tree) Leaves() []int {
	out := make([]int, len(t.leafOrder))
	copy(out, t.leafOrder)
	return out
}

// LeafNames returns all leaf names in canonical order.
func (t *Tree) LeafNames() []string {
	out := make([]string, len(t.leafOrder))
	for i, idx := range t.leafOrder {
		out[i] = t.nodes[idx].Name
	}
	return out
}

// LeafRank returns the canonical-order rank of the leaf at node index
// idx, or -1 if idx is not a leaf.
func (t *Tree) LeafRank(idx int) int {
	for rank, l := range t.leafOrder {
		if l == idx {
			return rank
		}
	}
	return -1
}

// Lookup returns the node index of the named leaf.
func (t *Tree) Lookup(name string) (int, bool) {
	idx, ok := t.leafIndex[name]
	return idx, ok
}

// MaxDepth returns the largest root-to-node distance in the tree.
func (t *Tree) MaxDepth() float64 { return t.maxDepth }

// Walk visits every node in depth-first preorder starting at the root,
// calling fn with each node index. Children are visited in their
// stored order, which makes the traversal deterministic.
func (t *Tree) Walk(fn func(idx int)) {
	t.walk(t.root, fn)
}

func (t *Tree) walk(idx int, fn func(idx int)) {
	fn(idx)
	for _, c := range t.nodes[idx].Children {
		t.walk(c, fn)
	}
}
