// Package groups resolves per-leaf group membership from inline flag
// specs and relation CSV files into one canonical leaf→group mapping.
//
// Sources merge rather than override: inline specs take precedence on
// conflict, the CSV fills in leaves the inline specs did not cover,
// and tree leaves named by no source fall into the reserved
// [Ungrouped] bucket. The resulting GroupMap is total over the tree's
// leaves and immutable after resolution.
package groups

import (
	"sort"
)

// Ungrouped is the reserved group for leaves no source assigned.
// It always sorts last in legends.
const Ungrouped = "Ungrouped"

// GroupMap is an immutable mapping from leaf name to group name,
// total over the leaves of the tree it was resolved against.
type GroupMap struct {
	byLeaf map[string]string
}

func newGroupMap(byLeaf map[string]string) *GroupMap {
	return &GroupMap{byLeaf: byLeaf}
}

// GroupOf returns the group of the named leaf. Resolution guarantees
// every tree leaf is present; unknown names report Ungrouped.
func (gm *GroupMap) GroupOf(leaf string) string {
	if g, ok := gm.byLeaf[leaf]; ok {
		return g
	}
	return Ungrouped
}

// Len returns the number of leaves in the map.
func (gm *GroupMap) Len() int { return len(gm.byLeaf) }

// Groups returns the distinct group names sorted ascending, with
// Ungrouped forced last if present. This is the ordering used for
// deterministic palette assignment and legends.
func (gm *GroupMap) Groups() []string {
	seen := make(map[string]bool)
	var out []string
	hasUngrouped := false
	for _, g := range gm.byLeaf {
		if g == Ungrouped {
			hasUngrouped = true
			continue
		}
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	sort.Strings(out)
	if hasUngrouped {
		out = append(out, Ungrouped)
	}
	return out
}

// DefaultOnly reports whether every leaf fell into Ungrouped, i.e.
// the caller supplied no grouping at all. This is the condition that
// switches coloring to the distance-based fallback.
func (gm *GroupMap) DefaultOnly() bool {
	for _, g := range gm.byLeaf {
		if g != Ungrouped {
			return false
		}
	}
	return true
}
