package colors

import (
	"github.com/matzehuels/phylotree/pkg/errors"
	"github.com/matzehuels/phylotree/pkg/groups"
	"github.com/matzehuels/phylotree/pkg/tree"
)

// ColorMap is the result of color assignment. Exactly one of the two
// levels is populated: group-level colors when grouping was supplied,
// leaf-level colors in the distance fallback.
type ColorMap struct {
	byGroup map[string]string
	byLeaf  map[string]string
}

// LeafLevel reports whether colors were assigned per leaf (distance
// fallback) rather than per group.
func (cm *ColorMap) LeafLevel() bool { return cm.byLeaf != nil }

// GroupColor returns the hex color of a group. In leaf-level mode it
// reports false for every group.
func (cm *ColorMap) GroupColor(group string) (string, bool) {
	c, ok := cm.byGroup[group]
	return c, ok
}

// LeafColor returns the hex color the named leaf should be drawn in,
// resolving through its group in group-level mode.
func (cm *ColorMap) LeafColor(leaf string, gm *groups.GroupMap) string {
	if cm.byLeaf != nil {
		if c, ok := cm.byLeaf[leaf]; ok {
			return c
		}
		return gradientNearHex
	}
	if c, ok := cm.byGroup[gm.GroupOf(leaf)]; ok {
		return c
	}
	return cm.byGroup[groups.Ungrouped]
}

var gradientNearHex = Ramp(0)

// Assign produces the ColorMap for a resolved tree.
//
// With grouping present, every group in gm gets a color: explicit
// colors are validated and normalized (invalid values fail with a
// VALIDATION_INVALID_COLOR error), and groups without one draw from
// the palette cycle in sorted-group order. Palette rank skips over
// explicitly colored groups so the cycle is spent only where needed.
//
// With no grouping at all (gm.DefaultOnly), every leaf is colored by
// its root distance normalized over the observed depth range.
func Assign(t *tree.Tree, gm *groups.GroupMap, explicit map[string]string) (*ColorMap, error) {
	if gm.DefaultOnly() {
		return assignByDistance(t), nil
	}

	byGroup := make(map[string]string, len(explicit))
	for group, value := range explicit {
		hex, err := Normalize(value)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidColor, err,
				"color for group %q", group)
		}
		byGroup[group] = hex
	}

	rank := 0
	for _, group := range gm.Groups() {
		if _, ok := byGroup[group]; ok {
			continue
		}
		byGroup[group] = PaletteColor(rank)
		rank++
	}

	return &ColorMap{byGroup: byGroup}, nil
}

// assignByDistance colors each leaf by its depth, min-max normalized.
// A degenerate range (all leaves equidistant from the root) maps
// everything to the near end of the gradient.
func assignByDistance(t *tree.Tree) *ColorMap {
	leaves := t.Leaves()

	minD, maxD := t.At(leaves[0]).Depth, t.At(leaves[0]).Depth
	for _, idx := range leaves[1:] {
		d := t.At(idx).Depth
		if d < minD {
			minD = d
		}
		if d > maxD {
			maxD = d
		}
	}

	span := maxD - minD
	byLeaf := make(map[string]string, len(leaves))
	for _, idx := range leaves {
		n := t.At(idx)
		pos := 0.0
		if span > 0 {
			pos = (n.Depth - minD) / span
		}
		byLeaf[n.Name] = Ramp(pos)
	}
	return &ColorMap{byLeaf: byLeaf}
}
