// Package legend derives the figure legend from resolved groups and
// their assigned colors.
package legend

import (
	"github.com/matzehuels/phylotree/pkg/colors"
	"github.com/matzehuels/phylotree/pkg/groups"
)

// Entry is one legend row.
type Entry struct {
	Group string
	Color string // "#RRGGBB"
	Count int    // number of leaves in the group
}

// Build returns the legend entries in display order: group names
// sorted ascending with Ungrouped last. In leaf-level color mode
// (distance fallback) there are no group swatches to show and Build
// returns nil.
func Build(gm *groups.GroupMap, cm *colors.ColorMap, leafNames []string) []Entry {
	if cm.LeafLevel() {
		return nil
	}

	counts := make(map[string]int)
	for _, leaf := range leafNames {
		counts[gm.GroupOf(leaf)]++
	}

	var entries []Entry
	for _, group := range gm.Groups() {
		color, ok := cm.GroupColor(group)
		if !ok {
			continue // group with no color cannot be drawn
		}
		entries = append(entries, Entry{Group: group, Color: color, Count: counts[group]})
	}
	return entries
}
