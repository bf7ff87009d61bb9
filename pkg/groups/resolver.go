package groups

import (
	"strings"

	"github.com/matzehuels/phylotree/pkg/errors"
	"github.com/matzehuels/phylotree/pkg/tree"
)

// Resolution is the outcome of merging all group sources against a tree.
type Resolution struct {
	// Groups maps every tree leaf to a group (Ungrouped if unnamed).
	Groups *GroupMap
	// Colors holds explicit group colors from the CSV color column,
	// unvalidated here (the color assigner validates them).
	Colors map[string]string
	// Warnings are the non-fatal findings of resolution, reported
	// after processing completes.
	Warnings *errors.Warnings
}

// Resolve merges inline specs ("GroupName:leaf1,leaf2,...") and an
// optional relation CSV into a total GroupMap for t.
//
// Precedence: first-wins among inline specs; inline wins over CSV on
// conflict. Source leaves missing from the tree produce warnings; if
// the sources named at least one leaf but none of them exist in the
// tree, resolution fails with a VALIDATION_GROUP_MISMATCH error. Tree
// leaves covered by no source fall into Ungrouped with a warning.
//
// csvPath may be empty; inlineSpecs may be nil. With no sources at
// all, every leaf maps to Ungrouped and no warnings are produced
// (this is the signal for distance-based coloring).
func Resolve(t *tree.Tree, inlineSpecs []string, csvPath string) (*Resolution, error) {
	res := &Resolution{
		Colors:   make(map[string]string),
		Warnings: &errors.Warnings{},
	}

	byLeaf := make(map[string]string, t.LeafCount())
	sourcesNamed := 0 // leaves named by any source
	sourcesFound := 0 // of those, how many exist in the tree

	assign := func(leaf, group, origin string) {
		sourcesNamed++
		if _, ok := t.Lookup(leaf); !ok {
			res.Warnings.Add("%s names leaf %q which is not in the tree; ignored", origin, leaf)
			return
		}
		sourcesFound++
		if prev, taken := byLeaf[leaf]; taken {
			if prev != group {
				res.Warnings.Add("leaf %q already assigned to group %q; %s assignment to %q ignored",
					leaf, prev, origin, group)
			}
			return
		}
		byLeaf[leaf] = group
	}

	// Inline specs first: they take precedence over the CSV.
	for _, spec := range inlineSpecs {
		group, leaves, err := parseInlineSpec(spec)
		if err != nil {
			return nil, err
		}
		for _, leaf := range leaves {
			assign(leaf, group, "inline spec")
		}
	}

	if csvPath != "" {
		rows, err := readRelationCSV(csvPath)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			assign(row.Sequence, row.Group, "relation file")
			if row.Color != "" {
				res.Colors[row.Group] = row.Color
			}
		}
	}

	if sourcesNamed > 0 && sourcesFound == 0 && t.LeafCount() > 0 {
		return nil, errors.New(errors.ErrCodeGroupMismatch,
			"none of the %d leaves named by group sources exist in the tree", sourcesNamed)
	}

	// Totality: every tree leaf resolves, unnamed ones to Ungrouped.
	var uncovered []string
	for _, name := range t.LeafNames() {
		if _, ok := byLeaf[name]; !ok {
			byLeaf[name] = Ungrouped
			uncovered = append(uncovered, name)
		}
	}
	if sourcesNamed > 0 && len(uncovered) > 0 {
		res.Warnings.Add("%d leaves not named by any group source assigned to %q: %s",
			len(uncovered), Ungrouped, strings.Join(uncovered, ", "))
	}

	res.Groups = newGroupMap(byLeaf)
	return res, nil
}

// parseInlineSpec splits "GroupName:leaf1,leaf2,..." into its parts,
// trimming whitespace around each leaf name.
func parseInlineSpec(spec string) (group string, leaves []string, err error) {
	group, rest, ok := strings.Cut(spec, ":")
	group = strings.TrimSpace(group)
	if !ok || group == "" {
		return "", nil, errors.New(errors.ErrCodeInvalidSpec,
			"invalid group spec %q, want GroupName:leaf1,leaf2,...", spec)
	}

	for _, leaf := range strings.Split(rest, ",") {
		leaf = strings.TrimSpace(leaf)
		if leaf != "" {
			leaves = append(leaves, leaf)
		}
	}
	if len(leaves) == 0 {
		return "", nil, errors.New(errors.ErrCodeInvalidSpec,
			"group spec %q names no leaves", spec)
	}
	return group, leaves, nil
}
