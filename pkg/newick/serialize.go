package newick

import (
	"strconv"
	"strings"

	"github.com/matzehuels/phylotree/pkg/tree"
)

// Serialize writes t back to Newick notation. It is the structural
// inverse of [Parse]: topology, leaf names, internal labels, and
// branch lengths all survive a round trip (branch lengths up to float
// formatting, which is lossless with the 'g' shortest representation).
//
// Branch lengths are emitted for every non-root node, including
// zero-length branches; the root never carries a length.
func Serialize(t *tree.Tree) string {
	var b strings.Builder
	writeNode(&b, t, t.Root(), true)
	b.WriteByte(';')
	return b.String()
}

func writeNode(b *strings.Builder, t *tree.Tree, idx int, isRoot bool) {
	n := t.At(idx)

	if n.IsLeaf() {
		b.WriteString(n.Name)
	} else {
		b.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				b.WriteByte(',')
			}
			writeNode(b, t, c, false)
		}
		b.WriteByte(')')
		b.WriteString(n.Label)
	}

	if !isRoot {
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(n.BranchLength, 'g', -1, 64))
	}
}
