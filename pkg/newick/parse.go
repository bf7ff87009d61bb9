// Package newick parses and serializes trees in Newick (bracket)
// notation: nested parentheses with comma-separated children, optional
// internal-node labels, optional ":length" branch suffixes, and a
// mandatory ";" terminator.
//
//	(A:1,B:2,(C:1,D:1)clade1:1);
//
// Parse produces an immutable [tree.Tree]; Serialize is its structural
// inverse and round-trips topology, labels, and branch lengths.
package newick

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/matzehuels/phylotree/pkg/errors"
	"github.com/matzehuels/phylotree/pkg/tree"
)

// Parse reads a single Newick tree description and returns the tree.
//
// It fails with a PARSE_* error on unbalanced nesting, a missing ";"
// terminator, a non-numeric or negative branch-length token, or
// duplicate leaf names, and with VALIDATION_TREE_TOO_SMALL when the
// tree has fewer than three leaves.
func Parse(text string) (*tree.Tree, error) {
	p := &parser{src: strings.TrimSpace(text)}

	root, err := p.subtree()
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if !p.eat(';') {
		return nil, p.errf("missing ';' terminator")
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errf("unexpected trailing text after ';'")
	}

	return tree.New(p.nodes, root)
}

type parser struct {
	src   string
	pos   int
	nodes []tree.Node
}

// subtree parses one node (leaf or internal) and returns its arena index.
func (p *parser) subtree() (int, error) {
	p.skipSpace()

	if p.peek() == '(' {
		return p.internal()
	}
	return p.leaf()
}

// internal parses "(child,child,...)" followed by an optional label
// and an optional branch length.
func (p *parser) internal() (int, error) {
	p.eat('(')

	var children []int
	for {
		child, err := p.subtree()
		if err != nil {
			return 0, err
		}
		children = append(children, child)

		p.skipSpace()
		if p.eat(',') {
			continue
		}
		if p.eat(')') {
			break
		}
		return 0, p.errf("unbalanced brackets: expected ',' or ')'")
	}

	n := tree.Node{
		Label:    p.token(),
		Children: children,
	}
	bl, err := p.branchLength()
	if err != nil {
		return 0, err
	}
	n.BranchLength = bl

	p.nodes = append(p.nodes, n)
	idx := len(p.nodes) - 1
	return idx, nil
}

// leaf parses a bare name with an optional branch length.
func (p *parser) leaf() (int, error) {
	name := p.token()
	if name == "" {
		return 0, p.errf("expected leaf name")
	}

	bl, err := p.branchLength()
	if err != nil {
		return 0, err
	}

	p.nodes = append(p.nodes, tree.Node{Name: name, BranchLength: bl})
	return len(p.nodes) - 1, nil
}

// branchLength parses an optional ":length" suffix. Absent lengths
// default to zero.
func (p *parser) branchLength() (float64, error) {
	p.skipSpace()
	if !p.eat(':') {
		return 0, nil
	}

	tok := p.token()
	if tok == "" {
		return 0, p.errf("missing branch length after ':'")
	}
	bl, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, p.errf("non-numeric branch length %q", tok)
	}
	if bl < 0 {
		return 0, p.errf("negative branch length %v", bl)
	}
	return bl, nil
}

// token consumes a run of name characters: anything except Newick
// structural punctuation and whitespace.
func (p *parser) token() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '(' || c == ')' || c == ',' || c == ':' || c == ';' || unicode.IsSpace(rune(c)) {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) eat(c byte) bool {
	if p.peek() == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) errf(format string, args ...any) error {
	e := errors.New(errors.ErrCodeParseTree, format, args...)
	e.Message += " (offset " + strconv.Itoa(p.pos) + ")"
	return e
}
