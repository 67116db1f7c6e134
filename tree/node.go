// Package tree is the concrete syntax tree the driver assembles while
// shift-reducing, generalized from the teacher's types.ParseTree into a
// Builder seam (spec §4.H/§6) so the same ACTION/GOTO table can drive
// different tree representations without the driver caring which one.
package tree

import (
	"fmt"
	"strings"

	"github.com/lrforge/lrforge/token"
)

const (
	levelEmpty      = "        "
	levelOngoing    = "  |     "
	levelPrefix     = "  |%s: "
	levelPrefixLast = `  \%s: `
	namePadChar     = '-'
	namePadAmount   = 3
)

// Node is one node of a concrete syntax tree: either a terminal leaf
// carrying the matched token, or a non-terminal interior node carrying
// its kept children, generalized from types.ParseTree.
type Node[T comparable] struct {
	Terminal bool
	Symbol   string
	Tok      token.Token[T]
	Children []*Node[T]
}

// Builder constructs tree nodes during a reduce/shift step, the seam
// spec §4.H names so a caller can swap in a different tree
// representation (e.g. the persist package's arena-backed tree) without
// changing the driver.
type Builder[T comparable] interface {
	// MakeTerminalNode builds a leaf node for a shifted token.
	MakeTerminalNode(tok token.Token[T]) *Node[T]

	// MakeNonTerminalNode builds an interior node for symbol, over the
	// children kept by the production being reduced, left to right.
	MakeNonTerminalNode(symbol string, children []*Node[T]) *Node[T]
}

// DefaultBuilder is the straightforward Builder: nodes are plain
// *Node[T] values with no extra bookkeeping, mirroring the inline
// &types.ParseTree{...} construction in the teacher's Parse loop.
type DefaultBuilder[T comparable] struct{}

func (DefaultBuilder[T]) MakeTerminalNode(tok token.Token[T]) *Node[T] {
	return &Node[T]{Terminal: true, Symbol: tok.Class().Human(), Tok: tok}
}

func (DefaultBuilder[T]) MakeNonTerminalNode(symbol string, children []*Node[T]) *Node[T] {
	return &Node[T]{Symbol: symbol, Children: children}
}

func padName(msg string) string {
	for len([]rune(msg)) < namePadAmount {
		msg = string(namePadChar) + msg
	}
	return msg
}

// String renders the tree as a prettified, line-by-line representation
// suitable for structural comparison: two trees with identical String()
// output are considered semantically equal.
func (n *Node[T]) String() string {
	return n.leveledStr("", "")
}

func (n *Node[T]) leveledStr(firstPrefix, contPrefix string) string {
	var sb strings.Builder
	sb.WriteString(firstPrefix)
	if n.Terminal {
		sb.WriteString(fmt.Sprintf("(TERM %q)", n.Symbol))
	} else {
		sb.WriteString(fmt.Sprintf("( %s )", n.Symbol))
	}

	for i, c := range n.Children {
		sb.WriteRune('\n')
		var leveledFirst, leveledCont string
		if i+1 < len(n.Children) {
			leveledFirst = contPrefix + fmt.Sprintf(levelPrefix, padName(""))
			leveledCont = contPrefix + levelOngoing
		} else {
			leveledFirst = contPrefix + fmt.Sprintf(levelPrefixLast, padName(""))
			leveledCont = contPrefix + levelEmpty
		}
		sb.WriteString(c.leveledStr(leveledFirst, leveledCont))
	}

	return sb.String()
}

// Equal reports whether n and o have the same structure: same
// Terminal/Symbol at every node and an elementwise-equal child list.
func (n *Node[T]) Equal(o *Node[T]) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Terminal != o.Terminal || n.Symbol != o.Symbol {
		return false
	}
	if len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Copy returns a deep copy of the tree rooted at n.
func (n *Node[T]) Copy() *Node[T] {
	if n == nil {
		return nil
	}
	cp := &Node[T]{Terminal: n.Terminal, Symbol: n.Symbol, Tok: n.Tok}
	if n.Children != nil {
		cp.Children = make([]*Node[T], len(n.Children))
		for i, c := range n.Children {
			cp.Children[i] = c.Copy()
		}
	}
	return cp
}
