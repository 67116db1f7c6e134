// Package driver implements the shift-reduce execution engine (Dragon
// Book Algorithm 4.44) that walks a token stream against a parse table
// and assembles a concrete syntax tree, generalized from the teacher's
// lrParser.Parse (parse/lr.go).
package driver

import (
	"github.com/lrforge/lrforge/clrerrors"
	"github.com/lrforge/lrforge/grammar"
	"github.com/lrforge/lrforge/table"
	"github.com/lrforge/lrforge/token"
	"github.com/lrforge/lrforge/tree"
)

// Driver drives a table-driven LR(1) parse over a token stream.
type Driver[T comparable] struct {
	Table   *table.ParseTable[T]
	Grammar *grammar.Grammar[T]
	Builder tree.Builder[T]
}

// New builds a Driver with the DefaultBuilder tree representation.
func New[T comparable](g *grammar.Grammar[T], pt *table.ParseTable[T]) *Driver[T] {
	return &Driver[T]{Table: pt, Grammar: g, Builder: tree.DefaultBuilder[T]{}}
}

// Parse consumes stream to completion, shifting and reducing per
// Algorithm 4.44: a state stack starts at state 0; each shift pushes a
// token and state, each reduce pops |RHS| states/symbols right to left
// and pushes the reduced non-terminal's GOTO state, and accept returns
// the sole remaining subtree root.
//
// Returns an UnknownTokenError if a token's terminal class isn't one
// the grammar declares at all, or a ParseError if the table has no
// ACTION entry for an otherwise-known terminal in the current state.
func (d *Driver[T]) Parse(stream token.Stream[T]) (*tree.Node[T], error) {
	stateStack := []int{0}
	var tokenBuffer []token.Token[T]
	var subTreeRoots []*tree.Node[T]

	a := stream.Next()

	for {
		if a == nil {
			return nil, &clrerrors.ParseError{Lexeme: "", Line: 0, Column: 0, State: stateStack[len(stateStack)-1]}
		}

		term := a.Class().Terminal()
		if !d.Grammar.IsTerminalValue(term) {
			return nil, &clrerrors.UnknownTokenError{Lexeme: a.Lexeme(), Line: a.Line(), Column: a.LinePos()}
		}

		s := stateStack[len(stateStack)-1]
		act, ok := d.Table.Action(s, term)
		if !ok {
			return nil, &clrerrors.ParseError{
				Lexeme:   a.Lexeme(),
				Line:     a.Line(),
				Column:   a.LinePos(),
				FullLine: a.FullLine(),
				State:    s,
			}
		}

		switch act.Type {
		case table.Shift:
			tokenBuffer = append(tokenBuffer, a)
			stateStack = append(stateStack, act.State)
			a = stream.Next()

		case table.Reduce:
			p := act.Production
			children := make([]*tree.Node[T], 0, len(p.RHS))

			for i := len(p.RHS) - 1; i >= 0; i-- {
				sym := p.RHS[i]

				var child *tree.Node[T]
				if sym.IsTerminal() {
					last := len(tokenBuffer) - 1
					tok := tokenBuffer[last]
					tokenBuffer = tokenBuffer[:last]
					child = d.Builder.MakeTerminalNode(tok)
				} else {
					last := len(subTreeRoots) - 1
					child = subTreeRoots[last]
					subTreeRoots = subTreeRoots[:last]
				}

				stateStack = stateStack[:len(stateStack)-1]

				if sym.Keep {
					children = append([]*tree.Node[T]{child}, children...)
				}
			}

			node := d.Builder.MakeNonTerminalNode(p.LHS.Name, children)
			subTreeRoots = append(subTreeRoots, node)

			t := stateStack[len(stateStack)-1]
			dest, ok := d.Table.Goto(t, p.LHS.Name)
			if !ok {
				return nil, &clrerrors.ParseError{
					Lexeme:   a.Lexeme(),
					Line:     a.Line(),
					Column:   a.LinePos(),
					FullLine: a.FullLine(),
					State:    t,
				}
			}
			stateStack = append(stateStack, dest)

		case table.Accept:
			return subTreeRoots[len(subTreeRoots)-1], nil

		default:
			return nil, &clrerrors.ParseError{
				Lexeme:   a.Lexeme(),
				Line:     a.Line(),
				Column:   a.LinePos(),
				FullLine: a.FullLine(),
				State:    s,
			}
		}
	}
}
