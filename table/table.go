package table

import (
	"fmt"

	"github.com/dekarrin/rosed"
	"github.com/lrforge/lrforge/automaton"
)

// fallbackEntry is the single "default terminal" action a state may hold:
// an action that applies to any terminal other than negatedValue, used
// only once no exact ACTION entry matches the actual input (spec §4.E's
// negated-terminal fallback; exact matches always win, resolved in
// SPEC_FULL.md's Open Question notes).
type fallbackEntry[T comparable] struct {
	negatedValue T
	action       Action[T]
	source       string
}

// ParseTable holds the ACTION/GOTO table assembled from a grammar's
// canonical LR(1) automaton (spec §4.D/§4.E), generalized from the
// teacher's canonicalLR1Table.
type ParseTable[T comparable] struct {
	graph        *automaton.StateGraph[T]
	action       []map[string]Action[T]
	actionSource []map[string]string
	fallback     []*fallbackEntry[T]
	gotoTable    []map[string]int
	terminals    []T
	nonTerminals []string
}

// Graph returns the underlying canonical LR(1) automaton the table was
// built from.
func (pt *ParseTable[T]) Graph() *automaton.StateGraph[T] {
	return pt.graph
}

// NumStates returns the number of states in the table.
func (pt *ParseTable[T]) NumStates() int {
	return len(pt.action)
}

// Terminals returns the grammar's terminals, in the order used to build
// this table.
func (pt *ParseTable[T]) Terminals() []T {
	out := make([]T, len(pt.terminals))
	copy(out, pt.terminals)
	return out
}

// NonTerminals returns the grammar's non-terminals, in the order used to
// build this table.
func (pt *ParseTable[T]) NonTerminals() []string {
	out := make([]string, len(pt.nonTerminals))
	copy(out, pt.nonTerminals)
	return out
}

// Action returns ACTION[state, terminal]: an exact match if one exists,
// else the state's single negated-terminal fallback action if its
// negated value doesn't equal terminal, else (false).
func (pt *ParseTable[T]) Action(state int, terminal T) (Action[T], bool) {
	if state < 0 || state >= len(pt.action) {
		return Action[T]{}, false
	}
	if act, ok := pt.action[state][stringOfTerminal(terminal)]; ok {
		return act, true
	}
	if fb := pt.fallback[state]; fb != nil && fb.negatedValue != terminal {
		return fb.action, true
	}
	return Action[T]{}, false
}

// Goto returns GOTO[state, nonTerminal].
func (pt *ParseTable[T]) Goto(state int, nonTerminal string) (int, bool) {
	if state < 0 || state >= len(pt.gotoTable) {
		return 0, false
	}
	dest, ok := pt.gotoTable[state][nonTerminal]
	return dest, ok
}

// String renders the ACTION/GOTO grid as a fixed-width table, the same
// library and call the teacher's canonicalLR1Table.String() uses.
func (pt *ParseTable[T]) String() string {
	var data [][]string

	var headers []string
	headers = append(headers, "|")
	for _, t := range pt.terminals {
		headers = append(headers, fmt.Sprintf("A:%v", t))
	}
	headers = append(headers, "|")
	for _, nt := range pt.nonTerminals {
		headers = append(headers, fmt.Sprintf("G:%s", nt))
	}
	data = append(data, headers)

	for state := 0; state < pt.NumStates(); state++ {
		row := []string{fmt.Sprintf("%d", state), "|"}

		for _, t := range pt.terminals {
			cell := ""
			if act, ok := pt.Action(state, t); ok {
				switch act.Type {
				case Accept:
					cell = "acc"
				case Reduce:
					cell = fmt.Sprintf("r:%s", act.Production.String())
				case Shift:
					cell = fmt.Sprintf("s%d", act.State)
				}
			}
			row = append(row, cell)
		}

		row = append(row, "|")
		for _, nt := range pt.nonTerminals {
			cell := ""
			if dest, ok := pt.Goto(state, nt); ok {
				cell = fmt.Sprintf("%d", dest)
			}
			row = append(row, cell)
		}

		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

// stringOfTerminal mirrors GrammarElement.String()'s exact (non-negated)
// terminal form, since Action lookups are keyed on the raw token value
// the driver already has in hand rather than a constructed element.
func stringOfTerminal[T comparable](v T) string {
	return fmt.Sprintf("%v", v)
}
