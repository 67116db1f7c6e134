// Package table assembles ACTION/GOTO parse tables from a grammar's
// canonical LR(1) automaton, detecting and reporting shift/reduce and
// reduce/reduce conflicts rather than silently resolving them.
package table

import (
	"fmt"

	"github.com/lrforge/lrforge/grammar"
)

// ActionType discriminates the four kinds of parser action.
type ActionType int

const (
	// Error means no action is defined: ACTION[i, a] is blank.
	Error ActionType = iota
	// Shift means push the input symbol and move to State.
	Shift
	// Reduce means pop |RHS| symbols and reduce by Production.
	Reduce
	// Accept means parsing is complete.
	Accept
)

func (t ActionType) String() string {
	switch t {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	default:
		return "error"
	}
}

// Action is one ACTION table cell: a closed sum over shift/reduce/accept,
// generalized from the teacher's LRAction (spec §4.E/§9 "Action two-slot
// container").
type Action[T comparable] struct {
	Type Type

	// State is the destination state number. Only meaningful when Type
	// is Shift.
	State int

	// Production is the rule to reduce by. Only meaningful when Type is
	// Reduce.
	Production grammar.Production[T]
}

// Type is an alias kept for readability at call sites (table.Action[T]{Type: table.Shift, ...}).
type Type = ActionType

func (a Action[T]) String() string {
	switch a.Type {
	case Accept:
		return "ACTION<accept>"
	case Error:
		return "ACTION<error>"
	case Reduce:
		return fmt.Sprintf("ACTION<reduce %s>", a.Production.String())
	case Shift:
		return fmt.Sprintf("ACTION<shift %d>", a.State)
	default:
		return "ACTION<unknown>"
	}
}

// Equal compares two actions by all fields relevant to their type.
func (a Action[T]) Equal(o Action[T]) bool {
	if a.Type != o.Type {
		return false
	}
	switch a.Type {
	case Shift:
		return a.State == o.State
	case Reduce:
		return a.Production.Equal(o.Production)
	default:
		return true
	}
}
