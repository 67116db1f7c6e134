package table

import "fmt"

// ConflictKind names which of the categories spec §4.E defines a
// Conflict falls into.
type ConflictKind int

const (
	// ShiftReduce is a conflict between a shift and a reduce action.
	ShiftReduce ConflictKind = iota
	// ReduceReduce is a conflict between two different reduce actions.
	ReduceReduce
	// AcceptConflict is a conflict where one of the two candidate
	// actions is an accept.
	AcceptConflict
	// NegatedAmbiguity is a conflict between two negated-terminal
	// fallback actions in the same state (spec's "ambiguous negated
	// rows" build-time error, per the negated-terminal Open Question
	// resolution).
	NegatedAmbiguity
)

func (k ConflictKind) String() string {
	switch k {
	case ShiftReduce:
		return "shift/reduce"
	case ReduceReduce:
		return "reduce/reduce"
	case AcceptConflict:
		return "accept"
	case NegatedAmbiguity:
		return "negated-terminal ambiguity"
	default:
		return "unknown"
	}
}

// Conflict is a structured report of one ACTION table collision,
// generalized from the teacher's makeLRConflictError formatted-string
// messages (parse/lraction.go) into the field list spec §4.E names:
// state, terminal, the two competing actions, and the LR(1) items that
// triggered each one.
type Conflict[T comparable] struct {
	Kind       ConflictKind
	State      int
	Terminal   string
	First      string
	Second     string
	FirstItem  string
	SecondItem string
}

func (c Conflict[T]) String() string {
	return fmt.Sprintf("%s conflict in state %d on %q: %s (from %s) vs %s (from %s)",
		c.Kind, c.State, c.Terminal, c.First, c.FirstItem, c.Second, c.SecondItem)
}

func classify[T comparable](a, b Action[T]) ConflictKind {
	if a.Type == Accept || b.Type == Accept {
		return AcceptConflict
	}
	if a.Type == Reduce && b.Type == Reduce {
		return ReduceReduce
	}
	return ShiftReduce
}
