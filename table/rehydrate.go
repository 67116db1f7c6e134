package table

// FallbackState is the exported shape of a state's single negated-
// terminal fallback entry, used when reconstructing a ParseTable from
// already-assembled data rather than running BuildTable.
type FallbackState[T comparable] struct {
	NegatedValue T
	Action       Action[T]
}

// FromComponents reconstructs a ParseTable directly from already-built
// ACTION/GOTO data, bypassing BuildTable/automaton.Build entirely. This
// is what persist.Decode uses to restore a previously-serialized table
// without recomputing the LR(1) automaton (spec §4.G's whole point:
// persistence exists so large grammars don't pay construction cost on
// every run). The returned table's Graph() is nil: the automaton's item
// sets aren't part of the wire format, only the ACTION/GOTO data derived
// from them.
func FromComponents[T comparable](
	terminals []T,
	nonTerminals []string,
	actions []map[string]Action[T],
	fallbacks []*FallbackState[T],
	gotos []map[string]int,
) *ParseTable[T] {
	pt := &ParseTable[T]{
		action:       actions,
		fallback:     make([]*fallbackEntry[T], len(fallbacks)),
		gotoTable:    gotos,
		terminals:    terminals,
		nonTerminals: nonTerminals,
	}
	for i, fb := range fallbacks {
		if fb != nil {
			pt.fallback[i] = &fallbackEntry[T]{negatedValue: fb.NegatedValue, action: fb.Action}
		}
	}
	return pt
}

// Components decomposes the table back into the plain data
// FromComponents accepts, for a caller (persist.Encode) that wants to
// serialize it without reaching into unexported fields.
func (pt *ParseTable[T]) Components() (terminals []T, nonTerminals []string, actions []map[string]Action[T], fallbacks []*FallbackState[T], gotos []map[string]int) {
	fallbacks = make([]*FallbackState[T], len(pt.fallback))
	for i, fb := range pt.fallback {
		if fb != nil {
			fallbacks[i] = &FallbackState[T]{NegatedValue: fb.negatedValue, Action: fb.action}
		}
	}
	return pt.Terminals(), pt.NonTerminals(), pt.action, fallbacks, pt.gotoTable
}
