package table

import (
	"fmt"

	"github.com/lrforge/lrforge/automaton"
	"github.com/lrforge/lrforge/grammar"
)

// BuildTable assembles the canonical LR(1) ACTION/GOTO table for g
// (Dragon Book Algorithm 4.56, steps 2-3), generalized from the
// teacher's constructCanonicalLR1ParseTable/Action/Goto. Unlike the
// teacher, which returns on the first conflict found, BuildTable
// collects every conflict across the whole table before returning, per
// spec §7's "report every conflict, not just the first" policy; a
// non-empty conflicts slice means the grammar is not LR(1) and the
// returned table should not be used to drive a parse.
func BuildTable[T comparable](g *grammar.Grammar[T]) (*ParseTable[T], []Conflict[T]) {
	sg := automaton.Build(g)

	pt := &ParseTable[T]{
		graph:        sg,
		action:       make([]map[string]Action[T], sg.Len()),
		actionSource: make([]map[string]string, sg.Len()),
		fallback:     make([]*fallbackEntry[T], sg.Len()),
		gotoTable:    make([]map[string]int, sg.Len()),
		terminals:    g.Terminals(),
		nonTerminals: g.NonTerminals(),
	}

	var conflicts []Conflict[T]

	for _, st := range sg.States() {
		i := st.Number
		pt.action[i] = map[string]Action[T]{}
		pt.actionSource[i] = map[string]string{}
		pt.gotoTable[i] = map[string]int{}

		for _, it := range st.Core().Items() {
			if it.IsReducible() {
				if isAcceptItem(g, it) {
					setAction(pt, &conflicts, i, g.EndOfInput(), Action[T]{Type: Accept}, it.String())
					continue
				}
				act := Action[T]{Type: Reduce, Production: it.Production()}
				setAction(pt, &conflicts, i, it.Lookahead, act, it.String())
				continue
			}

			next, _ := it.NextSymbol()
			dest, ok := st.Goto(next)
			if !ok {
				continue
			}
			if next.IsTerminal() {
				setAction(pt, &conflicts, i, next, Action[T]{Type: Shift, State: dest}, it.String())
			} else {
				pt.gotoTable[i][next.Name] = dest
			}
		}
	}

	return pt, conflicts
}

// isAcceptItem reports whether it is [S' -> start ., $], the sole item
// that produces the Accept action.
func isAcceptItem[T comparable](g *grammar.Grammar[T], it grammar.LRItem[T]) bool {
	if it.LHS.Name != grammar.StartSymbolName {
		return false
	}
	if len(it.RHS) != 1 || it.RHS[0].Name != g.StartSymbol() {
		return false
	}
	return it.Lookahead.Equal(g.EndOfInput())
}

// setAction records an action keyed by the triggering element (a shift's
// next symbol, or a reduce/accept's lookahead terminal): a negated
// element becomes the state's single fallback entry, an exact element
// becomes an ACTION[state, terminal] cell. Any collision with a
// pre-existing different action is appended to conflicts rather than
// overwriting or erroring immediately.
func setAction[T comparable](pt *ParseTable[T], conflicts *[]Conflict[T], state int, elem grammar.GrammarElement[T], act Action[T], source string) {
	if elem.Negated {
		existing := pt.fallback[state]
		if existing == nil {
			pt.fallback[state] = &fallbackEntry[T]{negatedValue: elem.Value, action: act, source: source}
			return
		}
		if existing.negatedValue == elem.Value && existing.action.Equal(act) {
			return
		}
		*conflicts = append(*conflicts, Conflict[T]{
			Kind:       NegatedAmbiguity,
			State:      state,
			Terminal:   fmt.Sprintf("!%v", elem.Value),
			First:      existing.action.String(),
			Second:     act.String(),
			FirstItem:  existing.source,
			SecondItem: source,
		})
		return
	}

	key := elem.String()
	existing, ok := pt.action[state][key]
	if !ok {
		pt.action[state][key] = act
		pt.actionSource[state][key] = source
		return
	}
	if existing.Equal(act) {
		return
	}
	*conflicts = append(*conflicts, Conflict[T]{
		Kind:       classify(existing, act),
		State:      state,
		Terminal:   key,
		First:      existing.String(),
		Second:     act.String(),
		FirstItem:  pt.actionSource[state][key],
		SecondItem: source,
	})
}
