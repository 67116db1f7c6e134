package grammar

import "sort"

// ItemSet is a deterministically-ordered, duplicate-free collection of
// LR(1) items, keyed by each item's canonical String() form. It backs
// both Closure's working set and, downstream, an automaton state's item
// set (spec §4.B/§4.D).
type ItemSet[T comparable] struct {
	order []LRItem[T]
	have  map[string]int
}

// NewItemSet builds an ItemSet seeded with the given items.
func NewItemSet[T comparable](items ...LRItem[T]) *ItemSet[T] {
	s := &ItemSet[T]{have: map[string]int{}}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add inserts it if not already present, returning whether it was new.
func (s *ItemSet[T]) Add(it LRItem[T]) bool {
	k := it.String()
	if _, ok := s.have[k]; ok {
		return false
	}
	s.have[k] = len(s.order)
	s.order = append(s.order, it)
	return true
}

// Has reports whether an item structurally equal to it is already a
// member.
func (s *ItemSet[T]) Has(it LRItem[T]) bool {
	_, ok := s.have[it.String()]
	return ok
}

// Items returns the set's members in insertion order.
func (s *ItemSet[T]) Items() []LRItem[T] {
	out := make([]LRItem[T], len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of items in the set.
func (s *ItemSet[T]) Len() int {
	return len(s.order)
}

// Key returns a canonical string identifying this exact set of items,
// suitable for deduplicating automaton states: canonical equality of
// item sets is by full set-equality of LR(1) items, not by the order
// they happened to be inserted in (two GOTO kernels that land on the
// same item set from different source states can carry different
// insertion orders), so the item strings are sorted before joining,
// matching the teacher's util.SVSet.StringOrdered() convention.
func (s *ItemSet[T]) Key() string {
	strs := make([]string, len(s.order))
	for i, it := range s.order {
		strs[i] = it.String()
	}
	sort.Strings(strs)

	var out string
	for i, str := range strs {
		if i > 0 {
			out += "\n"
		}
		out += str
	}
	return out
}

// Closure computes the closure of a kernel item set under the grammar's
// productions (spec §4.C, Dragon Book Algorithm 4.54 generalized to
// LR(1)): for every item A -> α . B β, c in the set, and every production
// B -> γ, add B -> . γ, b for every terminal b in FIRST(βc). Repeats
// until no item is added.
//
// Per spec's hot-path guidance, the work is driven off a queue of
// "items added this round" rather than rescanning the whole set on every
// pass: an item only ever contributes new closure items once, the first
// time it is processed, since its own fields never change afterward.
func (g *Grammar[T]) Closure(kernel *ItemSet[T]) *ItemSet[T] {
	table := g.firstTable()

	result := NewItemSet[T]()
	queue := make([]LRItem[T], 0, kernel.Len())
	for _, it := range kernel.Items() {
		if result.Add(it) {
			queue = append(queue, it)
		}
	}

	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]

		next, ok := it.NextSymbol()
		if !ok || next.IsTerminal() {
			continue
		}

		beta := it.Beta()
		betaLookahead := append(append([]GrammarElement[T]{}, beta...), it.Lookahead)
		lookaheads := g.firstOfSequence(betaLookahead, table)

		for _, p := range g.ProductionsFor(next.Name) {
			for _, la := range lookaheads.elements() {
				if la.Equal(epsilonMarker[T]()) {
					continue
				}
				newItem := NewLRItem[T](p, la)
				if result.Add(newItem) {
					queue = append(queue, newItem)
				}
			}
		}
	}

	return result
}

// Follow computes FOLLOW(nonTerminal): the set of terminals that can
// appear immediately after nonTerminal in some derivation from the
// augmented start symbol, plus the end-of-input terminal for the start
// symbol itself (spec §4.C, Dragon Book Algorithm 4.52).
func (g *Grammar[T]) Follow(nonTerminal string) []GrammarElement[T] {
	table := g.firstTable()
	eps := epsilonMarker[T]()

	follow := map[string]*firstSet[T]{}
	for _, nt := range g.nonTermOrder {
		follow[nt] = newFirstSet[T]()
	}
	follow[StartSymbolName].add(g.endOfInput)

	changed := true
	for changed {
		changed = false
		for _, p := range g.productions {
			for i, sym := range p.RHS {
				if sym.IsNonTerminal() {
					rest := p.RHS[i+1:]
					restFirst := g.firstOfSequence(rest, table)

					for _, e := range restFirst.elements() {
						if e.Equal(eps) {
							continue
						}
						if follow[sym.Name].add(e) {
							changed = true
						}
					}
					if restFirst.has(eps) || len(rest) == 0 {
						for _, e := range follow[p.LHS.Name].elements() {
							if follow[sym.Name].add(e) {
								changed = true
							}
						}
					}
				}
			}
		}
	}

	if s, ok := follow[nonTerminal]; ok {
		return s.elements()
	}
	return nil
}
