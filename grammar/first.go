package grammar

// firstSet is a deterministically-ordered set of terminal GrammarElements,
// keyed by their canonical String() form so that iteration is stable and
// duplicate adds are no-ops.
type firstSet[T comparable] struct {
	order []GrammarElement[T]
	have  map[string]bool
}

func newFirstSet[T comparable]() *firstSet[T] {
	return &firstSet[T]{have: map[string]bool{}}
}

func (s *firstSet[T]) add(e GrammarElement[T]) bool {
	k := e.String()
	if s.have[k] {
		return false
	}
	s.have[k] = true
	s.order = append(s.order, e)
	return true
}

func (s *firstSet[T]) has(e GrammarElement[T]) bool {
	return s.have[e.String()]
}

func (s *firstSet[T]) elements() []GrammarElement[T] {
	out := make([]GrammarElement[T], len(s.order))
	copy(out, s.order)
	return out
}

// epsilonMarker is the internal sentinel used to track "this non-terminal
// can derive the empty string" inside a firstSet. It can never collide
// with a real terminal added from outside this package: callers only ever
// build terminals via Terminal(v)/Negate(), and nothing in that path
// produces Negated set together with the zero value of T behind it
// unless the grammar happens to declare a terminal equal to the zero
// value and then negate it, which firstTable never does on its own.
func epsilonMarker[T comparable]() GrammarElement[T] {
	var zero T
	return GrammarElement[T]{Kind: TerminalKind, Value: zero, Negated: true}
}

// firstTable computes FIRST(X) for every non-terminal X in the grammar by
// fixed-point iteration (spec §4.C): repeatedly scan every
// production, propagating FIRST of rhs symbols into the lhs's set, until
// a full pass adds nothing new. Termination follows because the universe
// of terminals and non-terminals is finite. Left recursion needs no
// special case: a non-terminal that contributes to its own FIRST set
// simply stops changing once converged. The returned table includes the
// epsilonMarker entry for any non-terminal that can derive ε.
func (g *Grammar[T]) firstTable() map[string]*firstSet[T] {
	table := map[string]*firstSet[T]{}
	for _, nt := range g.nonTermOrder {
		table[nt] = newFirstSet[T]()
	}

	eps := epsilonMarker[T]()

	changed := true
	for changed {
		changed = false
		for _, p := range g.productions {
			lhsSet := table[p.LHS.Name]

			if p.IsEpsilon() {
				if lhsSet.add(eps) {
					changed = true
				}
				continue
			}

			nullableSoFar := true
			for _, sym := range p.RHS {
				if sym.IsTerminal() {
					if lhsSet.add(sym) {
						changed = true
					}
					nullableSoFar = false
					break
				}

				symFirst := g.firstOfSymbol(sym, table)
				for _, e := range symFirst.elements() {
					if e.Equal(eps) {
						continue
					}
					if lhsSet.add(e) {
						changed = true
					}
				}
				if !symFirst.has(eps) {
					nullableSoFar = false
					break
				}
			}
			if nullableSoFar {
				if lhsSet.add(eps) {
					changed = true
				}
			}
		}
	}

	return table
}

// firstOfSymbol returns FIRST(x) against an already-converged table: a
// singleton set for a terminal, or the table's entry for a non-terminal.
func (g *Grammar[T]) firstOfSymbol(x GrammarElement[T], table map[string]*firstSet[T]) *firstSet[T] {
	if x.IsTerminal() {
		s := newFirstSet[T]()
		s.add(x)
		return s
	}
	if t, ok := table[x.Name]; ok {
		return t
	}
	return newFirstSet[T]()
}

// firstOfSequence computes FIRST(alpha) for a sequence of symbols: FIRST
// of the first symbol (minus ε), plus FIRST of the rest if that symbol is
// nullable, continuing until a non-nullable symbol is found or alpha is
// exhausted, in which case ε is included (spec §4.C).
func (g *Grammar[T]) firstOfSequence(alpha []GrammarElement[T], table map[string]*firstSet[T]) *firstSet[T] {
	eps := epsilonMarker[T]()
	result := newFirstSet[T]()

	for _, sym := range alpha {
		if sym.IsTerminal() {
			result.add(sym)
			return result
		}

		symFirst := g.firstOfSymbol(sym, table)
		for _, e := range symFirst.elements() {
			if !e.Equal(eps) {
				result.add(e)
			}
		}
		if !symFirst.has(eps) {
			return result
		}
	}

	result.add(eps)
	return result
}

// First computes FIRST(X) for a single grammar symbol. For repeated
// queries against the same grammar, prefer building one firstTable and
// calling firstOfSymbol directly; First recomputes the fixed point every
// call.
func (g *Grammar[T]) First(x GrammarElement[T]) []GrammarElement[T] {
	if x.IsTerminal() {
		return []GrammarElement[T]{x}
	}
	table := g.firstTable()
	return g.firstOfSymbol(x, table).elements()
}
