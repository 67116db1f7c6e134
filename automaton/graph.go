// Package automaton builds the canonical LR(1) state graph (the "viable
// prefix DFA") from a grammar's item sets: states are item sets, edges are
// labeled by the grammar symbol shifted across, generalized from the
// teacher's DFA[E]/NewLR1ViablePrefixDFA into an explicit graph of State[T]
// nodes numbered in breadth-first order.
package automaton

import (
	"fmt"

	"github.com/lrforge/lrforge/grammar"
)

// State is one node of the canonical LR(1) automaton: its item set plus
// the outgoing edges (grammar symbol -> destination state number).
type State[T comparable] struct {
	Number  int
	Items   *grammar.ItemSet[T]
	edges   map[string]int
	symbols []grammar.GrammarElement[T]
}

// Core returns the state's kernel-plus-closure items: the same set the
// Items field holds.
func (s *State[T]) Core() *grammar.ItemSet[T] {
	return s.Items
}

// Goto returns the destination state number for a shift on x, and
// whether such a transition exists.
func (s *State[T]) Goto(x grammar.GrammarElement[T]) (int, bool) {
	n, ok := s.edges[x.String()]
	return n, ok
}

// Transitions returns the symbols this state has an outgoing edge on, in
// the order they were first discovered.
func (s *State[T]) Transitions() []grammar.GrammarElement[T] {
	out := make([]grammar.GrammarElement[T], len(s.symbols))
	copy(out, s.symbols)
	return out
}

// StateGraph is the canonical LR(1) automaton: a set of numbered states
// and the edges between them, with state 0 always the start state (spec
// §4.D: "state numbering is breadth-first from the start state").
type StateGraph[T comparable] struct {
	states []*State[T]
}

// Start returns the graph's start state, always state 0.
func (sg *StateGraph[T]) Start() *State[T] {
	return sg.states[0]
}

// State returns the state with the given number.
func (sg *StateGraph[T]) State(n int) *State[T] {
	return sg.states[n]
}

// States returns every state, in number order.
func (sg *StateGraph[T]) States() []*State[T] {
	out := make([]*State[T], len(sg.states))
	copy(out, sg.states)
	return out
}

// Len returns the number of states in the graph.
func (sg *StateGraph[T]) Len() int {
	return len(sg.states)
}

// Goto computes the destination item set for shifting symbol x across
// item set I: advance every item in I whose next symbol is x, per spec
// §4.C's GOTO definition (Dragon Book Algorithm 4.54's goto operation).
// The caller is expected to pass the result through Grammar.Closure.
func Goto[T comparable](I *grammar.ItemSet[T], x grammar.GrammarElement[T]) *grammar.ItemSet[T] {
	kernel := grammar.NewItemSet[T]()
	for _, it := range I.Items() {
		next, ok := it.NextSymbol()
		if !ok || !next.Equal(x) {
			continue
		}
		kernel.Add(it.Advance())
	}
	return kernel
}

// Build constructs the canonical LR(1) automaton for g (Dragon Book
// Algorithm 4.56's first two steps, generalized from the teacher's
// NewLR1ViablePrefixDFA work-list loop): starting from the closure of
// the augmented start item, repeatedly compute GOTO on every symbol that
// appears after a dot in each discovered state, adding new states and
// edges until no state produces an unseen item set. States are numbered
// in breadth-first discovery order, with the start state fixed at 0, per
// spec §4.D.
func Build[T comparable](g *grammar.Grammar[T]) *StateGraph[T] {
	startItem := grammar.NewLRItem[T](g.Productions()[0], g.EndOfInput())
	startKernel := grammar.NewItemSet[T](startItem)
	startSet := g.Closure(startKernel)

	sg := &StateGraph[T]{}
	seen := map[string]int{}

	start := &State[T]{Number: 0, Items: startSet, edges: map[string]int{}}
	sg.states = append(sg.states, start)
	seen[startSet.Key()] = 0

	queue := []*State[T]{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		// deterministic order: iterate the state's items in their own
		// (insertion) order and record the first occurrence of each
		// distinct next-symbol, so GOTO is computed once per symbol and
		// edges are discovered in a stable order across runs.
		var symbolOrder []grammar.GrammarElement[T]
		symbolSeen := map[string]bool{}
		for _, it := range cur.Items.Items() {
			next, ok := it.NextSymbol()
			if !ok {
				continue
			}
			key := next.String()
			if symbolSeen[key] {
				continue
			}
			symbolSeen[key] = true
			symbolOrder = append(symbolOrder, next)
		}

		for _, x := range symbolOrder {
			kernel := Goto[T](cur.Items, x)
			if kernel.Len() == 0 {
				continue
			}
			closed := g.Closure(kernel)
			key := closed.Key()

			destNum, ok := seen[key]
			if !ok {
				destNum = len(sg.states)
				seen[key] = destNum
				dest := &State[T]{Number: destNum, Items: closed, edges: map[string]int{}}
				sg.states = append(sg.states, dest)
				queue = append(queue, dest)
			}

			cur.edges[x.String()] = destNum
			cur.symbols = append(cur.symbols, x)
		}
	}

	return sg
}

// String renders each state's number and item set, one per line.
func (sg *StateGraph[T]) String() string {
	s := ""
	for _, st := range sg.states {
		s += fmt.Sprintf("state %d:\n", st.Number)
		for _, it := range st.Items.Items() {
			s += "  " + it.String() + "\n"
		}
	}
	return s
}
