package grammar

import (
	"fmt"
	"sort"

	"github.com/lrforge/lrforge/clrerrors"
)

// Grammar is a context-free grammar: a start symbol, a reserved
// end-of-input terminal, and a sequence of productions, immutable once
// constructed (spec §3 "Lifecycle"). New prepends the synthetic
// augmenting production S' -> start as production 0.
type Grammar[T comparable] struct {
	start       string
	endOfInput  GrammarElement[T]
	productions []Production[T]

	// termOrder/nonTermOrder remember insertion order so that
	// Terminals()/NonTerminals() iterate deterministically in the order
	// they were first seen, matching spec §4.D's requirement that symbol
	// iteration order be deterministic (first-addition order).
	termOrder    []T
	termSeen     map[T]bool
	nonTermOrder []string
	nonTermSeen  map[string]bool
}

// New constructs the augmented grammar G' from a start symbol, the
// reserved end-of-input terminal value, and the grammar's productions.
// It prepends production 0, S' -> start, using the reserved StartSymbolName.
//
// It returns a GrammarError if start is empty, productions is empty, S'
// collides with a user non-terminal, or endOfInput appears on any rhs.
// A non-terminal referenced on some rhs with no production defining it is
// not an error — it's reported as a warning via Validate, since forward
// declaration is allowed.
func New[T comparable](start string, endOfInput T, productions []Production[T]) (*Grammar[T], error) {
	if start == "" {
		return nil, &clrerrors.GrammarError{Message: "start symbol must not be empty"}
	}
	if len(productions) == 0 {
		return nil, &clrerrors.GrammarError{Message: "must have at least one production"}
	}
	if start == StartSymbolName {
		return nil, &clrerrors.GrammarError{Message: fmt.Sprintf("start symbol may not be the reserved augmenting name %q", StartSymbolName)}
	}

	eoi := Terminal[T](endOfInput)

	g := &Grammar[T]{
		start:       start,
		endOfInput:  eoi,
		termSeen:    map[T]bool{},
		nonTermSeen: map[string]bool{},
	}

	augmenting := NewProduction[T](StartSymbolName, NonTerminal[T](start))
	g.productions = append(g.productions, augmenting)
	g.observe(augmenting)

	for _, p := range productions {
		if p.LHS.Name == StartSymbolName {
			return nil, &clrerrors.GrammarError{Message: fmt.Sprintf("%q is reserved for the synthetic start symbol and may not be used as a production lhs", StartSymbolName)}
		}
		for _, e := range p.RHS {
			if e.IsNonTerminal() && e.Name == StartSymbolName {
				return nil, &clrerrors.GrammarError{Message: fmt.Sprintf("%q is reserved for the synthetic start symbol and may not appear on the right-hand side of production %q", StartSymbolName, p.String())}
			}
			if e.IsTerminal() && e.Value == endOfInput {
				return nil, &clrerrors.GrammarError{Message: fmt.Sprintf("end-of-input terminal may not appear on the right-hand side of production %q", p.String())}
			}
		}
		g.productions = append(g.productions, p)
		g.observe(p)
	}

	return g, nil
}

func (g *Grammar[T]) observe(p Production[T]) {
	if !g.nonTermSeen[p.LHS.Name] {
		g.nonTermSeen[p.LHS.Name] = true
		g.nonTermOrder = append(g.nonTermOrder, p.LHS.Name)
	}
	for _, e := range p.RHS {
		if e.IsTerminal() {
			if !g.termSeen[e.Value] {
				g.termSeen[e.Value] = true
				g.termOrder = append(g.termOrder, e.Value)
			}
		} else if !g.nonTermSeen[e.Name] {
			g.nonTermSeen[e.Name] = true
			g.nonTermOrder = append(g.nonTermOrder, e.Name)
		}
	}
}

// StartSymbol returns the name of the grammar's (pre-augmentation) start
// non-terminal.
func (g *Grammar[T]) StartSymbol() string {
	return g.start
}

// AugmentedStartSymbol returns the reserved S' non-terminal element.
func (g *Grammar[T]) AugmentedStartSymbol() GrammarElement[T] {
	return NonTerminal[T](StartSymbolName)
}

// EndOfInput returns the reserved end-of-input terminal element.
func (g *Grammar[T]) EndOfInput() GrammarElement[T] {
	return g.endOfInput
}

// Productions returns all productions, including the synthetic
// augmenting production 0 (S' -> start).
func (g *Grammar[T]) Productions() []Production[T] {
	return g.productions
}

// ProductionsFor returns the productions whose lhs is the named
// non-terminal, in declaration order.
func (g *Grammar[T]) ProductionsFor(nonTerminal string) []Production[T] {
	var out []Production[T]
	for _, p := range g.productions {
		if p.LHS.Name == nonTerminal {
			out = append(out, p)
		}
	}
	return out
}

// Terminals returns every terminal value used in the grammar's
// productions, in first-occurrence order. The end-of-input terminal is
// not included, since it never appears in a production's rhs.
func (g *Grammar[T]) Terminals() []T {
	out := make([]T, len(g.termOrder))
	copy(out, g.termOrder)
	return out
}

// NonTerminals returns every non-terminal name defined or referenced by
// the grammar, including the synthetic S', in first-occurrence order.
func (g *Grammar[T]) NonTerminals() []string {
	out := make([]string, len(g.nonTermOrder))
	copy(out, g.nonTermOrder)
	return out
}

// IsTerminalValue returns whether v names a terminal known to the
// grammar, including the reserved end-of-input terminal: every
// completed parse consumes it as the final lookahead to drive the last
// reduces and the accept, even though it never appears on a
// production's rhs and so is absent from termSeen/Terminals().
func (g *Grammar[T]) IsTerminalValue(v T) bool {
	return g.termSeen[v] || v == g.endOfInput.Value
}

// IsNonTerminalName returns whether name is a non-terminal known to the
// grammar.
func (g *Grammar[T]) IsNonTerminalName(name string) bool {
	return g.nonTermSeen[name]
}

// Validate checks the grammar for the soft and hard problems spec §4.A
// names. Undefined non-terminals (referenced on some rhs but never the
// lhs of a production) are reported as warnings, not an error, since
// forward use is allowed. Hard problems return a non-nil error: an empty
// start symbol or no rules (both already rejected by New, re-checked here
// for grammars assembled piecemeal) and a grammar with no terminals.
func (g *Grammar[T]) Validate() (warnings []string, err error) {
	if g.start == "" {
		return nil, &clrerrors.GrammarError{Message: "no start symbol set"}
	}
	if len(g.productions) <= 1 {
		// only the synthetic augmenting production, or none at all
		return nil, &clrerrors.GrammarError{Message: "no rules in grammar"}
	}
	if len(g.termOrder) == 0 {
		return nil, &clrerrors.GrammarError{Message: "no terminals in grammar"}
	}

	definedLHS := map[string]bool{}
	for _, p := range g.productions {
		definedLHS[p.LHS.Name] = true
	}

	var undefined []string
	for _, nt := range g.nonTermOrder {
		if !definedLHS[nt] {
			undefined = append(undefined, nt)
		}
	}
	sort.Strings(undefined)
	for _, nt := range undefined {
		warnings = append(warnings, fmt.Sprintf("non-terminal %q is referenced but has no production defining it", nt))
	}

	return warnings, nil
}

// String renders every production, one per line, starting with the
// synthetic augmenting production.
func (g *Grammar[T]) String() string {
	s := ""
	for i, p := range g.productions {
		if i > 0 {
			s += "\n"
		}
		s += p.String()
	}
	return s
}
