// Package grammar implements the context-free grammar model used by the
// rest of lrforge: terminals, non-terminals, productions, the augmented
// start symbol, and the LR(1) items built from them.
package grammar

import "fmt"

// Kind discriminates the two variants of a GrammarElement.
type Kind int

const (
	// TerminalKind marks an element as a terminal symbol.
	TerminalKind Kind = iota
	// NonTerminalKind marks an element as a non-terminal symbol.
	NonTerminalKind
)

func (k Kind) String() string {
	if k == TerminalKind {
		return "TERM"
	}
	return "NONTERM"
}

// StartSymbolName is the reserved name of the synthetic start non-terminal
// added by Grammar augmentation. It may not be used as the name of a
// user-supplied non-terminal.
const StartSymbolName = "S'"

// GrammarElement is a tagged-variant grammar symbol: either a Terminal{
// Value, Keep, Negated } or a NonTerminal{ Name, Keep }, per spec §3. T is
// the terminal-value type, typically a token-class identifier.
//
// Keep marks whether the matched child for this symbol should be retained
// when the tree builder assembles a node; it does not participate in
// equality (see Equal).
//
// Negated is valid only when Kind is TerminalKind and means "any terminal
// other than Value" — the single-fallback "default terminal" mechanism of
// spec §4.E.
type GrammarElement[T comparable] struct {
	Kind Kind

	// Value is the terminal value. Only meaningful when Kind ==
	// TerminalKind.
	Value T

	// Negated is only meaningful when Kind == TerminalKind.
	Negated bool

	// Name is the non-terminal name. Only meaningful when Kind ==
	// NonTerminalKind.
	Name string

	// Keep marks whether the matched child is retained by the tree
	// builder. Does not participate in Equal.
	Keep bool
}

// Terminal builds a terminal GrammarElement with the given value. Keep
// defaults to true; use Discard/Negate to adjust.
func Terminal[T comparable](value T) GrammarElement[T] {
	return GrammarElement[T]{Kind: TerminalKind, Value: value, Keep: true}
}

// NonTerminal builds a non-terminal GrammarElement with the given name.
// Keep defaults to true.
func NonTerminal[T comparable](name string) GrammarElement[T] {
	return GrammarElement[T]{Kind: NonTerminalKind, Name: name, Keep: true}
}

// Negate returns a copy of a terminal GrammarElement with Negated set. It
// panics if called on a non-terminal; negation is a terminal-only concept.
func (e GrammarElement[T]) Negate() GrammarElement[T] {
	if e.Kind != TerminalKind {
		panic("cannot negate a non-terminal grammar element")
	}
	e.Negated = true
	return e
}

// Discard returns a copy of the element with Keep set to false, marking
// its matched child for exclusion from the assembled tree.
func (e GrammarElement[T]) Discard() GrammarElement[T] {
	e.Keep = false
	return e
}

// IsTerminal returns whether e is a terminal element.
func (e GrammarElement[T]) IsTerminal() bool {
	return e.Kind == TerminalKind
}

// IsNonTerminal returns whether e is a non-terminal element.
func (e GrammarElement[T]) IsNonTerminal() bool {
	return e.Kind == NonTerminalKind
}

// Equal compares two GrammarElements by their classifying fields: Kind
// plus (Value, Negated) for terminals or Name for non-terminals. Keep is
// an assembly annotation and never participates.
func (e GrammarElement[T]) Equal(o GrammarElement[T]) bool {
	if e.Kind != o.Kind {
		return false
	}
	if e.Kind == TerminalKind {
		return e.Value == o.Value && e.Negated == o.Negated
	}
	return e.Name == o.Name
}

// String renders a canonical form of the element suitable for use as a map
// key in item/set hashing.
func (e GrammarElement[T]) String() string {
	if e.Kind == TerminalKind {
		if e.Negated {
			return fmt.Sprintf("!%v", e.Value)
		}
		return fmt.Sprintf("%v", e.Value)
	}
	return e.Name
}
