package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRItem_AdvanceAndReducible(t *testing.T) {
	p := NewProduction[string]("E", NonTerminal[string]("T"), Terminal("+"))
	it := NewLRItem[string](p, Terminal[string]("$"))

	assert.False(t, it.IsReducible())
	sym, ok := it.NextSymbol()
	assert.True(t, ok)
	assert.Equal(t, "T", sym.Name)

	it2 := it.Advance()
	sym2, ok := it2.NextSymbol()
	assert.True(t, ok)
	assert.Equal(t, "+", sym2.Value)

	it3 := it2.Advance()
	assert.True(t, it3.IsReducible())
	_, ok = it3.NextSymbol()
	assert.False(t, ok)
}

func TestLRItem_AdvancePanicsWhenReducible(t *testing.T) {
	p := NewProduction[string]("E", Terminal("a"))
	it := NewLRItem[string](p, Terminal[string]("$")).Advance()
	assert.True(t, it.IsReducible())
	assert.Panics(t, func() { it.Advance() })
}

func TestLRItem_Beta(t *testing.T) {
	p := NewProduction[string]("E", NonTerminal[string]("T"), Terminal("+"), NonTerminal[string]("F"))
	it := NewLRItem[string](p, Terminal[string]("$"))

	assert.Equal(t, []GrammarElement[string]{Terminal[string]("+"), NonTerminal[string]("F")}, it.Beta())
}

func TestLRItem_EqualAndString(t *testing.T) {
	p := NewProduction[string]("E", NonTerminal[string]("T"))
	a := NewLRItem[string](p, Terminal[string]("$"))
	b := NewLRItem[string](p, Terminal[string]("$"))
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.String(), b.String())

	c := a.Advance()
	assert.False(t, a.Equal(c))
	assert.Contains(t, a.String(), ". T")
	assert.Contains(t, c.String(), "T .")
}
