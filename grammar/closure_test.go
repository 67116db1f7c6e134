package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func termValues[T comparable](elems []GrammarElement[T]) []T {
	var out []T
	for _, e := range elems {
		out = append(out, e.Value)
	}
	return out
}

func TestFirst_Terminal(t *testing.T) {
	g, err := New[string]("E", "$", exprProductions())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"id"}, termValues(g.First(Terminal[string]("id"))))
}

func TestFirst_NonTerminals(t *testing.T) {
	g, err := New[string]("E", "$", exprProductions())
	require.NoError(t, err)

	for _, nt := range []string{"E", "T", "F"} {
		first := g.First(NonTerminal[string](nt))
		assert.ElementsMatch(t, []string{"(", "id"}, termValues(first), "FIRST(%s)", nt)
	}
}

func TestFollow_ExprGrammar(t *testing.T) {
	g, err := New[string]("E", "$", exprProductions())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"$", "+", ")"}, termValues(g.Follow("E")))
	assert.ElementsMatch(t, []string{"$", "+", ")", "*"}, termValues(g.Follow("T")))
	assert.ElementsMatch(t, []string{"$", "+", ")", "*"}, termValues(g.Follow("F")))
}

func TestClosure_ExprGrammarInitialState(t *testing.T) {
	g, err := New[string]("E", "$", exprProductions())
	require.NoError(t, err)

	start := NewLRItem[string](g.Productions()[0], g.EndOfInput())
	kernel := NewItemSet[string](start)

	closed := g.Closure(kernel)

	assert.Equal(t, 17, closed.Len())
	assert.True(t, closed.Has(start))

	fIDDollar := NewLRItem[string](NewProduction[string]("F", Terminal("id")), Terminal[string]("$"))
	assert.True(t, closed.Has(fIDDollar))

	fIDStar := NewLRItem[string](NewProduction[string]("F", Terminal("id")), Terminal[string]("*"))
	assert.True(t, closed.Has(fIDStar))

	tTFPlus := NewLRItem[string](
		NewProduction[string]("T", NonTerminal[string]("T"), Terminal("*"), NonTerminal[string]("F")),
		Terminal[string]("+"),
	)
	assert.True(t, closed.Has(tTFPlus))
}

func TestClosure_IsIdempotent(t *testing.T) {
	g, err := New[string]("E", "$", exprProductions())
	require.NoError(t, err)

	start := NewLRItem[string](g.Productions()[0], g.EndOfInput())
	kernel := NewItemSet[string](start)

	once := g.Closure(kernel)
	twice := g.Closure(once)

	assert.Equal(t, once.Len(), twice.Len())
	assert.Equal(t, once.Key(), twice.Key())
}

func TestItemSet_AddDeduplicates(t *testing.T) {
	p := NewProduction[string]("E", Terminal("a"))
	it := NewLRItem[string](p, Terminal[string]("$"))

	s := NewItemSet[string]()
	assert.True(t, s.Add(it))
	assert.False(t, s.Add(it))
	assert.Equal(t, 1, s.Len())
}
