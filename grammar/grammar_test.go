package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exprProductions() []Production[string] {
	return []Production[string]{
		NewProduction[string]("E", NonTerminal[string]("E"), Terminal("+"), NonTerminal[string]("T")),
		NewProduction[string]("E", NonTerminal[string]("T")),
		NewProduction[string]("T", NonTerminal[string]("T"), Terminal("*"), NonTerminal[string]("F")),
		NewProduction[string]("T", NonTerminal[string]("F")),
		NewProduction[string]("F", Terminal("("), NonTerminal[string]("E"), Terminal(")")),
		NewProduction[string]("F", Terminal("id")),
	}
}

func TestNew_AugmentsWithSyntheticStart(t *testing.T) {
	g, err := New[string]("E", "$", exprProductions())
	require.NoError(t, err)

	prods := g.Productions()
	require.NotEmpty(t, prods)
	assert.Equal(t, StartSymbolName, prods[0].LHS.Name)
	assert.Equal(t, "E", prods[0].RHS[0].Name)
	assert.Equal(t, "E", g.StartSymbol())
}

func TestNew_RejectsEmptyStart(t *testing.T) {
	_, err := New[string]("", "$", exprProductions())
	assert.Error(t, err)
}

func TestNew_RejectsNoProductions(t *testing.T) {
	_, err := New[string]("E", "$", nil)
	assert.Error(t, err)
}

func TestNew_RejectsReservedStartName(t *testing.T) {
	_, err := New[string](StartSymbolName, "$", exprProductions())
	assert.Error(t, err)
}

func TestNew_RejectsEndOfInputOnRHS(t *testing.T) {
	prods := []Production[string]{
		NewProduction[string]("E", Terminal("$")),
	}
	_, err := New[string]("E", "$", prods)
	assert.Error(t, err)
}

func TestNew_RejectsReservedLHS(t *testing.T) {
	prods := []Production[string]{
		NewProduction[string](StartSymbolName, Terminal("a")),
	}
	_, err := New[string]("E", "$", prods)
	assert.Error(t, err)
}

func TestTerminalsAndNonTerminals_FirstOccurrenceOrder(t *testing.T) {
	g, err := New[string]("E", "$", exprProductions())
	require.NoError(t, err)

	terms := g.Terminals()
	assert.Equal(t, []string{"+", "*", "(", ")", "id"}, terms)

	nts := g.NonTerminals()
	assert.Equal(t, []string{StartSymbolName, "E", "T", "F"}, nts)
}

func TestIsTerminalValue_IsNonTerminalName(t *testing.T) {
	g, err := New[string]("E", "$", exprProductions())
	require.NoError(t, err)

	assert.True(t, g.IsTerminalValue("id"))
	assert.False(t, g.IsTerminalValue("nope"))
	assert.True(t, g.IsNonTerminalName("E"))
	assert.False(t, g.IsNonTerminalName("Q"))
}

func TestValidate_WarnsOnUndefinedNonTerminal(t *testing.T) {
	prods := []Production[string]{
		NewProduction[string]("E", NonTerminal[string]("Q"), Terminal("a")),
	}
	g, err := New[string]("E", "$", prods)
	require.NoError(t, err)

	warnings, err := g.Validate()
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Q")
}

func TestValidate_ErrorsOnNoTerminals(t *testing.T) {
	prods := []Production[string]{
		NewProduction[string]("E", NonTerminal[string]("E")),
	}
	g, err := New[string]("E", "$", prods)
	require.NoError(t, err)

	_, err = g.Validate()
	assert.Error(t, err)
}

func TestProductionsFor(t *testing.T) {
	g, err := New[string]("E", "$", exprProductions())
	require.NoError(t, err)

	ps := g.ProductionsFor("T")
	require.Len(t, ps, 2)
	for _, p := range ps {
		assert.Equal(t, "T", p.LHS.Name)
	}
}
