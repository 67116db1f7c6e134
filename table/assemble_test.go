package table

import (
	"testing"

	"github.com/lrforge/lrforge/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exprGrammar(t *testing.T) *grammar.Grammar[string] {
	t.Helper()
	prods := []grammar.Production[string]{
		grammar.NewProduction[string]("E", grammar.NonTerminal[string]("E"), grammar.Terminal("+"), grammar.NonTerminal[string]("T")),
		grammar.NewProduction[string]("E", grammar.NonTerminal[string]("T")),
		grammar.NewProduction[string]("T", grammar.NonTerminal[string]("T"), grammar.Terminal("*"), grammar.NonTerminal[string]("F")),
		grammar.NewProduction[string]("T", grammar.NonTerminal[string]("F")),
		grammar.NewProduction[string]("F", grammar.Terminal("("), grammar.NonTerminal[string]("E"), grammar.Terminal(")")),
		grammar.NewProduction[string]("F", grammar.Terminal("id")),
	}
	g, err := grammar.New[string]("E", "$", prods)
	require.NoError(t, err)
	return g
}

func TestBuildTable_NoConflictsForExprGrammar(t *testing.T) {
	g := exprGrammar(t)
	_, conflicts := BuildTable(g)
	assert.Empty(t, conflicts)
}

func TestBuildTable_StartStateShiftsOnID(t *testing.T) {
	g := exprGrammar(t)
	pt, conflicts := BuildTable(g)
	require.Empty(t, conflicts)

	act, ok := pt.Action(0, "id")
	require.True(t, ok)
	assert.Equal(t, Shift, act.Type)
}

func TestBuildTable_SingleOrEmptyActionCell(t *testing.T) {
	g := exprGrammar(t)
	pt, conflicts := BuildTable(g)
	require.Empty(t, conflicts)

	for state := 0; state < pt.NumStates(); state++ {
		for _, term := range append(pt.Terminals(), "$") {
			// Action must never panic and must return at most one
			// result; calling it twice should be idempotent.
			a1, ok1 := pt.Action(state, term)
			a2, ok2 := pt.Action(state, term)
			assert.Equal(t, ok1, ok2)
			if ok1 {
				assert.True(t, a1.Equal(a2))
			}
		}
	}
}

func TestBuildTable_DanglingElseShiftReduceConflict(t *testing.T) {
	// S -> if E then S | if E then S else S | other
	prods := []grammar.Production[string]{
		grammar.NewProduction[string]("S",
			grammar.Terminal[string]("if"), grammar.NonTerminal[string]("E"), grammar.Terminal[string]("then"), grammar.NonTerminal[string]("S")),
		grammar.NewProduction[string]("S",
			grammar.Terminal[string]("if"), grammar.NonTerminal[string]("E"), grammar.Terminal[string]("then"), grammar.NonTerminal[string]("S"),
			grammar.Terminal[string]("else"), grammar.NonTerminal[string]("S")),
		grammar.NewProduction[string]("S", grammar.Terminal[string]("other")),
		grammar.NewProduction[string]("E", grammar.Terminal[string]("cond")),
	}
	g, err := grammar.New[string]("S", "$", prods)
	require.NoError(t, err)

	_, conflicts := BuildTable(g)
	require.NotEmpty(t, conflicts)
	assert.Equal(t, ShiftReduce, conflicts[0].Kind)
}

func TestBuildTable_ReduceReduceConflict(t *testing.T) {
	// S -> A | B ; A -> a ; B -> a  (both reduce on the same lookahead)
	prods := []grammar.Production[string]{
		grammar.NewProduction[string]("S", grammar.NonTerminal[string]("A")),
		grammar.NewProduction[string]("S", grammar.NonTerminal[string]("B")),
		grammar.NewProduction[string]("A", grammar.Terminal[string]("a")),
		grammar.NewProduction[string]("B", grammar.Terminal[string]("a")),
	}
	g, err := grammar.New[string]("S", "$", prods)
	require.NoError(t, err)

	_, conflicts := BuildTable(g)
	require.NotEmpty(t, conflicts)
	assert.Equal(t, ReduceReduce, conflicts[0].Kind)
}

func TestBuildTable_NegatedTerminalFallback(t *testing.T) {
	// S -> a S | !a   ("a" followed by more S, or any terminal but "a" ends it)
	prods := []grammar.Production[string]{
		grammar.NewProduction[string]("S", grammar.Terminal[string]("a"), grammar.NonTerminal[string]("S")),
		grammar.NewProduction[string]("S", grammar.Terminal[string]("a").Negate()),
	}
	g, err := grammar.New[string]("S", "$", prods)
	require.NoError(t, err)

	pt, conflicts := BuildTable(g)
	require.Empty(t, conflicts)

	act, ok := pt.Action(0, "b")
	require.True(t, ok)
	assert.Equal(t, Shift, act.Type)

	actA, ok := pt.Action(0, "a")
	require.True(t, ok)
	assert.Equal(t, Shift, actA.Type)
}
