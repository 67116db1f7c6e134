package driver

import (
	"testing"

	"github.com/lrforge/lrforge/grammar"
	"github.com/lrforge/lrforge/table"
	"github.com/lrforge/lrforge/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parensGrammar(t *testing.T) *grammar.Grammar[string] {
	t.Helper()
	prods := []grammar.Production[string]{
		grammar.NewProduction[string]("S",
			grammar.Terminal[string]("(").Discard(),
			grammar.NonTerminal[string]("S"),
			grammar.Terminal[string](")").Discard()),
		grammar.NewProduction[string]("S", grammar.Terminal[string]("id")),
	}
	g, err := grammar.New[string]("S", "$", prods)
	require.NoError(t, err)
	return g
}

func tok(value, lexeme string) token.Token[string] {
	return token.NewToken[string](token.NewClass(value, value), lexeme, 1, 1, lexeme)
}

// exprGrammar is the classic E -> E + T | T ; T -> T * F | F ; F -> ( E ) | id
// grammar, left-recursive and precedence-by-shape (Dragon Book 4.1):
// no Keep/Discard flags needed, since the shape of the tree itself is
// what a caller inspects to recover precedence and associativity.
func exprGrammar(t *testing.T) *grammar.Grammar[string] {
	t.Helper()
	prods := []grammar.Production[string]{
		grammar.NewProduction[string]("E", grammar.NonTerminal[string]("E"), grammar.Terminal[string]("+"), grammar.NonTerminal[string]("T")),
		grammar.NewProduction[string]("E", grammar.NonTerminal[string]("T")),
		grammar.NewProduction[string]("T", grammar.NonTerminal[string]("T"), grammar.Terminal[string]("*"), grammar.NonTerminal[string]("F")),
		grammar.NewProduction[string]("T", grammar.NonTerminal[string]("F")),
		grammar.NewProduction[string]("F", grammar.Terminal[string]("("), grammar.NonTerminal[string]("E"), grammar.Terminal[string](")")),
		grammar.NewProduction[string]("F", grammar.Terminal[string]("id")),
	}
	g, err := grammar.New[string]("E", "$", prods)
	require.NoError(t, err)
	return g
}

// TestParse_ArithmeticPrecedenceByShape parses "id + id * id" and checks
// that the resulting tree groups the multiplication beneath the addition
// (T * F nested under E + T), the shape that encodes precedence when no
// parentheses are present.
func TestParse_ArithmeticPrecedenceByShape(t *testing.T) {
	g := exprGrammar(t)
	pt, conflicts := table.BuildTable(g)
	require.Empty(t, conflicts)

	stream := token.NewSliceStream([]token.Token[string]{
		tok("id", "id"),
		tok("+", "+"),
		tok("id", "id"),
		tok("*", "*"),
		tok("id", "id"),
		tok("$", ""),
	})

	d := New(g, pt)
	root, err := d.Parse(stream)
	require.NoError(t, err)
	require.NotNil(t, root)

	// E -> E + T : left child is the lone "id" collapsed down through
	// T -> F -> id, right child is the T * F multiplication.
	assert.Equal(t, "E", root.Symbol)
	require.Len(t, root.Children, 3)
	assert.Equal(t, "+", root.Children[1].Symbol)
	mulSide := root.Children[2]
	assert.Equal(t, "T", mulSide.Symbol)
	require.Len(t, mulSide.Children, 3)
	assert.Equal(t, "*", mulSide.Children[1].Symbol)
}

// TestParse_LeftRecursionIsLeftAssociative parses "id + id + id" and
// checks the tree nests the earlier addition inside the left child of
// the later one, the shape left recursion produces (Dragon Book 4.1):
// (((id) + id) + id), not the right-nested shape right recursion would
// give.
func TestParse_LeftRecursionIsLeftAssociative(t *testing.T) {
	g := exprGrammar(t)
	pt, conflicts := table.BuildTable(g)
	require.Empty(t, conflicts)

	stream := token.NewSliceStream([]token.Token[string]{
		tok("id", "id"),
		tok("+", "+"),
		tok("id", "id"),
		tok("+", "+"),
		tok("id", "id"),
		tok("$", ""),
	})

	d := New(g, pt)
	root, err := d.Parse(stream)
	require.NoError(t, err)
	require.NotNil(t, root)

	assert.Equal(t, "E", root.Symbol)
	require.Len(t, root.Children, 3)
	assert.Equal(t, "+", root.Children[1].Symbol)

	mid := root.Children[0]
	assert.Equal(t, "E", mid.Symbol)
	require.Len(t, mid.Children, 3)
	assert.Equal(t, "+", mid.Children[1].Symbol)

	innermost := mid.Children[0]
	assert.Equal(t, "E", innermost.Symbol)
	require.Len(t, innermost.Children, 1)
}

func TestParse_BalancedParens(t *testing.T) {
	g := parensGrammar(t)
	pt, conflicts := table.BuildTable(g)
	require.Empty(t, conflicts)

	stream := token.NewSliceStream([]token.Token[string]{
		tok("(", "("),
		tok("(", "("),
		tok("id", "id"),
		tok(")", ")"),
		tok(")", ")"),
		tok("$", ""),
	})

	d := New(g, pt)
	root, err := d.Parse(stream)
	require.NoError(t, err)
	require.NotNil(t, root)

	// parens are Discard()'d, so only the inner S chain survives as
	// kept children: S(S(S(id)))
	assert.Equal(t, "S", root.Symbol)
	require.Len(t, root.Children, 1)
	inner := root.Children[0]
	assert.Equal(t, "S", inner.Symbol)
	require.Len(t, inner.Children, 1)
	innermost := inner.Children[0]
	assert.Equal(t, "S", innermost.Symbol)
	require.Len(t, innermost.Children, 1)
	leaf := innermost.Children[0]
	assert.True(t, leaf.Terminal)
}

func TestParse_UnknownToken(t *testing.T) {
	g := parensGrammar(t)
	pt, conflicts := table.BuildTable(g)
	require.Empty(t, conflicts)

	stream := token.NewSliceStream([]token.Token[string]{
		tok("[", "["),
		tok("$", ""),
	})

	d := New(g, pt)
	_, err := d.Parse(stream)
	require.Error(t, err)
}

func TestParse_SyntaxError(t *testing.T) {
	g := parensGrammar(t)
	pt, conflicts := table.BuildTable(g)
	require.Empty(t, conflicts)

	stream := token.NewSliceStream([]token.Token[string]{
		tok(")", ")"),
		tok("$", ""),
	})

	d := New(g, pt)
	_, err := d.Parse(stream)
	require.Error(t, err)
}
