package persist

import (
	"testing"

	"github.com/lrforge/lrforge/clrerrors"
	"github.com/lrforge/lrforge/grammar"
	"github.com/lrforge/lrforge/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parensGrammarForPersist(t *testing.T) *grammar.Grammar[string] {
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

func TestEncodeDecode_RoundTrip(t *testing.T) {
	g := parensGrammarForPersist(t)
	pt, conflicts := table.BuildTable(g)
	require.Empty(t, conflicts)

	blob, err := EncodeWithBuildID(g, pt, "test-build-1")
	require.NoError(t, err)

	g2, pt2, buildID, err := Decode(blob)
	require.NoError(t, err)

	assert.Equal(t, "test-build-1", buildID)
	assert.Equal(t, g.StartSymbol(), g2.StartSymbol())
	assert.ElementsMatch(t, g.Productions()[1:], g2.Productions()[1:])

	assert.Equal(t, pt.NumStates(), pt2.NumStates())
	assert.Nil(t, pt2.Graph(), "rehydrated table carries no automaton")

	for state := 0; state < pt.NumStates(); state++ {
		for _, term := range []string{"(", ")", "id", "$"} {
			want, wantOK := pt.Action(state, term)
			got, gotOK := pt2.Action(state, term)
			assert.Equal(t, wantOK, gotOK, "state %d term %q", state, term)
			if wantOK {
				assert.Equal(t, want, got, "state %d term %q", state, term)
			}
		}
		for _, nt := range pt.NonTerminals() {
			want, wantOK := pt.Goto(state, nt)
			got, gotOK := pt2.Goto(state, nt)
			assert.Equal(t, wantOK, gotOK, "state %d nonterminal %q", state, nt)
			if wantOK {
				assert.Equal(t, want, got, "state %d nonterminal %q", state, nt)
			}
		}
	}
}

func TestDecode_BadMagic(t *testing.T) {
	_, _, _, err := Decode([]byte("XXXX\x00\x01garbage"))
	require.Error(t, err)
	assert.IsType(t, &clrerrors.SerializationError{}, err)
}

func TestDecode_BadVersion(t *testing.T) {
	data := append([]byte(magic), 0xFF, 0xFF)
	_, _, _, err := Decode(data)
	require.Error(t, err)
	assert.IsType(t, &clrerrors.SerializationError{}, err)
}

func TestDecode_TooShort(t *testing.T) {
	_, _, _, err := Decode([]byte("LR"))
	require.Error(t, err)
	assert.IsType(t, &clrerrors.SerializationError{}, err)
}
