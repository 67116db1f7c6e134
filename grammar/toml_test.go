package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGrammarTOML = `
format = "lrforge-grammar"
version = 1
start = "S"
end_of_input = "$"

[[rules]]
lhs = "S"

[[rules.productions]]
symbols = [
  { name = "(", discard = true },
  { name = "S" },
  { name = ")", discard = true },
]

[[rules.productions]]
symbols = [ { name = "id" } ]
`

func TestLoadTOML_ParsesGrammar(t *testing.T) {
	g, err := LoadTOML([]byte(sampleGrammarTOML))
	require.NoError(t, err)

	assert.Equal(t, "S", g.StartSymbol())
	prods := g.ProductionsFor("S")
	require.Len(t, prods, 2)
	assert.Len(t, prods[0].RHS, 3)
	assert.False(t, prods[0].RHS[0].Keep)
	assert.True(t, prods[0].RHS[1].IsNonTerminal())
}

func TestLoadTOML_RejectsWrongFormat(t *testing.T) {
	_, err := LoadTOML([]byte(`format = "something-else"` + "\n"))
	require.Error(t, err)
}
