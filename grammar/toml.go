package grammar

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// tomlFileInfo is the small self-describing header every lrforge grammar
// TOML file must carry, read before the rest of the document is trusted,
// mirroring the teacher's tqw.FileInfo/ScanFileInfo header check.
type tomlFileInfo struct {
	Format  string `toml:"format"`
	Version int    `toml:"version"`
}

const tomlGrammarFormat = "lrforge-grammar"

type tomlSymbol struct {
	Name    string `toml:"name"`
	Negated bool   `toml:"negated"`
	Discard bool   `toml:"discard"`
}

type tomlProduction struct {
	Symbols []tomlSymbol `toml:"symbols"`
}

type tomlRule struct {
	LHS         string           `toml:"lhs"`
	Productions []tomlProduction `toml:"productions"`
}

type tomlGrammar struct {
	Format     string     `toml:"format"`
	Version    int        `toml:"version"`
	Start      string     `toml:"start"`
	EndOfInput string     `toml:"end_of_input"`
	Terminals  []string   `toml:"terminals"`
	Rules      []tomlRule `toml:"rules"`
}

// LoadTOML reads a grammar definition from a TOML document of string
// terminals, the format a grammar file authored for the CLI uses. The
// document must declare format = "lrforge-grammar"; any other format
// name is rejected before the rest of the file is decoded, exactly as the
// teacher's TQW loader checks FileInfo before trusting a world file's
// body. The version field is read but not checked.
//
// A production symbol that names one of the rules' lhs names is a
// non-terminal and every other symbol is a terminal; which it is gets
// resolved once every rule has been read. The terminals list, if present,
// is not consulted. A symbol may set negated = true (terminal-only) or
// discard = true to mark it for exclusion from the assembled tree.
func LoadTOML(data []byte) (*Grammar[string], error) {
	var info tomlFileInfo
	if err := toml.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("grammar: reading TOML header: %w", err)
	}
	if info.Format != tomlGrammarFormat {
		return nil, fmt.Errorf("grammar: not an lrforge grammar file (format = %q, want %q)", info.Format, tomlGrammarFormat)
	}

	var doc tomlGrammar
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("grammar: decoding body: %w", err)
	}

	nonTerms := map[string]bool{}
	for _, r := range doc.Rules {
		nonTerms[r.LHS] = true
	}

	var prods []Production[string]
	for _, r := range doc.Rules {
		for _, p := range r.Productions {
			var rhs []GrammarElement[string]
			for _, sym := range p.Symbols {
				var e GrammarElement[string]
				if nonTerms[sym.Name] {
					e = NonTerminal[string](sym.Name)
				} else {
					e = Terminal[string](sym.Name)
					if sym.Negated {
						e = e.Negate()
					}
				}
				if sym.Discard {
					e = e.Discard()
				}
				rhs = append(rhs, e)
			}
			prods = append(prods, NewProduction[string](r.LHS, rhs...))
		}
	}

	return New[string](doc.Start, doc.EndOfInput, prods)
}

// LoadTOMLFile reads and parses a grammar TOML file from disk.
func LoadTOMLFile(path string) (*Grammar[string], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("grammar: reading %s: %w", path, err)
	}
	return LoadTOML(data)
}
