/*
Lrforge builds and exercises canonical LR(1) parse tables from a grammar
described in lrforge's TOML grammar format.

Usage:

	lrforge build-table [flags]
	lrforge parse [flags]
	lrforge repl [flags]

build-table reads a grammar file and writes a persisted parse table next
to it. It exits 0 on a conflict-free grammar or 2 if the grammar produced
one or more shift/reduce, reduce/reduce, or negated-terminal-ambiguity
conflicts; conflicts are printed to stderr either way, since the table is
still written (conflicting cells keep whichever action table.BuildTable
resolved first).

parse reads an already-built table and a token script (a TOML list of
{class, lexeme, line, column} records) and drives a parse over it,
printing the resulting syntax tree to stdout. It exits 0 on a successful
parse, 1 on a syntax/unknown-token error, or 2 if the table file itself
couldn't be loaded.

repl loads a table and then reads tokens one line at a time from stdin
(each line is "class lexeme") until a blank line or end of input, then
parses the collected tokens and prints the resulting syntax tree or the
parse error. The individual shift/reduce steps are not shown.
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/chzyer/readline"
	"github.com/lrforge/lrforge/clrerrors"
	"github.com/lrforge/lrforge/driver"
	"github.com/lrforge/lrforge/grammar"
	"github.com/lrforge/lrforge/persist"
	"github.com/lrforge/lrforge/table"
	"github.com/lrforge/lrforge/token"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates the requested operation completed cleanly.
	ExitSuccess = iota

	// ExitParseFailure indicates a successful load but a failed parse:
	// a syntax error or unknown token in the input being parsed.
	ExitParseFailure

	// ExitBuildFailure indicates a problem with the grammar or table
	// itself: a malformed grammar file, unresolvable conflicts framed
	// as an error, or a corrupt persisted table.
	ExitBuildFailure
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: lrforge <build-table|parse|repl> [flags]")
		os.Exit(ExitBuildFailure)
	}

	sub := os.Args[1]
	args := os.Args[2:]

	var code int
	switch sub {
	case "build-table":
		code = runBuildTable(args)
	case "parse":
		code = runParse(args)
	case "repl":
		code = runRepl(args)
	default:
		fmt.Fprintf(os.Stderr, "lrforge: unknown subcommand %q\n", sub)
		code = ExitBuildFailure
	}
	os.Exit(code)
}

func runBuildTable(args []string) int {
	fs := pflag.NewFlagSet("build-table", pflag.ContinueOnError)
	grammarFile := fs.StringP("grammar", "g", "", "path to an lrforge grammar TOML file (required)")
	outFile := fs.StringP("out", "o", "", "path to write the persisted table to (defaults to <grammar>.lrft)")
	printTable := fs.BoolP("print", "p", false, "print the assembled ACTION/GOTO table to stdout")
	if err := fs.Parse(args); err != nil {
		return ExitBuildFailure
	}
	if *grammarFile == "" {
		fmt.Fprintln(os.Stderr, "lrforge build-table: --grammar is required")
		return ExitBuildFailure
	}
	if *outFile == "" {
		*outFile = *grammarFile + ".lrft"
	}

	g, err := grammar.LoadTOMLFile(*grammarFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return ExitBuildFailure
	}

	if warnings, err := g.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return ExitBuildFailure
	} else {
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "WARN: %s\n", w)
		}
	}

	pt, conflicts := table.BuildTable(g)

	if *printTable {
		fmt.Println(pt.String())
	}

	blob, err := persist.Encode(g, pt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return ExitBuildFailure
	}
	if err := os.WriteFile(*outFile, blob, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: writing %s: %s\n", *outFile, err.Error())
		return ExitBuildFailure
	}

	if len(conflicts) > 0 {
		stringers := make([]fmt.Stringer, len(conflicts))
		for i, c := range conflicts {
			stringers[i] = c
		}
		confErr := &clrerrors.ConflictError{Conflicts: stringers}
		fmt.Fprintln(os.Stderr, confErr.FullMessage())
		return ExitBuildFailure
	}

	fmt.Printf("wrote %s (%d states, 0 conflicts)\n", *outFile, pt.NumStates())
	return ExitSuccess
}

// tomlTokenScript is the shape of a parse subcommand's token input file:
// a flat list of already-lexed tokens, used in place of a real lexer
// since lexing is explicitly out of scope (spec.md §1). TagMap lets a
// script's own class tags differ from the grammar's terminal names
// (e.g. a lexer that calls something "IDENT" where the grammar's
// production was authored against "id"); tags absent from TagMap
// resolve to the identically-named terminal.
type tomlTokenScript struct {
	Format string            `toml:"format"`
	TagMap map[string]string `toml:"tag_map"`
	Tokens []tomlTokenLine   `toml:"tokens"`
}

type tomlTokenLine struct {
	Class  string `toml:"class"`
	Lexeme string `toml:"lexeme"`
	Line   int    `toml:"line"`
	Column int    `toml:"column"`
}

// loadTokenScript resolves each scanned token's script-local class tag
// to a grammar terminal via a token.Definition built from the grammar's
// declared terminals plus the script's own tag_map overrides, the two-
// tag indirection spec.md §6's ParserTokenDefinition describes.
func loadTokenScript(path string, g *grammar.Grammar[string]) ([]token.Token[string], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var script tomlTokenScript
	if err := toml.Unmarshal(data, &script); err != nil {
		return nil, err
	}

	def := token.NewDefinition[string]()
	for _, term := range g.Terminals() {
		def.Define(term, term)
	}
	def.Define(g.EndOfInput().Value, g.EndOfInput().Value)
	for tag, term := range script.TagMap {
		def.Define(tag, term)
	}

	toks := make([]token.Token[string], 0, len(script.Tokens)+1)
	for _, tl := range script.Tokens {
		term, ok := def.Lookup(tl.Class)
		if !ok {
			return nil, fmt.Errorf("token script: class %q has no matching grammar terminal (add it to tag_map)", tl.Class)
		}
		cls := token.NewClass[string](term, tl.Class)
		toks = append(toks, token.NewToken[string](cls, tl.Lexeme, tl.Line, tl.Column, tl.Lexeme))
	}

	eoi := g.EndOfInput().Value
	toks = append(toks, token.NewToken[string](token.NewClass[string](eoi, eoi), "", 0, 0, ""))
	return toks, nil
}

func runParse(args []string) int {
	fs := pflag.NewFlagSet("parse", pflag.ContinueOnError)
	tableFile := fs.StringP("table", "t", "", "path to a persisted table file built by build-table (required)")
	tokensFile := fs.StringP("tokens", "k", "", "path to a TOML token script (required)")
	if err := fs.Parse(args); err != nil {
		return ExitBuildFailure
	}
	if *tableFile == "" || *tokensFile == "" {
		fmt.Fprintln(os.Stderr, "lrforge parse: --table and --tokens are both required")
		return ExitBuildFailure
	}

	blob, err := os.ReadFile(*tableFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return ExitBuildFailure
	}
	g, pt, buildID, err := persist.Decode(blob)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return ExitBuildFailure
	}
	fmt.Fprintf(os.Stderr, "loaded table build %s\n", buildID)

	toks, err := loadTokenScript(*tokensFile, g)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return ExitParseFailure
	}

	d := driver.New(g, pt)
	root, err := d.Parse(token.NewSliceStream(toks))
	if err != nil {
		if fm, ok := err.(interface{ FullMessage() string }); ok {
			fmt.Fprintln(os.Stderr, fm.FullMessage())
		} else {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		return ExitParseFailure
	}

	fmt.Println(root.String())
	return ExitSuccess
}

func runRepl(args []string) int {
	fs := pflag.NewFlagSet("repl", pflag.ContinueOnError)
	tableFile := fs.StringP("table", "t", "", "path to a persisted table file built by build-table (required)")
	if err := fs.Parse(args); err != nil {
		return ExitBuildFailure
	}
	if *tableFile == "" {
		fmt.Fprintln(os.Stderr, "lrforge repl: --table is required")
		return ExitBuildFailure
	}

	blob, err := os.ReadFile(*tableFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return ExitBuildFailure
	}
	g, pt, buildID, err := persist.Decode(blob)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return ExitBuildFailure
	}
	fmt.Printf("loaded table build %s (%d states)\n", buildID, pt.NumStates())
	fmt.Println(`enter tokens as "class lexeme", one per line; a blank line or ctrl-d ends input and parses it`)

	rl, err := readline.NewEx(&readline.Config{Prompt: "lrforge> "})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return ExitBuildFailure
	}
	defer rl.Close()

	var toks []token.Token[string]
	line := 1
	for {
		input, err := rl.Readline()
		if err != nil {
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			break
		}
		parts := strings.SplitN(input, " ", 2)
		class := parts[0]
		lexeme := ""
		if len(parts) > 1 {
			lexeme = parts[1]
		}
		cls := token.NewClass[string](class, class)
		toks = append(toks, token.NewToken[string](cls, lexeme, line, 1, input))
		line++
	}
	toks = append(toks, token.NewToken[string](token.NewClass[string](g.EndOfInput().Value, g.EndOfInput().Value), "", 0, 0, ""))

	d := driver.New(g, pt)
	root, err := d.Parse(token.NewSliceStream(toks))
	if err != nil {
		if fm, ok := err.(interface{ FullMessage() string }); ok {
			fmt.Println(fm.FullMessage())
		} else {
			fmt.Println(err.Error())
		}
		return ExitParseFailure
	}

	fmt.Println(root.String())
	return ExitSuccess
}
