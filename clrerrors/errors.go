// Package clrerrors defines the error kinds raised by grammar
// construction, table assembly, and parsing, grounded on the usage
// pattern of icterrors.NewSyntaxErrorFromToken(...).FullMessage() seen
// at call sites across the teacher's parse package: a structured error
// that also renders a single human-readable message pointing at the
// offending source position.
package clrerrors

import "fmt"

// GrammarError reports a problem found while constructing or validating
// a Grammar (spec §4.A): an empty start symbol, no productions, a
// reserved-name collision, or similar.
type GrammarError struct {
	Message string
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("grammar error: %s", e.Message)
}

// ConflictError reports that table assembly found one or more
// shift/reduce, reduce/reduce, or negated-terminal-ambiguity conflicts
// (spec §4.E/§7): the grammar is not usable for table-driven parsing as
// given.
type ConflictError struct {
	Conflicts []fmt.Stringer
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("grammar is not LR(1): %d conflict(s) found", len(e.Conflicts))
}

// FullMessage renders every conflict on its own line, for CLI/log
// output.
func (e *ConflictError) FullMessage() string {
	msg := e.Error() + ":"
	for _, c := range e.Conflicts {
		msg += "\n  " + c.String()
	}
	return msg
}

// UnknownTokenError reports that the driver consumed a token whose
// class maps to a terminal the grammar never declared.
type UnknownTokenError struct {
	Lexeme string
	Line   int
	Column int
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("unknown token %q at line %d, column %d", e.Lexeme, e.Line, e.Column)
}

// ParseError reports that the driver reached a state with no
// applicable ACTION entry for the current lookahead: a syntax error in
// the input being parsed, not a problem with the grammar itself.
type ParseError struct {
	Lexeme   string
	Line     int
	Column   int
	FullLine string
	State    int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: unexpected %q", e.Line, e.Column, e.Lexeme)
}

// FullMessage renders the error together with the offending source
// line and a caret pointing at the column, matching the teacher's
// icterrors.FullMessage() call-site convention.
func (e *ParseError) FullMessage() string {
	msg := e.Error()
	if e.FullLine == "" {
		return msg
	}
	caret := ""
	for i := 1; i < e.Column; i++ {
		caret += " "
	}
	caret += "^"
	return fmt.Sprintf("%s\n%s\n%s", msg, e.FullLine, caret)
}

// SerializationError reports that a persisted grammar/table blob
// couldn't be decoded: a bad magic number, an unsupported version, or a
// corrupt payload (spec §4.G).
type SerializationError struct {
	Message string
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialization error: %s", e.Message)
}
