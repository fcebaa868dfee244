package graphsel

import (
	"errors"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Sentinel errors.
var (
	// ErrConfigNotFound is returned when no .graphsel.yaml is found.
	ErrConfigNotFound = errors.New("graphsel: no .graphsel.yaml found")

	// ErrSyntax matches every *SyntaxError via errors.Is.
	ErrSyntax = errors.New("graphsel: syntax error")

	// ErrUnknownNode is returned when an edge references a node the graph
	// does not contain.
	ErrUnknownNode = errors.New("graphsel: unknown node")
)

// LexicalError represents a lexer error with position.
type LexicalError struct {
	msg string
	Pos lexer.Position
	// Char is the offending character, zero when not applicable.
	Char rune
}

func (e *LexicalError) Error() string {
	if e.Char != 0 {
		return e.Pos.String() + ": " + e.msg + ": " + string(e.Char)
	}

	return e.Pos.String() + ": " + e.msg
}

// Is matches the sentinel the error was derived from.
func (e *LexicalError) Is(target error) bool {
	t, ok := target.(*LexicalError)

	return ok && t.msg == e.msg
}

func (e *LexicalError) withPos(pos lexer.Position) *LexicalError {
	return &LexicalError{msg: e.msg, Pos: pos, Char: e.Char}
}

func (e *LexicalError) withChar(ch rune) *LexicalError {
	return &LexicalError{msg: e.msg, Pos: e.Pos, Char: ch}
}

// SyntaxError is returned by Parse when the token stream does not form a
// selection.
type SyntaxError struct {
	Pos lexer.Position
	// Unexpected is the text of the offending token, empty at end of input.
	Unexpected string
	// Expected lists the token kinds that would have been accepted.
	Expected []string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder

	b.WriteString(e.Pos.String())
	b.WriteString(": unexpected ")

	if e.Unexpected == "" {
		b.WriteString("end of input")
	} else {
		b.WriteString("token \"" + e.Unexpected + "\"")
	}

	if len(e.Expected) > 0 {
		b.WriteString(" (expected ")
		b.WriteString(strings.Join(e.Expected, ", "))
		b.WriteString(")")
	}

	return b.String()
}

// Is reports whether target is ErrSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}
