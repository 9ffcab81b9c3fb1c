package diag

import (
	"fmt"

	"github.com/arnavsurve/signal/internal/compiler/token"
)

// Diagnostic is implemented by every error the front end accumulates.
type Diagnostic interface {
	error
	Position() token.Position
	Kind() string // "Lexical", "Syntax", "Fatal", "Semantic"
}

// LexicalError describes a character the lexer could not accept.
type LexicalError struct {
	Pos    token.Position
	Char   byte // 0 at end of input
	Buffer string
	Msg    string
}

func (e *LexicalError) Error() string {
	msg := fmt.Sprintf("%d:%d: Lexical Error: %s", e.Pos.Row, e.Pos.Column, e.Msg)
	if e.Buffer != "" {
		msg += fmt.Sprintf(" (discarded %q)", e.Buffer)
	}
	return msg
}
func (e *LexicalError) Position() token.Position { return e.Pos }
func (e *LexicalError) Kind() string             { return "Lexical" }

// CharString renders the offending character, or "end of input".
func (e *LexicalError) CharString() string {
	if e.Char == 0 {
		return "end of input"
	}
	return fmt.Sprintf("%q", e.Char)
}

// SyntaxError records a terminal the parser expected but did not find.
type SyntaxError struct {
	Pos      token.Position
	Expected string
	Got      token.Token
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: Syntax Error: expected '%s', got '%s' (%d)",
		e.Pos.Row, e.Pos.Column, e.Expected, e.Got.Lexeme, e.Got.Code)
}
func (e *SyntaxError) Position() token.Position { return e.Pos }
func (e *SyntaxError) Kind() string             { return "Syntax" }

// FatalError aborts a parse.
type FatalError struct {
	Pos token.Position
	Msg string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%d:%d: Fatal Error: %s", e.Pos.Row, e.Pos.Column, e.Msg)
}
func (e *FatalError) Position() token.Position { return e.Pos }
func (e *FatalError) Kind() string             { return "Fatal" }

type SemanticWarning struct {
	Pos token.Position
	Msg string
}

func (e *SemanticWarning) Error() string {
	return fmt.Sprintf("%d:%d: Semantic Warning: %s", e.Pos.Row, e.Pos.Column, e.Msg)
}
func (e *SemanticWarning) Position() token.Position { return e.Pos }
func (e *SemanticWarning) Kind() string             { return "Semantic" }
