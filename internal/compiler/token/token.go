package token

import "fmt"

// Codes of the predefined punctuation and reserved words. Single-character
// punctuation uses the character value itself.
const (
	Semicolon = int(';')
	Dot       = int('.')
	Less      = int('<')
	Greater   = int('>')
	Equal     = int('=')
	LBracket  = int('[')
	RBracket  = int(']')
	Colon     = int(':')

	Assign       = 301 // :=
	LessEqual    = 302 // <=
	GreaterEqual = 303 // >=
	NotEqual     = 304 // <>

	Program = 401
	Begin   = 402
	End     = 403
	Var     = 404
	Or      = 405
	And     = 406
	Not     = 407
	Integer = 408
)

// NotFound is returned by code lookups that miss.
const NotFound = -1

// Code ranges double as a type tag for allocated lexemes.
const (
	FirstNumber     = 500
	LastNumber      = 999
	FirstIdentifier = 1000
	LastIdentifier  = 1999
	FirstEmail      = 2000
)

type Kind int

const (
	KindInvalid Kind = iota
	KindPunct
	KindKeyword
	KindNumber
	KindIdentifier
	KindEmail
)

func (k Kind) String() string {
	switch k {
	case KindPunct:
		return "punct"
	case KindKeyword:
		return "keyword"
	case KindNumber:
		return "number"
	case KindIdentifier:
		return "identifier"
	case KindEmail:
		return "email"
	}
	return "invalid"
}

// KindOf classifies a code by the range it falls in.
func KindOf(code int) Kind {
	switch {
	case code < 0:
		return KindInvalid
	case code < 400:
		return KindPunct
	case code < FirstNumber:
		return KindKeyword
	case code <= LastNumber:
		return KindNumber
	case code <= LastIdentifier:
		return KindIdentifier
	default:
		return KindEmail
	}
}

func IsNumber(code int) bool     { return KindOf(code) == KindNumber }
func IsIdentifier(code int) bool { return KindOf(code) == KindIdentifier }
func IsEmail(code int) bool      { return KindOf(code) == KindEmail }

// Position is a 0-based row/column pair.
type Position struct {
	Row    int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Column)
}

type Token struct {
	Code   int
	Lexeme string
	Row    int
	Column int
}

func (t Token) Pos() Position {
	return Position{Row: t.Row, Column: t.Column}
}

func (t Token) Kind() Kind {
	return KindOf(t.Code)
}

func (t Token) String() string {
	return fmt.Sprintf("%s (%d) [%d:%d]", t.Lexeme, t.Code, t.Row, t.Column)
}
