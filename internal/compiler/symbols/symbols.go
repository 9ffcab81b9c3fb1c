package symbols

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/arnavsurve/signal/internal/compiler/token"
)

// ErrRangeExhausted is returned by Allocate when every code of a range is bound.
var ErrRangeExhausted = errors.New("code range exhausted")

// Counter selects one of the auto-increment code ranges.
type Counter int

const (
	Numbers Counter = iota
	Identifiers
	Emails
	numCounters
)

type codeRange struct{ first, last int }

var ranges = [numCounters]codeRange{
	Numbers:     {token.FirstNumber, token.LastNumber},
	Identifiers: {token.FirstIdentifier, token.LastIdentifier},
	Emails:      {token.FirstEmail, math.MaxInt32},
}

func (c Counter) String() string {
	switch c {
	case Numbers:
		return "numbers"
	case Identifiers:
		return "identifiers"
	case Emails:
		return "emails"
	}
	return fmt.Sprintf("Counter(%d)", int(c))
}

// Entry is one lexeme/code binding.
type Entry struct {
	Lexeme string
	Code   int
}

// Table is a bijective lexeme<->code registry.
type Table struct {
	byCode   map[int]string
	byLexeme map[string]int
	next     [numCounters]int

	// delimiter characters, reference counted by the punctuation lexemes using them
	delims map[byte]int
}

func New() *Table {
	t := &Table{
		byCode:   make(map[int]string),
		byLexeme: make(map[string]int),
		delims:   make(map[byte]int),
	}
	for c, r := range ranges {
		t.next[c] = r.first
	}
	return t
}

// NewFromEntries builds a table from the given bindings. Later entries win
// when two of them share a side.
func NewFromEntries(entries []Entry) *Table {
	t := New()
	for _, e := range entries {
		t.Register(e.Lexeme, e.Code)
	}
	return t
}

// Predefined returns a fresh table seeded with the language's punctuation
// and reserved words.
func Predefined() *Table {
	return NewFromEntries([]Entry{
		{";", token.Semicolon}, {".", token.Dot}, {"<", token.Less}, {">", token.Greater},
		{"=", token.Equal}, {"[", token.LBracket}, {"]", token.RBracket}, {":", token.Colon},
		{":=", token.Assign}, {"<=", token.LessEqual}, {">=", token.GreaterEqual}, {"<>", token.NotEqual},
		{"PROGRAM", token.Program}, {"BEGIN", token.Begin}, {"END", token.End}, {"VAR", token.Var},
		{"OR", token.Or}, {"AND", token.And}, {"NOT", token.Not}, {"INTEGER", token.Integer},
	})
}

// Lexeme returns the lexeme bound to code, or "" if there is none.
func (t *Table) Lexeme(code int) string {
	return t.byCode[code]
}

// Code returns the code bound to lexeme, or token.NotFound.
func (t *Table) Code(lexeme string) int {
	if code, ok := t.byLexeme[lexeme]; ok {
		return code
	}
	return token.NotFound
}

func (t *Table) Has(lexeme string) bool {
	_, ok := t.byLexeme[lexeme]
	return ok
}

func (t *Table) Len() int {
	return len(t.byCode)
}

// Register binds lexeme and code, evicting any binding that shares either side.
// A code inside an auto-increment range moves that range's counter past it.
func (t *Table) Register(lexeme string, code int) {
	t.RemoveLexeme(lexeme)
	t.RemoveCode(code)

	t.byCode[code] = lexeme
	t.byLexeme[lexeme] = code
	if isPunctuation(lexeme) {
		for i := 0; i < len(lexeme); i++ {
			t.delims[lexeme[i]]++
		}
	}

	for c, r := range ranges {
		if code >= r.first && code <= r.last && code >= t.next[c] {
			t.next[c] = code + 1
		}
	}
}

// Allocate returns the code already bound to lexeme, or binds lexeme to the
// next free code of counter c.
func (t *Table) Allocate(lexeme string, c Counter) (int, error) {
	if code, ok := t.byLexeme[lexeme]; ok {
		return code, nil
	}
	r := ranges[c]
	code := t.next[c]
	for code <= r.last {
		if _, taken := t.byCode[code]; !taken {
			break
		}
		code++
	}
	if code > r.last {
		return token.NotFound, fmt.Errorf("%w: %s", ErrRangeExhausted, c)
	}
	t.Register(lexeme, code)
	return code, nil
}

// Next reports the code the counter would hand out next, ignoring codes
// registered out of order.
func (t *Table) Next(c Counter) int {
	return t.next[c]
}

func (t *Table) RemoveLexeme(lexeme string) {
	code, ok := t.byLexeme[lexeme]
	if !ok {
		return
	}
	t.unbind(lexeme, code)
}

func (t *Table) RemoveCode(code int) {
	lexeme, ok := t.byCode[code]
	if !ok {
		return
	}
	t.unbind(lexeme, code)
}

func (t *Table) unbind(lexeme string, code int) {
	delete(t.byLexeme, lexeme)
	delete(t.byCode, code)
	if isPunctuation(lexeme) {
		for i := 0; i < len(lexeme); i++ {
			c := lexeme[i]
			if t.delims[c]--; t.delims[c] <= 0 {
				delete(t.delims, c)
			}
		}
	}
}

// IsDelimiterChar reports whether c occurs in a registered punctuation lexeme.
func (t *Table) IsDelimiterChar(c byte) bool {
	return t.delims[c] > 0
}

// Entries returns every binding ordered by code.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, 0, len(t.byCode))
	for code, lexeme := range t.byCode {
		entries = append(entries, Entry{Lexeme: lexeme, Code: code})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Code < entries[j].Code })
	return entries
}

func (t *Table) Clone() *Table {
	c := New()
	for code, lexeme := range t.byCode {
		c.byCode[code] = lexeme
		c.byLexeme[lexeme] = code
	}
	for ch, n := range t.delims {
		c.delims[ch] = n
	}
	c.next = t.next
	return c
}

// isPunctuation reports whether lexeme has no letters or digits.
func isPunctuation(lexeme string) bool {
	if lexeme == "" {
		return false
	}
	for i := 0; i < len(lexeme); i++ {
		c := lexeme[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			return false
		}
	}
	return true
}
