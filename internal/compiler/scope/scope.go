package scope

import (
	"fmt"

	"github.com/arnavsurve/signal/internal/compiler/token"
)

// --- Scope ---

// Scope records the variables declared in a program, keyed by lexeme. The
// stored token is the declaration site.
type Scope struct {
	Symbols map[string]token.Token
	Outer   *Scope
	Name    string
}

func NewScope(outer *Scope, name string) *Scope {
	return &Scope{
		Symbols: make(map[string]token.Token),
		Outer:   outer,
		Name:    name,
	}
}

// Define adds a symbol ONLY to the current scope level.
// It returns an error if the symbol already exists at this level.
func (s *Scope) Define(tok token.Token) error {
	if prev, exists := s.Symbols[tok.Lexeme]; exists {
		return fmt.Errorf("variable '%s' already declared at %d:%d", tok.Lexeme, prev.Row, prev.Column)
	}
	s.Symbols[tok.Lexeme] = tok
	return nil
}

// Lookup searches for a symbol starting from the current scope and traversing outwards.
func (s *Scope) Lookup(name string) (token.Token, bool) {
	for scope := s; scope != nil; scope = scope.Outer {
		if tok, ok := scope.Symbols[name]; ok {
			return tok, true
		}
	}
	return token.Token{}, false
}
