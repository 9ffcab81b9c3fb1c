package parser

import (
	"fmt"

	"github.com/arnavsurve/signal/internal/compiler/ast"
	"github.com/arnavsurve/signal/internal/compiler/diag"
	"github.com/arnavsurve/signal/internal/compiler/scope"
	"github.com/arnavsurve/signal/internal/compiler/symbols"
	"github.com/arnavsurve/signal/internal/compiler/token"
)

var comparisonOperators = []string{"<", "<=", "=", "<>", ">=", ">"}

// Result is a finished parse: the syntax tree, the symbol table it was built
// against, syntax errors (including a fatal end of input) and semantic warnings.
type Result struct {
	Tree     *ast.Tree
	Table    *symbols.Table
	Errors   []error
	Warnings []error
}

// OK reports whether the parse finished without errors.
func (r *Result) OK() bool {
	return len(r.Errors) == 0
}

type Option func(*Parser)

// AllowEmail lets email literals stand wherever an Expression is expected.
func AllowEmail() Option {
	return func(p *Parser) { p.allowEmail = true }
}

type Parser struct {
	tokens []token.Token
	pos    int
	table  *symbols.Table
	tree   *ast.Tree

	errors   []error
	warnings []error

	// Declared variables, for undeclared/redeclared warnings
	currentScope *scope.Scope

	allowEmail bool
}

// NewParser prepares a parser over tokens. table is only read.
func NewParser(tokens []token.Token, table *symbols.Table, opts ...Option) *Parser {
	p := &Parser{
		tokens:       tokens,
		table:        table,
		tree:         ast.NewTree(),
		currentScope: scope.NewScope(nil, "program"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// bailout unwinds the descent on an unrecoverable condition.
type bailout struct{}

// --- Program Parsing ---

// ParseProgram runs the parser once over its tokens.
func (p *Parser) ParseProgram() (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			res = p.result()
		}
	}()

	p.signalProgram()
	if p.pos < len(p.tokens) {
		p.addError("end of input", p.tokens[p.pos])
	}
	return p.result()
}

func (p *Parser) result() *Result {
	return &Result{Tree: p.tree, Table: p.table, Errors: p.errors, Warnings: p.warnings}
}

// Errors returns syntax and fatal errors collected so far.
func (p *Parser) Errors() []error {
	return p.errors
}

// Warnings returns non-fatal semantic warnings.
func (p *Parser) Warnings() []error {
	return p.warnings
}

// --- Token Handling ---

// peek returns the lookahead token. Running past the last token is fatal.
func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		pos := token.Position{}
		if n := len(p.tokens); n > 0 {
			last := p.tokens[n-1]
			pos = token.Position{Row: last.Row, Column: last.Column + len(last.Lexeme)}
		}
		p.errors = append(p.errors, &diag.FatalError{Pos: pos, Msg: "unexpected end of input"})
		panic(bailout{})
	}
	return p.tokens[p.pos]
}

func (p *Parser) nextToken() token.Token {
	tok := p.peek()
	p.pos++
	return tok
}

// at reports whether the lookahead is the terminal spelled lexeme.
func (p *Parser) at(lexeme string) bool {
	code := p.table.Code(lexeme)
	return code != token.NotFound && p.peek().Code == code
}

// expect consumes the terminal spelled lexeme or records a syntax error.
func (p *Parser) expect(lexeme string) bool {
	if p.at(lexeme) {
		p.nextToken()
		return true
	}
	p.addError(lexeme, p.peek())
	return false
}

// --- Error/Warning Handling ---

func (p *Parser) addError(expected string, got token.Token) {
	if got.Lexeme == "" {
		got.Lexeme = p.table.Lexeme(got.Code)
	}
	p.errors = append(p.errors, &diag.SyntaxError{Pos: got.Pos(), Expected: expected, Got: got})
}

func (p *Parser) addWarning(tok token.Token, format string, args ...any) {
	p.warnings = append(p.warnings, &diag.SemanticWarning{Pos: tok.Pos(), Msg: fmt.Sprintf(format, args...)})
}

// --- Grammar ---

// empty records an explicit ε match.
func (p *Parser) empty() bool {
	p.tree.Open(ast.Empty)
	p.tree.Close()
	return true
}

func (p *Parser) signalProgram() bool {
	p.tree.Open(ast.SignalProgram)
	defer p.tree.Close()
	return p.program()
}

// program keeps descending past a failed part so later errors are reported too.
func (p *Parser) program() bool {
	p.tree.Open(ast.Program)
	defer p.tree.Close()

	ok := p.expect("PROGRAM")
	ok = p.procedureIdentifier() && ok
	ok = p.expect(";") && ok
	ok = p.block() && ok
	return p.expect(".") && ok
}

func (p *Parser) block() bool {
	p.tree.Open(ast.Block)
	defer p.tree.Close()

	ok := p.variableDeclarations()
	ok = p.expect("BEGIN") && ok
	ok = p.statementsList() && ok
	return p.expect("END") && ok
}

func (p *Parser) variableDeclarations() bool {
	p.tree.Open(ast.VariableDeclarations)
	defer p.tree.Close()

	if !p.at("VAR") {
		return p.empty()
	}
	p.tree.AttachValue(p.nextToken())
	return p.declarationsList()
}

// declarationsList stops at the first lookahead that cannot start a
// declaration, or after a declaration that failed.
func (p *Parser) declarationsList() bool {
	p.tree.Open(ast.DeclarationsList)
	defer p.tree.Close()

	if !token.IsIdentifier(p.peek().Code) {
		return p.empty()
	}
	if !p.declaration() {
		return false
	}
	return p.declarationsList()
}

func (p *Parser) declaration() bool {
	p.tree.Open(ast.Declaration)
	defer p.tree.Close()

	name := p.peek()
	if !p.variableIdentifier() {
		return false
	}
	if err := p.currentScope.Define(name); err != nil {
		p.addWarning(name, "%v", err)
	}
	return p.expect(":") && p.expect("INTEGER") && p.expect(";")
}

func (p *Parser) statementsList() bool {
	p.tree.Open(ast.StatementsList)
	defer p.tree.Close()

	if !token.IsIdentifier(p.peek().Code) {
		return p.empty()
	}
	if !p.statements() {
		return false
	}
	return p.statementsList()
}

func (p *Parser) statements() bool {
	p.tree.Open(ast.Statements)
	defer p.tree.Close()

	target := p.peek()
	if !p.variableIdentifier() {
		return false
	}
	if _, declared := p.currentScope.Lookup(target.Lexeme); !declared {
		p.addWarning(target, "assignment to undeclared variable '%s'", target.Lexeme)
	}
	if !p.at(":=") {
		p.addError(":=", p.peek())
		return false
	}
	p.tree.AttachValue(p.nextToken())
	return p.conditionalExpression() && p.expect(";")
}

func (p *Parser) conditionalExpression() bool {
	p.tree.Open(ast.ConditionalExpression)
	defer p.tree.Close()

	return p.logicalSummand() && p.logical()
}

func (p *Parser) logical() bool {
	p.tree.Open(ast.Logical)
	defer p.tree.Close()

	if !p.at("OR") {
		return p.empty()
	}
	p.tree.AttachValue(p.nextToken())
	return p.logicalSummand() && p.logical()
}

func (p *Parser) logicalSummand() bool {
	p.tree.Open(ast.LogicalSummand)
	defer p.tree.Close()

	return p.logicalMultiplier() && p.logicalMultipliersList()
}

func (p *Parser) logicalMultipliersList() bool {
	p.tree.Open(ast.LogicalMultipliersList)
	defer p.tree.Close()

	if !p.at("AND") {
		return p.empty()
	}
	p.tree.AttachValue(p.nextToken())
	return p.logicalMultiplier() && p.logicalMultipliersList()
}

// logicalMultiplier tries the keyword-prefixed alternatives before the
// general comparison.
func (p *Parser) logicalMultiplier() bool {
	p.tree.Open(ast.LogicalMultiplier)
	defer p.tree.Close()

	switch {
	case p.at("NOT"):
		p.tree.AttachValue(p.nextToken())
		return p.logicalMultiplier()
	case p.at("["):
		p.tree.AttachValue(p.nextToken())
		return p.conditionalExpression() && p.expect("]")
	}
	return p.expression() && p.comparisonOperator() && p.expression()
}

func (p *Parser) comparisonOperator() bool {
	p.tree.Open(ast.ComparisonOperator)
	defer p.tree.Close()

	for _, op := range comparisonOperators {
		if p.at(op) {
			p.tree.AttachValue(p.nextToken())
			return true
		}
	}
	p.addError("comparison operator", p.peek())
	return false
}

func (p *Parser) expression() bool {
	p.tree.Open(ast.Expression)
	defer p.tree.Close()

	tok := p.peek()
	switch {
	case token.IsIdentifier(tok.Code):
		if _, declared := p.currentScope.Lookup(tok.Lexeme); !declared {
			p.addWarning(tok, "use of undeclared variable '%s'", tok.Lexeme)
		}
		return p.variableIdentifier()
	case token.IsNumber(tok.Code):
		return p.unsignedInteger()
	case p.allowEmail && token.IsEmail(tok.Code):
		return p.email()
	}
	if p.allowEmail {
		p.addError("variable, unsigned integer or email", tok)
	} else {
		p.addError("variable or unsigned integer", tok)
	}
	return false
}

func (p *Parser) variableIdentifier() bool {
	p.tree.Open(ast.VariableIdentifier)
	defer p.tree.Close()
	return p.identifier()
}

func (p *Parser) procedureIdentifier() bool {
	p.tree.Open(ast.ProcedureIdentifier)
	defer p.tree.Close()
	return p.identifier()
}

func (p *Parser) identifier() bool {
	return p.leaf(ast.Identifier, token.IsIdentifier, "identifier")
}

func (p *Parser) unsignedInteger() bool {
	return p.leaf(ast.UnsignedInteger, token.IsNumber, "unsigned integer")
}

func (p *Parser) email() bool {
	return p.leaf(ast.Email, token.IsEmail, "email")
}

// leaf matches one token whose code lies in the range accepted by inRange.
func (p *Parser) leaf(rule ast.Rule, inRange func(int) bool, expected string) bool {
	p.tree.Open(rule)
	defer p.tree.Close()

	tok := p.peek()
	if !inRange(tok.Code) {
		p.addError(expected, tok)
		return false
	}
	p.tree.AttachValue(p.nextToken())
	return true
}
