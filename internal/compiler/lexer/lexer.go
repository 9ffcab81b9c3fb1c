package lexer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/arnavsurve/signal/internal/compiler/diag"
	"github.com/arnavsurve/signal/internal/compiler/symbols"
	"github.com/arnavsurve/signal/internal/compiler/token"
)

// State is a state of the lexer automaton.
type State int

const (
	Start State = iota
	ScanNext
	Identifier
	Number
	Delimiter
	Whitespace
	CommentOpen
	CommentBody
	CommentClose
	EmailLocalTail
	EmailDomain
	Error
	Exit
)

var stateNames = [...]string{
	Start:          "Start",
	ScanNext:       "ScanNext",
	Identifier:     "Identifier",
	Number:         "Number",
	Delimiter:      "Delimiter",
	Whitespace:     "Whitespace",
	CommentOpen:    "CommentOpen",
	CommentBody:    "CommentBody",
	CommentClose:   "CommentClose",
	EmailLocalTail: "EmailLocalTail",
	EmailDomain:    "EmailDomain",
	Error:          "Error",
	Exit:           "Exit",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Result is the outcome of one run: the token sequence, the symbol table
// extended with every identifier, number and email seen, and the lexical
// errors that were recovered from.
type Result struct {
	Tokens []token.Token
	Table  *symbols.Table
	Errors []error
}

// Lexer turns source text into tokens. The predefined table is never
// mutated; every run works on its own copy.
type Lexer struct {
	predefined *symbols.Table
}

func New(predefined *symbols.Table) *Lexer {
	if predefined == nil {
		predefined = symbols.Predefined()
	}
	return &Lexer{predefined: predefined}
}

// Run lexes src to completion.
func (l *Lexer) Run(src string) *Result {
	s := &scanner{
		input: src,
		table: l.predefined.Clone(),
		upper: cases.Upper(language.Und),
		state: Start,
	}
	s.run()
	return &Result{Tokens: s.tokens, Table: s.table, Errors: s.errors}
}

// RunReader lexes everything read from r. A read failure yields an empty
// result alongside the error.
func (l *Lexer) RunReader(r io.Reader) (*Result, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return l.empty(), fmt.Errorf("reading source: %w", err)
	}
	return l.Run(string(b)), nil
}

// RunFile lexes the file at path.
func (l *Lexer) RunFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return l.empty(), fmt.Errorf("opening source: %w", err)
	}
	defer f.Close()
	return l.RunReader(f)
}

func (l *Lexer) empty() *Result {
	return &Result{Table: l.predefined.Clone()}
}

// --- Automaton ---

type scanner struct {
	input string
	pos   int // index of the next unread byte
	row   int
	col   int

	state State
	buf   strings.Builder
	start token.Position // position of the first byte of the pending token
	msg   string         // reason for entering Error

	table  *symbols.Table
	upper  cases.Caser
	tokens []token.Token
	errors []error
}

func (s *scanner) run() {
	for s.state != Exit {
		switch s.state {
		case Start:
			s.tokens = s.tokens[:0]
			s.state = ScanNext
		case ScanNext:
			s.scanNext()
		case Whitespace:
			for isSpace(s.peek()) {
				s.advance()
			}
			s.state = ScanNext
		case Identifier:
			s.identifier()
		case Number:
			s.number()
		case Delimiter:
			s.delimiter()
		case CommentOpen:
			s.commentOpen()
		case CommentBody:
			s.commentBody()
		case CommentClose:
			s.commentClose()
		case EmailLocalTail:
			s.emailLocalTail()
		case EmailDomain:
			s.emailDomain()
		case Error:
			s.skipError()
		}
	}
}

func (s *scanner) scanNext() {
	s.buf.Reset()
	s.start = token.Position{Row: s.row, Column: s.col}

	if s.eof() {
		s.state = Exit
		return
	}
	ch := s.peek()
	switch {
	case isSpace(ch):
		s.state = Whitespace
	case isLetter(ch):
		s.state = Identifier
	case isDigit(ch):
		s.state = Number
	case ch == '(':
		s.state = CommentOpen
	case s.table.IsDelimiterChar(ch):
		s.state = Delimiter
	default:
		s.fail("unrecognized character")
	}
}

func (s *scanner) identifier() {
	for isLetter(s.peek()) || isDigit(s.peek()) {
		s.buf.WriteByte(s.advance())
	}
	if s.peek() == '@' {
		s.buf.WriteByte(s.advance())
		s.state = EmailLocalTail
		return
	}
	s.emit(symbols.Identifiers)
}

func (s *scanner) number() {
	for isDigit(s.peek()) {
		s.buf.WriteByte(s.advance())
	}
	s.emit(symbols.Numbers)
}

// delimiter takes the longest registered lexeme within a two-byte window.
func (s *scanner) delimiter() {
	if s.pos+2 <= len(s.input) {
		pair := s.input[s.pos : s.pos+2]
		if s.table.Has(pair) {
			s.advance()
			s.advance()
			s.emitLexeme(pair)
			return
		}
	}
	single := s.input[s.pos : s.pos+1]
	if s.table.Has(single) {
		s.advance()
		s.emitLexeme(single)
		return
	}
	s.fail("unknown delimiter")
}

func (s *scanner) commentOpen() {
	if s.pos+1 < len(s.input) && s.input[s.pos+1] == '*' {
		s.advance()
		s.advance()
		s.state = CommentBody
		return
	}
	// a lone '(' is not a token of the language
	s.fail("unrecognized character")
}

func (s *scanner) commentBody() {
	for !s.eof() {
		if s.advance() == '*' {
			s.state = CommentClose
			return
		}
	}
	s.fail("unterminated comment")
}

func (s *scanner) commentClose() {
	switch {
	case s.eof():
		s.fail("unterminated comment")
	case s.peek() == ')':
		s.advance()
		s.state = ScanNext
	default:
		// the '*' did not close the comment; this byte may start the closer itself
		s.state = CommentBody
	}
}

func (s *scanner) emailLocalTail() {
	for isLetter(s.peek()) || isDigit(s.peek()) {
		s.buf.WriteByte(s.advance())
	}
	if s.peek() != '.' {
		s.fail("malformed email literal")
		return
	}
	s.buf.WriteByte(s.advance())
	s.state = EmailDomain
}

func (s *scanner) emailDomain() {
	n := s.buf.Len()
	for isLetter(s.peek()) || isDigit(s.peek()) {
		s.buf.WriteByte(s.advance())
	}
	if s.buf.Len() == n {
		s.fail("malformed email literal")
		return
	}
	s.emit(symbols.Emails)
}

// skipError records the pending error and skips the offending byte.
func (s *scanner) skipError() {
	var ch byte
	if !s.eof() {
		ch = s.peek()
	}
	s.errors = append(s.errors, &diag.LexicalError{
		Pos:    token.Position{Row: s.row, Column: s.col},
		Char:   ch,
		Buffer: s.buf.String(),
		Msg:    s.msg,
	})
	s.buf.Reset()
	if s.eof() {
		s.state = Exit
		return
	}
	s.advance()
	s.state = ScanNext
}

func (s *scanner) fail(msg string) {
	s.msg = msg
	s.state = Error
}

// emit closes the buffered token, allocating its code from counter c unless
// the lexeme is already known (keywords, repeated names).
func (s *scanner) emit(c symbols.Counter) {
	lexeme := s.upper.String(s.buf.String())
	code, err := s.table.Allocate(lexeme, c)
	if err != nil {
		s.errors = append(s.errors, &diag.LexicalError{Pos: s.start, Buffer: lexeme, Msg: err.Error(), Char: s.peek()})
		s.buf.Reset()
		s.state = ScanNext
		return
	}
	s.tokens = append(s.tokens, token.Token{Code: code, Lexeme: lexeme, Row: s.start.Row, Column: s.start.Column})
	s.state = ScanNext
}

func (s *scanner) emitLexeme(lexeme string) {
	s.tokens = append(s.tokens, token.Token{
		Code:   s.table.Code(lexeme),
		Lexeme: lexeme,
		Row:    s.start.Row,
		Column: s.start.Column,
	})
	s.state = ScanNext
}

// --- Cursor ---

func (s *scanner) eof() bool {
	return s.pos >= len(s.input)
}

func (s *scanner) peek() byte {
	if s.pos >= len(s.input) {
		return 0
	}
	return s.input[s.pos]
}

// advance consumes one byte, keeping row and column current.
func (s *scanner) advance() byte {
	ch := s.input[s.pos]
	s.pos++
	switch ch {
	case '\n':
		s.row++
		s.col = 0
	case '\r':
		s.col = 0
	default:
		s.col++
	}
	return ch
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\v' || ch == '\f'
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
