package lexer

import (
	"strings"
	"testing"

	"github.com/arnavsurve/signal/internal/compiler/diag"
	"github.com/arnavsurve/signal/internal/compiler/symbols"
	"github.com/arnavsurve/signal/internal/compiler/token"
)

func lex(t *testing.T, src string) *Result {
	t.Helper()
	return New(symbols.Predefined()).Run(src)
}

func checkLexerErrors(t *testing.T, res *Result) {
	t.Helper()
	if len(res.Errors) == 0 {
		return
	}
	t.Errorf("Lexer has %d errors:", len(res.Errors))
	for i, err := range res.Errors {
		t.Errorf("   Error %d: %v", i+1, err)
	}
	t.FailNow()
}

func TestWhitespaceOnly(t *testing.T) {
	for _, src := range []string{"", " ", "\n\n\t  \r\n", "\v\f"} {
		res := lex(t, src)
		checkLexerErrors(t, res)
		if len(res.Tokens) != 0 {
			t.Errorf("input %q: expected no tokens, got=%d", src, len(res.Tokens))
		}
	}
}

func TestProgramTokens(t *testing.T) {
	src := "PROGRAM p1;\nVAR X: INTEGER;\nBEGIN\n  X := 12;\nEND."
	res := lex(t, src)
	checkLexerErrors(t, res)

	expected := []token.Token{
		{Code: token.Program, Lexeme: "PROGRAM", Row: 0, Column: 0},
		{Code: 1000, Lexeme: "P1", Row: 0, Column: 8},
		{Code: token.Semicolon, Lexeme: ";", Row: 0, Column: 10},
		{Code: token.Var, Lexeme: "VAR", Row: 1, Column: 0},
		{Code: 1001, Lexeme: "X", Row: 1, Column: 4},
		{Code: token.Colon, Lexeme: ":", Row: 1, Column: 5},
		{Code: token.Integer, Lexeme: "INTEGER", Row: 1, Column: 7},
		{Code: token.Semicolon, Lexeme: ";", Row: 1, Column: 14},
		{Code: token.Begin, Lexeme: "BEGIN", Row: 2, Column: 0},
		{Code: 1001, Lexeme: "X", Row: 3, Column: 2},
		{Code: token.Assign, Lexeme: ":=", Row: 3, Column: 4},
		{Code: 500, Lexeme: "12", Row: 3, Column: 7},
		{Code: token.Semicolon, Lexeme: ";", Row: 3, Column: 9},
		{Code: token.End, Lexeme: "END", Row: 4, Column: 0},
		{Code: token.Dot, Lexeme: ".", Row: 4, Column: 3},
	}

	if len(res.Tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got=%d: %v", len(expected), len(res.Tokens), res.Tokens)
	}
	for i, want := range expected {
		if res.Tokens[i] != want {
			t.Errorf("token %d: expected=%v, got=%v", i, want, res.Tokens[i])
		}
	}
}

func TestIdentifierAllocation(t *testing.T) {
	res := lex(t, "alpha beta ALPHA gamma Beta")
	checkLexerErrors(t, res)

	wantCodes := []int{1000, 1001, 1000, 1002, 1001}
	for i, want := range wantCodes {
		if res.Tokens[i].Code != want {
			t.Errorf("token %d (%s): expected code=%d, got=%d", i, res.Tokens[i].Lexeme, want, res.Tokens[i].Code)
		}
	}
	if got := res.Table.Code("GAMMA"); got != 1002 {
		t.Errorf("table Code(GAMMA) expected=1002, got=%d", got)
	}
}

func TestNumberAllocation(t *testing.T) {
	res := lex(t, "7 42 7 007")
	checkLexerErrors(t, res)

	wantCodes := []int{500, 501, 500, 502}
	for i, want := range wantCodes {
		tok := res.Tokens[i]
		if !token.IsNumber(tok.Code) {
			t.Errorf("token %d: code %d outside the number range", i, tok.Code)
		}
		if tok.Code != want {
			t.Errorf("token %d: expected code=%d, got=%d", i, want, tok.Code)
		}
	}
}

func TestNumberThenIdentifier(t *testing.T) {
	res := lex(t, "12AB")
	checkLexerErrors(t, res)
	if len(res.Tokens) != 2 {
		t.Fatalf("expected 2 tokens, got=%d", len(res.Tokens))
	}
	if res.Tokens[0].Lexeme != "12" || res.Tokens[1].Lexeme != "AB" {
		t.Errorf("unexpected split: %v", res.Tokens)
	}
	if res.Tokens[1].Column != 2 {
		t.Errorf("identifier column expected=2, got=%d", res.Tokens[1].Column)
	}
}

func TestDelimiterLongestMatch(t *testing.T) {
	tests := []struct {
		src     string
		lexemes []string
	}{
		{":=", []string{":="}},
		{": =", []string{":", "="}},
		{"<=<><", []string{"<=", "<>", "<"}},
		{">=>", []string{">=", ">"}},
		{"[;].", []string{"[", ";", "]", "."}},
		{"=:", []string{"=", ":"}},
	}

	for _, tt := range tests {
		res := lex(t, tt.src)
		checkLexerErrors(t, res)
		if len(res.Tokens) != len(tt.lexemes) {
			t.Errorf("input %q: expected %d tokens, got=%d", tt.src, len(tt.lexemes), len(res.Tokens))
			continue
		}
		for i, want := range tt.lexemes {
			if res.Tokens[i].Lexeme != want {
				t.Errorf("input %q token %d: expected=%q, got=%q", tt.src, i, want, res.Tokens[i].Lexeme)
			}
			if res.Tokens[i].Code != res.Table.Code(want) {
				t.Errorf("input %q token %d: code mismatch", tt.src, i)
			}
		}
	}
}

func TestComments(t *testing.T) {
	src := "A (* first\nsecond ** line\n*) B (***) C"
	res := lex(t, src)
	checkLexerErrors(t, res)

	if len(res.Tokens) != 3 {
		t.Fatalf("expected 3 tokens, got=%d: %v", len(res.Tokens), res.Tokens)
	}
	b := res.Tokens[1]
	if b.Lexeme != "B" || b.Row != 2 || b.Column != 3 {
		t.Errorf("token after comment expected B at 2:3, got=%v", b)
	}
	c := res.Tokens[2]
	if c.Lexeme != "C" || c.Row != 2 || c.Column != 11 {
		t.Errorf("token after starred comment expected C at 2:11, got=%v", c)
	}
}

func TestCommentOnlyInput(t *testing.T) {
	res := lex(t, "(* nothing\n here *)")
	checkLexerErrors(t, res)
	if len(res.Tokens) != 0 {
		t.Errorf("expected no tokens, got=%v", res.Tokens)
	}
}

func TestUnterminatedComment(t *testing.T) {
	res := lex(t, "A (* never closed *")
	if len(res.Tokens) != 1 {
		t.Fatalf("expected 1 token before the comment, got=%d", len(res.Tokens))
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected 1 error, got=%d: %v", len(res.Errors), res.Errors)
	}
	lerr, ok := res.Errors[0].(*diag.LexicalError)
	if !ok {
		t.Fatalf("expected *diag.LexicalError, got=%T", res.Errors[0])
	}
	if lerr.Char != 0 || lerr.Msg != "unterminated comment" {
		t.Errorf("unexpected error: %v", lerr)
	}
}

func TestErrorRecovery(t *testing.T) {
	res := lex(t, "X ? Y ( Z")

	if len(res.Errors) != 2 {
		t.Fatalf("expected 2 errors, got=%d: %v", len(res.Errors), res.Errors)
	}
	var lexemes []string
	for _, tok := range res.Tokens {
		lexemes = append(lexemes, tok.Lexeme)
	}
	if got := strings.Join(lexemes, " "); got != "X Y Z" {
		t.Errorf("expected scanning to resume after bad characters, got=%q", got)
	}

	first := res.Errors[0].(*diag.LexicalError)
	if first.Char != '?' || first.Pos != (token.Position{Row: 0, Column: 2}) {
		t.Errorf("unexpected first error: %v", first)
	}
	second := res.Errors[1].(*diag.LexicalError)
	if second.Char != '(' || second.Pos.Column != 6 {
		t.Errorf("unexpected second error: %v", second)
	}
}

func TestEmailLiterals(t *testing.T) {
	res := lex(t, "john@mail.com x Ann@Site.org john@mail.com")
	checkLexerErrors(t, res)

	if len(res.Tokens) != 4 {
		t.Fatalf("expected 4 tokens, got=%d: %v", len(res.Tokens), res.Tokens)
	}
	first := res.Tokens[0]
	if first.Lexeme != "JOHN@MAIL.COM" || first.Code != token.FirstEmail {
		t.Errorf("first email expected JOHN@MAIL.COM (%d), got=%v", token.FirstEmail, first)
	}
	if res.Tokens[1].Code != token.FirstIdentifier {
		t.Errorf("identifier between emails expected code %d, got=%d", token.FirstIdentifier, res.Tokens[1].Code)
	}
	if res.Tokens[2].Code != token.FirstEmail+1 {
		t.Errorf("second email expected code %d, got=%d", token.FirstEmail+1, res.Tokens[2].Code)
	}
	if res.Tokens[3].Code != first.Code {
		t.Errorf("repeated email expected code %d, got=%d", first.Code, res.Tokens[3].Code)
	}
	// the local part is not registered on its own
	if res.Table.Has("JOHN") {
		t.Errorf("local part leaked into the table as an identifier")
	}
}

func TestMalformedEmail(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		buffer string
	}{
		{"no dot before end", "a@b", "a@b"},
		{"no domain", "a@b.", "a@b."},
		{"bad char in local tail", "a@b;c", "a@b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := lex(t, tt.src)
			if len(res.Errors) != 1 {
				t.Fatalf("expected 1 error, got=%d: %v", len(res.Errors), res.Errors)
			}
			lerr := res.Errors[0].(*diag.LexicalError)
			if lerr.Buffer != tt.buffer {
				t.Errorf("discarded buffer expected=%q, got=%q", tt.buffer, lerr.Buffer)
			}
			for _, tok := range res.Tokens {
				if token.IsEmail(tok.Code) {
					t.Errorf("malformed email produced a token: %v", tok)
				}
			}
		})
	}
}

func TestCarriageReturnResetsColumn(t *testing.T) {
	res := lex(t, "AB\r\nCD")
	checkLexerErrors(t, res)
	cd := res.Tokens[1]
	if cd.Row != 1 || cd.Column != 0 {
		t.Errorf("expected CD at 1:0, got=%d:%d", cd.Row, cd.Column)
	}
}

func TestPredefinedTableUntouched(t *testing.T) {
	seed := symbols.Predefined()
	before := seed.Len()
	l := New(seed)
	l.Run("A B C 1 2")
	res := l.Run("D")

	if seed.Len() != before {
		t.Errorf("seed table mutated: %d -> %d", before, seed.Len())
	}
	// runs are independent
	if res.Tokens[0].Code != token.FirstIdentifier {
		t.Errorf("second run expected fresh counters, got code=%d", res.Tokens[0].Code)
	}
}

func TestRunFileMissing(t *testing.T) {
	res, err := New(nil).RunFile("does/not/exist.sig")
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
	if res == nil || len(res.Tokens) != 0 {
		t.Errorf("expected an empty result, got=%v", res)
	}
	if res.Table.Code("PROGRAM") != token.Program {
		t.Errorf("empty result should still carry the predefined table")
	}
}

func TestStateNames(t *testing.T) {
	if EmailLocalTail.String() != "EmailLocalTail" {
		t.Errorf("String() expected=EmailLocalTail, got=%s", EmailLocalTail)
	}
	if State(99).String() != "State(99)" {
		t.Errorf("unknown state rendered as %s", State(99))
	}
}
