package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/arnavsurve/signal/internal/compiler/lexer"
	"github.com/arnavsurve/signal/internal/compiler/symbols"
)

func TestRoundTrip(t *testing.T) {
	src := "PROGRAM DEMO;\nVAR X: INTEGER;\nBEGIN X := X <= 42 AND [x <> 7]; END.\n(* mail *) a@b.c"
	res := lexer.New(symbols.Predefined()).Run(src)
	if len(res.Errors) != 0 {
		t.Fatalf("lexer errors: %v", res.Errors)
	}

	var buf bytes.Buffer
	if err := Write(&buf, res.Tokens, res.Table); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	tokens, table, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}

	if len(tokens) != len(res.Tokens) {
		t.Fatalf("expected %d tokens, got=%d", len(res.Tokens), len(tokens))
	}
	for i := range tokens {
		if tokens[i] != res.Tokens[i] {
			t.Errorf("token %d expected=%v, got=%v", i, res.Tokens[i], tokens[i])
		}
	}

	want := res.Table.Entries()
	got := table.Entries()
	if len(got) != len(want) {
		t.Fatalf("expected %d bindings, got=%d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("binding %d expected=%v, got=%v", i, want[i], got[i])
		}
	}

	// allocation continues past the reloaded codes
	code, _ := table.Allocate("FRESH", symbols.Identifiers)
	if code != res.Table.Next(symbols.Identifiers) {
		t.Errorf("reloaded table allocated %d, expected %d", code, res.Table.Next(symbols.Identifiers))
	}
}

func TestWriteLayout(t *testing.T) {
	res := lexer.New(nil).Run("X")
	var buf bytes.Buffer
	if err := Write(&buf, res.Tokens, res.Table); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if lines[0] != TokensHeader {
		t.Errorf("first line expected %q, got=%q", TokensHeader, lines[0])
	}
	if lines[2] != "X              1000           0              0" {
		t.Errorf("token row not fixed width: %q", lines[2])
	}
	if lines[3] != TableHeader {
		t.Errorf("expected table header after tokens, got=%q", lines[3])
	}
}

func TestReadRejectsOtherFiles(t *testing.T) {
	_, _, err := Read(strings.NewReader("PROGRAM P; BEGIN END.\n"))
	if !errors.Is(err, ErrNotReport) {
		t.Errorf("expected ErrNotReport, got %v", err)
	}

	_, _, err = Read(strings.NewReader(TokensHeader + "\n:name\nX 1000 0 0\n"))
	if !errors.Is(err, ErrNotReport) {
		t.Errorf("expected ErrNotReport for a truncated report, got %v", err)
	}
}

func TestReadMalformedRow(t *testing.T) {
	in := TokensHeader + "\n:name\nX 1000 zero 0\n" + TableHeader + "\n:lexem\n"
	_, _, err := Read(strings.NewReader(in))
	if err == nil || !strings.Contains(err.Error(), "report line 3") {
		t.Errorf("expected a line-numbered error, got %v", err)
	}
}
