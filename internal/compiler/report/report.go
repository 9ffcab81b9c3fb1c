// Package report writes and reloads the flat-text lexer report: a token
// section with one row per token (name, code, row, column) followed by a
// code/lexeme dump of the symbol table.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/arnavsurve/signal/internal/compiler/symbols"
	"github.com/arnavsurve/signal/internal/compiler/token"
)

const (
	TokensHeader = "~~Lexem list"
	TableHeader  = "~~Lexem table"

	columnWidth = 15
)

var (
	ErrNotReport = errors.New("not a lexer report")

	tokenRow = regexp2.MustCompile(`^(?<name>\S+)\s+(?<code>-?\d+)\s+(?<row>\d+)\s+(?<column>\d+)\s*$`, regexp2.None)
	tableRow = regexp2.MustCompile(`^(?<lexeme>\S+)\s+(?<code>-?\d+)\s*$`, regexp2.None)
)

// Write renders tokens and the table entries in report form.
func Write(w io.Writer, tokens []token.Token, table *symbols.Table) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, TokensHeader)
	writeRow(bw, ":name", ":id", ":row", ":column")
	for _, tok := range tokens {
		writeRow(bw, tok.Lexeme, strconv.Itoa(tok.Code), strconv.Itoa(tok.Row), strconv.Itoa(tok.Column))
	}

	fmt.Fprintln(bw, TableHeader)
	writeRow(bw, ":lexem", ":id")
	for _, e := range table.Entries() {
		writeRow(bw, e.Lexeme, strconv.Itoa(e.Code))
	}
	return bw.Flush()
}

func writeRow(w io.Writer, cells ...string) {
	for i, c := range cells {
		if i == len(cells)-1 {
			fmt.Fprintln(w, c)
			return
		}
		fmt.Fprintf(w, "%-*s ", columnWidth-1, c)
	}
}

// Read reloads a report produced by Write.
func Read(r io.Reader) ([]token.Token, *symbols.Table, error) {
	sc := bufio.NewScanner(r)
	line := 0
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		line++
		return strings.TrimRight(sc.Text(), "\r"), true
	}

	header, ok := next()
	if !ok || header != TokensHeader {
		if err := sc.Err(); err != nil {
			return nil, nil, fmt.Errorf("reading report: %w", err)
		}
		return nil, nil, ErrNotReport
	}
	next() // column headings

	var tokens []token.Token
	table := symbols.New()
	inTable := false
	for {
		text, ok := next()
		if !ok {
			break
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		if text == TableHeader {
			inTable = true
			next() // column headings
			continue
		}

		if !inTable {
			tok, err := parseTokenRow(text)
			if err != nil {
				return nil, nil, fmt.Errorf("report line %d: %w", line, err)
			}
			tokens = append(tokens, tok)
			continue
		}
		lexeme, code, err := parseTableRow(text)
		if err != nil {
			return nil, nil, fmt.Errorf("report line %d: %w", line, err)
		}
		table.Register(lexeme, code)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading report: %w", err)
	}
	if !inTable {
		return nil, nil, fmt.Errorf("%w: missing %q section", ErrNotReport, TableHeader)
	}
	return tokens, table, nil
}

func parseTokenRow(text string) (token.Token, error) {
	m, err := tokenRow.FindStringMatch(text)
	if err != nil {
		return token.Token{}, err
	}
	if m == nil {
		return token.Token{}, fmt.Errorf("malformed token row %q", text)
	}
	code, _ := strconv.Atoi(m.GroupByName("code").String())
	row, _ := strconv.Atoi(m.GroupByName("row").String())
	col, _ := strconv.Atoi(m.GroupByName("column").String())
	return token.Token{Code: code, Lexeme: m.GroupByName("name").String(), Row: row, Column: col}, nil
}

func parseTableRow(text string) (string, int, error) {
	m, err := tableRow.FindStringMatch(text)
	if err != nil {
		return "", 0, err
	}
	if m == nil {
		return "", 0, fmt.Errorf("malformed table row %q", text)
	}
	code, _ := strconv.Atoi(m.GroupByName("code").String())
	return m.GroupByName("lexeme").String(), code, nil
}
