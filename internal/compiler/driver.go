package compiler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arnavsurve/signal/internal/compiler/diag"
	"github.com/arnavsurve/signal/internal/compiler/lexer"
	"github.com/arnavsurve/signal/internal/compiler/parser"
	"github.com/arnavsurve/signal/internal/compiler/report"
	"github.com/arnavsurve/signal/internal/compiler/symbols"
)

// ReportPrefix is prepended to the source file name to name its lexer report.
const ReportPrefix = "lexer_"

// Analysis holds the results of running the front end over one input.
type Analysis struct {
	Source string // empty when the input was a lexer report
	Lex    *lexer.Result
	Parse  *parser.Result
}

// Diagnostics returns lexical errors followed by syntax errors.
func (a *Analysis) Diagnostics() []error {
	var all []error
	if a.Lex != nil {
		all = append(all, a.Lex.Errors...)
	}
	if a.Parse != nil {
		all = append(all, a.Parse.Errors...)
	}
	return all
}

// Err joins every diagnostic, rendered against the source when it is known.
func (a *Analysis) Err() error {
	var errs []error
	for _, d := range a.Diagnostics() {
		if a.Source != "" {
			d = diag.Render(d, a.Source)
		}
		errs = append(errs, d)
	}
	return errors.Join(errs...)
}

// Analyze lexes and parses src.
func Analyze(src string, opts ...parser.Option) *Analysis {
	lex := lexer.New(symbols.Predefined()).Run(src)
	return &Analysis{
		Source: src,
		Lex:    lex,
		Parse:  parser.NewParser(lex.Tokens, lex.Table, opts...).ParseProgram(),
	}
}

// AnalyzeFile reads srcPath and analyzes it.
func AnalyzeFile(srcPath string, opts ...parser.Option) (*Analysis, error) {
	content, err := readSource(srcPath)
	if err != nil {
		return nil, err
	}
	return Analyze(content, opts...), nil
}

// AnalyzeReport parses the tokens of a previously written lexer report.
func AnalyzeReport(reportPath string, opts ...parser.Option) (*Analysis, error) {
	f, err := os.Open(reportPath)
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}
	defer f.Close()

	tokens, table, err := report.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", reportPath, err)
	}
	lex := &lexer.Result{Tokens: tokens, Table: table}
	return &Analysis{
		Lex:   lex,
		Parse: parser.NewParser(tokens, table, opts...).ParseProgram(),
	}, nil
}

// LexAndWrite lexes srcPath and writes the report to outPath, or next to the
// source under DefaultReportPath when outPath is empty. An unreadable source
// yields an empty result and no report.
func LexAndWrite(srcPath, outPath string) (string, *lexer.Result, error) {
	res, err := lexer.New(symbols.Predefined()).RunFile(srcPath)
	if err != nil {
		return "", res, err
	}
	if outPath == "" {
		outPath = DefaultReportPath(srcPath)
	}
	outFile, err := writeOutput(res, outPath)
	if err != nil {
		return "", res, err
	}
	return outFile, res, nil
}

// DefaultReportPath names the report of srcPath.
func DefaultReportPath(srcPath string) string {
	dir, base := filepath.Split(srcPath)
	return filepath.Join(dir, ReportPrefix+base)
}

func readSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading source: %w", err)
	}
	return string(b), nil
}

func writeOutput(res *lexer.Result, outFile string) (string, error) {
	if dir := filepath.Dir(outFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	f, err := os.Create(outFile)
	if err != nil {
		return "", err
	}
	if err := report.Write(f, res.Tokens, res.Table); err != nil {
		f.Close()
		return "", err
	}
	return outFile, f.Close()
}
