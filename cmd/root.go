package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	inputFile  string
	outputFile string
	verbose    bool
)

var (
	ErrNoInput     = errors.New("no input file specified")
	errDiagnostics = errors.New("compilation failed")
)

// flagError marks errors raised while parsing command-line flags.
type flagError struct{ err error }

func (e *flagError) Error() string { return e.err.Error() }
func (e *flagError) Unwrap() error { return e.err }

var rootCmd = &cobra.Command{
	Use:   "signal",
	Short: "Lexer and parser for the SIGNAL language",
	Long: `signal is the front end for SIGNAL programs.

Commands:
  lex    Tokenize a source file and write its lexer report
  parse  Parse a source file (or a lexer report) and print the syntax tree
  repl   Interactively lex and parse programs
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps an error returned by Execute to the process exit status.
func ExitCode(err error) int {
	var fe *flagError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &fe):
		return 100
	case errors.Is(err, ErrNoInput):
		return 101
	default:
		return 1
	}
}

// inputPath resolves the input from -f or the first positional argument.
func inputPath(args []string) (string, error) {
	if inputFile != "" {
		return inputFile, nil
	}
	if len(args) > 0 {
		return args[0], nil
	}
	return "", ErrNoInput
}

func diagnosticsError(n int) error {
	return fmt.Errorf("%w: %d diagnostic(s)", errDiagnostics, n)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&inputFile, "file", "f", "", "input file")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (lex: lexer_<name> next to the input; parse: stdout)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "echo tokens and tables to stdout")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &flagError{err: err}
	})

	rootCmd.AddCommand(LexCmd, ParseCmd, ReplCmd)
}
