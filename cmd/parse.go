package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/signal/internal/compiler"
	"github.com/arnavsurve/signal/internal/compiler/ast"
	"github.com/arnavsurve/signal/internal/compiler/parser"
	"github.com/arnavsurve/signal/internal/compiler/report"
)

var (
	fromReport bool
	allowEmail bool
)

// parse: build and print the syntax tree
var ParseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a SIGNAL source file or lexer report and print its syntax tree",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := inputPath(args)
		if err != nil {
			return err
		}
		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

		fmt.Fprintf(out, "↪ parsing %s ...\n", path)
		a, err := analyze(path)
		if err != nil {
			return err
		}

		if verbose {
			if err := report.Write(out, a.Lex.Tokens, a.Lex.Table); err != nil {
				return err
			}
		}
		if err := writeTree(out, a); err != nil {
			return err
		}

		for _, w := range a.Parse.Warnings {
			fmt.Fprintln(errOut, w)
		}
		if err := a.Err(); err != nil {
			fmt.Fprintln(errOut, err)
			return diagnosticsError(len(a.Diagnostics()))
		}
		fmt.Fprintln(out, "✔︎ parsed without errors")
		return nil
	},
}

func analyze(path string) (*compiler.Analysis, error) {
	var opts []parser.Option
	if allowEmail {
		opts = append(opts, parser.AllowEmail())
	}
	if fromReport {
		return compiler.AnalyzeReport(path, opts...)
	}
	return compiler.AnalyzeFile(path, opts...)
}

// writeTree renders to -o when given, otherwise to out.
func writeTree(out io.Writer, a *compiler.Analysis) error {
	if outputFile == "" {
		return ast.Render(out, a.Parse.Tree, a.Parse.Table)
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("creating tree output: %w", err)
	}
	if err := ast.Render(f, a.Parse.Tree, a.Parse.Table); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(out, "✔︎ wrote tree to %s\n", outputFile)
	return nil
}

func init() {
	ParseCmd.Flags().BoolVar(&fromReport, "report", false, "treat the input as a lexer report")
	ParseCmd.Flags().BoolVar(&allowEmail, "email", false, "accept email atoms in expressions")
}
