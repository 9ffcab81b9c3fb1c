package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/signal/internal/compiler"
	"github.com/arnavsurve/signal/internal/compiler/report"
)

// lex: tokenize a source file and write the report
var LexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a SIGNAL source file and write its lexer report",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := inputPath(args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "↪ lexing %s ...\n", src)
		outFile, res, err := compiler.LexAndWrite(src, outputFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✔︎ wrote report to %s\n", outFile)

		if verbose {
			if err := report.Write(out, res.Tokens, res.Table); err != nil {
				return err
			}
		}

		for _, e := range res.Errors {
			fmt.Fprintln(cmd.ErrOrStderr(), e)
		}
		if len(res.Errors) > 0 {
			return diagnosticsError(len(res.Errors))
		}
		return nil
	},
}
