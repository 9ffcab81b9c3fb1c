package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/arnavsurve/signal/internal/compiler"
	"github.com/arnavsurve/signal/internal/compiler/ast"
	"github.com/arnavsurve/signal/internal/compiler/parser"
)

const (
	historyFile = ".signal_history"
	promptMain  = "signal> "
	promptCont  = "   ...> "
)

// repl: read programs line by line until one ends with '.'
var ReplCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactively lex and parse SIGNAL programs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ln := liner.NewLiner()
		defer ln.Close()
		ln.SetCtrlCAborts(true)

		if f, err := os.Open(historyFile); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(historyFile); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()

		s := &session{out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr(), email: allowEmail}
		fmt.Fprintln(s.out, "SIGNAL repl. End a program with '.', :help for commands.")

		for {
			prompt := promptMain
			if s.pending() {
				prompt = promptCont
			}
			line, err := ln.Prompt(prompt)
			if err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
					fmt.Fprintln(s.out)
					return nil
				}
				return err
			}

			code, quit := s.feed(line)
			if quit {
				return nil
			}
			if code != "" {
				ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
			}
		}
	},
}

// session accumulates input lines and evaluates each complete program.
type session struct {
	out, errOut io.Writer
	buf         strings.Builder
	showTokens  bool
	email       bool
}

func (s *session) pending() bool { return s.buf.Len() > 0 }

// feed consumes one input line. It returns the program text once a line ends
// with '.', and quit when the user asked to leave.
func (s *session) feed(line string) (code string, quit bool) {
	trimmed := strings.TrimSpace(line)
	if !s.pending() {
		if trimmed == "" {
			return "", false
		}
		if strings.HasPrefix(trimmed, ":") {
			return "", s.command(trimmed)
		}
	}

	s.buf.WriteString(line)
	s.buf.WriteByte('\n')
	if !strings.HasSuffix(trimmed, ".") {
		return "", false
	}

	code = strings.TrimSpace(s.buf.String())
	s.buf.Reset()
	s.eval(code)
	return code, false
}

func (s *session) command(cmd string) (quit bool) {
	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return true
	case ":tokens":
		s.showTokens = !s.showTokens
		fmt.Fprintf(s.out, "token listing %s\n", onOff(s.showTokens))
	case ":email":
		s.email = !s.email
		fmt.Fprintf(s.out, "email atoms %s\n", onOff(s.email))
	case ":help":
		fmt.Fprintln(s.out, ":tokens  toggle the token listing")
		fmt.Fprintln(s.out, ":email   toggle email atoms in expressions")
		fmt.Fprintln(s.out, ":quit    leave the repl")
	default:
		fmt.Fprintf(s.out, "unknown command %q. Type :help for a list.\n", cmd)
	}
	return false
}

func (s *session) eval(code string) {
	var opts []parser.Option
	if s.email {
		opts = append(opts, parser.AllowEmail())
	}
	a := compiler.Analyze(code, opts...)

	if s.showTokens {
		for _, tok := range a.Lex.Tokens {
			fmt.Fprintln(s.out, tok)
		}
	}
	if err := ast.Render(s.out, a.Parse.Tree, a.Parse.Table); err != nil {
		fmt.Fprintln(s.errOut, err)
	}
	for _, w := range a.Parse.Warnings {
		fmt.Fprintln(s.errOut, w)
	}
	if err := a.Err(); err != nil {
		fmt.Fprintln(s.errOut, err)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
