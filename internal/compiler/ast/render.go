package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/arnavsurve/signal/internal/compiler/symbols"
	"github.com/arnavsurve/signal/internal/compiler/token"
)

const (
	vline  = "│ "
	blank  = "  "
	branch = "├─"
	corner = "└─"
)

// Render writes the tree as box-drawn lines, one node per line in pre-order.
// Payload lexemes are resolved through table when it knows the code.
func Render(w io.Writer, t *Tree, table *symbols.Table) error {
	root := t.Root()
	if root == None {
		return nil
	}

	// remaining[d] counts the not yet rendered siblings at depth d
	remaining := []int{1}
	var err error
	t.Walk(root, func(id NodeID, depth int) bool {
		if err != nil {
			return false
		}
		var b strings.Builder
		for d := 1; d < depth; d++ {
			if remaining[d] > 0 {
				b.WriteString(vline)
			} else {
				b.WriteString(blank)
			}
		}
		if depth > 0 {
			if remaining[depth] > 1 {
				b.WriteString(branch)
			} else {
				b.WriteString(corner)
			}
			remaining[depth]--
		}
		n := t.Node(id)
		b.WriteString(Label(n, table))
		remaining = append(remaining[:depth+1], len(n.Children))

		_, err = fmt.Fprintln(w, b.String())
		return err == nil
	})
	return err
}

// Label renders one node, e.g. `<identifier "P" (1000) [0:8]>`.
func Label(n *Node, table *symbols.Table) string {
	if len(n.Tokens) == 0 {
		return "<" + n.Rule.String() + ">"
	}
	parts := make([]string, len(n.Tokens))
	for i, tok := range n.Tokens {
		parts[i] = fmt.Sprintf("%q (%d) [%d:%d]", lexemeOf(tok, table), tok.Code, tok.Row, tok.Column)
	}
	return "<" + n.Rule.String() + " " + strings.Join(parts, ", ") + ">"
}

func lexemeOf(tok token.Token, table *symbols.Table) string {
	if table != nil {
		if lexeme := table.Lexeme(tok.Code); lexeme != "" {
			return lexeme
		}
	}
	return tok.Lexeme
}
