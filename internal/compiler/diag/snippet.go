package diag

import (
	"fmt"
	"strings"
)

// Render returns err augmented with a caret-annotated snippet of src when
// err is a lexical, syntax or fatal diagnostic. Other errors are returned
// unchanged.
func Render(err error, src string) error {
	switch e := err.(type) {
	case *LexicalError:
		return fmt.Errorf("%s", snippet(src, "LEXICAL ERROR", e.Pos.Row, e.Pos.Column,
			fmt.Sprintf("%s: unexpected %s", e.Msg, e.CharString())))
	case *SyntaxError:
		return fmt.Errorf("%s", snippet(src, "SYNTAX ERROR", e.Pos.Row, e.Pos.Column,
			fmt.Sprintf("expected '%s', got '%s'", e.Expected, e.Got.Lexeme)))
	case *FatalError:
		return fmt.Errorf("%s", snippet(src, "FATAL ERROR", e.Pos.Row, e.Pos.Column, e.Msg))
	default:
		return err
	}
}

// snippet shows the offending line, one line of context on either side and a
// caret under the column. Row and column are 0-based and clamped to src.
func snippet(src, header string, row, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if row < 0 {
		row = 0
	}
	if row >= len(lines) {
		row = len(lines) - 1
	}
	if col < 0 {
		col = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, row, col, msg)
	if row > 0 {
		fmt.Fprintf(&b, "%4d | %s\n", row-1, lines[row-1])
	}
	fmt.Fprintf(&b, "%4d | %s\n", row, strings.TrimRight(lines[row], "\r"))
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col))
	if row+1 < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", row+1, lines[row+1])
	}
	return b.String()
}
