package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/rlch/graphsel"
)

// styles used for terminal output. All styles are plain when the writer is
// not a terminal.
type styles struct {
	err   lipgloss.Style
	caret lipgloss.Style
	ok    lipgloss.Style
}

func newStyles(w io.Writer) styles {
	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		plain := lipgloss.NewStyle()

		return styles{err: plain, caret: plain, ok: plain}
	}

	return styles{
		err:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true),
		caret: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
	}
}

// errorPos returns the position of a parse error.
func errorPos(err error) (lexer.Position, bool) {
	var lexErr *graphsel.LexicalError
	if errors.As(err, &lexErr) {
		return lexErr.Pos, true
	}

	var syntaxErr *graphsel.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Pos, true
	}

	return lexer.Position{}, false
}

// writeDiagnostic prints err followed by the offending line of input and a
// caret under the error column.
func writeDiagnostic(w io.Writer, st styles, input string, err error) {
	_, _ = fmt.Fprintf(w, "%s %v\n", st.err.Render("error:"), err)

	pos, ok := errorPos(err)
	if !ok || pos.Line < 1 {
		return
	}

	lines := strings.Split(input, "\n")
	if pos.Line > len(lines) {
		return
	}

	line := lines[pos.Line-1]

	var pad strings.Builder

	for i, r := range []rune(line) {
		if i >= pos.Column-1 {
			break
		}

		if r == '\t' {
			pad.WriteRune('\t')
		} else {
			pad.WriteRune(' ')
		}
	}

	_, _ = fmt.Fprintf(w, "  %s\n", line)
	_, _ = fmt.Fprintf(w, "  %s%s\n", pad.String(), st.caret.Render("^"))
}

type jsonResult struct {
	Selection string   `json:"selection"`
	Nodes     []string `json:"nodes"`
}

func writeResult(w io.Writer, sel graphsel.Selection, ids []graphsel.NodeID, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(jsonResult{Selection: graphsel.Format(sel), Nodes: ids})
	}

	for _, id := range ids {
		_, err := fmt.Fprintln(w, id)
		if err != nil {
			return err
		}
	}

	return nil
}
