// Package diagfmt renders located diagnostics for humans (caret underline,
// optional color) and for tooling (JSON).
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"mdxc/internal/diag"
)

// PrettyOpts управляет человекочитаемым выводом.
type PrettyOpts struct {
	Color bool
	// Max caps printed diagnostics; 0 means no cap.
	Max int
}

var (
	errorLabel   = color.New(color.FgRed, color.Bold)
	warningLabel = color.New(color.FgYellow, color.Bold)
	caretStyle   = color.New(color.FgCyan)
)

// Pretty форматирует диагностики в человекочитаемый вид:
// <path>:<line>:<col>: <severity>: <reason>
// затем строка источника с подчёркиванием ^~~~ по span.
func Pretty(w io.Writer, items []diag.Located, opts PrettyOpts) {
	max := len(items)
	if opts.Max > 0 && opts.Max < max {
		max = opts.Max
	}
	for i := range max {
		printOne(w, items[i], opts.Color)
	}
	if rest := len(items) - max; rest > 0 {
		fmt.Fprintf(w, "... and %d more\n", rest)
	}
}

func printOne(w io.Writer, d diag.Located, colored bool) {
	label := severityLabel(d.Severity, colored)
	if d.Line == 0 {
		fmt.Fprintf(w, "%s: %s: %s\n", d.File, label, d.Reason)
		return
	}
	// Колонку печатаем 1-based, как принято в выводе компиляторов.
	fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", d.File, d.Line, d.Col+1, label, d.Reason)
	if d.LineText == "" {
		return
	}
	fmt.Fprintf(w, "    %s\n", d.LineText)

	col := int(d.Col)
	if col > len(d.LineText) {
		col = len(d.LineText)
	}
	pad := runewidth.StringWidth(d.LineText[:col])
	span := d.LineText[col:]
	if n := int(d.Length); n < len(span) {
		span = span[:n]
	}
	width := runewidth.StringWidth(span)
	if width < 1 {
		width = 1
	}
	marker := "^" + strings.Repeat("~", width-1)
	if colored {
		marker = caretStyle.Sprint(marker)
	}
	fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", pad), marker)
}

func severityLabel(s diag.Severity, colored bool) string {
	switch s {
	case diag.SevError:
		if colored {
			return errorLabel.Sprint("error")
		}
		return "error"
	default:
		if colored {
			return warningLabel.Sprint("warning")
		}
		return "warning"
	}
}
