package main

import (
	"io"

	"mdxc/internal/diag"
	"mdxc/internal/diagfmt"
)

func printDiagnostics(w io.Writer, errors, warnings []diag.Located, format string, max int, colored bool) {
	if len(errors) == 0 && len(warnings) == 0 {
		return
	}
	if format == "json" {
		_ = diagfmt.JSON(w, errors, warnings)
		return
	}
	items := make([]diag.Located, 0, len(errors)+len(warnings))
	items = append(items, errors...)
	items = append(items, warnings...)
	diagfmt.Pretty(w, items, diagfmt.PrettyOpts{Color: colored, Max: max})
}
