package diagfmt

import (
	"encoding/json"
	"io"

	"mdxc/internal/diag"
)

// DiagnosticJSON представляет одну диагностику в JSON формате.
// Line is 1-based and omitted when unknown; Col is 0-based and meaningful
// only when Line is present.
type DiagnosticJSON struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
	File     string `json:"file"`
	Line     uint32 `json:"line,omitempty"`
	Col      uint32 `json:"col"`
	Length   uint32 `json:"length"`
	LineText string `json:"line_text,omitempty"`
}

// Output представляет корневую структуру JSON вывода.
type Output struct {
	Errors   []DiagnosticJSON `json:"errors"`
	Warnings []DiagnosticJSON `json:"warnings"`
	Count    int              `json:"count"`
}

// BuildOutput формирует структуру JSON-вывода без сериализации.
func BuildOutput(errors, warnings []diag.Located) Output {
	out := Output{
		Errors:   make([]DiagnosticJSON, 0, len(errors)),
		Warnings: make([]DiagnosticJSON, 0, len(warnings)),
		Count:    len(errors) + len(warnings),
	}
	for _, d := range errors {
		out.Errors = append(out.Errors, toJSON(d))
	}
	for _, d := range warnings {
		out.Warnings = append(out.Warnings, toJSON(d))
	}
	return out
}

// JSON сериализует диагностики с отступами.
func JSON(w io.Writer, errors, warnings []diag.Located) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildOutput(errors, warnings))
}

func toJSON(d diag.Located) DiagnosticJSON {
	return DiagnosticJSON{
		Severity: d.Severity.String(),
		Message:  d.Reason,
		File:     d.File,
		Line:     d.Line,
		Col:      d.Col,
		Length:   d.Length,
		LineText: d.LineText,
	}
}
