package diag

import (
	"mdxc/internal/source"
)

// Locate converts a raw compiler message into a located diagnostic against
// the original document contents. Everything is best effort: a message
// without a complete start position still produces a classified diagnostic,
// just without line/column/text.
//
// Units are bytes throughout; the message model never mixes units.
func Locate(m Message, contents []byte, path string) Located {
	sev := SevWarning
	if m.Fatal {
		sev = SevError
	}
	out := Located{
		Reason:   m.Reason,
		Severity: sev,
		File:     path,
	}
	if !m.Start.Complete() {
		return out
	}

	// column переводим в 0-based; начало строки восстанавливаем по offset
	col := m.Start.Column - 1
	start := m.Start.Offset
	if col > start {
		// позиция лжёт: колонка дальше, чем сам offset
		col = start
	}
	lineStart := start - col

	// Default is a caret-point diagnostic. A fully-populated end position
	// widens the span; a partially-populated one does not (conservative:
	// partial data is not assumed to describe a real span).
	length := uint32(1)
	if m.End.Complete() {
		length = 0
		if m.End.Offset > start {
			length = m.End.Offset - start
		}
	}

	bounds := source.LineBounds(contents, lineStart)
	if avail := bounds.Len(); length > avail {
		// Multi-line spans are never reported past the first line's text.
		length = avail
	}

	out.Line = m.Start.Line
	out.Col = col
	out.Length = length
	out.LineText = string(contents[bounds.Start:bounds.End])
	return out
}

// Partition locates every message independently and splits the results
// into fatal and advisory sequences, preserving input order. A pure fold:
// no shared accumulator state, so callers may have produced the messages
// concurrently.
func Partition(msgs []Message, contents []byte, path string) (errors, warnings []Located) {
	for _, m := range msgs {
		ld := Locate(m, contents, path)
		if ld.IsError() {
			errors = append(errors, ld)
		} else {
			warnings = append(warnings, ld)
		}
	}
	return errors, warnings
}
