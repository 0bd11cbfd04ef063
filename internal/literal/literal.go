// Package literal synthesizes the closed set of target-language expression
// fragments the compiled module embeds: an import declaration, a boolean,
// an array of line-range pairs, and a JSON.parse call wrapping an encoded
// payload. It is the only package that knows the embedding grammar; the
// rest of the system deals in semantic values.
package literal

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the fragment shapes.
type Kind uint8

const (
	// KindInvalid is the zero value; it renders to nothing.
	KindInvalid Kind = iota
	KindImport
	KindBool
	KindRanges
	KindJSONParse
)

func (k Kind) String() string {
	switch k {
	case KindImport:
		return "import"
	case KindBool:
		return "bool"
	case KindRanges:
		return "ranges"
	case KindJSONParse:
		return "json-parse"
	}
	return "unknown"
}

// Range is a (from-line, to-line) emphasis pair.
type Range struct {
	From int
	To   int
}

// Fragment is a synthesized piece of embeddable expression syntax.
// Construct via Import, Bool, Ranges or JSONParse; the zero value renders
// as an empty string. Fragments perform no validation beyond shape.
type Fragment struct {
	kind    Kind
	binding string
	module  string
	boolean bool
	ranges  []Range
	encoded []byte // JSON text for KindJSONParse
}

// Import builds an import-declaration fragment binding a single name from
// a fixed module path.
func Import(binding, modulePath string) Fragment {
	return Fragment{kind: KindImport, binding: binding, module: modulePath}
}

// Bool wraps a boolean value as an attribute-value expression.
func Bool(v bool) Fragment {
	return Fragment{kind: KindBool, boolean: v}
}

// Ranges builds an array-of-pairs fragment preserving input order.
// The input slice is copied.
func Ranges(pairs []Range) Fragment {
	cp := make([]Range, len(pairs))
	copy(cp, pairs)
	return Fragment{kind: KindRanges, ranges: cp}
}

// JSONParse wraps v, JSON-encoded, in a parse call evaluated once at
// module load. Large synthesized structures embedded as object literals
// inflate parse cost; a single string literal avoids that and leaves all
// escaping to the encoder.
func JSONParse(v any) (Fragment, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return Fragment{}, fmt.Errorf("encode literal payload: %w", err)
	}
	return Fragment{kind: KindJSONParse, encoded: encoded}, nil
}

// Kind returns the fragment's shape tag.
func (f Fragment) Kind() Kind {
	return f.kind
}

// JS renders the fragment as target-language source text.
func (f Fragment) JS() string {
	switch f.kind {
	case KindImport:
		return "import { " + f.binding + " } from " + encodeString(f.module) + ";"
	case KindBool:
		return strconv.FormatBool(f.boolean)
	case KindRanges:
		var b strings.Builder
		b.WriteByte('[')
		for i, r := range f.ranges {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(r.From))
			b.WriteString(", ")
			b.WriteString(strconv.Itoa(r.To))
			b.WriteByte(']')
		}
		b.WriteByte(']')
		return b.String()
	case KindJSONParse:
		return "JSON.parse(" + encodeString(string(f.encoded)) + ")"
	}
	return ""
}

// encodeString produces a double-quoted string literal. JSON string
// encoding is valid in the target language and never fails for strings.
func encodeString(s string) string {
	out, err := json.Marshal(s)
	if err != nil {
		panic(fmt.Errorf("encode string literal: %w", err))
	}
	return string(out)
}
