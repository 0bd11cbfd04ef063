// Package snippet turns raw code-block text into the structured parse
// result the rendered CodeSnippet component consumes. The rest of the
// system treats the Datum as opaque: it is JSON-serialized into the
// compiled module and never inspected structurally.
package snippet

import (
	"context"
)

// Options for one synthesis call.
type Options struct {
	// FromPath is the document the code block originates from.
	FromPath string
	// Theme selects a styling theme; empty means the implementation default.
	Theme string
	// Lang is the fence language tag, always non-empty.
	Lang string
}

// Synthesizer produces a parsed snippet from raw code-block text.
// Implementations may block; the rewriter invokes them concurrently, one
// call per code block, and waits for all calls before touching the tree.
type Synthesizer interface {
	Synthesize(ctx context.Context, code string, opts Options) (Datum, error)
}

// Datum is the parsed-snippet payload.
type Datum struct {
	Lang  string `json:"lang"`
	Theme string `json:"theme,omitempty"`
	Lines []Line `json:"lines"`
}

// Line is one visible line of the snippet.
type Line struct {
	Tokens []Token `json:"tokens"`
}

// Token is a styled run of text within a line.
type Token struct {
	Content string `json:"content"`
	Type    string `json:"type,omitempty"`
	Color   string `json:"color,omitempty"`
	Bold    bool   `json:"bold,omitempty"`
	Italic  bool   `json:"italic,omitempty"`
}
