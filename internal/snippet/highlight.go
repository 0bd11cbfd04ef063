package snippet

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter is the chroma-backed Synthesizer. Unknown languages fall
// back to the plain-text lexer; unknown themes fall back to chroma's
// default style. It holds no state and is safe for concurrent use.
type Highlighter struct{}

var _ Synthesizer = Highlighter{}

func (Highlighter) Synthesize(ctx context.Context, code string, opts Options) (Datum, error) {
	if err := ctx.Err(); err != nil {
		return Datum{}, err
	}

	lexer := lexers.Get(opts.Lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	style := styles.Get(opts.Theme) // unknown theme → chroma fallback style

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return Datum{}, fmt.Errorf("tokenise %s snippet from %s: %w", opts.Lang, opts.FromPath, err)
	}

	datum := Datum{Lang: opts.Lang, Theme: opts.Theme}
	line := Line{}
	for tok := it(); tok != chroma.EOF; tok = it() {
		entry := style.Get(tok.Type)
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				datum.Lines = append(datum.Lines, line)
				line = Line{}
			}
			if part == "" {
				continue
			}
			line.Tokens = append(line.Tokens, Token{
				Content: part,
				Type:    tok.Type.String(),
				Color:   colourString(entry.Colour),
				Bold:    entry.Bold == chroma.Yes,
				Italic:  entry.Italic == chroma.Yes,
			})
		}
	}
	// Хвостовую пустую строку (код заканчивается переводом строки) не отдаём.
	if len(line.Tokens) > 0 {
		datum.Lines = append(datum.Lines, line)
	}
	return datum, nil
}

func colourString(c chroma.Colour) string {
	if !c.IsSet() {
		return ""
	}
	return c.String()
}
