// Package rewrite walks the parsed document tree, finds fenced code blocks
// carrying a language tag, and replaces each with a CodeSnippet component
// invocation whose attributes are pre-parsed snippet data. When at least
// one block is rewritten, a single shared import declaration is injected
// at the top of the document.
package rewrite

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/sync/errgroup"

	"fortio.org/safecast"

	"mdxc/internal/diag"
	"mdxc/internal/literal"
	"mdxc/internal/snippet"
)

// Config fixes the collaborators and naming for a Transformer.
type Config struct {
	// Synth produces parsed snippet data for each qualifying block.
	Synth snippet.Synthesizer
	// Path is the originating document, passed through to the synthesizer.
	Path string
	// Component is the invocation name, e.g. "CodeSnippet".
	Component string
	// Module is the import path the component is bound from.
	Module string
	// DefaultTheme applies when a block's meta string has no theme option.
	DefaultTheme string
	// Jobs caps concurrent synthesis calls; <=0 means no limit.
	Jobs int
}

// Transformer is a single-use tree transform: one instance serves exactly
// one compilation call and accumulates that call's messages.
type Transformer struct {
	cfg Config
	ctx context.Context

	imports  []literal.Fragment
	messages []diag.Message
	fatal    *diag.Message
	err      error
}

// NewTransformer builds a transformer for one compilation call. The
// context bounds the per-block synthesis calls.
func NewTransformer(ctx context.Context, cfg Config) *Transformer {
	return &Transformer{cfg: cfg, ctx: ctx}
}

// Err reports the failure that aborted the rewrite, if any.
func (t *Transformer) Err() error {
	return t.err
}

// Fatal returns the failure as a compiler message carrying the offending
// block's position, or nil.
func (t *Transformer) Fatal() *diag.Message {
	return t.fatal
}

// Messages returns advisory messages produced during the rewrite, with
// positions relative to the text the transformer saw.
func (t *Transformer) Messages() []diag.Message {
	return t.messages
}

// Imports returns the injected import declarations, in order. The driver
// hoists them into the module prologue.
func (t *Transformer) Imports() []literal.Fragment {
	return t.imports
}

type target struct {
	node  *ast.FencedCodeBlock
	lang  string
	code  string
	meta  string
	start diag.Point

	datum snippet.Datum
}

// Transform implements parser.ASTTransformer. Rewrites run concurrently
// per node; the tree is mutated only after every synthesis call resolved.
func (t *Transformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	if t.err != nil {
		return
	}
	src := reader.Source()

	var targets []*target
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		lang := string(fcb.Language(src))
		code := blockText(fcb, src)
		if lang == "" || code == "" {
			// Блоки без языка или без текста не трогаем.
			return ast.WalkContinue, nil
		}
		targets = append(targets, &target{
			node:  fcb,
			lang:  lang,
			code:  code,
			meta:  metaString(fcb, src),
			start: pointAt(src, blockOffset(fcb)),
		})
		return ast.WalkContinue, nil
	})
	if len(targets) == 0 {
		return
	}

	if err := t.synthesize(targets); err != nil {
		return
	}

	for _, tg := range targets {
		if err := t.rewrite(tg); err != nil {
			t.fail(err, tg.start)
			return
		}
	}

	imp := &ImportStatement{Decl: literal.Import(t.cfg.Component, t.cfg.Module)}
	if first := doc.FirstChild(); first != nil {
		doc.InsertBefore(doc, first, imp)
	} else {
		doc.AppendChild(doc, imp)
	}
	t.imports = append(t.imports, imp.Decl)
}

// synthesize runs the per-block synthesizer calls concurrently. The calls
// mutate disjoint targets and share nothing, so no locking is needed; the
// first failure cancels the rest and aborts the whole compilation.
func (t *Transformer) synthesize(targets []*target) error {
	ctx := t.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	g, ctx := errgroup.WithContext(ctx)
	if t.cfg.Jobs > 0 {
		g.SetLimit(t.cfg.Jobs)
	}
	for _, tg := range targets {
		g.Go(func() error {
			theme := t.cfg.DefaultTheme
			if v, ok := parseOptions(tg.meta)["theme"]; ok && v != "" {
				theme = v
			}
			datum, err := t.cfg.Synth.Synthesize(ctx, tg.code, snippet.Options{
				FromPath: t.cfg.Path,
				Theme:    theme,
				Lang:     tg.lang,
			})
			if err != nil {
				return &blockError{point: tg.start, err: fmt.Errorf("synthesize %s snippet: %w", tg.lang, err)}
			}
			tg.datum = datum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var be *blockError
		if errors.As(err, &be) {
			t.fail(be.err, be.point)
		} else {
			t.fail(err, diag.Point{})
		}
		return err
	}
	return nil
}

// rewrite replaces one fenced code block with a component invocation.
func (t *Transformer) rewrite(tg *target) error {
	flags := parseFlags(tg.meta)

	parseResult, err := literal.JSONParse(tg.datum)
	if err != nil {
		return err
	}
	attrs := []ComponentAttr{{Name: "parseResult", Value: parseResult}}

	var ranges []literal.Range
	for _, value := range optionValues(tg.meta, "emphasize") {
		r, err := parseEmphasis(value)
		if err != nil {
			t.messages = append(t.messages, diag.Message{
				Reason: err.Error(),
				Start:  tg.start,
			})
			continue
		}
		ranges = append(ranges, r)
	}
	if len(ranges) > 0 {
		attrs = append(attrs, ComponentAttr{Name: "emphasizeRanges", Value: literal.Ranges(ranges)})
	}
	if flags["lines"] {
		attrs = append(attrs, ComponentAttr{Name: "lineNumbers", Value: literal.Bool(true)})
	}

	comp := &ComponentInvocation{Name: t.cfg.Component, Attrs: attrs}
	parent := tg.node.Parent()
	if parent == nil {
		return fmt.Errorf("code block has no parent node")
	}
	parent.ReplaceChild(parent, tg.node, comp)
	return nil
}

func (t *Transformer) fail(err error, at diag.Point) {
	if t.err != nil {
		return
	}
	t.err = err
	t.fatal = &diag.Message{Reason: err.Error(), Fatal: true, Start: at}
}

type blockError struct {
	point diag.Point
	err   error
}

func (e *blockError) Error() string { return e.err.Error() }
func (e *blockError) Unwrap() error { return e.err }

// blockText concatenates the block's line segments.
func blockText(fcb *ast.FencedCodeBlock, src []byte) string {
	var b bytes.Buffer
	lines := fcb.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return b.String()
}

// metaString is everything after the language word on the fence info line.
func metaString(fcb *ast.FencedCodeBlock, src []byte) string {
	if fcb.Info == nil {
		return ""
	}
	info := string(fcb.Info.Segment.Value(src))
	if i := strings.IndexFunc(info, unicode.IsSpace); i >= 0 {
		return strings.TrimSpace(info[i:])
	}
	return ""
}

// blockOffset anchors messages at the fence info line.
func blockOffset(fcb *ast.FencedCodeBlock) uint32 {
	if fcb.Info != nil {
		return mustU32(fcb.Info.Segment.Start)
	}
	if lines := fcb.Lines(); lines.Len() > 0 {
		return mustU32(lines.At(0).Start)
	}
	return 0
}

// pointAt recovers a full line/column/offset point from a byte offset.
func pointAt(src []byte, off uint32) diag.Point {
	if int(off) > len(src) {
		off = mustU32(len(src))
	}
	prefix := src[:off]
	line := mustU32(bytes.Count(prefix, []byte{'\n'})) + 1
	lineStart := uint32(0)
	if i := bytes.LastIndexByte(prefix, '\n'); i >= 0 {
		lineStart = mustU32(i) + 1
	}
	return diag.At(line, off-lineStart+1, off)
}

func mustU32(v int) uint32 {
	n, err := safecast.Conv[uint32](v)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return n
}
