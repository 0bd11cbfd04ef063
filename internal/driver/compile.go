// Package driver orchestrates document compilation: front-matter
// separation, the transform pipeline through the markdown compiler, module
// text assembly, and conversion of raw compiler messages into located
// diagnostics. Every call is pure: source text in, module text plus
// diagnostics out, nothing cached between calls.
package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"go.abhg.dev/goldmark/anchor"

	"mdxc/internal/diag"
	"mdxc/internal/matter"
	"mdxc/internal/observ"
	"mdxc/internal/rewrite"
	"mdxc/internal/snippet"
)

const (
	// DefaultComponent is the invocation name code blocks are rewritten to.
	DefaultComponent = "CodeSnippet"
	// DefaultComponentModule is where the snippet component is imported from.
	DefaultComponentModule = "@/components/code-snippet"

	// jsxPragma pins the stable (non-automatic) runtime for compatibility
	// with consumers that predate the automatic JSX transform.
	jsxPragma = "/* @jsxRuntime classic @jsx React.createElement */"

	// rewriterPriority keeps the code-block rewriter ahead of the anchor
	// extension's transformer: it must see raw code nodes before any
	// node-shape-altering pass runs.
	rewriterPriority = 0
)

// Options configure one compilation call. The zero value is usable.
type Options struct {
	// Synthesizer produces parsed snippet data; nil selects the chroma
	// highlighter.
	Synthesizer snippet.Synthesizer
	// Theme applies to blocks whose meta string has no theme option.
	Theme string
	// Component and ComponentModule override the rewrite target.
	Component       string
	ComponentModule string
	// ExcerptSeparator overrides the default excerpt marker.
	ExcerptSeparator string
	// Jobs caps concurrent snippet synthesis; <=0 means no limit.
	Jobs int
	// Timer, when set, records pipeline phase durations.
	Timer *observ.Timer
}

// Result of one compilation call. Contents is always valid module text on
// success and the untouched original input on failure.
type Result struct {
	Contents string
	Errors   []diag.Located
	Warnings []diag.Located
}

// Compile turns one authoring-format document into module text plus
// located diagnostics. The only returned error is malformed input (front
// matter that is not a mapping); every compile-time failure comes back as
// data in Result.Errors.
func Compile(ctx context.Context, path, contents string, opts Options) (Result, error) {
	if opts.Synthesizer == nil {
		opts.Synthesizer = snippet.Highlighter{}
	}
	if opts.Component == "" {
		opts.Component = DefaultComponent
	}
	if opts.ComponentModule == "" {
		opts.ComponentModule = DefaultComponentModule
	}

	phase := opts.Timer.Begin("front matter")
	m, err := matter.Parse(contents, matter.Options{ExcerptSeparator: opts.ExcerptSeparator})
	opts.Timer.End(phase, "")
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}

	tr := rewrite.NewTransformer(ctx, rewrite.Config{
		Synth:        opts.Synthesizer,
		Path:         path,
		Component:    opts.Component,
		Module:       opts.ComponentModule,
		DefaultTheme: opts.Theme,
		Jobs:         opts.Jobs,
	})

	// Порядок проходов важен: rewriter идёт первым, затем таблицы,
	// автолинки заголовков и слаги.
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			&anchor.Extender{},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(tr, rewriterPriority)),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			html.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(&rewrite.NodeRenderer{}, 100)),
		),
	)

	phase = opts.Timer.Begin("transform and render")
	bodySrc := []byte(m.Content)
	doc := md.Parser().Parse(text.NewReader(bodySrc))

	var body bytes.Buffer
	var renderErr error
	if tr.Err() == nil {
		renderErr = md.Renderer().Render(&body, bodySrc, doc)
	}
	opts.Timer.End(phase, "")

	phase = opts.Timer.Begin("locate diagnostics")
	defer opts.Timer.End(phase, "")

	raw := []byte(contents)
	if fatal := tr.Fatal(); fatal != nil {
		return failure(*fatal, m, raw, path, contents), nil
	}
	if renderErr != nil {
		return failure(diag.Message{Reason: renderErr.Error(), Fatal: true}, m, raw, path, contents), nil
	}

	module, err := assemble(tr, &body, m, contents)
	if err != nil {
		return failure(diag.Message{Reason: err.Error(), Fatal: true}, m, raw, path, contents), nil
	}

	errs, warns := diag.Partition(rebase(tr.Messages(), m), raw, path)
	return Result{Contents: module, Errors: errs, Warnings: warns}, nil
}

// assemble builds the final module text: pragma, hoisted imports, the
// default export wrapping the rendered body, then the serialized excerpt,
// front matter and raw source exports.
func assemble(tr *rewrite.Transformer, body *bytes.Buffer, m matter.Result, contents string) (string, error) {
	excerptJSON, err := json.Marshal(m.Excerpt)
	if err != nil {
		return "", fmt.Errorf("encode excerpt: %w", err)
	}
	frontmatterJSON := "undefined"
	if m.Data != nil {
		encoded, err := json.Marshal(m.Data)
		if err != nil {
			return "", fmt.Errorf("encode front matter: %w", err)
		}
		frontmatterJSON = string(encoded)
	}
	sourceJSON, err := json.Marshal(contents)
	if err != nil {
		return "", fmt.Errorf("encode source: %w", err)
	}

	var out strings.Builder
	out.WriteString(jsxPragma)
	out.WriteString("\n")
	for _, imp := range tr.Imports() {
		out.WriteString(imp.JS())
		out.WriteString("\n")
	}
	out.WriteString("\nexport default function MDXContent() {\n  return (\n    <>\n")
	out.WriteString(body.String())
	out.WriteString("    </>\n  );\n}\n")
	fmt.Fprintf(&out, "\nexport const excerpt = %s;\n", excerptJSON)
	fmt.Fprintf(&out, "export const frontmatter = %s;\n", frontmatterJSON)
	fmt.Fprintf(&out, "export const source = %s;\n", sourceJSON)

	return strings.TrimSpace(out.String()) + "\n", nil
}

// failure maps a single fatal message onto the original input: contents
// fall back to the unrewritten source and the message becomes the one
// entry in Errors.
func failure(msg diag.Message, m matter.Result, raw []byte, path, contents string) Result {
	errs, _ := diag.Partition(rebase([]diag.Message{msg}, m), raw, path)
	return Result{Contents: contents, Errors: errs}
}

// rebase shifts body-relative message positions onto the original input.
func rebase(msgs []diag.Message, m matter.Result) []diag.Message {
	if m.BodyOffset == 0 && m.BodyLines == 0 {
		return msgs
	}
	out := make([]diag.Message, len(msgs))
	for i, msg := range msgs {
		out[i] = msg.Rebase(m.BodyOffset, m.BodyLines)
	}
	return out
}
