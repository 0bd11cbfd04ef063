package rewrite

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"mdxc/internal/snippet"
)

// fakeSynth records calls and echoes the language back; it never touches
// chroma so tests stay deterministic.
type fakeSynth struct {
	calls atomic.Int32
	err   error
}

func (f *fakeSynth) Synthesize(_ context.Context, code string, opts snippet.Options) (snippet.Datum, error) {
	f.calls.Add(1)
	if f.err != nil {
		return snippet.Datum{}, f.err
	}
	return snippet.Datum{
		Lang:  opts.Lang,
		Theme: opts.Theme,
		Lines: []snippet.Line{{Tokens: []snippet.Token{{Content: code}}}},
	}, nil
}

func runTransform(t *testing.T, markdown string, synth snippet.Synthesizer) (*Transformer, *ast.Document, []byte) {
	t.Helper()
	src := []byte(markdown)
	tr := NewTransformer(context.Background(), Config{
		Synth:     synth,
		Path:      "doc.md",
		Component: "CodeSnippet",
		Module:    "@/components/code-snippet",
	})
	node := goldmark.New().Parser().Parse(text.NewReader(src))
	doc, ok := node.(*ast.Document)
	if !ok {
		t.Fatalf("parse produced %T, want *ast.Document", node)
	}
	tr.Transform(doc, text.NewReader(src), nil)
	return tr, doc, src
}

func countKind(doc *ast.Document, kind ast.NodeKind) int {
	n := 0
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && node.Kind() == kind {
			n++
		}
		return ast.WalkContinue, nil
	})
	return n
}

func firstComponent(t *testing.T, doc *ast.Document) *ComponentInvocation {
	t.Helper()
	var comp *ComponentInvocation
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if c, ok := node.(*ComponentInvocation); ok && entering && comp == nil {
			comp = c
		}
		return ast.WalkContinue, nil
	})
	if comp == nil {
		t.Fatal("no component invocation in tree")
	}
	return comp
}

func TestTransform_RewritesTaggedBlocks(t *testing.T) {
	synth := &fakeSynth{}
	md := "# Title\n\n```go\nfmt.Println(1)\n```\n\ntext\n\n```js\nconsole.log(2)\n```\n"
	tr, doc, _ := runTransform(t, md, synth)

	if tr.Err() != nil {
		t.Fatalf("transform failed: %v", tr.Err())
	}
	if got := countKind(doc, KindComponentInvocation); got != 2 {
		t.Errorf("component invocations = %d, want 2", got)
	}
	if got := countKind(doc, ast.KindFencedCodeBlock); got != 0 {
		t.Errorf("fenced code blocks remaining = %d, want 0", got)
	}
	if got := synth.calls.Load(); got != 2 {
		t.Errorf("synthesizer calls = %d, want 2", got)
	}
}

func TestTransform_SingleImportForManyBlocks(t *testing.T) {
	md := "```go\na\n```\n\n```go\nb\n```\n\n```go\nc\n```\n"
	tr, doc, _ := runTransform(t, md, &fakeSynth{})

	if got := countKind(doc, KindImportStatement); got != 1 {
		t.Fatalf("import statements = %d, want 1", got)
	}
	if _, ok := doc.FirstChild().(*ImportStatement); !ok {
		t.Errorf("first child = %T, want *ImportStatement", doc.FirstChild())
	}
	if len(tr.Imports()) != 1 {
		t.Fatalf("Imports() = %d, want 1", len(tr.Imports()))
	}
	want := `import { CodeSnippet } from "@/components/code-snippet";`
	if got := tr.Imports()[0].JS(); got != want {
		t.Errorf("import = %q, want %q", got, want)
	}
}

func TestTransform_SkipsNonQualifyingBlocks(t *testing.T) {
	tests := []struct {
		name string
		md   string
	}{
		{name: "no language tag", md: "```\nplain\n```\n"},
		{name: "empty body", md: "```go\n```\n"},
		{name: "indented code block", md: "    indented code\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synth := &fakeSynth{}
			tr, doc, _ := runTransform(t, tt.md, synth)
			if tr.Err() != nil {
				t.Fatalf("transform failed: %v", tr.Err())
			}
			if got := countKind(doc, KindComponentInvocation); got != 0 {
				t.Errorf("component invocations = %d, want 0", got)
			}
			if got := countKind(doc, KindImportStatement); got != 0 {
				t.Errorf("import statements = %d, want 0", got)
			}
			if got := synth.calls.Load(); got != 0 {
				t.Errorf("synthesizer calls = %d, want 0", got)
			}
		})
	}
}

func TestTransform_MetaAttributes(t *testing.T) {
	md := "```go lines emphasize:3-5,7\ncode\n```\n"
	tr, doc, _ := runTransform(t, md, &fakeSynth{})
	if tr.Err() != nil {
		t.Fatalf("transform failed: %v", tr.Err())
	}

	comp := firstComponent(t, doc)
	attrs := make(map[string]string, len(comp.Attrs))
	for _, a := range comp.Attrs {
		attrs[a.Name] = a.Value.JS()
	}
	if _, ok := attrs["parseResult"]; !ok {
		t.Error("parseResult attribute missing")
	}
	if got := attrs["emphasizeRanges"]; got != "[[3, 5], [7, 7]]" {
		t.Errorf("emphasizeRanges = %q, want [[3, 5], [7, 7]]", got)
	}
	if got := attrs["lineNumbers"]; got != "true" {
		t.Errorf("lineNumbers = %q, want true", got)
	}
}

func TestTransform_NoMetaMeansParseResultOnly(t *testing.T) {
	tr, doc, _ := runTransform(t, "```go\ncode\n```\n", &fakeSynth{})
	if tr.Err() != nil {
		t.Fatalf("transform failed: %v", tr.Err())
	}
	comp := firstComponent(t, doc)
	if len(comp.Attrs) != 1 || comp.Attrs[0].Name != "parseResult" {
		t.Errorf("attrs = %+v, want only parseResult", comp.Attrs)
	}
}

func TestTransform_MalformedEmphasisIsAdvisory(t *testing.T) {
	md := "line one\n\n```go emphasize:abc\ncode\n```\n"
	tr, doc, _ := runTransform(t, md, &fakeSynth{})

	if tr.Err() != nil {
		t.Fatalf("malformed emphasize must not abort: %v", tr.Err())
	}
	if got := countKind(doc, KindComponentInvocation); got != 1 {
		t.Errorf("component invocations = %d, want 1", got)
	}
	msgs := tr.Messages()
	if len(msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(msgs))
	}
	if msgs[0].Fatal {
		t.Error("advisory message marked fatal")
	}
	if !strings.Contains(msgs[0].Reason, "emphasize") {
		t.Errorf("reason = %q, want mention of emphasize", msgs[0].Reason)
	}
	if !msgs[0].Start.Complete() {
		t.Errorf("message position incomplete: %+v", msgs[0].Start)
	}
	if msgs[0].Start.Line != 3 {
		t.Errorf("message line = %d, want 3", msgs[0].Start.Line)
	}
	comp := firstComponent(t, doc)
	for _, a := range comp.Attrs {
		if a.Name == "emphasizeRanges" {
			t.Error("emphasizeRanges emitted despite malformed value")
		}
	}
}

func TestTransform_SynthesizerFailure(t *testing.T) {
	boom := errors.New("boom")
	synth := &fakeSynth{err: boom}
	tr, doc, _ := runTransform(t, "para\n\n```go\ncode\n```\n", synth)

	if !errors.Is(tr.Err(), boom) {
		t.Fatalf("Err() = %v, want wrapped boom", tr.Err())
	}
	fatal := tr.Fatal()
	if fatal == nil {
		t.Fatal("Fatal() = nil")
	}
	if !fatal.Fatal {
		t.Error("fatal message not marked fatal")
	}
	if fatal.Start.Line != 3 {
		t.Errorf("fatal line = %d, want 3", fatal.Start.Line)
	}
	// Дерево не трогаем после сбоя синтеза.
	if got := countKind(doc, KindComponentInvocation); got != 0 {
		t.Errorf("component invocations after failure = %d, want 0", got)
	}
	if got := countKind(doc, KindImportStatement); got != 0 {
		t.Errorf("import statements after failure = %d, want 0", got)
	}
	if len(tr.Imports()) != 0 {
		t.Errorf("Imports() after failure = %d, want 0", len(tr.Imports()))
	}
}

func TestTransform_ThemeOptionOverridesDefault(t *testing.T) {
	var seen []string
	synth := synthFunc(func(_ context.Context, _ string, opts snippet.Options) (snippet.Datum, error) {
		seen = append(seen, opts.Theme)
		return snippet.Datum{Lang: opts.Lang}, nil
	})
	src := []byte("```go theme:nord\ncode\n```\n")
	tr := NewTransformer(context.Background(), Config{
		Synth:        synth,
		Component:    "CodeSnippet",
		Module:       "@/components/code-snippet",
		DefaultTheme: "github",
		Jobs:         1,
	})
	doc := goldmark.New().Parser().Parse(text.NewReader(src)).(*ast.Document)
	tr.Transform(doc, text.NewReader(src), nil)
	if tr.Err() != nil {
		t.Fatalf("transform failed: %v", tr.Err())
	}
	if len(seen) != 1 || seen[0] != "nord" {
		t.Errorf("themes seen = %v, want [nord]", seen)
	}
}

type synthFunc func(ctx context.Context, code string, opts snippet.Options) (snippet.Datum, error)

func (f synthFunc) Synthesize(ctx context.Context, code string, opts snippet.Options) (snippet.Datum, error) {
	return f(ctx, code, opts)
}
