package rewrite

import (
	"github.com/yuin/goldmark/ast"

	"mdxc/internal/literal"
)

// ComponentAttr is a named attribute whose value is an embeddable
// expression fragment.
type ComponentAttr struct {
	Name  string
	Value literal.Fragment
}

// ComponentInvocation is a synthesized component call that replaces a
// fenced code block in the document tree. It has no children: everything
// the component needs travels through attribute fragments.
type ComponentInvocation struct {
	ast.BaseBlock
	Name  string
	Attrs []ComponentAttr
}

// KindComponentInvocation distinguishes synthesized component calls.
var KindComponentInvocation = ast.NewNodeKind("ComponentInvocation")

func (n *ComponentInvocation) Kind() ast.NodeKind {
	return KindComponentInvocation
}

func (n *ComponentInvocation) Dump(source []byte, level int) {
	m := map[string]string{"Name": n.Name}
	for _, a := range n.Attrs {
		m[a.Name] = a.Value.Kind().String()
	}
	ast.DumpHelper(n, source, level, m, nil)
}

// ImportStatement carries a hoisted module import. The rewriter injects at
// most one per document, at the root, ahead of every other node.
type ImportStatement struct {
	ast.BaseBlock
	Decl literal.Fragment
}

// KindImportStatement distinguishes injected import declarations.
var KindImportStatement = ast.NewNodeKind("ImportStatement")

func (n *ImportStatement) Kind() ast.NodeKind {
	return KindImportStatement
}

func (n *ImportStatement) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Decl": n.Decl.JS()}, nil)
}
