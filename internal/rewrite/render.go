package rewrite

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// NodeRenderer emits component-invocation syntax for the synthesized
// nodes. Import statements render nothing inline: the driver hoists them
// into the module prologue, ahead of the default export.
type NodeRenderer struct{}

var _ renderer.NodeRenderer = (*NodeRenderer)(nil)

func (r *NodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindComponentInvocation, r.renderComponent)
	reg.Register(KindImportStatement, r.renderImport)
}

func (r *NodeRenderer) renderComponent(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ComponentInvocation)
	_, _ = w.WriteString("<")
	_, _ = w.WriteString(n.Name)
	for _, attr := range n.Attrs {
		_, _ = w.WriteString(" ")
		_, _ = w.WriteString(attr.Name)
		_, _ = w.WriteString("={")
		_, _ = w.WriteString(attr.Value.JS())
		_, _ = w.WriteString("}")
	}
	_, _ = w.WriteString(" />\n")
	return ast.WalkSkipChildren, nil
}

func (r *NodeRenderer) renderImport(_ util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	return ast.WalkSkipChildren, nil
}
