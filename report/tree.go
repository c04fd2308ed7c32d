// Package report presents parsed stylesheets and match results.
package report

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"

	"cssq/css"
)

// TreeOption configures Tree.
type TreeOption func(*treeOptions)

type treeOptions struct {
	matchedOnly bool
}

// MatchedOnly prunes subtrees without a single matching element.
func MatchedOnly(on bool) TreeOption {
	return func(o *treeOptions) { o.matchedOnly = on }
}

// Tree prints document structure below root. Every element lists matching
// rules with their specificity in ascending precedence followed by the
// cascaded declarations:
//
//	html
//	└── body
//	    └── p.note
//	        ├── [0,0,1,0]  .note
//	        ├── [0,1,1,0]  #main .note
//	        └── = color: green
func Tree(root css.Node, store *css.Store, m *css.Matcher, opts ...TreeOption) treeprint.Tree {
	var o treeOptions
	for _, opt := range opts {
		opt(&o)
	}
	e := collect(root, store, m, &o)
	if e == nil {
		return treeprint.New()
	}
	tree := treeprint.NewWithRoot(e.label)
	e.emit(tree)
	return tree
}

type element struct {
	label    string
	matched  []*css.StyleData
	children []*element
}

// collect returns nil for pruned subtrees.
func collect(node css.Node, store *css.Store, m *css.Matcher, o *treeOptions) *element {
	if node == nil {
		return nil
	}
	e := &element{label: label(node), matched: store.Match(m, node)}
	for _, c := range node.Children() {
		if ce := collect(c, store, m, o); ce != nil {
			e.children = append(e.children, ce)
		}
	}
	if o.matchedOnly && len(e.matched) == 0 && len(e.children) == 0 {
		return nil
	}
	return e
}

func (e *element) emit(t treeprint.Tree) {
	for _, d := range e.matched {
		t.AddMetaNode(d.Specificity().String(), d.SelectorList().String())
	}
	if decls := css.Cascade(e.matched); len(decls) > 0 {
		parts := make([]string, 0, len(decls))
		for _, d := range decls {
			parts = append(parts, d.String())
		}
		t.AddNode("= " + strings.Join(parts, "; "))
	}
	for _, c := range e.children {
		c.emit(t.AddBranch(c.label))
	}
}

func label(n css.Node) string {
	if s, ok := n.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", n)
}
