// Package xmlnode exposes beevik/etree documents (FB2, XHTML, any XML) to the
// css matcher.
package xmlnode

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"

	"cssq/css"
	"cssq/dom"
	"cssq/source"
)

// Node wraps an element. The zero Node is not valid, use New.
type Node struct {
	el *etree.Element
}

var _ dom.Element = Node{}

// New wraps el, returning nil for a nil element.
func New(el *etree.Element) css.Node {
	if el == nil {
		return nil
	}
	return Node{el: el}
}

// Element returns the wrapped element.
func (n Node) Element() *etree.Element { return n.el }

func (n Node) attr(name string) (string, bool) {
	a := n.el.SelectAttr(name)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

func (n Node) IsElement(name string) bool { return n.el.Tag == name || n.el.FullTag() == name }

func (n Node) IsClass(name string) bool {
	v, _ := n.attr("class")
	return dom.HasClass(v, name)
}

func (n Node) IsID(name string) bool {
	v, ok := n.attr("id")
	return ok && v == name
}

func (n Node) HasAttribute(name string, op css.AttrOp, value string) bool {
	v, ok := n.attr(name)
	return dom.MatchAttr(v, ok, op, value)
}

func (n Node) IsNthChild(i int) bool {
	siblings, idx := n.position()
	return siblings != nil && idx+1 == i
}

func (n Node) IsInputValue(state string) bool { return dom.InputState(n.attr, state) }

// parent returns the parent element, nil at the document level.
func (n Node) parent() *etree.Element {
	p := n.el.Parent()
	if p == nil || p.Tag == "" {
		return nil
	}
	return p
}

// position returns element siblings including n and n's index among them.
func (n Node) position() ([]*etree.Element, int) {
	p := n.parent()
	if p == nil {
		return nil, 0
	}
	siblings := p.ChildElements()
	return siblings, slices.Index(siblings, n.el)
}

func (n Node) Parent() css.Node { return New(n.parent()) }

func (n Node) Children() []css.Node {
	children := n.el.ChildElements()
	out := make([]css.Node, 0, len(children))
	for _, c := range children {
		out = append(out, Node{el: c})
	}
	return out
}

func (n Node) PrevSibling() css.Node {
	siblings, idx := n.position()
	if idx <= 0 {
		return nil
	}
	return Node{el: siblings[idx-1]}
}

func (n Node) NextSibling() css.Node {
	siblings, idx := n.position()
	if siblings == nil || idx < 0 || idx >= len(siblings)-1 {
		return nil
	}
	return Node{el: siblings[idx+1]}
}

func (n Node) String() string { return dom.Label(n.el.FullTag(), n.attr) }

// Walk calls fn for root and all its descendant elements in document order.
func Walk(root *etree.Element, fn func(css.Node)) {
	if root == nil {
		return
	}
	fn(Node{el: root})
	for _, c := range root.ChildElements() {
		Walk(c, fn)
	}
}

// Load reads an XML document. Declared encodings are honored and malformed
// markup is tolerated where possible.
func Load(r io.Reader) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		ValidateInput: false,
		Permissive:    true,
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to read XML document: %w", err)
	}
	if doc.Root() == nil {
		return nil, errors.New("document has no root element")
	}
	return doc, nil
}

// StyleElements returns stylesheets embedded in doc: FB2 <stylesheet> and
// XHTML <style> elements whose type is empty or "text/css". name prefixes
// the returned sheet names.
func StyleElements(doc *etree.Document, name string) []source.Sheet {
	var sheets []source.Sheet
	Walk(doc.Root(), func(cn css.Node) {
		el := cn.(Node).el
		if el.Tag != "stylesheet" && el.Tag != "style" {
			return
		}
		if t := el.SelectAttrValue("type", ""); t != "" && t != "text/css" {
			return
		}
		sheets = append(sheets, source.Sheet{
			Name: fmt.Sprintf("%s<%s #%d>", name, el.Tag, len(sheets)+1),
			Data: []byte(el.Text()),
		})
	})
	return sheets
}
