// Package htmlnode exposes golang.org/x/net/html trees to the css matcher.
// Only element nodes are visible: text, comments and the document node are
// skipped by every navigation method.
package htmlnode

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"

	"cssq/css"
	"cssq/dom"
	"cssq/source"
)

// Node wraps an element node.
type Node struct {
	n *html.Node
}

var _ dom.Element = Node{}

// New wraps n, returning nil unless n is an element.
func New(n *html.Node) css.Node {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	return Node{n: n}
}

// HTML returns the wrapped node.
func (n Node) HTML() *html.Node { return n.n }

func (n Node) attr(name string) (string, bool) {
	for _, a := range n.n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

// IsElement compares tag names ignoring case: x/net/html lower-cases element
// names while selectors keep the case they were written in.
func (n Node) IsElement(name string) bool { return strings.EqualFold(n.n.Data, name) }

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
	if n.n.Parent == nil || n.n.Parent.Type != html.ElementNode {
		return false
	}
	pos := 1
	for s := n.n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			pos++
		}
	}
	return pos == i
}

// IsInputValue tests form state; for a textarea the value is its text.
func (n Node) IsInputValue(state string) bool {
	lookup := n.attr
	if state == "invalid" && n.n.DataAtom == atom.Textarea {
		lookup = func(name string) (string, bool) {
			if name == "value" {
				return textContent(n.n), true
			}
			return n.attr(name)
		}
	}
	return dom.InputState(lookup, state)
}

func (n Node) Parent() css.Node { return New(n.n.Parent) }

func (n Node) Children() []css.Node {
	var out []css.Node
	for c := n.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, Node{n: c})
		}
	}
	return out
}

func (n Node) PrevSibling() css.Node {
	for s := n.n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return Node{n: s}
		}
	}
	return nil
}

func (n Node) NextSibling() css.Node {
	for s := n.n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return Node{n: s}
		}
	}
	return nil
}

func (n Node) String() string { return dom.Label(n.n.Data, n.attr) }

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}

// Walk calls fn for every element below (and including) root in document
// order. root may be the document node.
func Walk(root *html.Node, fn func(css.Node)) {
	if root == nil {
		return
	}
	if root.Type == html.ElementNode {
		fn(Node{n: root})
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, fn)
	}
}

// Load parses an HTML document, converting it to UTF-8 first. contentType
// may carry a charset parameter, otherwise the encoding is sniffed.
func Load(r io.Reader, contentType string) (*html.Node, error) {
	cr, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("unable to detect document encoding: %w", err)
	}
	doc, err := html.Parse(cr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse HTML document: %w", err)
	}
	return doc, nil
}

// StyleElements returns the text of <style> elements with an empty or
// "text/css" type in document order. name prefixes the sheet names.
func StyleElements(doc *html.Node, name string) []source.Sheet {
	var sheets []source.Sheet
	Walk(doc, func(cn css.Node) {
		n := cn.(Node)
		if n.n.DataAtom != atom.Style {
			return
		}
		if t, ok := n.attr("type"); ok && t != "" && !strings.EqualFold(t, "text/css") {
			return
		}
		sheets = append(sheets, source.Sheet{
			Name: fmt.Sprintf("%s<style #%d>", name, len(sheets)+1),
			Data: []byte(textContent(n.n)),
		})
	})
	return sheets
}

// LinkedStylesheets returns href values of <link rel="stylesheet"> elements.
func LinkedStylesheets(doc *html.Node) []string {
	var hrefs []string
	Walk(doc, func(cn css.Node) {
		n := cn.(Node)
		if n.n.DataAtom != atom.Link {
			return
		}
		rel, _ := n.attr("rel")
		href, ok := n.attr("href")
		if ok && href != "" && dom.HasClass(strings.ToLower(rel), "stylesheet") {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}
