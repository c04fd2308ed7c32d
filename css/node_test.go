package css

import (
	"slices"
	"strings"
)

// testNode is a minimal document tree used by the tests of this package.
type testNode struct {
	name     string
	id       string
	classes  []string
	attrs    map[string]string
	states   []string
	parent   *testNode
	children []*testNode
	visits   int // number of IsElement calls
}

type nodeOpt func(*testNode)

func withID(id string) nodeOpt { return func(n *testNode) { n.id = id } }

func withClass(classes ...string) nodeOpt {
	return func(n *testNode) { n.classes = append(n.classes, classes...) }
}

func withAttr(name, value string) nodeOpt {
	return func(n *testNode) {
		if n.attrs == nil {
			n.attrs = make(map[string]string)
		}
		n.attrs[name] = value
	}
}

func withState(states ...string) nodeOpt {
	return func(n *testNode) { n.states = append(n.states, states...) }
}

func withChildren(children ...*testNode) nodeOpt {
	return func(n *testNode) {
		for _, c := range children {
			c.parent = n
			n.children = append(n.children, c)
		}
	}
}

func el(name string, opts ...nodeOpt) *testNode {
	n := &testNode{name: name}
	for _, o := range opts {
		o(n)
	}
	return n
}

// find returns the first node in document order satisfying pred.
func (n *testNode) find(pred func(*testNode) bool) *testNode {
	if pred(n) {
		return n
	}
	for _, c := range n.children {
		if f := c.find(pred); f != nil {
			return f
		}
	}
	return nil
}

func (n *testNode) byName(name string) *testNode {
	return n.find(func(t *testNode) bool { return t.name == name })
}

func (n *testNode) byID(id string) *testNode {
	return n.find(func(t *testNode) bool { return t.id == id })
}

func (n *testNode) walk(fn func(*testNode)) {
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}

func (n *testNode) IsElement(name string) bool {
	n.visits++
	return n.name == name
}

func (n *testNode) IsClass(name string) bool { return slices.Contains(n.classes, name) }

func (n *testNode) IsID(name string) bool { return n.id != "" && n.id == name }

func (n *testNode) HasAttribute(name string, op AttrOp, value string) bool {
	v, ok := n.attrs[name]
	if !ok {
		return false
	}
	switch op {
	case OpEquals:
		return v == value
	case OpContains:
		return slices.Contains(strings.Fields(v), value)
	case OpStartsWith:
		return strings.HasPrefix(v, value)
	default:
		return true
	}
}

func (n *testNode) index() int {
	if n.parent == nil {
		return 0
	}
	return slices.Index(n.parent.children, n)
}

func (n *testNode) IsNthChild(i int) bool {
	return n.parent != nil && n.index()+1 == i
}

func (n *testNode) IsInputValue(state string) bool { return slices.Contains(n.states, state) }

func (n *testNode) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *testNode) Children() []Node {
	out := make([]Node, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c)
	}
	return out
}

func (n *testNode) PrevSibling() Node {
	if i := n.index(); n.parent != nil && i > 0 {
		return n.parent.children[i-1]
	}
	return nil
}

func (n *testNode) NextSibling() Node {
	if i := n.index(); n.parent != nil && i < len(n.parent.children)-1 {
		return n.parent.children[i+1]
	}
	return nil
}
