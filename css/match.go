package css

import (
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Node is the view of a document element used for matching. The document
// tree is owned by the caller; the matcher never modifies it and does not
// keep nodes past a single Matches call.
//
// Navigation methods return nil (an untyped nil interface, not a typed nil
// pointer) when there is no such node. Implementations must be comparable,
// typically pointer based, so frontier sets can be deduplicated.
type Node interface {
	IsElement(name string) bool
	IsClass(name string) bool
	IsID(name string) bool
	HasAttribute(name string, op AttrOp, value string) bool
	// IsNthChild reports 1-based position among element siblings.
	IsNthChild(n int) bool
	// IsInputValue tests form state such as "required" or "invalid".
	IsInputValue(state string) bool
	Parent() Node
	Children() []Node
	PrevSibling() Node
	NextSibling() Node
}

// Matcher decides whether selector lists apply to nodes. It is safe for
// concurrent use.
type Matcher struct {
	log      *zap.Logger
	opts     options
	reported sync.Map // unknown pseudo-function names already reported
}

// NewMatcher creates a matcher.
func NewMatcher(log *zap.Logger, opts ...Option) *Matcher {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Matcher{log: log.Named("css-matcher")}
	for _, o := range opts {
		o(&m.opts)
	}
	return m
}

// Matches reports whether list applies to node. The last selector must
// match node itself; every preceding selector must match some node reached
// from the current frontier through its combinator.
func (m *Matcher) Matches(list SelectorList, node Node) bool {
	sels := list.selectors
	if len(sels) == 0 || node == nil {
		return false
	}
	last := len(sels) - 1
	if !m.MatchSelector(sels[last], node) {
		return false
	}

	frontier := []Node{node}
	for i := last - 1; i >= 0; i-- {
		frontier = m.step(sels[i], frontier)
		if len(frontier) == 0 {
			return false
		}
	}
	return true
}

// step computes the next frontier: nodes related to the current frontier
// through sel's combinator which match sel. Each node is examined at most
// once per step.
func (m *Matcher) step(sel Selector, frontier []Node) []Node {
	var next []Node
	seen := make(map[Node]struct{})

	walk := func(start Node, advance func(Node) Node, all bool) {
		for n := start; n != nil; n = advance(n) {
			if _, ok := seen[n]; ok {
				// everything further along was covered when n was first seen
				return
			}
			seen[n] = struct{}{}
			if m.MatchSelector(sel, n) {
				next = append(next, n)
			}
			if !all {
				return
			}
		}
	}
	parent := func(n Node) Node { return n.Parent() }
	prev := func(n Node) Node { return n.PrevSibling() }

	for _, f := range frontier {
		switch sel.Next() {
		case CombDescendant:
			walk(f.Parent(), parent, true)
		case CombChild:
			walk(f.Parent(), parent, false)
		case CombSibling:
			walk(f.PrevSibling(), prev, false)
		case CombPreceding:
			walk(f.PrevSibling(), prev, true)
		default:
			// only the last selector of a chain may lack a combinator
			return nil
		}
	}
	return next
}

// MatchSelector tests a single compound selector against node. All criteria
// must hold.
func (m *Matcher) MatchSelector(sel Selector, node Node) bool {
	for _, p := range sel.parts {
		switch v := p.(type) {
		case NamePart:
			if v.Element != "" && v.Element != "*" && !node.IsElement(v.Element) {
				return false
			}
			for _, id := range v.IDs {
				if !node.IsID(id) {
					return false
				}
			}
			for _, class := range v.Classes {
				if !node.IsClass(class) {
					return false
				}
			}
		case ExprPart:
			if !node.HasAttribute(v.Attr, v.Op, v.Value) {
				return false
			}
		case FuncPart:
			if !m.matchFunc(v.Name, node) {
				return false
			}
		}
	}
	return true
}

func (m *Matcher) matchFunc(name string, node Node) bool {
	switch name {
	case "required", "invalid":
		return node.IsInputValue(name)
	case "first-child":
		return node.IsNthChild(1)
	case "last-child":
		return node.Parent() != nil && node.NextSibling() == nil
	case "only-child":
		return node.IsNthChild(1) && node.NextSibling() == nil
	case "empty":
		return len(node.Children()) == 0
	}
	if arg, ok := funcArgument(name, "nth-child"); ok {
		if n, err := strconv.Atoi(arg); err == nil {
			return node.IsNthChild(n)
		}
	}
	m.unknown(name)
	return false
}

// funcArgument extracts the argument of "fn(arg)".
func funcArgument(name, fn string) (string, bool) {
	rest, ok := strings.CutPrefix(name, fn+"(")
	if !ok {
		return "", false
	}
	arg, ok := strings.CutSuffix(rest, ")")
	if !ok {
		return "", false
	}
	return strings.TrimSpace(arg), true
}

func (m *Matcher) unknown(name string) {
	if _, loaded := m.reported.LoadOrStore(name, struct{}{}); loaded {
		return
	}
	m.log.Debug("Selector function not handled", zap.String("function", name))
	if m.opts.debug && m.opts.sink != nil {
		m.opts.sink(Diagnostic{Kind: UnknownPseudoFunction, Offset: -1, Detail: name})
	}
}
