package css

import (
	"cmp"
	"slices"
	"strings"
)

// AttrOp is the operator of an attribute expression.
type AttrOp int

const (
	OpNone       AttrOp = iota // [attr]
	OpEquals                   // [attr="v"]
	OpContains                 // [attr~="v"]
	OpStartsWith               // [attr|="v"]
)

// String returns the CSS spelling of the operator.
func (op AttrOp) String() string {
	switch op {
	case OpEquals:
		return "="
	case OpContains:
		return "~="
	case OpStartsWith:
		return "|="
	default:
		return ""
	}
}

func (op AttrOp) name() string {
	switch op {
	case OpEquals:
		return "equals"
	case OpContains:
		return "contains"
	case OpStartsWith:
		return "starts-with"
	default:
		return "none"
	}
}

// Combinator links a compound selector to the next one in a chain.
type Combinator int

const (
	CombNone       Combinator = iota // last compound in a chain
	CombDescendant                   // "a b"
	CombChild                        // "a > b"
	CombSibling                      // "a + b"
	CombPreceding                    // "a ~ b"
)

// String returns the separator used when printing a chain.
func (c Combinator) String() string {
	switch c {
	case CombDescendant:
		return " "
	case CombChild:
		return " > "
	case CombSibling:
		return " + "
	case CombPreceding:
		return " ~ "
	default:
		return ""
	}
}

func (c Combinator) name() string {
	switch c {
	case CombDescendant:
		return "descendant"
	case CombChild:
		return "child"
	case CombSibling:
		return "sibling"
	case CombPreceding:
		return "preceding"
	default:
		return "none"
	}
}

// PartKind identifies the variant of a Part. Kinds are ordered, parts of
// different kinds compare by kind.
type PartKind int

const (
	KindName PartKind = iota
	KindExpr
	KindFunc
)

// Part is one piece of a compound selector. The set of implementations is
// closed: NamePart, ExprPart and FuncPart.
type Part interface {
	Kind() PartKind
	String() string
	debug(sb *strings.Builder)
	sealed()
}

// NamePart holds element, id and class names of a compound selector together
// with the combinator to the next compound.
type NamePart struct {
	Element string
	IDs     []string
	Classes []string
	Next    Combinator
}

// ExprPart is a single attribute test.
type ExprPart struct {
	Attr  string
	Op    AttrOp
	Value string
}

// FuncPart is a pseudo-function, e.g. "nth-child(2)" or "required".
type FuncPart struct {
	Name string
}

func (NamePart) Kind() PartKind { return KindName }
func (ExprPart) Kind() PartKind { return KindExpr }
func (FuncPart) Kind() PartKind { return KindFunc }

func (NamePart) sealed() {}
func (ExprPart) sealed() {}
func (FuncPart) sealed() {}

func (p NamePart) String() string {
	var sb strings.Builder
	sb.WriteString(p.Element)
	for _, id := range p.IDs {
		sb.WriteByte('#')
		sb.WriteString(id)
	}
	for _, c := range p.Classes {
		sb.WriteByte('.')
		sb.WriteString(c)
	}
	return sb.String()
}

func (p ExprPart) String() string {
	if p.Op == OpNone {
		return "[" + p.Attr + "]"
	}
	return "[" + p.Attr + p.Op.String() + `"` + p.Value + `"]`
}

func (p FuncPart) String() string {
	return ":" + p.Name
}

func (p NamePart) debug(sb *strings.Builder) {
	sb.WriteString("[name=")
	sb.WriteString(p.Element)
	sb.WriteString(",ids=")
	writeDebugList(sb, p.IDs)
	sb.WriteString(",classes=")
	writeDebugList(sb, p.Classes)
	sb.WriteString(",next=")
	sb.WriteString(p.Next.name())
	sb.WriteByte(']')
}

func (p ExprPart) debug(sb *strings.Builder) {
	sb.WriteString("[expr=[id=")
	sb.WriteString(p.Attr)
	sb.WriteString(",op=")
	sb.WriteString(p.Op.name())
	sb.WriteString(",value=")
	sb.WriteString(p.Value)
	sb.WriteString("]]")
}

func (p FuncPart) debug(sb *strings.Builder) {
	sb.WriteString("[fn=")
	sb.WriteString(p.Name)
	sb.WriteByte(']')
}

func writeDebugList(sb *strings.Builder, items []string) {
	sb.WriteByte('[')
	sb.WriteString(strings.Join(items, ","))
	sb.WriteByte(']')
}

// ComparePart orders parts by kind and then field by field. It returns -1, 0
// or +1.
func ComparePart(a, b Part) int {
	if ka, kb := a.Kind(), b.Kind(); ka != kb {
		return cmp.Compare(ka, kb)
	}
	switch pa := a.(type) {
	case NamePart:
		pb := b.(NamePart)
		if c := strings.Compare(pa.Element, pb.Element); c != 0 {
			return c
		}
		if c := slices.Compare(pa.IDs, pb.IDs); c != 0 {
			return c
		}
		if c := slices.Compare(pa.Classes, pb.Classes); c != 0 {
			return c
		}
		return cmp.Compare(pa.Next, pb.Next)
	case ExprPart:
		pb := b.(ExprPart)
		if c := strings.Compare(pa.Attr, pb.Attr); c != 0 {
			return c
		}
		if c := cmp.Compare(pa.Op, pb.Op); c != 0 {
			return c
		}
		return strings.Compare(pa.Value, pb.Value)
	case FuncPart:
		return strings.Compare(pa.Name, b.(FuncPart).Name)
	}
	panic("css: unknown selector part")
}

// Selector is one compound selector: an ordered, immutable sequence of parts.
type Selector struct {
	parts []Part
}

// NewSelector builds a selector from parts. Slices inside parts are copied
// so the selector never shares state with the caller.
func NewSelector(parts ...Part) Selector {
	s := Selector{parts: make([]Part, 0, len(parts))}
	for _, p := range parts {
		if np, ok := p.(NamePart); ok {
			np.IDs = slices.Clone(np.IDs)
			np.Classes = slices.Clone(np.Classes)
			p = np
		}
		s.parts = append(s.parts, p)
	}
	return s
}

// Parts returns a copy of the parts in construction order.
func (s Selector) Parts() []Part {
	return slices.Clone(s.parts)
}

func (s Selector) name() (NamePart, bool) {
	for _, p := range s.parts {
		if np, ok := p.(NamePart); ok {
			return np, true
		}
	}
	return NamePart{}, false
}

// Element returns the element name, empty when the selector has none.
func (s Selector) Element() string {
	np, _ := s.name()
	return np.Element
}

// IDs returns the id names of the selector.
func (s Selector) IDs() []string {
	np, _ := s.name()
	return slices.Clone(np.IDs)
}

// Classes returns the class names of the selector.
func (s Selector) Classes() []string {
	np, _ := s.name()
	return slices.Clone(np.Classes)
}

// Next returns the combinator to the following compound selector.
func (s Selector) Next() Combinator {
	np, _ := s.name()
	return np.Next
}

// Exprs returns attribute expressions in source order.
func (s Selector) Exprs() []ExprPart {
	var out []ExprPart
	for _, p := range s.parts {
		if e, ok := p.(ExprPart); ok {
			out = append(out, e)
		}
	}
	return out
}

// Funcs returns pseudo-functions in source order.
func (s Selector) Funcs() []FuncPart {
	var out []FuncPart
	for _, p := range s.parts {
		if f, ok := p.(FuncPart); ok {
			out = append(out, f)
		}
	}
	return out
}

// Compare orders selectors by number of parts, then part by part.
func (s Selector) Compare(o Selector) int {
	if c := cmp.Compare(len(s.parts), len(o.parts)); c != 0 {
		return c
	}
	for i := range s.parts {
		if c := ComparePart(s.parts[i], o.parts[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Equal reports structural equality.
func (s Selector) Equal(o Selector) bool {
	return s.Compare(o) == 0
}

// String prints the compound selector without its combinator.
func (s Selector) String() string {
	var sb strings.Builder
	for _, p := range s.parts {
		sb.WriteString(p.String())
	}
	return sb.String()
}

// DebugString prints every part with labelled fields.
func (s Selector) DebugString() string {
	var sb strings.Builder
	for _, p := range s.parts {
		p.debug(&sb)
	}
	return sb.String()
}

// SelectorList is a chain of compound selectors read left to right, the last
// entry being the subject tested against a node.
type SelectorList struct {
	selectors []Selector
}

// NewSelectorList builds a chain from compound selectors.
func NewSelectorList(selectors ...Selector) SelectorList {
	return SelectorList{selectors: slices.Clone(selectors)}
}

// Selectors returns a copy of the chain.
func (l SelectorList) Selectors() []Selector {
	return slices.Clone(l.selectors)
}

// Len returns number of compound selectors in the chain.
func (l SelectorList) Len() int {
	return len(l.selectors)
}

// Subject returns the last compound selector.
func (l SelectorList) Subject() (Selector, bool) {
	if len(l.selectors) == 0 {
		return Selector{}, false
	}
	return l.selectors[len(l.selectors)-1], true
}

// Compare orders lists by length, then selector by selector.
func (l SelectorList) Compare(o SelectorList) int {
	if c := cmp.Compare(len(l.selectors), len(o.selectors)); c != 0 {
		return c
	}
	for i := range l.selectors {
		if c := l.selectors[i].Compare(o.selectors[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Equal reports structural equality.
func (l SelectorList) Equal(o SelectorList) bool {
	return l.Compare(o) == 0
}

// String prints the chain using CSS combinator syntax.
func (l SelectorList) String() string {
	var sb strings.Builder
	for i, s := range l.selectors {
		sb.WriteString(s.String())
		if i < len(l.selectors)-1 {
			next := s.Next()
			if next == CombNone {
				next = CombDescendant
			}
			sb.WriteString(next.String())
		}
	}
	return sb.String()
}

// DebugString prints the chain in bracketed form, one group per selector.
func (l SelectorList) DebugString() string {
	parts := make([]string, 0, len(l.selectors))
	for _, s := range l.selectors {
		parts = append(parts, s.DebugString())
	}
	return strings.Join(parts, " ")
}
