package css

import (
	"cmp"
	"fmt"
)

// Specificity is the precedence weight of a selector list. Tiers are compared
// lexicographically and never summed into a single number.
type Specificity struct {
	Inline   int // reserved for style attributes, never set by selectors
	IDs      int
	Classes  int // classes, attribute expressions and pseudo-functions
	Elements int
}

// Compare returns -1, 0 or +1.
func (s Specificity) Compare(o Specificity) int {
	if c := cmp.Compare(s.Inline, o.Inline); c != 0 {
		return c
	}
	if c := cmp.Compare(s.IDs, o.IDs); c != 0 {
		return c
	}
	if c := cmp.Compare(s.Classes, o.Classes); c != 0 {
		return c
	}
	return cmp.Compare(s.Elements, o.Elements)
}

// Less reports whether s has lower precedence than o.
func (s Specificity) Less(o Specificity) bool {
	return s.Compare(o) < 0
}

func (s Specificity) add(o Specificity) Specificity {
	return Specificity{
		Inline:   s.Inline + o.Inline,
		IDs:      s.IDs + o.IDs,
		Classes:  s.Classes + o.Classes,
		Elements: s.Elements + o.Elements,
	}
}

func (s Specificity) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", s.Inline, s.IDs, s.Classes, s.Elements)
}

// Specificity of a single compound selector.
func (s Selector) Specificity() Specificity {
	var sp Specificity
	for _, p := range s.parts {
		switch v := p.(type) {
		case NamePart:
			if v.Element != "" && v.Element != "*" {
				sp.Elements++
			}
			sp.IDs += len(v.IDs)
			sp.Classes += len(v.Classes)
		case ExprPart, FuncPart:
			sp.Classes++
		}
	}
	return sp
}

// Specificity sums the weight of every compound selector in the chain.
func (l SelectorList) Specificity() Specificity {
	var sp Specificity
	for _, s := range l.selectors {
		sp = sp.add(s.Specificity())
	}
	return sp
}
