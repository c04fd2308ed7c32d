// Package dom holds helpers shared by the document tree adapters in
// dom/xmlnode and dom/htmlnode.
package dom

import (
	"slices"
	"strings"

	"cssq/css"
)

// Element is a css.Node able to describe itself in reports, e.g. "p#intro.note".
type Element interface {
	css.Node
	String() string
}

// MatchAttr applies an attribute operator to an attribute value. present
// tells whether the attribute exists at all.
func MatchAttr(actual string, present bool, op css.AttrOp, value string) bool {
	if !present {
		return false
	}
	switch op {
	case css.OpEquals:
		return actual == value
	case css.OpContains:
		return slices.Contains(strings.Fields(actual), value)
	case css.OpStartsWith:
		return strings.HasPrefix(actual, value)
	default:
		return true
	}
}

// HasClass reports whether a whitespace separated class attribute lists name.
func HasClass(classAttr, name string) bool {
	return slices.Contains(strings.Fields(classAttr), name)
}

// AttrLookup returns an attribute value and whether it is present.
type AttrLookup func(name string) (string, bool)

// InputState tests form state of an element. "required" holds when the
// element carries a required attribute, "invalid" when it is required and
// has no value, or is explicitly marked with aria-invalid="true".
func InputState(attr AttrLookup, state string) bool {
	_, required := attr("required")
	switch state {
	case "required":
		return required
	case "invalid":
		if v, ok := attr("aria-invalid"); ok && v == "true" {
			return true
		}
		v, _ := attr("value")
		return required && strings.TrimSpace(v) == ""
	}
	return false
}

// Label formats an element for reports: tag name followed by id and classes.
func Label(tag string, attr AttrLookup) string {
	var sb strings.Builder
	sb.WriteString(tag)
	if id, ok := attr("id"); ok && id != "" {
		sb.WriteByte('#')
		sb.WriteString(id)
	}
	if class, ok := attr("class"); ok {
		for _, c := range strings.Fields(class) {
			sb.WriteByte('.')
			sb.WriteString(c)
		}
	}
	return sb.String()
}
