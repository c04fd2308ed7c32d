// Package css parses CSS-like stylesheets into a Store of selector lists and
// declarations and matches selector lists against externally owned document
// trees.
//
// Supported selectors are element, #id, .class, [attr], [attr="v"],
// [attr~="v"], [attr|="v"] and a small set of pseudo-functions (nth-child(n),
// first-child, last-child, only-child, empty, required, invalid) joined by
// descendant, ">", "+" and "~" combinators. Declaration values are kept as
// opaque strings; at-rules, media queries and cascade origins are not
// supported.
//
// Typical use is to build a Store once:
//
//	store := css.NewStore()
//	css.NewParser(log).Parse(store, data, "site.css")
//
// and then query it for every document node:
//
//	m := css.NewMatcher(log)
//	decls := css.Cascade(store.Match(m, node))
package css
