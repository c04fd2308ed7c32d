package css

import "slices"

// Match returns every entry whose selector list applies to node, ordered by
// ascending specificity. Entries of equal specificity keep store order.
func (s *Store) Match(m *Matcher, node Node) []*StyleData {
	var out []*StyleData
	for _, d := range s.entries {
		if m.Matches(d.list, node) {
			out = append(out, d)
		}
	}
	slices.SortStableFunc(out, func(a, b *StyleData) int {
		return a.Specificity().Compare(b.Specificity())
	})
	return out
}

// Cascade picks one declaration per property out of matched entries.
// Important declarations win over normal ones, then higher specificity, then
// later source position. Properties are returned in order of first
// appearance.
func Cascade(matched []*StyleData) []Declaration {
	type candidate struct {
		decl  Declaration
		spec  Specificity
		order int
	}
	var names []string
	winners := make(map[string]candidate)

	for _, d := range matched {
		spec := d.Specificity()
		for i, decl := range d.decls {
			c := candidate{decl: decl, spec: spec, order: d.order[i]}
			w, ok := winners[decl.Property]
			if !ok {
				names = append(names, decl.Property)
				winners[decl.Property] = c
				continue
			}
			if overrides(c.decl.Important, c.spec, c.order, w.decl.Important, w.spec, w.order) {
				winners[decl.Property] = c
			}
		}
	}

	out := make([]Declaration, 0, len(names))
	for _, name := range names {
		out = append(out, winners[name].decl)
	}
	return out
}

func overrides(imp bool, spec Specificity, order int, curImp bool, curSpec Specificity, curOrder int) bool {
	if imp != curImp {
		return imp
	}
	if c := spec.Compare(curSpec); c != 0 {
		return c > 0
	}
	return order > curOrder
}
