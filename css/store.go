package css

import "slices"

// StyleData accumulates the declarations of every rule sharing one selector
// list. Declarations keep source order and duplicates are preserved.
type StyleData struct {
	list  SelectorList
	decls []Declaration
	order []int // global source position of each declaration
	seq   *int  // owning store's declaration counter
}

// SelectorList returns the key of this entry.
func (d *StyleData) SelectorList() SelectorList {
	return d.list
}

// Declarations returns a copy of the accumulated declarations.
func (d *StyleData) Declarations() []Declaration {
	return slices.Clone(d.decls)
}

// Len returns number of declarations.
func (d *StyleData) Len() int {
	return len(d.decls)
}

// Add appends declarations in order. Entries created outside a Store keep
// their own declaration counter.
func (d *StyleData) Add(decls ...Declaration) {
	if d.seq == nil {
		d.seq = new(int)
	}
	for _, decl := range decls {
		*d.seq++
		d.decls = append(d.decls, decl)
		d.order = append(d.order, *d.seq)
	}
}

// Specificity of the entry's selector list, computed on every call.
func (d *StyleData) Specificity() Specificity {
	return d.list.Specificity()
}

// Store maps selector lists, by structural equality, to their StyleData.
// Store is not safe for concurrent modification; once built it may be read
// by any number of goroutines.
type Store struct {
	entries []*StyleData // sorted by SelectorList.Compare
	seq     int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) find(list SelectorList) (int, bool) {
	return slices.BinarySearchFunc(s.entries, list, func(d *StyleData, l SelectorList) int {
		return d.list.Compare(l)
	})
}

// Upsert returns the entry for list, creating an empty one when absent.
func (s *Store) Upsert(list SelectorList) *StyleData {
	i, found := s.find(list)
	if found {
		return s.entries[i]
	}
	d := &StyleData{list: NewSelectorList(list.selectors...), seq: &s.seq}
	s.entries = slices.Insert(s.entries, i, d)
	return d
}

// Get returns the entry for list. Asking for a list which was never inserted
// is a programming error reported as a KeyNotFound *Diagnostic, which
// matches ErrKeyNotFound with errors.Is.
func (s *Store) Get(list SelectorList) (*StyleData, error) {
	i, found := s.find(list)
	if !found {
		return nil, &Diagnostic{Kind: KeyNotFound, Offset: -1, Detail: list.String()}
	}
	return s.entries[i], nil
}

// List returns all keys.
func (s *Store) List() []SelectorList {
	out := make([]SelectorList, 0, len(s.entries))
	for _, d := range s.entries {
		out = append(out, d.list)
	}
	return out
}

// Entries returns all entries in key order.
func (s *Store) Entries() []*StyleData {
	return slices.Clone(s.entries)
}

// Len returns number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Clear empties the store so it can be reused for another load.
func (s *Store) Clear() {
	s.entries = nil
	s.seq = 0
}
