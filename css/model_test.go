package css

import (
	"slices"
	"testing"
)

func mustList(t *testing.T, text string) SelectorList {
	t.Helper()
	lists, err := ParseSelectors(text)
	if err != nil {
		t.Fatalf("ParseSelectors(%q) error = %v", text, err)
	}
	if len(lists) != 1 {
		t.Fatalf("ParseSelectors(%q) returned %d lists, want 1", text, len(lists))
	}
	return lists[0]
}

func TestComparePart_KindFirst(t *testing.T) {
	name := NamePart{Element: "zzz"}
	expr := ExprPart{Attr: "a"}
	fn := FuncPart{Name: "a"}

	if ComparePart(name, expr) >= 0 {
		t.Error("name part should order before expression part")
	}
	if ComparePart(expr, fn) >= 0 {
		t.Error("expression part should order before function part")
	}
	if ComparePart(fn, name) <= 0 {
		t.Error("function part should order after name part")
	}
}

func TestComparePart_Fields(t *testing.T) {
	tests := []struct {
		name string
		a, b Part
		want int
	}{
		{"same name", NamePart{Element: "p"}, NamePart{Element: "p"}, 0},
		{"element", NamePart{Element: "a"}, NamePart{Element: "b"}, -1},
		{"ids", NamePart{Element: "p", IDs: []string{"x"}}, NamePart{Element: "p"}, 1},
		{"classes", NamePart{Classes: []string{"a", "b"}}, NamePart{Classes: []string{"a", "c"}}, -1},
		{"combinator", NamePart{Element: "p", Next: CombChild}, NamePart{Element: "p", Next: CombDescendant}, 1},
		{"expr attr", ExprPart{Attr: "a"}, ExprPart{Attr: "b"}, -1},
		{"expr op", ExprPart{Attr: "a", Op: OpEquals}, ExprPart{Attr: "a", Op: OpContains}, -1},
		{"expr value", ExprPart{Attr: "a", Op: OpEquals, Value: "y"}, ExprPart{Attr: "a", Op: OpEquals, Value: "x"}, 1},
		{"func", FuncPart{Name: "required"}, FuncPart{Name: "required"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComparePart(tt.a, tt.b); got != tt.want {
				t.Errorf("ComparePart() = %d, want %d", got, tt.want)
			}
			if got := ComparePart(tt.b, tt.a); got != -tt.want {
				t.Errorf("reversed ComparePart() = %d, want %d", got, -tt.want)
			}
		})
	}
}

func TestSelectorList_CompareIsTotalOrder(t *testing.T) {
	texts := []string{
		"div", "div.a", "div.a.b", "div#x", "#x", ".a", "p", "body div", "body > div",
		"body + div", "body ~ div", "a[href]", `a[href="x"]`, `a[href~="x"]`, "a:first-child",
		"html body div", "*", "ul li:nth-child(2)",
	}
	lists := make([]SelectorList, 0, len(texts))
	for _, text := range texts {
		lists = append(lists, mustList(t, text))
	}

	for i, a := range lists {
		if a.Compare(a) != 0 || !a.Equal(a) {
			t.Errorf("%q is not equal to itself", texts[i])
		}
		for j, b := range lists {
			ab, ba := a.Compare(b), b.Compare(a)
			if ab != -ba {
				t.Errorf("Compare(%q, %q) = %d but reverse = %d", texts[i], texts[j], ab, ba)
			}
			if i != j && ab == 0 {
				t.Errorf("%q and %q compare equal", texts[i], texts[j])
			}
			for k, c := range lists {
				if ab < 0 && b.Compare(c) < 0 && a.Compare(c) >= 0 {
					t.Errorf("ordering not transitive for %q < %q < %q", texts[i], texts[j], texts[k])
				}
			}
		}
	}

	sorted := slices.Clone(lists)
	slices.SortFunc(sorted, SelectorList.Compare)
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Compare(sorted[i]) >= 0 {
			t.Errorf("sorted lists out of order at %d: %s, %s", i, sorted[i-1], sorted[i])
		}
	}
}

func TestSelectorList_EqualIgnoresWhitespace(t *testing.T) {
	a := mustList(t, "body  >   div.x")
	b := mustList(t, "body>div.x")
	if !a.Equal(b) {
		t.Errorf("expected %q and %q to be equal", a, b)
	}
}

func TestNewSelector_CopiesSlices(t *testing.T) {
	ids := []string{"a"}
	sel := NewSelector(NamePart{Element: "p", IDs: ids})
	ids[0] = "changed"

	if got := sel.IDs(); len(got) != 1 || got[0] != "a" {
		t.Errorf("IDs() = %v, want [a]", got)
	}

	parts := sel.Parts()
	parts[0] = FuncPart{Name: "x"}
	if sel.Parts()[0].Kind() != KindName {
		t.Error("Parts() exposed internal slice")
	}
}

func TestSelectorList_String(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"div.a", "div.a"},
		{"body   div", "body div"},
		{"ul>li", "ul > li"},
		{"h1+p", "h1 + p"},
		{"h1 ~ p", "h1 ~ p"},
		{`input[type="text"]:required`, `input[type="text"]:required`},
		{"p#x#y.a", "p#x#y.a"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := mustList(t, tt.in).String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
