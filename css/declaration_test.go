package css

import (
	"testing"

	"github.com/aymerick/douceur/parser"
)

func TestParseDeclarations(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  []Declaration
	}{
		{
			name:  "simple",
			block: "color: red; margin: 0",
			want:  []Declaration{{Property: "color", Value: "red"}, {Property: "margin", Value: "0"}},
		},
		{
			name:  "trailing semicolon and spaces",
			block: "  color :   red  ;  ",
			want:  []Declaration{{Property: "color", Value: "red"}},
		},
		{
			name:  "important",
			block: "color: red !important; width: 1px",
			want:  []Declaration{{Property: "color", Value: "red", Important: true}, {Property: "width", Value: "1px"}},
		},
		{
			name:  "important without space",
			block: "color: red!important",
			want:  []Declaration{{Property: "color", Value: "red", Important: true}},
		},
		{
			name:  "missing colon",
			block: "color; margin: 0",
			want:  []Declaration{{Property: "color"}, {Property: "margin", Value: "0"}},
		},
		{
			name:  "empty value",
			block: "color:;",
			want:  []Declaration{{Property: "color"}},
		},
		{
			name:  "quoted semicolon",
			block: `content: "a;b"; color: red`,
			want:  []Declaration{{Property: "content", Value: `"a;b"`}, {Property: "color", Value: "red"}},
		},
		{
			name:  "parenthesised semicolon",
			block: "background: url(a;b.png) no-repeat; color: red",
			want:  []Declaration{{Property: "background", Value: "url(a;b.png) no-repeat"}, {Property: "color", Value: "red"}},
		},
		{
			name:  "multiline value",
			block: "font-family: serif,\n\tsans-serif;",
			want:  []Declaration{{Property: "font-family", Value: "serif,\n\tsans-serif"}},
		},
		{
			name:  "empty name is skipped",
			block: ": red; color: blue",
			want:  []Declaration{{Property: "color", Value: "blue"}},
		},
		{
			name:  "lone semicolons",
			block: ";;color: blue;;",
			want:  []Declaration{{Property: "color", Value: "blue"}},
		},
		{
			name:  "empty block",
			block: "   ",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDeclarations(tt.block)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseDeclarations() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("declaration %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDeclaration_String(t *testing.T) {
	if got := (Declaration{Property: "color", Value: "red"}).String(); got != "color: red" {
		t.Errorf("String() = %q", got)
	}
	if got := (Declaration{Property: "color", Value: "red", Important: true}).String(); got != "color: red !important" {
		t.Errorf("String() = %q", got)
	}
}

// Declaration bodies of ordinary stylesheets must be split exactly like a
// full CSS tokenizer splits them.
func TestParseDeclarations_AgreesWithDouceur(t *testing.T) {
	blocks := []string{
		"color: red; margin: 0",
		"font-size: 12px; font-weight: bold !important",
		"text-align: center; text-indent: 1em; line-height: 1.2",
		"margin: 0 auto; padding: 1px 2px 3px 4px;",
		"border: 1px solid black",
	}
	for _, block := range blocks {
		t.Run(block, func(t *testing.T) {
			sheet, err := parser.Parse("p { " + block + " }")
			if err != nil {
				t.Fatalf("douceur parse error = %v", err)
			}
			if len(sheet.Rules) != 1 {
				t.Fatalf("douceur returned %d rules", len(sheet.Rules))
			}
			want := sheet.Rules[0].Declarations
			got := ParseDeclarations(block)
			if len(got) != len(want) {
				t.Fatalf("got %d declarations, douceur %d", len(got), len(want))
			}
			for i, d := range want {
				if got[i].Property != d.Property || got[i].Value != d.Value || got[i].Important != d.Important {
					t.Errorf("declaration %d = %+v, douceur %+v", i, got[i], *d)
				}
			}
		})
	}
}
