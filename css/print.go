package css

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// String returns the rule in CSS form: `div.a { color: red; }`.
func (d *StyleData) String() string {
	var sb strings.Builder
	sb.WriteString(d.list.String())
	sb.WriteString(" {")
	for _, decl := range d.decls {
		sb.WriteByte(' ')
		sb.WriteString(decl.String())
		sb.WriteByte(';')
	}
	sb.WriteString(" }")
	return sb.String()
}

// StyleString returns the rule as a style element with one attribute per
// declaration: `<style class="div.a" color="red"/>`.
func (d *StyleData) StyleString() string {
	var sb strings.Builder
	sb.WriteString(`<style class="`)
	sb.WriteString(html.EscapeString(d.list.String()))
	sb.WriteByte('"')
	for _, decl := range d.decls {
		value := decl.Value
		if decl.Important {
			value += " " + importantMarker
		}
		fmt.Fprintf(&sb, ` %s="%s"`, decl.Property, html.EscapeString(value))
	}
	sb.WriteString("/>")
	return sb.String()
}

// DebugString returns a bracketed dump naming every field.
func (d *StyleData) DebugString() string {
	var sb strings.Builder
	sb.WriteString(d.list.DebugString())
	sb.WriteString(" {")
	for i, decl := range d.decls {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "[name=%s,value=%s,important=%t]", decl.Property, decl.Value, decl.Important)
	}
	sb.WriteByte('}')
	return sb.String()
}

// WriteTo writes every entry in CSS form, one per line, implementing
// io.WriterTo.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	return s.writeLines(w, (*StyleData).String)
}

// WriteStyle writes every entry in style element form.
func (s *Store) WriteStyle(w io.Writer) (int64, error) {
	return s.writeLines(w, (*StyleData).StyleString)
}

// WriteDebug writes every entry in debug form.
func (s *Store) WriteDebug(w io.Writer) (int64, error) {
	return s.writeLines(w, (*StyleData).DebugString)
}

// WriteSpecificity writes every entry in CSS form followed by its
// specificity.
func (s *Store) WriteSpecificity(w io.Writer) (int64, error) {
	return s.writeLines(w, func(d *StyleData) string {
		return d.String() + " [" + d.Specificity().String() + "]"
	})
}

func (s *Store) writeLines(w io.Writer, format func(*StyleData) string) (int64, error) {
	var total int64
	for _, d := range s.entries {
		n, err := io.WriteString(w, format(d)+"\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String returns the CSS text of the store.
func (s *Store) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}
