package report

import (
	"bytes"
	"fmt"
	"io"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"cssq/config"
	"cssq/css"
)

// ruleValues is what we make available for template expansion, one per
// store entry.
type ruleValues struct {
	Index        int
	Selector     string
	Specificity  string
	Declarations []css.Declaration
	CSS          string
	Style        string
}

// WriteRules expands template field for every entry of store in order and
// writes results to w, each on its own line.
func WriteRules(w io.Writer, name config.TemplateFieldName, field string, store *css.Store) error {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	buf := new(bytes.Buffer)
	for i, d := range store.Entries() {
		values := &ruleValues{
			Index:        i + 1,
			Selector:     d.SelectorList().String(),
			Specificity:  d.Specificity().String(),
			Declarations: d.Declarations(),
			CSS:          d.String(),
			Style:        d.StyleString(),
		}
		buf.Reset()
		if err := tmpl.Execute(buf, values); err != nil {
			return fmt.Errorf("unable to expand template field %s for %s: %w", name, values.Selector, err)
		}
		if buf.Len() == 0 || buf.Bytes()[buf.Len()-1] != '\n' {
			buf.WriteByte('\n')
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}
