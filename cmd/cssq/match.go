package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"cssq/css"
	"cssq/dom/htmlnode"
	"cssq/dom/xmlnode"
	"cssq/report"
	"cssq/source"
	"cssq/state"
)

// document is a loaded document with its own stylesheets.
type document struct {
	root   css.Node
	walk   func(func(css.Node))
	sheets []source.Sheet
}

func loadDocument(env *state.LocalEnv, path string, asHTML bool) (*document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read document: %w", err)
	}
	env.Rpt.StoreData("documents/"+filepath.Base(path), data)

	loader, err := env.Loader()
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	if asHTML || documentKind(path) == docHTML {
		node, err := htmlnode.Load(bytes.NewReader(data), "text/html")
		if err != nil {
			return nil, err
		}
		d := &document{
			walk:   func(fn func(css.Node)) { htmlnode.Walk(node, fn) },
			sheets: prepareEmbedded(loader, htmlnode.StyleElements(node, name)),
		}
		htmlnode.Walk(node, func(n css.Node) {
			if d.root == nil {
				d.root = n
			}
		})
		d.sheets = append(d.sheets, linkedSheets(env, loader, path, node)...)
		return d, nil
	}

	doc, err := xmlnode.Load(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &document{
		root:   xmlnode.New(doc.Root()),
		walk:   func(fn func(css.Node)) { xmlnode.Walk(doc.Root(), fn) },
		sheets: prepareEmbedded(loader, xmlnode.StyleElements(doc, name)),
	}, nil
}

// linkedSheets reads local stylesheets referenced by <link rel="stylesheet">,
// remote ones are skipped.
func linkedSheets(env *state.LocalEnv, loader *source.Loader, docPath string, node *html.Node) []source.Sheet {
	var sheets []source.Sheet
	for _, href := range htmlnode.LinkedStylesheets(node) {
		if strings.Contains(href, "://") || strings.HasPrefix(href, "//") {
			env.Log.Debug("Skipping remote stylesheet", zap.String("href", href))
			continue
		}
		href, _, _ = strings.Cut(href, "?")
		path := filepath.Join(filepath.Dir(docPath), filepath.FromSlash(href))
		sheet, err := loader.ReadFile(path)
		if err != nil {
			env.Log.Warn("Unable to read linked stylesheet", zap.String("href", href), zap.Error(err))
			continue
		}
		sheets = append(sheets, sheet)
	}
	return sheets
}

func runMatch(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	doc, err := loadDocument(env, cmd.String("doc"), cmd.Bool("html"))
	if err != nil {
		return fmt.Errorf("unable to load document '%s': %w", cmd.String("doc"), err)
	}
	if doc.root == nil {
		return fmt.Errorf("document '%s' has no elements", cmd.String("doc"))
	}

	var sheets []source.Sheet
	if !cmd.Bool("no-embedded") {
		sheets = doc.sheets
	}
	more, err := loadSources(env, cmd.Args().Slice())
	if err != nil {
		return err
	}
	sheets = append(sheets, more...)

	store, err := env.ParseSheets(sheets)
	if err != nil {
		env.Log.Warn("Stylesheets parsed with problems", zap.Error(err))
	}
	m := css.NewMatcher(env.Log, env.CSSOptions()...)

	if sel := cmd.String("select"); len(sel) > 0 {
		return listSelected(os.Stdout, doc, store, m, sel)
	}
	_, err = fmt.Fprint(os.Stdout, report.Tree(doc.root, store, m, report.MatchedOnly(cmd.Bool("matched-only"))).String())
	return err
}

// listSelected prints every element matching any selector list of sel
// together with its cascaded declarations.
func listSelected(w io.Writer, doc *document, store *css.Store, m *css.Matcher, sel string) error {
	lists, err := css.ParseSelectors(sel)
	if err != nil {
		return fmt.Errorf("unable to parse selector '%s': %w", sel, err)
	}
	doc.walk(func(n css.Node) {
		if err != nil {
			return
		}
		for _, l := range lists {
			if !m.Matches(l, n) {
				continue
			}
			var decls []string
			for _, d := range css.Cascade(store.Match(m, n)) {
				decls = append(decls, d.String())
			}
			_, err = fmt.Fprintf(w, "%s { %s }\n", n, strings.Join(decls, "; "))
			return
		}
	})
	return err
}
