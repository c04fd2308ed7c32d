package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"cssq/dom/htmlnode"
	"cssq/dom/xmlnode"
	"cssq/source"
	"cssq/state"
)

type docKind int

const (
	docNone docKind = iota
	docHTML
	docXML
)

func documentKind(path string) docKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return docHTML
	case ".xhtml", ".fb2", ".xml":
		return docXML
	}
	return docNone
}

// loadSources reads stylesheets from every path in order. Documents
// contribute their embedded stylesheets.
func loadSources(env *state.LocalEnv, paths []string) ([]source.Sheet, error) {
	loader, err := env.Loader()
	if err != nil {
		return nil, err
	}

	var sheets []source.Sheet
	for _, path := range paths {
		var (
			more []source.Sheet
			err  error
		)
		switch documentKind(path) {
		case docHTML:
			more, err = embeddedHTML(loader, path)
		case docXML:
			more, err = embeddedXML(loader, path)
		default:
			more, err = loader.Load(path)
		}
		if err != nil {
			return nil, fmt.Errorf("unable to load stylesheets from '%s': %w", path, err)
		}
		if len(more) == 0 {
			env.Log.Warn("No stylesheets found", zap.String("source", path))
		}
		sheets = append(sheets, more...)
	}
	return sheets, nil
}

func embeddedHTML(loader *source.Loader, path string) ([]source.Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := htmlnode.Load(f, "text/html")
	if err != nil {
		return nil, err
	}
	return prepareEmbedded(loader, htmlnode.StyleElements(doc, filepath.Base(path))), nil
}

func embeddedXML(loader *source.Loader, path string) ([]source.Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := xmlnode.Load(f)
	if err != nil {
		return nil, err
	}
	return prepareEmbedded(loader, xmlnode.StyleElements(doc, filepath.Base(path))), nil
}

func prepareEmbedded(loader *source.Loader, sheets []source.Sheet) []source.Sheet {
	for i, s := range sheets {
		sheets[i] = loader.PrepareText(s.Name, s.Data)
	}
	return sheets
}
