package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"cssq/config"
	"cssq/css"
	"cssq/state"
)

func TestDocumentKind(t *testing.T) {
	tests := map[string]docKind{
		"a.css":        docNone,
		"book.epub":    docNone,
		"page.HTML":    docHTML,
		"page.htm":     docHTML,
		"ch01.xhtml":   docXML,
		"book.fb2":     docXML,
		"dir/file.xml": docXML,
		"no-extension": docNone,
	}
	for path, want := range tests {
		if got := documentKind(path); got != want {
			t.Errorf("documentKind(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestWriteStore(t *testing.T) {
	store := css.NewStore()
	if err := css.NewParser(nil).Parse(store, []byte("p.x { color: red }")); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		mode config.OutputMode
		want string
	}{
		{config.OutputModeCss, "p.x { color: red; }\n"},
		{config.OutputModeStyle, "<style class=\"p.x\" color=\"red\"/>\n"},
		{config.OutputModeSpecificity, "p.x { color: red; } [0,0,1,1]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeStore(&buf, tt.mode, store); err != nil {
				t.Fatalf("writeStore() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("writeStore() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

const fb2 = `<?xml version="1.0" encoding="utf-8"?>
<FictionBook>
  <stylesheet type="text/css">
    p { margin: 0 }
    .epigraph p { font-style: italic }
  </stylesheet>
  <body>
    <p>one</p>
    <section class="epigraph"><p>two</p></section>
  </body>
</FictionBook>`

func testEnv(t *testing.T) *state.LocalEnv {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}
	return &state.LocalEnv{Cfg: cfg, Log: zaptest.NewLogger(t)}
}

func TestLoadDocument_SelectsWithEmbeddedStyles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.fb2")
	if err := os.WriteFile(path, []byte(fb2), 0644); err != nil {
		t.Fatal(err)
	}
	env := testEnv(t)

	doc, err := loadDocument(env, path, false)
	if err != nil {
		t.Fatalf("loadDocument() error = %v", err)
	}
	if len(doc.sheets) != 1 {
		t.Fatalf("expected one embedded stylesheet, got %d", len(doc.sheets))
	}
	store, err := env.ParseSheets(doc.sheets)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := listSelected(&buf, doc, store, css.NewMatcher(nil), "section p, body > p"); err != nil {
		t.Fatalf("listSelected() error = %v", err)
	}
	want := "p { margin: 0 }\np { margin: 0; font-style: italic }\n"
	if buf.String() != want {
		t.Errorf("listSelected() = %q, want %q", buf.String(), want)
	}

	if err := listSelected(&buf, doc, store, css.NewMatcher(nil), ", p"); err == nil {
		t.Error("expected selector error")
	}
}

func TestLoadSources(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "page.html")
	sheet := filepath.Join(dir, "a.css")
	if err := os.WriteFile(page, []byte(`<html><head><style>
	  h1 { color: red }
	</style></head><body></body></html>`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(sheet, []byte("p { margin: 0 }"), 0644); err != nil {
		t.Fatal(err)
	}

	sheets, err := loadSources(testEnv(t), []string{sheet, page})
	if err != nil {
		t.Fatalf("loadSources() error = %v", err)
	}
	if len(sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %d", len(sheets))
	}
	if got := string(sheets[1].Data); got != "h1 { color: red }" {
		t.Errorf("embedded sheet = %q", got)
	}
	if sheets[1].Name != "page.html<style #1>" {
		t.Errorf("embedded sheet name = %q", sheets[1].Name)
	}

	if _, err := loadSources(testEnv(t), []string{filepath.Join(dir, "missing.css")}); err == nil {
		t.Error("expected error for missing source")
	}
}
