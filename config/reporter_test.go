package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readReport(t *testing.T, path string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("failed to open report: %v", err)
	}
	defer zr.Close()

	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("failed to read %s: %v", f.Name, err)
		}
		out[f.Name] = string(data)
	}
	return out
}

func TestReport_Close(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "run.log")
	if err := os.WriteFile(logFile, []byte("log line\n"), 0644); err != nil {
		t.Fatalf("failed to write log: %v", err)
	}

	r, err := NewReport(filepath.Join(dir, "report.zip"))
	if err != nil {
		t.Fatalf("NewReport() error: %v", err)
	}
	r.Store("cssq.log", logFile)
	r.Store("missing.log", filepath.Join(dir, "absent.log"))
	r.StoreData("config.yaml", []byte("version: 1\n"))
	r.StoreData("/styles/a.css", []byte("p { color: red }"))
	r.StoreData("/styles/a.css", []byte("p { color: blue }"))

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if r.Name() != filepath.Join(dir, "report.zip") {
		t.Errorf("Name() = %q", r.Name())
	}

	files := readReport(t, r.Name())
	want := map[string]string{
		"cssq.log":       "log line\n",
		"config.yaml":    "version: 1\n",
		"styles/a.css":   "p { color: red }",
		"styles/a.css-1": "p { color: blue }",
	}
	for name, content := range want {
		if got, ok := files[name]; !ok {
			t.Errorf("report misses %s", name)
		} else if got != content {
			t.Errorf("%s = %q, want %q", name, got, content)
		}
	}
	if _, ok := files["missing.log"]; ok {
		t.Errorf("absent file should not be archived")
	}

	manifest := files["MANIFEST"]
	for _, name := range []string{"cssq.log", "config.yaml", "styles/a.css-1", "missing.log"} {
		if !strings.Contains(manifest, "\t"+name+"\t") {
			t.Errorf("MANIFEST misses %s:\n%s", name, manifest)
		}
	}
	if !strings.Contains(manifest, "<11 bytes>") {
		t.Errorf("MANIFEST should describe stored data:\n%s", manifest)
	}
}

func TestReport_StoreDataCopies(t *testing.T) {
	r, err := NewReport(filepath.Join(t.TempDir(), "report.zip"))
	if err != nil {
		t.Fatalf("NewReport() error: %v", err)
	}
	data := []byte("abc")
	r.StoreData("x", data)
	data[0] = 'z'
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if got := readReport(t, r.Name())["x"]; got != "abc" {
		t.Errorf("stored data = %q, want abc", got)
	}
}

func TestReport_FallsBackToTemp(t *testing.T) {
	r, err := NewReport(filepath.Join(t.TempDir(), "no", "such", "dir", "report.zip"))
	if err != nil {
		t.Fatalf("NewReport() error: %v", err)
	}
	defer os.Remove(r.Name())
	if !strings.Contains(filepath.Base(r.Name()), "-report.") {
		t.Errorf("expected temporary report, got %s", r.Name())
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestReport_Nil(t *testing.T) {
	var r *Report
	r.Store("a", "b")
	r.StoreData("a", nil)
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	if r.Name() != "" {
		t.Errorf("Name on nil report = %q", r.Name())
	}
}
