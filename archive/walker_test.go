package archive

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type entry struct {
	name    string
	content string
}

func createZip(t *testing.T, entries ...entry) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "test.epub")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	w := zip.NewWriter(zipFile)
	for _, e := range entries {
		fw, err := w.Create(e.name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", e.name, err)
		}
		if _, err := fw.Write([]byte(e.content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finish zip: %v", err)
	}
	zipFile.Close()
	return zipPath
}

var bookEntries = []entry{
	{"mimetype", "application/epub+zip"},
	{"OEBPS/styles/main.css", "p { color: red }"},
	{"OEBPS/styles/extra.CSS", "h1 { color: blue }"},
	{"OEBPS/text/chapter1.xhtml", "<html/>"},
	{"fonts.css", "body { margin: 0 }"},
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern, name string
		want          bool
	}{
		{"", "anything/at/all", true},
		{"*.css", "OEBPS/styles/main.css", true},
		{"*.css", "fonts.css", true},
		{"*.css", "OEBPS/styles/extra.CSS", false},
		{"OEBPS/styles/*.css", "OEBPS/styles/main.css", true},
		{"OEBPS/*.css", "OEBPS/styles/main.css", false},
		{"*.xhtml", "OEBPS/text/chapter1.xhtml", true},
		{"[", "x", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.name, func(t *testing.T) {
			if got := Match(tt.pattern, tt.name); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.name, got, tt.want)
			}
		})
	}
}

func TestWalk(t *testing.T) {
	zipPath := createZip(t, bookEntries...)

	t.Run("stylesheets by base name", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, "*.css", func(archive string, file *zip.File) error {
			if archive != zipPath {
				t.Errorf("archive = %s, want %s", archive, zipPath)
			}
			visited = append(visited, file.Name)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}
		want := []string{"OEBPS/styles/main.css", "fonts.css"}
		if len(visited) != len(want) {
			t.Fatalf("visited %v, want %v", visited, want)
		}
		for i := range want {
			if visited[i] != want[i] {
				t.Errorf("visited[%d] = %s, want %s", i, visited[i], want[i])
			}
		}
	})

	t.Run("empty pattern", func(t *testing.T) {
		var visited int
		err := Walk(zipPath, "", func(string, *zip.File) error {
			visited++
			return nil
		})
		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}
		if visited != len(bookEntries) {
			t.Errorf("visited %d files, want %d", visited, len(bookEntries))
		}
	})

	t.Run("walkFn returns error", func(t *testing.T) {
		stopErr := errors.New("stop walking")
		var visited int
		err := Walk(zipPath, "", func(string, *zip.File) error {
			visited++
			return stopErr
		})
		if !errors.Is(err, stopErr) {
			t.Errorf("Walk() error = %v, want %v", err, stopErr)
		}
		if visited != 1 {
			t.Errorf("visited %d files, want 1", visited)
		}
	})

	t.Run("bad pattern", func(t *testing.T) {
		err := Walk(zipPath, "[", func(string, *zip.File) error { return nil })
		if err == nil {
			t.Error("Expected error for malformed pattern")
		}
	})
}

func TestWalk_InvalidArchive(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		if err := Walk("/nonexistent/file.zip", "", func(string, *zip.File) error { return nil }); err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})

	t.Run("invalid zip file", func(t *testing.T) {
		invalidZip := filepath.Join(t.TempDir(), "invalid.zip")
		if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
			t.Fatalf("Failed to create invalid zip: %v", err)
		}
		if err := Walk(invalidZip, "", func(string, *zip.File) error { return nil }); err == nil {
			t.Error("Expected error for invalid zip file")
		}
	})

	t.Run("path traversal", func(t *testing.T) {
		zipPath := createZip(t, entry{"../evil.css", "p {}"})
		if err := Walk(zipPath, "*.css", func(string, *zip.File) error { return nil }); err == nil {
			t.Error("Expected error for unsafe entry")
		}
	})
}

func TestWalk_SkipsDirectories(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "test.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	w := zip.NewWriter(zipFile)
	dirHeader := &zip.FileHeader{Name: "styles.css/"}
	dirHeader.SetMode(os.ModeDir | 0755)
	if _, err := w.CreateHeader(dirHeader); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	fw, err := w.Create("styles.css/a.css")
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	fw.Write([]byte("a {}"))
	w.Close()
	zipFile.Close()

	var visited []string
	err = Walk(zipPath, "*.css", func(archive string, file *zip.File) error {
		visited = append(visited, file.Name)
		return nil
	})
	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
	if len(visited) != 1 || visited[0] != "styles.css/a.css" {
		t.Errorf("visited %v, want [styles.css/a.css]", visited)
	}
}

func TestReadFiles(t *testing.T) {
	zipPath := createZip(t, bookEntries...)

	files, err := ReadFiles(zipPath, "OEBPS/styles/*", 0)
	if err != nil {
		t.Fatalf("ReadFiles() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("ReadFiles() returned %d files, want 2", len(files))
	}
	if files[0].Name != "test.epub/OEBPS/styles/main.css" {
		t.Errorf("Name = %q", files[0].Name)
	}
	if string(files[0].Data) != "p { color: red }" {
		t.Errorf("Data = %q", files[0].Data)
	}
}

func TestReadFiles_Limit(t *testing.T) {
	zipPath := createZip(t, entry{"big.css", "p { color: red; margin: 0 }"})

	if _, err := ReadFiles(zipPath, "*.css", 8); err == nil {
		t.Error("Expected error for entry over the limit")
	}
	files, err := ReadFiles(zipPath, "*.css", 1024)
	if err != nil {
		t.Fatalf("ReadFiles() error = %v", err)
	}
	if len(files) != 1 {
		t.Errorf("ReadFiles() returned %d files, want 1", len(files))
	}
}
