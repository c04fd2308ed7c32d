// Package archive reads stylesheets packed into zip containers (plain zip,
// epub) using "archive/zip".
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
)

// WalkFunc is called for every regular entry of the archive whose name
// matches the pattern given to Walk. Returning an error stops the walk.
type WalkFunc func(archive string, file *zip.File) error

// File is a fully read archive entry.
type File struct {
	Name string // "archive.zip/styles/main.css"
	Data []byte
}

// Match reports whether an entry name satisfies a glob pattern. Patterns
// without a slash are matched against the base name of the entry, others
// against the whole entry path. The empty pattern matches everything.
func Match(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	target := name
	if !strings.Contains(pattern, "/") {
		target = path.Base(name)
	}
	ok, err := path.Match(pattern, target)
	return err == nil && ok
}

// Walk visits entries of archive matching pattern in archive order. Entries
// with absolute paths or ".." components abort the walk.
func Walk(archive, pattern string, walkFn WalkFunc) error {
	if _, err := path.Match(pattern, ""); err != nil {
		return fmt.Errorf("bad entry pattern %q: %w", pattern, err)
	}

	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() || !Match(pattern, name) {
			continue
		}
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

// ReadFiles reads every entry matching pattern. Entries larger than limit
// bytes (when limit is positive) are rejected.
func ReadFiles(archive, pattern string, limit int64) ([]File, error) {
	var files []File
	err := Walk(archive, pattern, func(archive string, f *zip.File) error {
		if limit > 0 && f.UncompressedSize64 > uint64(limit) {
			return fmt.Errorf("zip entry %q is too large (%d bytes)", f.Name, f.UncompressedSize64)
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("unable to open zip entry %q: %w", f.Name, err)
		}
		defer rc.Close()

		var r io.Reader = rc
		if limit > 0 {
			r = io.LimitReader(rc, limit+1)
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("unable to read zip entry %q: %w", f.Name, err)
		}
		if limit > 0 && int64(len(data)) > limit {
			return fmt.Errorf("zip entry %q is too large", f.Name)
		}
		files = append(files, File{Name: path.Join(filepath.Base(archive), f.Name), Data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
