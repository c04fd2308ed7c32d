package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"cssq/misc"
)

// NewReport creates initialized empty debug report which will be written to
// destination on Close. If destination cannot be created temporary file is
// used instead, see Name.
func NewReport(destination string) (*Report, error) {
	r := &Report{entries: make(map[string]entry)}

	if f, err := os.Create(destination); err == nil {
		r.file = f
	} else if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err == nil {
		r.file = f
	} else {
		return nil, fmt.Errorf("unable to create report: %w", err)
	}
	return r, nil
}

type entry struct {
	path  string
	stamp time.Time
	data  []byte
}

// Report accumulates everything needed to reproduce a run: configuration,
// stylesheets as they were read, documents and the log.
// NOTE: presently not to be used concurrently!
type Report struct {
	entries map[string]entry
	file    *os.File
}

// Close finalizes debug report.
func (r *Report) Close() error {
	if r == nil || r.file == nil {
		// no report has been requested
		return nil
	}
	defer r.file.Close()
	return r.finalize()
}

// Name returns name of underlying file.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store remembers path to a file to be put in the final archive later. File
// content is read on Close.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if p, err := filepath.Abs(path); err == nil {
		path = p
	}
	r.entries[r.unique(name)] = entry{path: path}
}

// StoreData saves a copy of data to be put in the final archive under
// requested name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	r.entries[r.unique(name)] = entry{data: bytes.Clone(data), stamp: time.Now()}
}

// unique versions repeated names, the same stylesheet may be loaded more than
// once.
func (r *Report) unique(name string) string {
	name = filepath.ToSlash(strings.TrimLeft(name, `/\`))
	if _, exists := r.entries[name]; !exists {
		return name
	}
	for i := 1; ; i++ {
		versioned := fmt.Sprintf("%s-%d", name, i)
		if _, exists := r.entries[versioned]; !exists {
			return versioned
		}
	}
}

func (r *Report) finalize() error {
	arc := zip.NewWriter(r.file)

	now := time.Now()
	names, manifest := r.manifest(now)
	if err := saveFile(arc, "MANIFEST", now, manifest); err != nil {
		return err
	}

	// in the same order as in manifest
	for _, name := range names {
		e := r.entries[name]
		if e.path == "" {
			if err := saveFile(arc, name, e.stamp, bytes.NewReader(e.data)); err != nil {
				return err
			}
			continue
		}
		info, err := os.Stat(e.path)
		if err != nil || !info.Mode().IsRegular() {
			// ignoring absent files
			continue
		}
		f, err := os.Open(e.path)
		if err != nil {
			return err
		}
		err = saveFile(arc, name, info.ModTime(), f)
		f.Close()
		if err != nil {
			return err
		}
	}
	return arc.Close()
}

func (r *Report) manifest(now time.Time) ([]string, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	names := make([]string, 0, len(r.entries))
	for k := range r.entries {
		names = append(names, k)
	}
	slices.Sort(names)

	for _, k := range names {
		e := r.entries[k]
		stamp, origin := e.stamp, e.path
		if stamp.IsZero() {
			stamp = now
		}
		if origin == "" {
			origin = fmt.Sprintf("<%d bytes>", len(e.data))
		}
		fmt.Fprintf(buf, "%s\t%s\t%s\n", stamp.UTC().Format(time.UnixDate), k, origin)
	}
	return names, buf
}

func saveFile(dst *zip.Writer, name string, t time.Time, src io.Reader) error {
	w, err := dst.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: t})
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, src); err != nil {
		return err
	}
	return nil
}
