// Package source reads stylesheets from files, directories and zip archives
// and prepares their text for the css parser.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"cssq/archive"
)

// MaxSheetSize limits the size of a single stylesheet read from an archive.
const MaxSheetSize = 16 << 20

// Sheet is stylesheet text ready for parsing.
type Sheet struct {
	Name string
	Data []byte
}

// Loader reads and prepares stylesheets.
type Loader struct {
	log            *zap.Logger
	enc            encoding.Encoding
	decodeEntities bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithEncoding forces the character encoding of every stylesheet. Without
// it the encoding is detected.
func WithEncoding(enc encoding.Encoding) Option {
	return func(l *Loader) { l.enc = enc }
}

// WithEntities enables replacement of HTML character references ("&lt;",
// "&nbsp;") in stylesheet text.
func WithEntities(decode bool) Option {
	return func(l *Loader) { l.decodeEntities = decode }
}

// NewLoader creates a stylesheet loader.
func NewLoader(log *zap.Logger, opts ...Option) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	l := &Loader{log: log.Named("source")}
	for _, o := range opts {
		o(l)
	}
	return l
}

// LookupEncoding returns encoding by its IANA name.
func LookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("encoding %q is not supported", name)
	}
	return enc, nil
}

// Load reads every path: directories contribute their *.css files, zip and
// epub archives their *.css entries, anything else is read as a single
// stylesheet.
func (l *Loader) Load(paths ...string) ([]Sheet, error) {
	var sheets []Sheet
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("unable to access %q: %w", p, err)
		}
		var more []Sheet
		switch ext := strings.ToLower(filepath.Ext(p)); {
		case fi.IsDir():
			more, err = l.ReadDir(p)
		case ext == ".zip" || ext == ".epub":
			more, err = l.ReadArchive(p, "*.css")
		default:
			var s Sheet
			s, err = l.ReadFile(p)
			more = []Sheet{s}
		}
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, more...)
	}
	return sheets, nil
}

// ReadFile reads a single stylesheet file.
func (l *Loader) ReadFile(path string) (Sheet, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Sheet{}, fmt.Errorf("unable to access stylesheet: %w", err)
	}
	if !fi.Mode().IsRegular() {
		return Sheet{}, fmt.Errorf("invalid stylesheet file %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Sheet{}, fmt.Errorf("unable to read stylesheet: %w", err)
	}
	return l.Prepare(path, data)
}

// ReadFrom reads a stylesheet from r, name is used in diagnostics.
func (l *Loader) ReadFrom(name string, r io.Reader) (Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Sheet{}, fmt.Errorf("unable to read stylesheet %q: %w", name, err)
	}
	return l.Prepare(name, data)
}

// ReadDir reads *.css files of dir (not recursive) in natural name order.
func (l *Loader) ReadDir(dir string) ([]Sheet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read stylesheet directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".css") {
			names = append(names, e.Name())
		}
	}
	sort.Sort(natural.StringSlice(names))

	l.log.Debug("Reading stylesheet directory", zap.String("dir", dir), zap.Strings("files", names))
	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		s, err := l.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, s)
	}
	return sheets, nil
}

// ReadArchive reads stylesheets from a zip archive, pattern selects entries
// (see archive.Match).
func (l *Loader) ReadArchive(path, pattern string) ([]Sheet, error) {
	files, err := archive.ReadFiles(path, pattern, MaxSheetSize)
	if err != nil {
		return nil, fmt.Errorf("unable to read stylesheets from archive: %w", err)
	}
	sheets := make([]Sheet, 0, len(files))
	for _, f := range files {
		s, err := l.Prepare(f.Name, f.Data)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, s)
	}
	return sheets, nil
}

// Prepare decodes and normalizes raw stylesheet bytes.
func (l *Loader) Prepare(name string, data []byte) (Sheet, error) {
	text, err := l.Decode(data)
	if err != nil {
		return Sheet{}, fmt.Errorf("unable to decode stylesheet %q: %w", name, err)
	}
	l.log.Debug("Stylesheet decoded", zap.String("name", name), zap.Int("raw", len(data)), zap.Int("text", len(text)))
	return l.PrepareText(name, text), nil
}

// PrepareText normalizes stylesheet text which is already UTF-8, such as
// content of <style> elements.
func (l *Loader) PrepareText(name string, text []byte) Sheet {
	text = Normalize(text)
	if l.decodeEntities {
		text = []byte(html.UnescapeString(string(text)))
	}
	return Sheet{Name: name, Data: text}
}

var (
	utf8BOM       = []byte("\xef\xbb\xbf")
	charsetPrefix = []byte(`@charset "`)
)

// Decode converts data to UTF-8. An explicit loader encoding wins, then a
// leading @charset rule (which is removed), then byte order marks and
// content sniffing.
func (l *Loader) Decode(data []byte) ([]byte, error) {
	data, declared := cutCharsetRule(data)

	enc := l.enc
	if enc == nil {
		contentType := "text/css"
		if declared != "" {
			contentType += "; charset=" + declared
		}
		var name string
		enc, name, _ = charset.DetermineEncoding(data, contentType)
		l.log.Debug("Detected stylesheet encoding", zap.String("encoding", name), zap.String("declared", declared))
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, err
	}
	return bytes.TrimPrefix(out, utf8BOM), nil
}

// cutCharsetRule removes `@charset "name";` from the start of data and
// returns the declared name.
func cutCharsetRule(data []byte) ([]byte, string) {
	body := bytes.TrimPrefix(data, utf8BOM)
	rest, ok := bytes.CutPrefix(body, charsetPrefix)
	if !ok {
		return data, ""
	}
	name, rest, ok := bytes.Cut(rest, []byte(`";`))
	if !ok {
		return data, ""
	}
	return rest, string(name)
}

// Normalize strips whitespace around every line, drops empty lines and
// joins the rest with "\n".
func Normalize(data []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(data))
	for line := range bytes.Lines(data) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		out.Write(line)
	}
	return out.Bytes()
}
