package css

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	parse "github.com/tdewolff/parse/v2"
)

// Kind classifies a diagnostic.
type Kind int

const (
	EmptySelectorToken Kind = iota + 1
	MissingOpeningBrace
	MissingClosingBrace
	UnterminatedComment
	EmptyDeclarationName
	UnknownPseudoFunction
	KeyNotFound
	InvalidSelectorToken
)

func (k Kind) String() string {
	switch k {
	case EmptySelectorToken:
		return "empty selector token"
	case MissingOpeningBrace:
		return "missing opening brace"
	case MissingClosingBrace:
		return "missing closing brace"
	case UnterminatedComment:
		return "unterminated comment"
	case EmptyDeclarationName:
		return "empty declaration name"
	case UnknownPseudoFunction:
		return "unknown pseudo function"
	case KeyNotFound:
		return "selector not found"
	case InvalidSelectorToken:
		return "unexpected character in selector"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrKeyNotFound matches errors returned by Store.Get for selector lists never
// inserted.
var ErrKeyNotFound = errors.New("selector list not found in style store")

// Diagnostic describes a problem found while parsing or matching. Positions
// are only known for parse diagnostics.
type Diagnostic struct {
	Kind    Kind
	Source  string // stylesheet name, may be empty
	Offset  int    // byte offset into the stylesheet, -1 when unknown
	Line    int
	Column  int
	Context string // source line around the offset
	Detail  string
}

func (d *Diagnostic) Error() string {
	var sb strings.Builder
	sb.WriteString(d.Kind.String())
	if d.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(d.Detail)
	}
	if d.Line > 0 {
		if d.Source != "" {
			fmt.Fprintf(&sb, " (%s:%d:%d)", d.Source, d.Line, d.Column)
		} else {
			fmt.Fprintf(&sb, " (line %d, column %d)", d.Line, d.Column)
		}
	}
	return sb.String()
}

// Unwrap makes KeyNotFound diagnostics match ErrKeyNotFound.
func (d *Diagnostic) Unwrap() error {
	if d.Kind == KeyNotFound {
		return ErrKeyNotFound
	}
	return nil
}

// Sink receives diagnostics when debug reporting is enabled.
type Sink func(Diagnostic)

func newDiagnostic(kind Kind, src string, data []byte, offset int, detail string) Diagnostic {
	d := Diagnostic{Kind: kind, Source: src, Offset: offset, Detail: detail}
	if offset >= 0 && data != nil {
		d.Line, d.Column, d.Context = parse.Position(bytes.NewReader(data), offset)
	}
	return d
}
