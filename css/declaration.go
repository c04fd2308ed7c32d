package css

import "strings"

const importantMarker = "!important"

// Declaration is a single property assignment. Values are opaque.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// String returns "name: value" with an "!important" suffix when flagged.
func (d Declaration) String() string {
	if d.Important {
		return d.Property + ": " + d.Value + " " + importantMarker
	}
	return d.Property + ": " + d.Value
}

// ParseDeclarations parses the body of a rule (without braces) into
// declarations in source order. Problems are silently skipped.
func ParseDeclarations(block string) []Declaration {
	return parseDeclarations([]byte(block), 0, nil)
}

type reportFunc func(kind Kind, offset int, detail string)

// parseDeclarations parses block; base is the offset of block inside the
// stylesheet and is used only for diagnostics.
func parseDeclarations(block []byte, base int, report reportFunc) []Declaration {
	var decls []Declaration
	sc := scanner{src: block}

	sc.skipSpace()
	for !sc.eof() {
		start := sc.pos
		for !sc.eof() && !sc.isSpace() && !sc.isOneOf(":;") {
			sc.pos++
		}
		name := string(block[start:sc.pos])
		sc.skipSpace()

		var (
			value     string
			important bool
			colon     bool
		)
		if sc.isChar(':') {
			colon = true
			sc.pos++
			sc.skipSpace()
			value, important = splitImportant(readValue(&sc))
		}
		if sc.isChar(';') {
			sc.pos++
		}
		sc.skipSpace()

		if name == "" {
			// a lone ';' is harmless, a lone ':' is not
			if colon && report != nil {
				report(EmptyDeclarationName, base+start, contextAt(block, start))
			}
			continue
		}
		decls = append(decls, Declaration{Property: name, Value: value, Important: important})
	}
	return decls
}

// readValue reads up to the next ';' which is not inside quotes or
// parentheses.
func readValue(sc *scanner) string {
	start := sc.pos
	depth := 0
	var quote byte
	for !sc.eof() {
		c := sc.peek()
		switch {
		case quote != 0:
			if c == '\\' {
				sc.pos++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case c == ';' && depth == 0:
			return strings.TrimSpace(string(sc.src[start:sc.pos]))
		}
		sc.pos++
	}
	if sc.pos > len(sc.src) {
		sc.pos = len(sc.src)
	}
	return strings.TrimSpace(string(sc.src[start:sc.pos]))
}

func splitImportant(value string) (string, bool) {
	if v, ok := strings.CutSuffix(value, importantMarker); ok {
		return strings.TrimSpace(v), true
	}
	return value, false
}
