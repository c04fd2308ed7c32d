package css

import "strings"

// scanner is a byte cursor over stylesheet text.
type scanner struct {
	src []byte
	pos int
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) isChar(c byte) bool { return !s.eof() && s.src[s.pos] == c }

func (s *scanner) isOneOf(chars string) bool {
	return !s.eof() && strings.IndexByte(chars, s.src[s.pos]) >= 0
}

func (s *scanner) isSpace() bool { return !s.eof() && isSpace(s.src[s.pos]) }

func (s *scanner) hasPrefix(p string) bool {
	return len(s.src)-s.pos >= len(p) && string(s.src[s.pos:s.pos+len(p)]) == p
}

func (s *scanner) skipSpace() {
	for s.isSpace() {
		s.pos++
	}
}

func (s *scanner) isComment() bool { return s.hasPrefix("/*") }

// skipComment consumes a comment at the cursor. It returns false when the
// comment is not terminated, leaving the cursor at end of input.
func (s *scanner) skipComment() bool {
	s.pos += 2
	if i := strings.Index(string(s.src[s.pos:]), "*/"); i >= 0 {
		s.pos += i + 2
		return true
	}
	s.pos = len(s.src)
	return false
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// readBalanced consumes a bracketed run starting at the cursor (which must
// be on open) up to and including the matching close. Nested brackets and
// quoted strings are respected. It returns the consumed text and whether the
// closing bracket was found.
func (s *scanner) readBalanced(open, close byte) (string, bool) {
	start := s.pos
	depth := 0
	var quote byte
	for !s.eof() {
		c := s.src[s.pos]
		s.pos++
		switch {
		case quote != 0:
			if c == '\\' && !s.eof() {
				s.pos++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return string(s.src[start:s.pos]), true
			}
		}
	}
	return string(s.src[start:s.pos]), false
}
