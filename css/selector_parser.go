package css

import "strings"

// chainToken is a raw compound selector together with the combinator which
// links it to the next compound of the chain.
type chainToken struct {
	text   string
	offset int
	next   Combinator
}

// parseSelectorGroups reads comma separated selector chains up to the opening
// brace of a rule (or end of input). It returns false when an empty compound
// token was found, in which case parsing of the stylesheet cannot continue.
func (rp *ruleParser) parseSelectorGroups() ([][]chainToken, bool) {
	var groups [][]chainToken
	sc := &rp.sc
	for {
		var chain []chainToken
		for {
			rp.skipBlank()
			start := sc.pos
			text := rp.readCompoundToken()
			if text == "" {
				rp.report(EmptySelectorToken, start, contextAt(sc.src, start))
				return groups, false
			}
			tok := chainToken{text: text, offset: start}
			rp.skipBlank()

			done := false
			switch {
			case sc.isChar('>'):
				tok.next = CombChild
				sc.pos++
			case sc.isChar('+'):
				tok.next = CombSibling
				sc.pos++
			case sc.isChar('~'):
				tok.next = CombPreceding
				sc.pos++
			case sc.eof() || sc.isChar(',') || sc.isChar('{'):
				tok.next = CombNone
				done = true
			default:
				tok.next = CombDescendant
			}
			chain = append(chain, tok)
			if done {
				break
			}
		}
		groups = append(groups, chain)

		if !sc.isChar(',') {
			return groups, true
		}
		sc.pos++
	}
}

// readCompoundToken reads a maximal run of characters which are not
// whitespace and not one of "{,>+~". Bracketed attribute expressions and
// parenthesised function arguments are read as a whole.
func (rp *ruleParser) readCompoundToken() string {
	sc := &rp.sc
	var sb strings.Builder
	for !sc.eof() && !sc.isSpace() && !sc.isOneOf("{,>+~") && !sc.isComment() {
		switch sc.peek() {
		case '[':
			s, _ := sc.readBalanced('[', ']')
			sb.WriteString(s)
		case '(':
			s, _ := sc.readBalanced('(', ')')
			sb.WriteString(s)
		default:
			sb.WriteByte(sc.peek())
			sc.pos++
		}
	}
	return sb.String()
}

// buildSelectorList converts one chain of raw compound tokens. It also
// returns the source offset of the first stray character in the chain, -1
// when every compound is well formed.
func buildSelectorList(chain []chainToken) (SelectorList, int) {
	sels := make([]Selector, 0, len(chain))
	bad := -1
	for _, tok := range chain {
		sel, stray := parseCompound(tok.text, tok.next)
		if stray >= 0 && bad < 0 {
			bad = tok.offset + stray
		}
		sels = append(sels, sel)
	}
	return SelectorList{selectors: sels}, bad
}

// ParseCompound decomposes a compound selector such as `p#main.note[lang="en"]:first-child`
// into its parts. The combinator is stored on the name part. Characters
// which cannot start a part, like "c" in `a[b]c`, are skipped.
func ParseCompound(text string, next Combinator) Selector {
	sel, _ := parseCompound(text, next)
	return sel
}

// parseCompound is ParseCompound which also returns the offset of the first
// skipped character in text, -1 when nothing was skipped.
func parseCompound(text string, next Combinator) (Selector, int) {
	name := NamePart{Next: next}
	var tail []Part
	stray := -1

	sc := scanner{src: []byte(text)}
	name.Element = readSimpleName(&sc)
	for !sc.eof() {
		switch sc.peek() {
		case '#':
			sc.pos++
			if id := readSimpleName(&sc); id != "" {
				name.IDs = append(name.IDs, id)
			}
		case '.':
			sc.pos++
			if class := readSimpleName(&sc); class != "" {
				name.Classes = append(name.Classes, class)
			}
		case '[':
			raw, closed := sc.readBalanced('[', ']')
			inner := raw[1:]
			if closed {
				inner = inner[:len(inner)-1]
			}
			tail = append(tail, parseExpr(inner))
		case ':':
			for sc.isChar(':') {
				sc.pos++
			}
			if fn := readFuncName(&sc); fn != "" {
				tail = append(tail, FuncPart{Name: fn})
			}
		default:
			// only possible after an attribute expression
			if stray < 0 {
				stray = sc.pos
			}
			readSimpleName(&sc)
		}
	}

	s := Selector{parts: make([]Part, 0, len(tail)+1)}
	s.parts = append(s.parts, name)
	s.parts = append(s.parts, tail...)
	return s, stray
}

func readSimpleName(sc *scanner) string {
	start := sc.pos
	for !sc.eof() && !sc.isOneOf("#.[:") {
		sc.pos++
	}
	return string(sc.src[start:sc.pos])
}

func readFuncName(sc *scanner) string {
	var sb strings.Builder
	for !sc.eof() && !sc.isOneOf("#.[:") {
		if sc.isChar('(') {
			s, _ := sc.readBalanced('(', ')')
			sb.WriteString(s)
			continue
		}
		sb.WriteByte(sc.peek())
		sc.pos++
	}
	return sb.String()
}

// parseExpr parses the inside of an attribute expression: `id`, `id="v"`,
// `id~="v"` or `id|="v"`. Values may be double or single quoted or bare.
func parseExpr(text string) ExprPart {
	var e ExprPart
	sc := scanner{src: []byte(text)}

	sc.skipSpace()
	start := sc.pos
	for !sc.eof() && !sc.isSpace() && !sc.isOneOf("=~|") {
		sc.pos++
	}
	e.Attr = string(sc.src[start:sc.pos])

	sc.skipSpace()
	switch {
	case sc.isChar('='):
		sc.pos++
		e.Op = OpEquals
	case sc.hasPrefix("~="):
		sc.pos += 2
		e.Op = OpContains
	case sc.hasPrefix("|="):
		sc.pos += 2
		e.Op = OpStartsWith
	default:
		return e
	}

	sc.skipSpace()
	if q := sc.peek(); q == '"' || q == '\'' {
		sc.pos++
		start = sc.pos
		for !sc.eof() && !sc.isChar(q) {
			sc.pos++
		}
		e.Value = string(sc.src[start:sc.pos])
		return e
	}
	e.Value = strings.TrimSpace(string(sc.src[sc.pos:]))
	return e
}

// ParseSelectors parses selector text such as "div > p.a, ul li" into
// selector lists, one per comma separated alternative. Text after an opening
// brace is ignored.
func ParseSelectors(text string) ([]SelectorList, error) {
	rp := newRuleParser([]byte(text), "")
	var first error
	rp.onReport = func(d Diagnostic) {
		if first == nil {
			first = &d
		}
	}
	groups, ok := rp.parseSelectorGroups()
	if !ok {
		return nil, first
	}
	lists := make([]SelectorList, 0, len(groups))
	for _, chain := range groups {
		list, bad := buildSelectorList(chain)
		if bad >= 0 {
			rp.report(InvalidSelectorToken, bad, contextAt(rp.sc.src, bad))
			return nil, first
		}
		lists = append(lists, list)
	}
	return lists, nil
}
