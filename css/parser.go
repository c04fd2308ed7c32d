package css

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type options struct {
	debug bool
	sink  Sink
}

// Option configures a Parser or a Matcher.
type Option func(*options)

// WithDebug enables diagnostics. Without it problems are skipped silently.
func WithDebug(debug bool) Option {
	return func(o *options) { o.debug = debug }
}

// WithSink installs a function receiving every diagnostic while debug is
// enabled.
func WithSink(sink Sink) Option {
	return func(o *options) { o.sink = sink }
}

// Parser reads stylesheet text into a Store.
type Parser struct {
	log  *zap.Logger
	opts options
}

// NewParser creates a new stylesheet parser.
func NewParser(log *zap.Logger, opts ...Option) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Parser{log: log.Named("css-parser")}
	for _, o := range opts {
		o(&p.opts)
	}
	return p
}

// Parse adds every rule of data to store, merging declarations of rules
// whose selector lists are structurally equal. The optional source parameter
// names the stylesheet in diagnostics.
//
// Parsing is best effort: rules read before a fatal problem stay in the
// store. When debug is enabled all diagnostics are returned combined,
// otherwise Parse always returns nil.
func (p *Parser) Parse(store *Store, data []byte, source ...string) error {
	var name string
	if len(source) > 0 {
		name = source[0]
	}
	if name != "" {
		p.log.Debug("Parsing stylesheet", zap.String("source", name), zap.Int("bytes", len(data)))
	}

	var errs error
	rp := newRuleParser(data, name)
	if p.opts.debug {
		rp.onReport = func(d Diagnostic) {
			p.log.Debug("Stylesheet problem", zap.Stringer("kind", d.Kind), zap.String("source", d.Source),
				zap.Int("line", d.Line), zap.Int("column", d.Column), zap.String("detail", d.Detail))
			if p.opts.sink != nil {
				p.opts.sink(d)
			}
			errs = multierr.Append(errs, &d)
		}
	}

	rules := rp.parseRules(store)
	p.log.Debug("Stylesheet parsed", zap.String("source", name), zap.Int("rules", rules), zap.Int("entries", store.Len()))
	return errs
}

// ruleParser holds the state of a single Parse call.
type ruleParser struct {
	sc       scanner
	source   string
	onReport func(Diagnostic)
}

func newRuleParser(data []byte, source string) *ruleParser {
	return &ruleParser{sc: scanner{src: data}, source: source}
}

func (rp *ruleParser) report(kind Kind, offset int, detail string) {
	if rp.onReport == nil {
		return
	}
	rp.onReport(newDiagnostic(kind, rp.source, rp.sc.src, offset, detail))
}

// skipBlank skips whitespace and comments.
func (rp *ruleParser) skipBlank() {
	for {
		rp.sc.skipSpace()
		if !rp.sc.isComment() {
			return
		}
		start := rp.sc.pos
		if !rp.sc.skipComment() {
			rp.report(UnterminatedComment, start, contextAt(rp.sc.src, start))
			return
		}
	}
}

// parseRules runs the rule loop and returns number of rules committed.
func (rp *ruleParser) parseRules(store *Store) int {
	sc := &rp.sc
	rules := 0
	for {
		rp.skipBlank()
		if sc.eof() {
			return rules
		}

		groups, ok := rp.parseSelectorGroups()
		if !ok {
			return rules
		}
		if !sc.isChar('{') {
			rp.report(MissingOpeningBrace, sc.pos, contextAt(sc.src, sc.pos))
			return rules
		}

		// a rule with a malformed selector is dropped as a whole, its block
		// is still consumed
		lists := make([]SelectorList, 0, len(groups))
		valid := true
		for _, chain := range groups {
			list, bad := buildSelectorList(chain)
			if bad >= 0 {
				rp.report(InvalidSelectorToken, bad, contextAt(sc.src, bad))
				valid = false
			}
			lists = append(lists, list)
		}

		base := sc.pos + 1
		block, closed := rp.readBlock()
		decls := parseDeclarations(block, base, rp.report)

		if valid {
			for _, list := range lists {
				store.Upsert(list).Add(decls...)
			}
			rules++
		}

		if !closed {
			rp.report(MissingClosingBrace, sc.pos, "")
			return rules
		}
	}
}

// readBlock consumes a declaration block starting at '{'. Comments are
// blanked out in the returned copy so offsets inside it still map onto the
// source. It returns false when the closing brace is missing.
func (rp *ruleParser) readBlock() ([]byte, bool) {
	sc := &rp.sc
	sc.pos++
	block := make([]byte, 0, 64)
	var quote byte
	for !sc.eof() {
		c := sc.peek()
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else if c == '\\' && sc.pos+1 < len(sc.src) {
				block = append(block, c)
				sc.pos++
				c = sc.peek()
			}
		case c == '"' || c == '\'':
			quote = c
		case sc.isComment():
			from := sc.pos
			ok := sc.skipComment()
			for range sc.pos - from {
				block = append(block, ' ')
			}
			if !ok {
				rp.report(UnterminatedComment, from, contextAt(sc.src, from))
				return block, false
			}
			continue
		case c == '}':
			sc.pos++
			return block, true
		}
		block = append(block, c)
		sc.pos++
	}
	return block, false
}

// contextAt returns a short excerpt of src starting at pos.
func contextAt(src []byte, pos int) string {
	const width = 24
	if pos >= len(src) {
		return "<end of input>"
	}
	end := min(pos+width, len(src))
	return "'" + string(src[pos:end]) + "'"
}
