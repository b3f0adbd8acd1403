// internal/analysis/taint/expr.go
package taint

import (
	"slices"
	"strings"
)

// span is a half-open byte range of an expression.
type span struct {
	start, end int
}

// callSpan is a call expression found in source text: the dotted callee name
// and the range from the name to the closing parenthesis.
type callSpan struct {
	name string
	span
}

// keywords are identifiers that never name a value slot.
var keywords = map[string]struct{}{
	"true": {}, "false": {}, "null": {}, "undefined": {}, "nil": {}, "None": {}, "True": {}, "False": {},
	"new": {}, "typeof": {}, "instanceof": {}, "await": {}, "async": {}, "return": {}, "function": {},
	"const": {}, "let": {}, "var": {}, "this": {}, "self": {}, "in": {}, "of": {}, "not": {}, "and": {},
	"or": {}, "is": {}, "lambda": {}, "if": {}, "else": {}, "yield": {}, "void": {}, "delete": {},
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// frame is an open substitution: ${ } inside a template literal, or { }
// inside a formatted string literal closed by quote.
type frame struct {
	depth int
	quote string
}

// scanner walks an expression and reports code regions, skipping the text of
// string literals. Template literal and f-string substitutions are code.
type scanner struct {
	src  string
	pos  int
	subs []frame
}

// skipLiteral advances past a string literal starting at s.pos. It returns
// false when the current byte does not open a literal.
func (s *scanner) skipLiteral() bool {
	if s.src[s.pos] == '`' {
		s.pos++
		s.templateBody()
		return true
	}
	n, formatted := s.stringPrefix()
	q := s.pos + n
	if q >= len(s.src) || (s.src[q] != '"' && s.src[q] != '\'') {
		return false
	}
	quote := s.src[q : q+1]
	if triple := strings.Repeat(quote, 3); strings.HasPrefix(s.src[q:], triple) {
		quote = triple
	}
	s.pos = q + len(quote)
	if formatted {
		s.formatBody(quote)
	} else {
		s.quotedBody(quote)
	}
	return true
}

// stringPrefix returns the length of a string prefix such as r, b, f or rf
// at s.pos when a quote follows it, and whether the prefix marks a
// formatted literal.
func (s *scanner) stringPrefix() (int, bool) {
	if s.pos > 0 && isIdentPart(s.src[s.pos-1]) {
		return 0, false
	}
	n, formatted := 0, false
scan:
	for n < 2 && s.pos+n < len(s.src) {
		switch s.src[s.pos+n] {
		case 'f', 'F':
			formatted = true
		case 'r', 'R', 'b', 'B', 'u', 'U':
		default:
			break scan
		}
		n++
	}
	if n == 0 || s.pos+n >= len(s.src) {
		return 0, false
	}
	if c := s.src[s.pos+n]; c != '"' && c != '\'' {
		return 0, false
	}
	return n, formatted
}

// quotedBody consumes literal text up to and including the closing quote.
func (s *scanner) quotedBody(quote string) {
	for s.pos < len(s.src) {
		if s.src[s.pos] == '\\' {
			s.pos += 2
			continue
		}
		if strings.HasPrefix(s.src[s.pos:], quote) {
			s.pos += len(quote)
			return
		}
		s.pos++
	}
}

// templateBody consumes template text up to the closing backtick or the
// start of a substitution.
func (s *scanner) templateBody() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '\\':
			s.pos += 2
		case c == '`':
			s.pos++
			return
		case c == '$' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '{':
			s.pos += 2
			s.subs = append(s.subs, frame{})
			return
		default:
			s.pos++
		}
	}
}

// formatBody consumes f-string text up to the closing quote or the start of
// a replacement field. Doubled braces are literal.
func (s *scanner) formatBody(quote string) {
	for s.pos < len(s.src) {
		rest := s.src[s.pos:]
		switch {
		case rest[0] == '\\':
			s.pos += 2
		case strings.HasPrefix(rest, quote):
			s.pos += len(quote)
			return
		case strings.HasPrefix(rest, "{{"), strings.HasPrefix(rest, "}}"):
			s.pos += 2
		case rest[0] == '{':
			s.pos++
			s.subs = append(s.subs, frame{quote: quote})
			return
		default:
			s.pos++
		}
	}
}

// braces tracks nesting inside substitutions. It reports whether the byte at
// s.pos was consumed as the end of a substitution.
func (s *scanner) braces() bool {
	if len(s.subs) == 0 {
		return false
	}
	top := &s.subs[len(s.subs)-1]
	c := s.src[s.pos]
	if top.quote == "" {
		switch c {
		case '{':
			top.depth++
		case '}':
			if top.depth == 0 {
				s.subs = s.subs[:len(s.subs)-1]
				s.pos++
				s.templateBody()
				return true
			}
			top.depth--
		}
		return false
	}

	switch c {
	case '(', '[', '{':
		top.depth++
	case ')', ']':
		top.depth = max(top.depth-1, 0)
	case '}':
		if top.depth == 0 {
			s.closeField()
			return true
		}
		top.depth--
	case '!':
		// !r, !s and !a conversions; != is an operator
		if top.depth == 0 && s.pos+1 < len(s.src) && s.src[s.pos+1] != '=' {
			s.formatSpec()
			return true
		}
	case ':':
		if top.depth == 0 {
			s.formatSpec()
			return true
		}
	}
	return false
}

// formatSpec skips a conversion or format spec up to the brace closing the
// replacement field.
func (s *scanner) formatSpec() {
	depth := 0
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				s.closeField()
				return
			}
			depth--
		}
		s.pos++
	}
}

// closeField pops the replacement field ending at s.pos and resumes the
// f-string text.
func (s *scanner) closeField() {
	quote := s.subs[len(s.subs)-1].quote
	s.subs = s.subs[:len(s.subs)-1]
	s.pos++
	s.formatBody(quote)
}

// identifier reads a dotted identifier chain at s.pos, such as req.body.id or
// $_GET. Optional chaining (?.) counts as a dot.
func (s *scanner) identifier() (string, int) {
	start := s.pos
	for {
		for s.pos < len(s.src) && isIdentPart(s.src[s.pos]) {
			s.pos++
		}
		rest := s.src[s.pos:]
		switch {
		case strings.HasPrefix(rest, "?.") && len(rest) > 2 && isIdentStart(rest[2]):
			s.pos += 2
		case strings.HasPrefix(rest, "->") && len(rest) > 2 && isIdentStart(rest[2]):
			s.pos += 2
		case len(rest) > 1 && rest[0] == '.' && isIdentStart(rest[1]):
			s.pos++
		default:
			name := strings.ReplaceAll(strings.ReplaceAll(s.src[start:s.pos], "?.", "."), "->", ".")
			return name, start
		}
	}
}

// walk calls fn for every identifier chain outside string literals with the
// chain's start offset and the offset just past it.
func walk(expr string, fn func(name string, start, end int)) {
	s := scanner{src: expr}
	for s.pos < len(s.src) {
		if s.skipLiteral() {
			continue
		}
		if s.braces() {
			continue
		}
		c := s.src[s.pos]
		switch {
		case isIdentStart(c) && (s.pos == 0 || !isIdentPart(s.src[s.pos-1])):
			name, start := s.identifier()
			fn(name, start, s.pos)
		case c >= '0' && c <= '9':
			for s.pos < len(s.src) && isIdentPart(s.src[s.pos]) {
				s.pos++
			}
		default:
			s.pos++
		}
	}
}

// identifiers returns the distinct value names an expression reads, in order
// of first appearance.
func identifiers(expr string) []string {
	var out []string
	walk(expr, func(name string, _, _ int) {
		if _, kw := keywords[name]; kw {
			return
		}
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	})
	return out
}

// calls returns every call expression of expr, outermost first within each
// nesting level, ordered by start offset.
func calls(expr string) []callSpan {
	var out []callSpan
	walk(expr, func(name string, start, end int) {
		i := end
		for i < len(expr) && (expr[i] == ' ' || expr[i] == '\t') {
			i++
		}
		if i >= len(expr) || expr[i] != '(' {
			return
		}
		if _, kw := keywords[name]; kw {
			return
		}
		if closeAt := matchParen(expr, i); closeAt > 0 {
			out = append(out, callSpan{name: name, span: span{start: start, end: closeAt + 1}})
		}
	})
	return out
}

// matchParen returns the offset of the parenthesis closing the one at open,
// or -1 when the expression is unbalanced.
func matchParen(expr string, open int) int {
	s := scanner{src: expr, pos: open}
	depth := 0
	for s.pos < len(s.src) {
		if s.skipLiteral() {
			continue
		}
		if s.braces() {
			continue
		}
		switch s.src[s.pos] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s.pos
			}
		}
		s.pos++
	}
	return -1
}

// blank replaces every span of expr with spaces. It reports whether anything
// was removed.
func blank(expr string, spans []span) (string, bool) {
	if len(spans) == 0 {
		return expr, false
	}
	b := []byte(expr)
	for _, sp := range spans {
		for i := max(sp.start, 0); i < min(sp.end, len(b)); i++ {
			b[i] = ' '
		}
	}
	return string(b), true
}

// related reports whether reading name observes slot: the two are equal or
// one is a dotted prefix of the other.
func related(slot, name string) bool {
	if slot == name {
		return true
	}
	if len(slot) < len(name) {
		return strings.HasPrefix(name, slot) && name[len(slot)] == '.'
	}
	return strings.HasPrefix(slot, name) && slot[len(name)] == '.'
}

// under reports whether slot is name or one of its dotted sub-slots.
func under(slot, name string) bool {
	return slot == name || (strings.HasPrefix(slot, name) && len(slot) > len(name) && slot[len(name)] == '.')
}
