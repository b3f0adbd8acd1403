// internal/analysis/taint/sanitizers.go
package taint

import (
	"github.com/xkilldash9x/scalpel-taint/internal/discovery"
	"github.com/xkilldash9x/scalpel-taint/internal/facts"
)

// DefaultSanitizers are the functions whose return value is considered clean.
// A name matches a call exactly or by its last dotted segment.
var DefaultSanitizers = []string{
	"escape", "escapeHtml", "escapeHTML", "escapeId", "escapeLiteral", "escapeIdentifier",
	"sanitize", "sanitizeHtml", "DOMPurify.sanitize", "xss", "encodeURIComponent", "encodeURI",
	"html.escape", "markupsafe.escape", "bleach.clean", "shlex.quote", "pipes.quote",
	"htmlspecialchars", "htmlentities", "escapeshellarg", "escapeshellcmd", "mysqli_real_escape_string",
	"html.EscapeString", "template.HTMLEscapeString", "url.QueryEscape", "strconv.Atoi",
	"parseInt", "parseFloat", "Number", "int", "float", "path.basename", "os.path.basename",
}

// sanitizers decides which calls clean their result.
type sanitizers struct {
	names map[string]struct{}
	// validators are methods recorded as validators, scoped to their line.
	validators map[lineKey]map[string]struct{}
}

func newSanitizers(names []string, cache *facts.Cache) *sanitizers {
	s := &sanitizers{
		names:      make(map[string]struct{}, len(names)),
		validators: make(map[lineKey]map[string]struct{}),
	}
	for _, n := range names {
		if n != "" {
			s.names[n] = struct{}{}
		}
	}
	if cache == nil {
		return s
	}
	for _, v := range cache.ValidationFrameworkUsage().All() {
		if !v.IsValidator || v.Method == "" {
			continue
		}
		k := lineKey{file: v.FilePath, line: v.Line}
		if s.validators[k] == nil {
			s.validators[k] = make(map[string]struct{})
		}
		s.validators[k][discovery.LastSegment(v.Method)] = struct{}{}
	}
	return s
}

// match reports whether a call to name at file:line sanitizes its result.
func (s *sanitizers) match(name, file string, line int) bool {
	if _, ok := s.names[name]; ok {
		return true
	}
	last := discovery.LastSegment(name)
	if _, ok := s.names[last]; ok {
		return true
	}
	if v, ok := s.validators[lineKey{file: file, line: line}]; ok {
		_, ok = v[last]
		return ok
	}
	return false
}

// residualNames returns the names expr reads once sanitizer calls, and calls
// accepted by cut, are removed from it.
func (s *sanitizers) residualNames(expr, file string, line int, cut func(callSpan) bool) []string {
	var spans []span
	for _, c := range calls(expr) {
		if covered(spans, c.span) {
			continue
		}
		if s.match(c.name, file, line) || (cut != nil && cut(c)) {
			spans = append(spans, c.span)
		}
	}
	rest, _ := blank(expr, spans)
	return identifiers(rest)
}

// removedAny reports whether residualNames would cut anything from expr.
func (s *sanitizers) removedAny(expr, file string, line int, cutCalls bool) bool {
	if cutCalls {
		return true
	}
	for _, c := range calls(expr) {
		if s.match(c.name, file, line) {
			return true
		}
	}
	return false
}

func covered(spans []span, sp span) bool {
	for _, o := range spans {
		if sp.start >= o.start && sp.end <= o.end {
			return true
		}
	}
	return false
}
