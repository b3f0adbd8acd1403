// internal/discovery/risk.go
package discovery

import (
	"regexp"
	"strings"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
)

// RiskScorer grades how an argument expression was built.
type RiskScorer interface {
	Score(expr string) schemas.Severity
}

// RiskScorerFunc adapts a plain function to RiskScorer.
type RiskScorerFunc func(expr string) schemas.Severity

func (f RiskScorerFunc) Score(expr string) schemas.Severity { return f(expr) }

// StructuralScorer is the default RiskScorer. Expressions assembled by
// concatenation or interpolation score high, expressions using bind
// parameters score low and everything else scores medium.
type StructuralScorer struct{}

// interpolation markers are searched in the raw text, literals included.
var interpolationMarkers = []string{"${", `".`, `'.`, "%s", "%d", ".format("}

var (
	formatLiteral = regexp.MustCompile(`(^|[^\w])f["']`)
	bindMarker    = regexp.MustCompile(`\?|\$\d+|(^|[^:\w]):[A-Za-z_]\w*|(^|[^\w])@[A-Za-z_]\w*|%\(\w+\)s`)
)

// Score implements RiskScorer.
func (StructuralScorer) Score(expr string) schemas.Severity {
	if concatenates(expr) {
		return schemas.SeverityHigh
	}
	for _, m := range interpolationMarkers {
		if strings.Contains(expr, m) {
			return schemas.SeverityHigh
		}
	}
	if formatLiteral.MatchString(expr) {
		return schemas.SeverityHigh
	}
	if bindMarker.MatchString(expr) {
		return schemas.SeverityLow
	}
	return schemas.SeverityMedium
}

// concatenates reports a '+' operator, or a spaced '.' operator, outside of
// string literals.
func concatenates(expr string) bool {
	var quote byte
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if quote != 0 {
			switch {
			case c == '\\':
				i++
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '+':
			if i+1 < len(expr) && expr[i+1] == '+' {
				i++
				continue
			}
			return true
		case '.':
			if i > 0 && i+1 < len(expr) && expr[i-1] == ' ' && expr[i+1] == ' ' {
				return true
			}
		}
	}
	return false
}

// maxRisk returns the more severe of two levels.
func maxRisk(a, b schemas.Severity) schemas.Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}
