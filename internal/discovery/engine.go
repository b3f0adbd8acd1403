// internal/discovery/engine.go
package discovery

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
	"github.com/xkilldash9x/scalpel-taint/internal/facts"
)

// Engine classifies cache rows into taint sources and sinks with a compiled
// rule table. An Engine is immutable and safe for concurrent use.
type Engine struct {
	sources       []compiledRule
	sinks         []compiledRule
	scorer        RiskScorer
	weightAuthed  bool
	logger        *zap.Logger
	rulesSnapshot []Rule
}

type options struct {
	rules        []Rule
	extra        []Rule
	prefixes     []string
	scorer       RiskScorer
	weightAuthed bool
	logger       *zap.Logger
}

// Option configures an Engine.
type Option func(*options)

// WithRules replaces the built-in rule table.
func WithRules(rules []Rule) Option {
	return func(o *options) { o.rules = slices.Clone(rules) }
}

// WithExtraRules layers rules over the table. A rule whose ID is already
// present replaces it; a disabled one removes it.
func WithExtraRules(rules []Rule) Option {
	return func(o *options) { o.extra = append(o.extra, rules...) }
}

// WithRequestPrefixes replaces the symbol prefixes of the request source rule.
func WithRequestPrefixes(prefixes []string) Option {
	return func(o *options) { o.prefixes = slices.Clone(prefixes) }
}

// WithRiskScorer installs a custom scorer for structural risk rules.
func WithRiskScorer(s RiskScorer) Option {
	return func(o *options) { o.scorer = s }
}

// WithAuthenticatedEndpointWeighting lowers the risk of sources on
// authenticated endpoints.
func WithAuthenticatedEndpointWeighting(on bool) Option {
	return func(o *options) { o.weightAuthed = on }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// NewEngine compiles the rule table. Unknown tables, columns or operators
// fail construction.
func NewEngine(opts ...Option) (*Engine, error) {
	o := options{scorer: StructuralScorer{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.scorer == nil {
		o.scorer = StructuralScorer{}
	}

	rules := o.rules
	if rules == nil {
		rules = DefaultRules()
	}
	if len(o.prefixes) > 0 {
		for i := range rules {
			if rules[i].ID == RequestSymbolRuleID {
				rules[i] = requestRule(o.prefixes)
			}
		}
	}
	rules = overlay(rules, o.extra)

	e := &Engine{
		scorer:       o.scorer,
		weightAuthed: o.weightAuthed,
		logger:       o.logger.Named("discovery"),
	}
	seen := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("duplicate rule id %s", r.ID)
		}
		seen[r.ID] = struct{}{}

		cr, err := compileRule(r)
		if err != nil {
			return nil, fmt.Errorf("failed to compile rules: %w", err)
		}
		if r.Kind == KindSource {
			e.sources = append(e.sources, cr)
		} else {
			e.sinks = append(e.sinks, cr)
		}
		e.rulesSnapshot = append(e.rulesSnapshot, r)
	}
	e.logger.Debug("Compiled discovery rules", zap.Int("sources", len(e.sources)), zap.Int("sinks", len(e.sinks)))
	return e, nil
}

// overlay applies extra rules by ID: replace in place, append, or drop when disabled.
func overlay(base, extra []Rule) []Rule {
	out := slices.Clone(base)
	for _, r := range extra {
		i := slices.IndexFunc(out, func(b Rule) bool { return b.ID == r.ID })
		switch {
		case r.Disabled && i >= 0:
			out = slices.Delete(out, i, i+1)
		case r.Disabled:
		case i >= 0:
			out[i] = r
		default:
			out = append(out, r)
		}
	}
	return slices.DeleteFunc(out, func(r Rule) bool { return r.Disabled })
}

// Rules returns the effective rule table in evaluation order.
func (e *Engine) Rules() []Rule {
	return slices.Clone(e.rulesSnapshot)
}

// DiscoverSources classifies every source row of the cache. The result is
// deduplicated and sorted by file, line, column, category, rule and origin.
func (e *Engine) DiscoverSources(cache *facts.Cache) []Source {
	var out []Source
	seen := make(map[hitKey]struct{})
	lines := newLineIndex(cache)

	for _, r := range e.sources {
		seq, ok := cache.Records(r.Table)
		if !ok {
			continue
		}
		for row, rec := range seq {
			if !r.matches(rec) {
				continue
			}
			loc := rec.Location()
			key := hitKey{loc: loc, category: r.Category, origin: Origin{Table: r.Table, Row: row}}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			src := Source{
				Rule:     r.ID,
				Category: r.Category,
				Location: loc,
				Risk:     e.risk(r, rec),
				Origin:   key.origin,
			}
			if r.Function != "" {
				src.Function, _ = rec.Field(r.Function)
			}
			switch {
			case r.Symbol != "":
				src.Symbol = field(rec, r.Symbol)
				if src.Symbol == "" && r.SymbolFallback != "" {
					src.Symbol = field(rec, r.SymbolFallback)
				}
			case r.AssignTargets:
				src.Symbol = lines.assignTarget(loc)
			}
			out = append(out, src)
		}
	}

	slices.SortFunc(out, func(a, b Source) int {
		return compareHit(a.Location, b.Location, a.Category, b.Category, a.Rule, b.Rule, a.Origin, b.Origin)
	})
	for i := range out {
		out[i].ID = hitID("src", out[i].Rule, out[i].Origin)
	}
	e.logger.Debug("Discovered sources", zap.Int("count", len(out)))
	return out
}

// DiscoverSinks classifies every sink row of the cache, deduplicated and
// sorted like DiscoverSources.
func (e *Engine) DiscoverSinks(cache *facts.Cache) []Sink {
	var out []Sink
	seen := make(map[hitKey]struct{})
	lines := newLineIndex(cache)

	for _, r := range e.sinks {
		seq, ok := cache.Records(r.Table)
		if !ok {
			continue
		}
		for row, rec := range seq {
			if !r.matches(rec) {
				continue
			}
			loc := rec.Location()
			key := hitKey{loc: loc, category: r.Category, origin: Origin{Table: r.Table, Row: row}}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			sink := Sink{
				Rule:     r.ID,
				Category: r.Category,
				Location: loc,
				Name:     r.Category,
				Risk:     e.risk(r, rec),
				Origin:   key.origin,
			}
			if r.Name != "" {
				if name := field(rec, r.Name); name != "" {
					sink.Name = name
				}
			}
			if r.Args.SameLineCalls {
				sink.Args = lines.callArgs(loc, r.Args.Callees)
			}
			if len(sink.Args) == 0 && r.Args.Column != "" {
				if arg, ok := rec.Field(r.Args.Column); ok && arg != "" {
					sink.Args = []string{arg}
				}
			}
			out = append(out, sink)
		}
	}

	slices.SortFunc(out, func(a, b Sink) int {
		return compareHit(a.Location, b.Location, a.Category, b.Category, a.Rule, b.Rule, a.Origin, b.Origin)
	})
	for i := range out {
		out[i].ID = hitID("sink", out[i].Rule, out[i].Origin)
	}
	e.logger.Debug("Discovered sinks", zap.Int("count", len(out)))
	return out
}

// risk evaluates the rule's risk function for one row.
func (e *Engine) risk(r compiledRule, rec facts.Record) schemas.Severity {
	switch r.Risk.Kind {
	case RiskFixed:
		return r.Risk.Level
	case RiskAuth:
		authed, ok := rec.Field(r.Risk.Column)
		switch {
		case !ok:
			return schemas.SeverityMedium
		case authed != "true":
			return schemas.SeverityHigh
		case e.weightAuthed:
			return schemas.SeverityLow
		default:
			return schemas.SeverityMedium
		}
	default:
		score := e.scorer.Score(field(rec, r.Risk.Column))
		if r.Risk.Level != "" {
			score = maxRisk(score, r.Risk.Level)
		}
		return score
	}
}

type hitKey struct {
	loc      facts.Location
	category string
	origin   Origin
}

func compareHit(la, lb facts.Location, ca, cb, ra, rb string, oa, ob Origin) int {
	return cmp.Or(
		cmp.Compare(la.File, lb.File),
		cmp.Compare(la.Line, lb.Line),
		cmp.Compare(la.Column, lb.Column),
		cmp.Compare(ca, cb),
		cmp.Compare(ra, rb),
		cmp.Compare(oa.Table, ob.Table),
		cmp.Compare(oa.Row, ob.Row),
	)
}

func hitID(prefix, rule string, o Origin) string {
	return fmt.Sprintf("%s:%s:%s#%d", prefix, rule, o.Table, o.Row)
}

func field(rec facts.Record, column string) string {
	v, _ := rec.Field(column)
	return strings.TrimSpace(v)
}

// lineIndex answers "what else was recorded on this line" for the
// assignment-target and same-line-call lookups.
type lineIndex struct {
	cache *facts.Cache
}

func newLineIndex(cache *facts.Cache) lineIndex {
	return lineIndex{cache: cache}
}

// assignTarget returns the first assignment target recorded at loc.
func (l lineIndex) assignTarget(loc facts.Location) string {
	for _, a := range l.cache.Assignments().ByFile(loc.File) {
		if a.Line == loc.Line {
			return a.TargetVar
		}
	}
	return ""
}

// callArgs returns the argument expressions of the calls recorded at loc,
// in load order. Calls nested inside another call's argument on the same
// line are skipped, as are calls not named in callees when it is non-empty.
func (l lineIndex) callArgs(loc facts.Location, callees []string) []string {
	var rows []facts.FunctionCallArgsRow
	for _, c := range l.cache.FunctionCallArgs().ByFile(loc.File) {
		if c.Line == loc.Line && c.ArgumentExpr.Valid && c.ArgumentExpr.String != "" {
			rows = append(rows, c)
		}
	}

	var args []string
	for _, c := range rows {
		if len(callees) > 0 && !calleeIn(c.CalleeFunction, callees) {
			continue
		}
		if nestedCall(c, rows) {
			continue
		}
		args = append(args, c.ArgumentExpr.String)
	}
	return args
}

// nestedCall reports whether c's call text appears inside the argument of a
// different call on the same line, as escape(x) does in db.query("..." + escape(x)).
func nestedCall(c facts.FunctionCallArgsRow, rows []facts.FunctionCallArgsRow) bool {
	callee := strings.TrimSpace(c.CalleeFunction)
	if callee == "" {
		return false
	}
	for _, o := range rows {
		if o.CalleeFunction == c.CalleeFunction {
			continue
		}
		arg := o.ArgumentExpr.String
		for i := strings.Index(arg, callee); i >= 0; {
			rest := strings.TrimLeft(arg[i+len(callee):], " \t")
			if strings.HasPrefix(rest, "(") && (i == 0 || !isNamePart(arg[i-1])) {
				return true
			}
			next := strings.Index(arg[i+1:], callee)
			if next < 0 {
				break
			}
			i += next + 1
		}
	}
	return false
}

func calleeIn(callee string, names []string) bool {
	last := LastSegment(callee)
	for _, n := range names {
		if n == callee || n == last {
			return true
		}
	}
	return false
}

func isNamePart(c byte) bool {
	return c == '_' || c == '$' || c == '.' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
