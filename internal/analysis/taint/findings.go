// internal/analysis/taint/findings.go
package taint

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
	"github.com/xkilldash9x/scalpel-taint/internal/discovery"
	"github.com/xkilldash9x/scalpel-taint/internal/facts"
)

type endpointKey struct {
	loc      facts.Location
	category string
}

type flowKey struct {
	source, sink endpointKey
}

// findings turns proven (source, sink) chains into findings. Chains that fail
// the feasibility check are dropped with a diagnostic; flows between the same
// source and sink locations collapse to their canonical chain.
func (p *program) findings(candidates map[pairKey]*prov) ([]schemas.Finding, []schemas.Diagnostic) {
	keys := slices.SortedFunc(maps.Keys(candidates), func(a, b pairKey) int {
		return cmp.Or(cmp.Compare(a.source, b.source), cmp.Compare(a.sink, b.sink))
	})

	var diags []schemas.Diagnostic
	type pick struct {
		key   pairKey
		chain *prov
	}
	best := make(map[flowKey]pick)
	var order []flowKey

	for _, k := range keys {
		chain := candidates[k]
		src, sink := p.sources[k.source], p.sinks[k.sink]
		if ok, why := p.feasible(chain.steps()); !ok {
			diags = append(diags, schemas.Diagnostic{
				Kind:     schemas.DiagInfeasiblePath,
				Message:  fmt.Sprintf("flow from %s to %s dropped: %s", src.ID, sink.ID, why),
				File:     sink.Location.File,
				Function: p.funcName(chain.step.fn),
				Line:     sink.Location.Line,
			})
			continue
		}
		fk := flowKey{
			source: endpointKey{loc: src.Location, category: src.Category},
			sink:   endpointKey{loc: sink.Location, category: sink.Category},
		}
		cur, seen := best[fk]
		if !seen {
			order = append(order, fk)
		}
		if !seen || better(chain, cur.chain) {
			best[fk] = pick{key: k, chain: chain}
		}
	}

	out := make([]schemas.Finding, 0, len(order))
	for _, fk := range order {
		pk := best[fk]
		src, sink := p.sources[pk.key.source], p.sinks[pk.key.sink]
		f := schemas.Finding{
			Severity:  severity(src, sink),
			Category:  discovery.FindingCategory(sink.Category),
			Source:    endpoint(src.Location, src.Category, cmp.Or(src.Symbol, src.Function), src.Rule, src.Risk),
			Sink:      endpoint(sink.Location, sink.Category, sink.Name, sink.Rule, sink.Risk),
			Path:      p.render(pk.chain),
			HopDepth:  pk.chain.depth,
			Truncated: pk.chain.truncated,
		}
		if f.Truncated {
			diags = append(diags, schemas.Diagnostic{
				Kind:     schemas.DiagMaxDepthTruncation,
				Message:  fmt.Sprintf("path from %s to %s exceeds the hop limit", src.ID, sink.ID),
				File:     sink.Location.File,
				Function: p.funcName(pk.chain.step.fn),
				Line:     sink.Location.Line,
			})
		}
		out = append(out, f)
	}
	return out, diags
}

func (p *program) render(chain *prov) []schemas.Step {
	steps := chain.steps()
	out := make([]schemas.Step, len(steps))
	for i, s := range steps {
		out[i] = schemas.Step{Kind: s.kind, File: s.file, Line: s.line, Function: p.funcName(s.fn), Detail: s.detail}
	}
	return out
}

func (p *program) funcName(fn int) string {
	if fn < 0 || fn >= len(p.funcs) {
		return ""
	}
	return p.funcs[fn].key.name
}

func endpoint(loc facts.Location, category, name, rule string, risk schemas.Severity) schemas.Endpoint {
	return schemas.Endpoint{
		Location: schemas.Location{File: loc.File, Line: loc.Line, Column: loc.Column},
		Category: category,
		Name:     name,
		Rule:     rule,
		Risk:     string(risk),
	}
}

// severity is the sink's risk, one level lower when the source itself is
// low risk.
func severity(src discovery.Source, sink discovery.Sink) schemas.Severity {
	if src.Risk != schemas.SeverityLow {
		return sink.Risk
	}
	switch sink.Risk {
	case schemas.SeverityCritical:
		return schemas.SeverityHigh
	case schemas.SeverityHigh:
		return schemas.SeverityMedium
	case schemas.SeverityMedium:
		return schemas.SeverityLow
	default:
		return schemas.SeverityInfo
	}
}
