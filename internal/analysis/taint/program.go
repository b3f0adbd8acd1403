// internal/analysis/taint/program.go
package taint

import (
	"cmp"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
	"github.com/xkilldash9x/scalpel-taint/internal/discovery"
	"github.com/xkilldash9x/scalpel-taint/internal/facts"
)

type stmtKind uint8

// Statement kinds in their evaluation order within one line.
const (
	stmtSeed stmtKind = iota
	stmtCall
	stmtSink
	stmtAssign
	stmtReturn
)

type stmt struct {
	kind stmtKind
	line int
	seq  int
	ref  int
}

type seedStmt struct {
	source int
	slot   string
}

// binding ties one actual argument to a formal parameter of the callee.
type binding struct {
	param int
	expr  string
	names []string
}

type callSite struct {
	fn       int
	callee   int
	file     string
	line     int
	name     string
	bindings []binding
}

type assignStmt struct {
	file   string
	line   int
	target string
	names  []string
	// calls are the resolved call sites whose return value flows into the target.
	calls []int
}

type sinkUse struct {
	sink  int
	names []string
}

type returnStmt struct {
	file  string
	line  int
	expr  string
	names []string
}

type lineKey struct {
	file string
	line int
}

type callKey struct {
	fn   int
	line int
	name string
}

// program is the arena plus every statement placed into its blocks.
type program struct {
	*arena
	sources []discovery.Source
	sinks   []discovery.Sink

	seeds    []seedStmt
	calls    []callSite
	assigns  []assignStmt
	sinkUses []sinkUse
	returns  []returnStmt

	// endpoints maps a handler function to the endpoint sources that taint
	// all of its parameters on entry.
	endpoints map[int][]int
	diags     []schemas.Diagnostic
	seq       int
}

func buildProgram(cache *facts.Cache, sources []discovery.Source, sinks []discovery.Sink, san *sanitizers, logger *zap.Logger) *program {
	p := &program{
		arena:     newArena(cache),
		sources:   sources,
		sinks:     sinks,
		endpoints: make(map[int][]int),
	}
	for _, f := range p.funcs {
		f.stmts = make([][]stmt, len(f.blocks))
	}

	p.placeSeeds(logger)
	callIndex := p.placeCalls(cache, san)
	p.placeSinks(cache, san)
	p.placeAssignments(cache, san, callIndex)
	p.placeReturns(cache, san)

	for _, f := range p.funcs {
		for b := range f.stmts {
			slices.SortFunc(f.stmts[b], func(x, y stmt) int {
				return cmp.Or(cmp.Compare(x.line, y.line), cmp.Compare(x.kind, y.kind), cmp.Compare(x.seq, y.seq))
			})
		}
		slices.Sort(f.callers)
		slices.Sort(f.callees)
	}
	return p
}

func (p *program) add(fn, b int, kind stmtKind, line, ref int) {
	p.seq++
	f := p.funcs[fn]
	f.stmts[b] = append(f.stmts[b], stmt{kind: kind, line: line, seq: p.seq, ref: ref})
}

func (p *program) placeSeeds(logger *zap.Logger) {
	for i, src := range p.sources {
		switch {
		case src.Function != "":
			fn := p.resolve(src.Function, "", src.Location.File)
			if fn < 0 {
				logger.Debug("Handler of endpoint source not found", zap.String("source", src.ID), zap.String("handler", src.Function))
				continue
			}
			p.endpoints[fn] = append(p.endpoints[fn], i)
		case src.Symbol != "":
			fn, b := p.place(src.Location.File, src.Location.Line, "")
			if fn < 0 {
				logger.Debug("Source outside any function", zap.String("source", src.ID))
				continue
			}
			p.seeds = append(p.seeds, seedStmt{source: i, slot: src.Symbol})
			p.add(fn, b, stmtSeed, src.Location.Line, len(p.seeds)-1)
		}
	}
}

// placeCalls groups function_call_args rows into call sites of resolved
// callees and binds their arguments.
func (p *program) placeCalls(cache *facts.Cache, san *sanitizers) map[callKey]int {
	type siteKey struct {
		file, caller, callee, calleeFile string
		line                             int
	}
	sites := make(map[siteKey]int)
	index := make(map[callKey]int)

	for _, row := range cache.FunctionCallArgs().All() {
		calleeFile := ""
		if row.CalleeFilePath.Valid {
			calleeFile = row.CalleeFilePath.String
		}
		callee := p.resolve(row.CalleeFunction, calleeFile, row.File)
		if callee < 0 {
			continue
		}
		fn, b := p.place(row.File, row.Line, row.CallerFunction)
		if fn < 0 {
			continue
		}

		key := siteKey{file: row.File, caller: row.CallerFunction, callee: row.CalleeFunction, calleeFile: calleeFile, line: row.Line}
		ci, ok := sites[key]
		if !ok {
			p.calls = append(p.calls, callSite{fn: fn, callee: callee, file: row.File, line: row.Line, name: row.CalleeFunction})
			ci = len(p.calls) - 1
			sites[key] = ci
			if _, dup := index[callKey{fn: fn, line: row.Line, name: row.CalleeFunction}]; !dup {
				index[callKey{fn: fn, line: row.Line, name: row.CalleeFunction}] = ci
			}
			p.link(fn, callee)
			p.add(fn, b, stmtCall, row.Line, ci)
		}

		if !row.ArgumentExpr.Valid || row.ArgumentExpr.String == "" {
			continue
		}
		param, ok := p.bind(callee, row)
		if !ok {
			p.diags = append(p.diags, schemas.Diagnostic{
				Kind:     schemas.DiagUnresolvedBinding,
				Message:  fmt.Sprintf("argument %q of call to %s matches no parameter", row.ArgumentExpr.String, row.CalleeFunction),
				File:     row.File,
				Function: row.CallerFunction,
				Line:     row.Line,
			})
			continue
		}
		expr := row.ArgumentExpr.String
		p.calls[ci].bindings = append(p.calls[ci].bindings, binding{
			param: param,
			expr:  expr,
			names: san.residualNames(expr, row.File, row.Line, nil),
		})
	}
	return index
}

// bind maps an argument row to a formal parameter. The position decides; the
// parameter name is consulted when the position is missing or out of range.
func (p *program) bind(callee int, row facts.FunctionCallArgsRow) (int, bool) {
	f := p.funcs[callee]
	if row.ArgumentIndex.Valid {
		i := int(row.ArgumentIndex.Int64)
		if i >= 0 && i < len(f.params) && f.params[i] != "" {
			return i, true
		}
	}
	if row.ParamName.Valid {
		if i, ok := f.paramIndex[row.ParamName.String]; ok {
			return i, true
		}
	}
	return 0, false
}

func (p *program) placeSinks(cache *facts.Cache, san *sanitizers) {
	for k, sink := range p.sinks {
		hint := ""
		switch sink.Origin.Table {
		case "function_call_args":
			if sink.Origin.Row < cache.FunctionCallArgs().Len() {
				hint = cache.FunctionCallArgs().At(sink.Origin.Row).CallerFunction
			}
		case "assignments":
			if sink.Origin.Row < cache.Assignments().Len() {
				hint = cache.Assignments().At(sink.Origin.Row).InFunction
			}
		}
		fn, b := p.place(sink.Location.File, sink.Location.Line, hint)
		if fn < 0 {
			continue
		}
		var names []string
		for _, arg := range sink.Args {
			for _, n := range san.residualNames(arg, sink.Location.File, sink.Location.Line, nil) {
				if !slices.Contains(names, n) {
					names = append(names, n)
				}
			}
		}
		if len(names) == 0 {
			continue
		}
		p.sinkUses = append(p.sinkUses, sinkUse{sink: k, names: names})
		p.add(fn, b, stmtSink, sink.Location.Line, len(p.sinkUses)-1)
	}
}

func (p *program) placeAssignments(cache *facts.Cache, san *sanitizers, callIndex map[callKey]int) {
	type assignKey struct {
		file, target string
		line         int
	}
	recorded := make(map[assignKey][]string)
	for _, s := range cache.AssignmentSources().All() {
		k := assignKey{file: s.AssignmentFile, target: s.AssignmentTarget, line: s.AssignmentLine}
		recorded[k] = append(recorded[k], s.SourceVarName)
	}

	for _, row := range cache.Assignments().All() {
		fn, b := p.place(row.File, row.Line, row.InFunction)
		if fn < 0 {
			continue
		}
		a := assignStmt{file: row.File, line: row.Line, target: row.TargetVar}
		names := san.residualNames(row.SourceExpr, row.File, row.Line, func(c callSpan) bool {
			ci, ok := callIndex[callKey{fn: fn, line: row.Line, name: c.name}]
			if ok && !slices.Contains(a.calls, ci) {
				a.calls = append(a.calls, ci)
			}
			return ok
		})
		if rec, ok := recorded[assignKey{file: row.File, target: row.TargetVar, line: row.Line}]; ok {
			names = filterRecorded(rec, names, san.removedAny(row.SourceExpr, row.File, row.Line, len(a.calls) > 0))
		}
		a.names = names
		p.assigns = append(p.assigns, a)
		p.add(fn, b, stmtAssign, row.Line, len(p.assigns)-1)
	}
}

func (p *program) placeReturns(cache *facts.Cache, san *sanitizers) {
	recorded := make(map[lineKey][]string)
	for _, s := range cache.FunctionReturnSources().All() {
		k := lineKey{file: s.ReturnFile, line: s.ReturnLine}
		recorded[k] = append(recorded[k], s.ReturnVarName)
	}

	for _, row := range cache.FunctionReturns().All() {
		fn, b := p.place(row.File, row.Line, row.FunctionName)
		if fn < 0 {
			continue
		}
		names := san.residualNames(row.ReturnExpr, row.File, row.Line, nil)
		if rec, ok := recorded[lineKey{file: row.File, line: row.Line}]; ok {
			names = filterRecorded(rec, names, san.removedAny(row.ReturnExpr, row.File, row.Line, false))
		}
		p.returns = append(p.returns, returnStmt{file: row.File, line: row.Line, expr: row.ReturnExpr, names: names})
		p.add(fn, b, stmtReturn, row.Line, len(p.returns)-1)
	}
}

// filterRecorded prefers the extractor's recorded names. When spans were cut
// out of the expression, only recorded names still visible in what remains
// are kept.
func filterRecorded(recorded, residual []string, cut bool) []string {
	var out []string
	for _, r := range recorded {
		if slices.Contains(out, r) {
			continue
		}
		if cut && !slices.ContainsFunc(residual, func(n string) bool { return related(n, r) }) {
			continue
		}
		out = append(out, r)
	}
	return out
}
