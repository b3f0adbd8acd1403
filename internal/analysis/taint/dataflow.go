// internal/analysis/taint/dataflow.go
package taint

import (
	"context"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
)

type blockStatus uint8

const (
	blockUnvisited blockStatus = iota
	blockPending
	blockProcessed
)

type pairKey struct {
	source, sink int
}

// funcResult is what one function analysis hands back to the coordinator.
type funcResult struct {
	fn       int
	summary  *summary
	findings map[pairKey]*prov
	// args holds, per callee, the parameters this function passes taint into.
	args      map[int]uint64
	cancelled bool
}

// snapshot is the read-only view of the previous round a worker runs against.
type snapshot struct {
	summaries []*summary
	params    []uint64
}

// worker runs the intraprocedural dataflow of one function.
type worker struct {
	prog    *program
	snap    snapshot
	maxHops int
	f       *function
	res     *funcResult
}

func (p *program) analyzeFunction(ctx context.Context, fn int, snap snapshot, maxHops int) *funcResult {
	w := &worker{
		prog:    p,
		snap:    snap,
		maxHops: maxHops,
		f:       p.funcs[fn],
		res: &funcResult{
			fn:       fn,
			summary:  newSummary(),
			findings: make(map[pairKey]*prov),
			args:     make(map[int]uint64),
		},
	}
	w.run(ctx)
	return w.res
}

func (w *worker) entryState() state {
	f := w.f
	st := make(state)
	file := f.key.file
	set := w.snap.params[f.idx]
	for i, name := range f.params {
		if name == "" || set&paramBit(i) == 0 {
			continue
		}
		st.set(name, paramRoot(i), newProv(step{kind: schemas.StepParameter, fn: f.idx, block: f.entry, pos: -1, line: f.line, file: file, detail: name}))
	}
	for _, si := range w.prog.endpoints[f.idx] {
		src := w.prog.sources[si]
		origin := newProv(step{kind: schemas.StepSource, fn: f.idx, block: f.entry, pos: -2, line: src.Location.Line, file: src.Location.File, detail: src.Function})
		for _, name := range f.params {
			if name == "" {
				continue
			}
			st.set(name, sourceRoot(si), origin.push(step{kind: schemas.StepParameter, fn: f.idx, block: f.entry, pos: -1, line: f.line, file: file, detail: name}))
		}
	}
	return st
}

// run is a FIFO worklist over the function's blocks. Block states only grow
// under join, so the loop reaches a fixed point on any CFG.
func (w *worker) run(ctx context.Context) {
	f := w.f
	in := make([]state, len(f.blocks))
	status := make([]blockStatus, len(f.blocks))

	in[f.entry] = w.entryState()
	status[f.entry] = blockPending
	queue := []int{f.entry}

	for len(queue) > 0 {
		if ctx.Err() != nil {
			w.res.cancelled = true
			return
		}
		b := queue[0]
		queue = queue[1:]
		status[b] = blockProcessed

		st := in[b].clone()
		for pos, s := range f.stmts[b] {
			w.transfer(st, b, pos, s)
		}

		for _, succ := range f.blocks[b].succ {
			if in[succ] == nil {
				in[succ] = make(state)
			}
			changed := in[succ].join(st)
			if status[succ] == blockPending {
				continue
			}
			if status[succ] == blockUnvisited || changed {
				status[succ] = blockPending
				queue = append(queue, succ)
			}
		}
	}
}

func (w *worker) transfer(st state, b, pos int, s stmt) {
	p := w.prog
	f := w.f
	at := func(kind schemas.StepKind, file, detail string) step {
		return step{kind: kind, fn: f.idx, block: b, pos: pos, line: s.line, file: file, detail: detail}
	}

	switch s.kind {
	case stmtSeed:
		seed := p.seeds[s.ref]
		src := p.sources[seed.source]
		st.set(seed.slot, sourceRoot(seed.source), newProv(at(schemas.StepSource, src.Location.File, seed.slot)))

	case stmtCall:
		c := p.calls[s.ref]
		callee := w.snap.summaries[c.callee]
		callStep := at(schemas.StepCall, c.file, c.name)
		for _, bnd := range c.bindings {
			for r, chain := range st.read(bnd.names) {
				w.res.args[c.callee] |= paramBit(bnd.param)
				for sink, tail := range callee.sinks[bnd.param] {
					w.record(r, sink, w.compose(chain, callStep, tail))
				}
			}
		}

	case stmtSink:
		u := p.sinkUses[s.ref]
		sink := p.sinks[u.sink]
		sinkStep := at(schemas.StepSink, sink.Location.File, sink.Name)
		for r, chain := range st.read(u.names) {
			w.record(r, u.sink, chain.push(sinkStep))
		}

	case stmtAssign:
		a := p.assigns[s.ref]
		assignStep := at(schemas.StepAssignment, a.file, a.target)
		flows := make(map[root]*prov)
		for r, chain := range st.read(a.names) {
			flows[r] = chain.push(assignStep)
		}
		for _, ci := range a.calls {
			w.returnFlows(st, ci, assignStep, flows)
		}
		st.kill(a.target)
		for r, chain := range flows {
			st.set(a.target, r, chain)
		}

	case stmtReturn:
		ret := p.returns[s.ref]
		retStep := at(schemas.StepReturn, ret.file, ret.expr)
		for r, chain := range st.read(ret.names) {
			if r.isParam() {
				w.res.summary.addReturn(r.param(), chain.push(retStep))
			} else {
				w.res.summary.addIntrinsic(r.source(), chain.push(retStep))
			}
		}
	}
}

// returnFlows adds the taint a resolved call contributes to an assignment
// through the callee's return value.
func (w *worker) returnFlows(st state, ci int, assignStep step, flows map[root]*prov) {
	c := w.prog.calls[ci]
	callee := w.snap.summaries[c.callee]
	callStep := assignStep
	callStep.kind = schemas.StepCall
	callStep.detail = c.name

	keep := func(r root, p *prov) {
		if better(p, flows[r]) {
			flows[r] = p
		}
	}
	for _, bnd := range c.bindings {
		tail, ok := callee.returns[bnd.param]
		if !ok {
			continue
		}
		for r, chain := range st.read(bnd.names) {
			keep(r, w.compose(chain, callStep, tail).push(assignStep))
		}
	}
	for si, tail := range callee.intrinsic {
		keep(sourceRoot(si), w.lift(tail, c).push(assignStep))
	}
}

// compose joins a caller chain, the call step and a callee chain that starts
// at a parameter. Chains deeper than the hop limit keep the caller side, a
// truncation marker and the final callee step.
func (w *worker) compose(caller *prov, call step, callee *prov) *prov {
	depth := caller.depth + callee.depth + 1
	if depth <= w.maxHops {
		return caller.push(call).concat(callee, depth)
	}
	out := caller.push(call).push(w.marker(call)).push(callee.step)
	out.depth = w.maxHops + 1
	out.truncated = true
	return out
}

// lift carries a chain rooted in the callee out through the call.
func (w *worker) lift(tail *prov, c callSite) *prov {
	depth := tail.depth + 1
	if depth <= w.maxHops {
		out := &prov{step: tail.step, prev: tail.prev, len: tail.len, depth: depth, truncated: tail.truncated}
		return out
	}
	out := newProv(tail.first()).push(w.marker(step{file: c.file, line: c.line, detail: c.name})).push(tail.step)
	out.depth = w.maxHops + 1
	out.truncated = true
	return out
}

func (w *worker) marker(at step) step {
	return step{kind: schemas.StepTruncated, fn: -1, block: -1, pos: -1, line: at.line, file: at.file, detail: at.detail}
}

func (w *worker) record(r root, sink int, chain *prov) {
	if r.isParam() {
		w.res.summary.addSink(r.param(), sink, chain)
		return
	}
	k := pairKey{source: r.source(), sink: sink}
	if better(chain, w.res.findings[k]) {
		w.res.findings[k] = chain
	}
}
