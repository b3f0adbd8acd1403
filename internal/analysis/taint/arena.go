// internal/analysis/taint/arena.go
package taint

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/xkilldash9x/scalpel-taint/internal/discovery"
	"github.com/xkilldash9x/scalpel-taint/internal/facts"
)

const (
	blockEntry = "entry"
	blockExit  = "exit"
)

// maxTrackedParams bounds the parameters whose taint is tracked per function.
const maxTrackedParams = 64

type funcKey struct {
	file, name string
}

type block struct {
	id         int
	typ        string
	start, end int
	succ, pred []int
}

// function is one analysable unit of the arena. Blocks and statements are
// addressed by their index in the function.
type function struct {
	idx        int
	key        funcKey
	blocks     []block
	blockIndex map[int]int
	entry      int
	// reach[i] holds the blocks reachable from i through at least one edge.
	reach      [][]uint64
	params     []string
	paramIndex map[string]int
	analyzable bool
	reason     string
	line       int

	stmts   [][]stmt
	callers []int
	callees []int
}

func (f *function) reaches(from, to int) bool {
	return f.reach[from][to/64]&(1<<(uint(to)%64)) != 0
}

// arena indexes every function of the cache.
type arena struct {
	funcs  []*function
	byKey  map[funcKey]int
	byName map[string][]int
	byLast map[string][]int
	edges  map[[2]int]struct{}
}

// newArena builds functions from cfg_blocks, attaches edges and parameters
// and validates every CFG.
func newArena(cache *facts.Cache) *arena {
	a := &arena{
		byKey:  make(map[funcKey]int),
		byName: make(map[string][]int),
		byLast: make(map[string][]int),
		edges:  make(map[[2]int]struct{}),
	}

	var keys []funcKey
	seen := make(map[funcKey]struct{})
	for _, b := range cache.CFGBlocks().All() {
		k := funcKey{file: b.File, name: b.FunctionName}
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, func(x, y funcKey) int {
		return cmp.Or(cmp.Compare(x.file, y.file), cmp.Compare(x.name, y.name))
	})

	for i, k := range keys {
		f := &function{idx: i, key: k, blockIndex: make(map[int]int), paramIndex: make(map[string]int), entry: -1}
		a.funcs = append(a.funcs, f)
		a.byKey[k] = i
		a.byName[k.name] = append(a.byName[k.name], i)
		last := discovery.LastSegment(k.name)
		a.byLast[last] = append(a.byLast[last], i)
	}

	for _, b := range cache.CFGBlocks().All() {
		f := a.funcs[a.byKey[funcKey{file: b.File, name: b.FunctionName}]]
		if _, dup := f.blockIndex[b.ID]; dup {
			f.reason = fmt.Sprintf("duplicate block id %d", b.ID)
			continue
		}
		f.blockIndex[b.ID] = len(f.blocks)
		f.blocks = append(f.blocks, block{id: b.ID, typ: b.BlockType, start: b.StartLine, end: b.EndLine})
	}

	for _, e := range cache.CFGEdges().All() {
		i, ok := a.byKey[funcKey{file: e.File, name: e.FunctionName}]
		if !ok {
			continue
		}
		f := a.funcs[i]
		from, okFrom := f.blockIndex[e.SourceBlockID]
		to, okTo := f.blockIndex[e.TargetBlockID]
		if !okFrom || !okTo {
			if f.reason == "" {
				f.reason = fmt.Sprintf("edge %d references block outside the function", e.ID)
			}
			continue
		}
		if !slices.Contains(f.blocks[from].succ, to) {
			f.blocks[from].succ = append(f.blocks[from].succ, to)
			f.blocks[to].pred = append(f.blocks[to].pred, from)
		}
	}

	for _, p := range cache.FuncParams().All() {
		i, ok := a.byKey[funcKey{file: p.File, name: p.FunctionName}]
		if !ok || p.ParamIndex < 0 || p.ParamIndex >= maxTrackedParams {
			continue
		}
		f := a.funcs[i]
		for len(f.params) <= p.ParamIndex {
			f.params = append(f.params, "")
		}
		f.params[p.ParamIndex] = p.ParamName
		f.paramIndex[p.ParamName] = p.ParamIndex
	}

	for _, f := range a.funcs {
		for i := range f.blocks {
			slices.Sort(f.blocks[i].succ)
			slices.Sort(f.blocks[i].pred)
		}
		f.validate()
	}
	return a
}

// validate decides whether the function's CFG is well formed and computes
// reachability for analysable functions.
func (f *function) validate() {
	f.analyzable = false
	if f.reason != "" {
		return
	}
	for i, b := range f.blocks {
		if b.typ != blockEntry {
			continue
		}
		if f.entry >= 0 {
			f.reason = "multiple entry blocks"
			return
		}
		f.entry = i
	}
	if f.entry < 0 {
		f.reason = "no entry block"
		return
	}
	f.line = f.blocks[f.entry].start
	for _, b := range f.blocks {
		if b.typ != blockExit && len(b.succ) == 0 {
			f.reason = fmt.Sprintf("block %d has no successor", b.id)
			return
		}
	}

	words := (len(f.blocks) + 63) / 64
	f.reach = make([][]uint64, len(f.blocks))
	for i := range f.blocks {
		set := make([]uint64, words)
		queue := slices.Clone(f.blocks[i].succ)
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			if set[n/64]&(1<<(uint(n)%64)) != 0 {
				continue
			}
			set[n/64] |= 1 << (uint(n) % 64)
			queue = append(queue, f.blocks[n].succ...)
		}
		f.reach[i] = set
	}

	reached := 1
	for i := range f.blocks {
		if i != f.entry && f.reaches(f.entry, i) {
			reached++
		}
	}
	if reached != len(f.blocks) {
		for i, b := range f.blocks {
			if i != f.entry && !f.reaches(f.entry, i) {
				f.reason = fmt.Sprintf("block %d is unreachable from entry", b.id)
				break
			}
		}
		return
	}
	f.analyzable = true
}

// resolve finds the function a call refers to: the named file first, then the
// caller's file, then a unique function of that name anywhere. It returns -1
// for external callees.
func (a *arena) resolve(name, calleeFile, callerFile string) int {
	if name == "" {
		return -1
	}
	last := discovery.LastSegment(name)
	for _, file := range []string{calleeFile, callerFile} {
		if file == "" {
			continue
		}
		if i, ok := a.byKey[funcKey{file: file, name: name}]; ok {
			return i
		}
		if i, ok := a.byKey[funcKey{file: file, name: last}]; ok {
			return i
		}
	}
	if c := a.byName[name]; len(c) == 1 {
		return c[0]
	}
	if c := a.byLast[last]; len(c) == 1 {
		return c[0]
	}
	return -1
}

// place returns the function and block holding a statement at file:line: the
// innermost containing block, with inner blocks preferred over entry and exit
// blocks. A non-empty hint restricts the search to that function when it
// exists in the file.
func (a *arena) place(file string, line int, hint string) (int, int) {
	candidates := a.funcs
	if hint != "" {
		if i, ok := a.byKey[funcKey{file: file, name: hint}]; ok {
			candidates = a.funcs[i : i+1]
		}
	}
	bestFn, bestBlock := -1, -1
	var best block
	for _, f := range candidates {
		if f.key.file != file {
			continue
		}
		for bi, b := range f.blocks {
			if line < b.start || line > b.end {
				continue
			}
			if bestFn < 0 || innerThan(b, best) {
				bestFn, bestBlock, best = f.idx, bi, b
			}
		}
	}
	return bestFn, bestBlock
}

func innerThan(b, cur block) bool {
	bEdge := b.typ == blockEntry || b.typ == blockExit
	cEdge := cur.typ == blockEntry || cur.typ == blockExit
	if bEdge != cEdge {
		return !bEdge
	}
	if w, cw := b.end-b.start, cur.end-cur.start; w != cw {
		return w < cw
	}
	return b.id < cur.id
}

// link records a resolved call edge.
func (a *arena) link(caller, callee int) {
	k := [2]int{caller, callee}
	if _, ok := a.edges[k]; ok {
		return
	}
	a.edges[k] = struct{}{}
	a.funcs[caller].callees = append(a.funcs[caller].callees, callee)
	a.funcs[callee].callers = append(a.funcs[callee].callers, caller)
}

func (a *arena) called(caller, callee int) bool {
	_, ok := a.edges[[2]int{caller, callee}]
	return ok
}

func paramBit(p int) uint64 {
	return 1 << uint(p)
}
