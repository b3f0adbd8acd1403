package taint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
	"github.com/xkilldash9x/scalpel-taint/internal/facts"
	"github.com/xkilldash9x/scalpel-taint/internal/facts/factstest"
)

func buildTestProgram(t *testing.T, b *factstest.Builder) *program {
	t.Helper()
	cache, err := facts.Load(context.Background(), b.Store())
	require.NoError(t, err)
	return buildProgram(cache, nil, nil, newSanitizers(nil, cache), zap.NewNop())
}

func TestFeasibility(t *testing.T) {
	t.Parallel()

	b := factstest.New()
	entry := b.Block("a.js", "f", "entry", 1, 1)
	then := b.Block("a.js", "f", "basic", 2, 3)
	other := b.Block("a.js", "f", "basic", 4, 5)
	exit := b.Block("a.js", "f", "exit", 6, 6)
	b.Edge("a.js", "f", entry, then, "true").
		Edge("a.js", "f", entry, other, "false").
		Edge("a.js", "f", then, exit, "normal").
		Edge("a.js", "f", other, exit, "normal").
		Func("a.js", "g", 10, 12, "p").
		Func("a.js", "unrelated", 20, 22, "q").
		Call("a.js", "f", 2, "g", "x")
	prog := buildTestProgram(t, b)

	f := prog.byKey[funcKey{file: "a.js", name: "f"}]
	g := prog.byKey[funcKey{file: "a.js", name: "g"}]
	u := prog.byKey[funcKey{file: "a.js", name: "unrelated"}]
	fn := prog.funcs[f]
	thenIdx, otherIdx := fn.blockIndex[then], fn.blockIndex[other]

	at := func(kind schemas.StepKind, fnIdx, block, pos int) step {
		return step{kind: kind, fn: fnIdx, block: block, pos: pos}
	}
	gEntry := prog.funcs[g].entry

	testCases := []struct {
		name  string
		steps []step
		want  bool
	}{
		{"same block forward", []step{at(schemas.StepSource, f, thenIdx, 0), at(schemas.StepSink, f, thenIdx, 1)}, true},
		{"same block backward", []step{at(schemas.StepSource, f, thenIdx, 1), at(schemas.StepSink, f, thenIdx, 0)}, false},
		{"sibling branches", []step{at(schemas.StepSource, f, thenIdx, 0), at(schemas.StepSink, f, otherIdx, 0)}, false},
		{"call into callee entry", []step{at(schemas.StepCall, f, thenIdx, 0), at(schemas.StepParameter, g, gEntry, -1)}, true},
		{"call without edge", []step{at(schemas.StepCall, f, thenIdx, 0), at(schemas.StepParameter, u, prog.funcs[u].entry, -1)}, false},
		{"return to caller", []step{at(schemas.StepReturn, g, gEntry, 0), at(schemas.StepAssignment, f, thenIdx, 0)}, true},
		{"return to stranger", []step{at(schemas.StepReturn, u, prog.funcs[u].entry, 0), at(schemas.StepAssignment, f, thenIdx, 0)}, false},
		{"truncation marker skipped", []step{at(schemas.StepCall, f, thenIdx, 0), {kind: schemas.StepTruncated, fn: -1}, at(schemas.StepSink, u, 0, 0)}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ok, why := prog.feasible(tc.steps)
			assert.Equal(t, tc.want, ok)
			if !tc.want {
				assert.NotEmpty(t, why)
			}
		})
	}
}

func TestPlacementPrefersInnermostBlock(t *testing.T) {
	t.Parallel()

	b := factstest.New().
		Func("a.js", "outer", 1, 20).
		Func("a.js", "inner", 5, 8)
	prog := buildTestProgram(t, b)

	fn, _ := prog.place("a.js", 6, "")
	assert.Equal(t, "inner", prog.funcs[fn].key.name)

	fn, _ = prog.place("a.js", 6, "outer")
	assert.Equal(t, "outer", prog.funcs[fn].key.name, "hint restricts the search")

	fn, blk := prog.place("a.js", 1, "")
	assert.Equal(t, "outer", prog.funcs[fn].key.name)
	assert.Equal(t, "basic", prog.funcs[fn].blocks[blk].typ, "inner blocks win over entry blocks")

	fn, _ = prog.place("b.js", 6, "")
	assert.Equal(t, -1, fn)
}

func TestResolveCallee(t *testing.T) {
	t.Parallel()

	b := factstest.New().
		Func("a.js", "run", 1, 3).
		Func("b.js", "run", 1, 3).
		Func("b.js", "Service.save", 5, 7)
	prog := buildTestProgram(t, b)

	name := func(i int) string {
		if i < 0 {
			return ""
		}
		return prog.funcs[i].key.file + ":" + prog.funcs[i].key.name
	}
	assert.Equal(t, "b.js:run", name(prog.resolve("run", "b.js", "a.js")), "callee file wins")
	assert.Equal(t, "a.js:run", name(prog.resolve("run", "", "a.js")), "then the caller's file")
	assert.Equal(t, "", name(prog.resolve("run", "", "c.js")), "ambiguous names stay external")
	assert.Equal(t, "b.js:Service.save", name(prog.resolve("this.save", "", "c.js")), "unique last segment")
	assert.Equal(t, "", name(prog.resolve("fs.readFile", "", "a.js")))
}

func TestCompareProvIsExtensionPreserving(t *testing.T) {
	t.Parallel()

	s := func(line int) step { return step{kind: schemas.StepAssignment, line: line} }
	short := newProv(s(1)).push(s(2))
	long := newProv(s(1)).push(s(3)).push(s(2))
	assert.Negative(t, compareProv(short, long))

	a := newProv(s(1)).push(s(2))
	b := newProv(s(1)).push(s(3))
	c := compareProv(a, b)
	require.NotZero(t, c)
	assert.Equal(t, c, compareProv(a.push(s(9)), b.push(s(9))))

	trunc := newProv(s(1))
	trunc.truncated = true
	assert.Positive(t, compareProv(trunc, long), "complete chains beat truncated ones")
	assert.Zero(t, compareProv(a, newProv(s(1)).push(s(2))))
}
