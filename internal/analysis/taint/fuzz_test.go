package taint_test

import (
	"context"
	"fmt"
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/scalpel-taint/internal/analysis/taint"
	"github.com/xkilldash9x/scalpel-taint/internal/discovery"
	"github.com/xkilldash9x/scalpel-taint/internal/facts"
	"github.com/xkilldash9x/scalpel-taint/internal/facts/factstest"
	"github.com/xkilldash9x/scalpel-taint/internal/store"
)

var (
	fuzzVars    = []string{"a", "b", "c", "p", "req.id"}
	fuzzCallees = []string{"child_process.exec", "db.query", "escape", "eval", "fs.readFile"}
)

// buildFuzzProgram turns fuzzer input into a small file of up to four
// functions with assignments, calls between them and calls to sinks.
func buildFuzzProgram(c *fuzz.ConsumeFuzzer) (*store.Memory, bool) {
	pick := func(n int) (int, bool) {
		b, err := c.GetByte()
		if err != nil {
			return 0, false
		}
		return int(b) % n, true
	}

	nFuncs, ok := pick(4)
	if !ok {
		return nil, false
	}
	nFuncs++

	b := factstest.New()
	for f := 0; f < nFuncs; f++ {
		start := f*20 + 1
		b.Func("app.js", fmt.Sprintf("f%d", f), start, start+15, "p")
	}

	for stmt := 0; stmt < 24; stmt++ {
		kind, ok := pick(4)
		if !ok {
			break
		}
		f, ok1 := pick(nFuncs)
		off, ok2 := pick(14)
		x, ok3 := pick(len(fuzzVars))
		y, ok4 := pick(len(fuzzVars))
		if !ok1 || !ok2 || !ok3 || !ok4 {
			break
		}
		fn := fmt.Sprintf("f%d", f)
		line := f*20 + 2 + off

		switch kind {
		case 0:
			b.Symbol("app.js", "req.id", line)
		case 1:
			target := fuzzVars[x%3]
			b.Assign("app.js", fn, line, target, fuzzVars[y]+" + "+fuzzVars[x])
		case 2:
			callee, ok := pick(nFuncs)
			if !ok {
				break
			}
			b.Call("app.js", fn, line, fmt.Sprintf("f%d", callee), fuzzVars[y])
		case 3:
			b.Call("app.js", fn, line, fuzzCallees[x], fuzzVars[y])
		}
	}
	return b.Store(), true
}

func FuzzAnalyzer(f *testing.F) {
	f.Add([]byte{0, 0, 0, 4, 0, 3, 0, 5, 4, 0})
	f.Add([]byte{3, 2, 0, 1, 0, 0, 2, 1, 3, 3, 2, 1, 0, 1, 3, 1, 2, 3, 4, 0})
	f.Add([]byte("recursive calls and loops"))

	f.Fuzz(func(t *testing.T, data []byte) {
		m, ok := buildFuzzProgram(fuzz.NewConsumer(data))
		if !ok {
			return
		}
		cache, err := facts.Load(context.Background(), m)
		if err != nil {
			t.Fatalf("generated facts failed to load: %v", err)
		}
		engine, err := discovery.NewEngine()
		if err != nil {
			t.Fatal(err)
		}
		sources := engine.DiscoverSources(cache)
		sinks := engine.DiscoverSinks(cache)

		run := func(concurrency int) *taint.Result {
			cfg := taint.DefaultConfig()
			cfg.Concurrency = concurrency
			res, err := taint.New(cfg, zap.NewNop()).Run(context.Background(), cache, sources, sinks)
			if err != nil {
				t.Fatalf("analysis failed: %v", err)
			}
			return res
		}

		serial := run(1)
		parallel := run(4)
		if diff := cmp.Diff(serial.Findings, parallel.Findings); diff != "" {
			t.Fatalf("findings depend on concurrency (-serial +parallel):\n%s", diff)
		}
		maxHops := taint.DefaultConfig().MaxHops
		for _, finding := range serial.Findings {
			if finding.HopDepth > maxHops && !finding.Truncated {
				t.Fatalf("hop depth %d exceeds the limit without truncation", finding.HopDepth)
			}
		}
	})
}
