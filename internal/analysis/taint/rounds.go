// internal/analysis/taint/rounds.go
package taint

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type roundsResult struct {
	candidates map[pairKey]*prov
	rounds     int
	incomplete bool
}

// rounds drives the interprocedural fixed point. Each round analyses the
// dirty functions in parallel against a snapshot of the previous round; the
// coordinator alone installs the results, in function order.
func (a *Analyzer) rounds(ctx context.Context, prog *program) roundsResult {
	n := len(prog.funcs)
	summaries := make([]*summary, n)
	params := make([]uint64, n)
	dirty := make([]bool, n)
	for i, f := range prog.funcs {
		summaries[i] = newSummary()
		dirty[i] = f.analyzable
	}

	out := roundsResult{candidates: make(map[pairKey]*prov)}
	progress := rate.Sometimes{First: 1, Interval: 2 * time.Second}

	for {
		var work []int
		for i, d := range dirty {
			if d {
				work = append(work, i)
			}
		}
		if len(work) == 0 {
			return out
		}
		if ctx.Err() != nil {
			out.incomplete = true
			return out
		}
		if out.rounds >= a.cfg.MaxRounds {
			a.Logger.Warn("Round limit reached before the fixed point", zap.Int("rounds", out.rounds), zap.Int("pending", len(work)))
			out.incomplete = true
			return out
		}
		out.rounds++
		clear(dirty)

		progress.Do(func() {
			a.Logger.Info("Taint analysis round", zap.Int("round", out.rounds), zap.Int("functions", len(work)))
		})

		snap := snapshot{summaries: slices.Clone(summaries), params: slices.Clone(params)}
		results := make([]*funcResult, len(work))
		var g errgroup.Group
		g.SetLimit(a.cfg.Concurrency)
		for i, fn := range work {
			g.Go(func() error {
				results[i] = prog.analyzeFunction(ctx, fn, snap, a.cfg.MaxHops)
				return nil
			})
		}
		_ = g.Wait()

		cancelled := false
		for _, r := range results {
			for k, chain := range r.findings {
				if better(chain, out.candidates[k]) {
					out.candidates[k] = chain
				}
			}
			if merged, changed := mergeSummary(summaries[r.fn], r.summary); changed {
				summaries[r.fn] = merged
				for _, c := range prog.funcs[r.fn].callers {
					dirty[c] = prog.funcs[c].analyzable
				}
			}
			for callee, bits := range r.args {
				if grown := params[callee] | bits; grown != params[callee] {
					params[callee] = grown
					dirty[callee] = prog.funcs[callee].analyzable
				}
			}
			cancelled = cancelled || r.cancelled
		}
		a.Logger.Debug("Round merged", zap.Int("round", out.rounds), zap.Int("analysed", len(work)), zap.Int("candidates", len(out.candidates)))
		if cancelled {
			out.incomplete = true
			return out
		}
	}
}
