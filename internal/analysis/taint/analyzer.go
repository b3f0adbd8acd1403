// internal/analysis/taint/analyzer.go
package taint

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
	"github.com/xkilldash9x/scalpel-taint/internal/analysis/core"
	"github.com/xkilldash9x/scalpel-taint/internal/discovery"
	"github.com/xkilldash9x/scalpel-taint/internal/facts"
)

const (
	// DefaultMaxHops is the default interprocedural depth limit.
	DefaultMaxHops = 5
	// defaultMaxRounds guards the round loop against a fixed point that
	// never arrives.
	defaultMaxRounds = 10000
)

// Config controls an Analyzer.
type Config struct {
	// MaxHops is the number of call boundaries a path may cross before it is
	// reported as truncated.
	MaxHops int
	// Concurrency bounds the functions analysed in parallel within a round.
	Concurrency int
	// Sanitizers are the calls that clean their result. Nil means
	// DefaultSanitizers.
	Sanitizers []string
	// MaxRounds bounds the interprocedural rounds. Zero picks a default.
	MaxRounds int
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		MaxHops:     DefaultMaxHops,
		Concurrency: runtime.GOMAXPROCS(0),
		Sanitizers:  DefaultSanitizers,
	}
}

// Result is the outcome of one analysis.
type Result struct {
	Findings     []schemas.Finding
	Diagnostics  []schemas.Diagnostic
	Incomplete   bool
	Rounds       int
	Functions    int
	Unanalyzable int
}

// Analyzer proves or refutes flows from sources to sinks over the CFGs of
// the fact cache.
type Analyzer struct {
	*core.BaseAnalyzer
	cfg Config
}

var _ core.Analyzer = (*Analyzer)(nil)

// New creates an Analyzer. Non-positive limits fall back to their defaults.
func New(cfg Config, logger *zap.Logger) *Analyzer {
	if cfg.MaxHops <= 0 {
		cfg.MaxHops = DefaultMaxHops
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.GOMAXPROCS(0)
	}
	if cfg.Sanitizers == nil {
		cfg.Sanitizers = DefaultSanitizers
	}
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = defaultMaxRounds
	}
	return &Analyzer{
		BaseAnalyzer: core.NewBaseAnalyzer("taint", "Interprocedural source to sink taint flow analysis", core.TypeStatic, logger),
		cfg:          cfg,
	}
}

// Analyze runs the analysis over the context and records its results there.
func (a *Analyzer) Analyze(ctx context.Context, analysisCtx *core.AnalysisContext) error {
	res, err := a.Run(ctx, analysisCtx.Cache, analysisCtx.Sources, analysisCtx.Sinks)
	if err != nil {
		return err
	}
	analysisCtx.AddFinding(res.Findings...)
	analysisCtx.AddDiagnostic(res.Diagnostics...)
	if res.Incomplete {
		analysisCtx.MarkIncomplete()
	}
	analysisCtx.UpdateStats(func(s *schemas.Stats) {
		s.Functions += res.Functions
		s.UnanalyzableFunctions += res.Unanalyzable
		s.Rounds += res.Rounds
	})
	return nil
}

// Run analyses the cache. Cancellation is not an error: the result then
// holds everything proven so far and is marked incomplete.
func (a *Analyzer) Run(ctx context.Context, cache *facts.Cache, sources []discovery.Source, sinks []discovery.Sink) (*Result, error) {
	if cache == nil {
		return nil, errors.New("taint analysis requires a fact cache")
	}
	start := time.Now()
	logger := a.Logger

	san := newSanitizers(a.cfg.Sanitizers, cache)
	prog := buildProgram(cache, sources, sinks, san, logger)

	res := &Result{Functions: len(prog.funcs)}
	res.Diagnostics = append(res.Diagnostics, prog.diags...)
	for _, f := range prog.funcs {
		if f.analyzable {
			continue
		}
		res.Unanalyzable++
		logger.Warn("Skipping unanalyzable function",
			zap.String("file", f.key.file),
			zap.String("function", f.key.name),
			zap.String("reason", f.reason))
		res.Diagnostics = append(res.Diagnostics, schemas.Diagnostic{
			Kind:     schemas.DiagUnanalyzableFunction,
			Message:  fmt.Sprintf("control flow graph rejected: %s", f.reason),
			File:     f.key.file,
			Function: f.key.name,
		})
	}

	rr := a.rounds(ctx, prog)
	res.Rounds = rr.rounds
	if rr.incomplete {
		res.Incomplete = true
		msg := fmt.Sprintf("round limit of %d reached", a.cfg.MaxRounds)
		if ctx.Err() != nil {
			msg = fmt.Sprintf("analysis stopped in round %d: %v", rr.rounds, context.Cause(ctx))
		}
		res.Diagnostics = append(res.Diagnostics, schemas.Diagnostic{Kind: schemas.DiagCancelled, Message: msg})
	}

	findings, diags := prog.findings(rr.candidates)
	res.Findings = findings
	res.Diagnostics = append(res.Diagnostics, diags...)

	logger.Info("Taint analysis complete",
		zap.Int("functions", res.Functions),
		zap.Int("unanalyzable", res.Unanalyzable),
		zap.Int("rounds", res.Rounds),
		zap.Int("findings", len(res.Findings)),
		zap.Bool("incomplete", res.Incomplete),
		zap.Duration("duration", time.Since(start)))
	return res, nil
}
