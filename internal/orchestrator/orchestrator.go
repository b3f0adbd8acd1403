// File: internal/orchestrator/orchestrator.go
// Description: Runs one analysis end to end: fact loading, source and sink
// discovery, taint analysis and report assembly.

package orchestrator

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
	"github.com/xkilldash9x/scalpel-taint/internal/analysis/core"
	"github.com/xkilldash9x/scalpel-taint/internal/analysis/taint"
	"github.com/xkilldash9x/scalpel-taint/internal/config"
	"github.com/xkilldash9x/scalpel-taint/internal/discovery"
	"github.com/xkilldash9x/scalpel-taint/internal/facts"
	"github.com/xkilldash9x/scalpel-taint/internal/schema"
)

// findingNamespace seeds the name-based finding IDs.
var findingNamespace = uuid.MustParse("6f1d2c3e-8a4b-5c6d-9e0f-a1b2c3d4e5f6")

// ErrTimeout is the cancellation cause when analysis.timeout elapses.
var ErrTimeout = errors.New("analysis timeout exceeded")

// ResultStore persists finished reports.
type ResultStore interface {
	SaveReport(ctx context.Context, report *schemas.Report) error
}

// Orchestrator manages the lifecycle of an analysis run. It is safe to call
// Analyze repeatedly and concurrently; runs share no mutable state.
type Orchestrator struct {
	cfg       config.Interface
	logger    *zap.Logger
	discovery *discovery.Engine
	analyzers []core.Analyzer
	store     ResultStore
}

type options struct {
	rules     []discovery.Rule
	scorer    discovery.RiskScorer
	analyzers []core.Analyzer
	store     ResultStore
}

// Option customises an Orchestrator.
type Option func(*options)

// WithRules replaces the rule table, taking precedence over the configured
// rules file.
func WithRules(rules []discovery.Rule) Option {
	return func(o *options) { o.rules = rules }
}

// WithRiskScorer replaces the structural sink risk scorer.
func WithRiskScorer(s discovery.RiskScorer) Option {
	return func(o *options) { o.scorer = s }
}

// WithAnalyzers runs additional analyzers after the taint analyzer over the
// same context.
func WithAnalyzers(analyzers ...core.Analyzer) Option {
	return func(o *options) { o.analyzers = append(o.analyzers, analyzers...) }
}

// WithResultStore persists every report Analyze produces.
func WithResultStore(s ResultStore) Option {
	return func(o *options) { o.store = s }
}

// New builds an Orchestrator. Rule and configuration errors are reported here
// rather than at analysis time.
func New(cfg config.Interface, logger *zap.Logger, opts ...Option) (*Orchestrator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cannot initialize orchestrator without configuration")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	dcfg := cfg.Discovery()
	acfg := cfg.Analysis()

	rules := o.rules
	if rules == nil && dcfg.RulesFile != "" {
		loaded, err := discovery.LoadRules(dcfg.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load discovery rules: %w", err)
		}
		rules = loaded
	}

	dopts := []discovery.Option{
		discovery.WithLogger(logger),
		discovery.WithRequestPrefixes(dcfg.RequestPrefixes),
		discovery.WithAuthenticatedEndpointWeighting(acfg.AuthenticatedEndpointWeighting),
	}
	if rules != nil {
		dopts = append(dopts, discovery.WithRules(rules))
	}
	if o.scorer != nil {
		dopts = append(dopts, discovery.WithRiskScorer(o.scorer))
	}
	engine, err := discovery.NewEngine(dopts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery engine: %w", err)
	}

	var sanitizers []string
	if len(dcfg.Sanitizers) > 0 {
		sanitizers = dcfg.Sanitizers
	}
	analyzers := []core.Analyzer{taint.New(taint.Config{
		MaxHops:     acfg.MaxHops,
		Concurrency: acfg.Concurrency,
		Sanitizers:  sanitizers,
	}, logger)}

	return &Orchestrator{
		cfg:       cfg,
		logger:    logger.Named("orchestrator"),
		discovery: engine,
		analyzers: append(analyzers, o.analyzers...),
		store:     o.store,
	}, nil
}

// Rules returns the effective discovery rule table.
func (o *Orchestrator) Rules() []discovery.Rule {
	return o.discovery.Rules()
}

// Analyze runs one analysis over src. Schema mismatches abort the run with a
// *schema.SchemaLoadError in the chain and no report. Cancellation and
// timeouts after loading are not errors: the report is returned marked
// incomplete.
func (o *Orchestrator) Analyze(ctx context.Context, src schema.Source) (*schemas.Report, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := o.logger.With(zap.String("run_id", runID))

	if timeout := o.cfg.Analysis().Timeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, timeout, ErrTimeout)
		defer cancel()
	}

	logger.Info("Loading fact cache")
	cache, err := facts.Load(ctx, src)
	if err != nil {
		var loadErr *schema.SchemaLoadError
		if errors.As(err, &loadErr) {
			logger.Error("Fact store does not match the schema",
				zap.String("table", loadErr.Table),
				zap.String("column", loadErr.Column))
		}
		return nil, fmt.Errorf("failed to load fact cache: %w", err)
	}

	sources := o.discovery.DiscoverSources(cache)
	sinks := o.discovery.DiscoverSinks(cache)
	logger.Info("Discovery complete", zap.Int("sources", len(sources)), zap.Int("sinks", len(sinks)))

	analysisCtx := core.NewAnalysisContext(cache, sources, sinks)
	for _, a := range o.analyzers {
		if err := a.Analyze(ctx, analysisCtx); err != nil {
			return nil, fmt.Errorf("analyzer %s failed: %w", a.Name(), err)
		}
	}

	findings := analysisCtx.Findings()
	for i := range findings {
		findings[i].ID = findingID(findings[i])
	}
	sortFindings(findings)
	diagnostics := analysisCtx.Diagnostics()
	sortDiagnostics(diagnostics)

	stats := analysisCtx.Stats()
	stats.Sources = len(sources)
	stats.Sinks = len(sinks)
	stats.Duration = time.Since(start)

	report := &schemas.Report{
		RunID:       runID,
		Findings:    findings,
		Diagnostics: diagnostics,
		Incomplete:  analysisCtx.Incomplete(),
		Stats:       stats,
	}
	if report.Findings == nil {
		report.Findings = []schemas.Finding{}
	}
	if report.Diagnostics == nil {
		report.Diagnostics = []schemas.Diagnostic{}
	}

	logger.Info("Analysis complete",
		zap.Int("findings", len(report.Findings)),
		zap.Int("diagnostics", len(report.Diagnostics)),
		zap.Bool("incomplete", report.Incomplete),
		zap.Duration("duration", stats.Duration))

	if o.store != nil {
		// The run context may already be past its deadline; persistence still
		// has to happen for a partial report.
		if err := o.store.SaveReport(context.WithoutCancel(ctx), report); err != nil {
			return report, fmt.Errorf("failed to persist report: %w", err)
		}
	}
	return report, nil
}

// findingID derives a stable ID from everything that identifies a finding.
func findingID(f schemas.Finding) string {
	var b strings.Builder
	b.WriteString(string(f.Category))
	for _, e := range []schemas.Endpoint{f.Source, f.Sink} {
		b.WriteByte('|')
		b.WriteString(e.Rule)
		b.WriteByte('@')
		writeLocation(&b, e.Location)
	}
	for _, s := range f.Path {
		b.WriteByte('|')
		b.WriteString(string(s.Kind))
		b.WriteByte(':')
		writeLocation(&b, schemas.Location{File: s.File, Line: s.Line})
		b.WriteByte(':')
		b.WriteString(s.Function)
		b.WriteByte(':')
		b.WriteString(s.Detail)
	}
	return uuid.NewSHA1(findingNamespace, []byte(b.String())).String()
}

func writeLocation(b *strings.Builder, l schemas.Location) {
	b.WriteString(l.File)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(l.Line))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(l.Column))
}

func compareLocation(a, b schemas.Location) int {
	return cmp.Or(
		cmp.Compare(a.File, b.File),
		cmp.Compare(a.Line, b.Line),
		cmp.Compare(a.Column, b.Column),
	)
}

// sortFindings orders by severity (most severe first), then sink location,
// category and source location. The ID breaks any remaining tie.
func sortFindings(findings []schemas.Finding) {
	slices.SortFunc(findings, func(a, b schemas.Finding) int {
		return cmp.Or(
			cmp.Compare(b.Severity.Rank(), a.Severity.Rank()),
			compareLocation(a.Sink.Location, b.Sink.Location),
			cmp.Compare(a.Category, b.Category),
			compareLocation(a.Source.Location, b.Source.Location),
			cmp.Compare(a.ID, b.ID),
		)
	})
}

func sortDiagnostics(diags []schemas.Diagnostic) {
	slices.SortFunc(diags, func(a, b schemas.Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Kind, b.Kind),
			cmp.Compare(a.File, b.File),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Function, b.Function),
			cmp.Compare(a.Message, b.Message),
		)
	})
}
