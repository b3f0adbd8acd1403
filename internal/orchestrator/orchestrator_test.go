// internal/orchestrator/orchestrator_test.go
package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
	"github.com/xkilldash9x/scalpel-taint/internal/analysis/core"
	"github.com/xkilldash9x/scalpel-taint/internal/config"
	"github.com/xkilldash9x/scalpel-taint/internal/discovery"
	"github.com/xkilldash9x/scalpel-taint/internal/facts/factstest"
	"github.com/xkilldash9x/scalpel-taint/internal/mocks"
	"github.com/xkilldash9x/scalpel-taint/internal/schema"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// -- Test Helpers --

func newOrchestrator(t *testing.T, opts ...Option) *Orchestrator {
	t.Helper()
	o, err := New(config.NewDefaultConfig(), zaptest.NewLogger(t), opts...)
	require.NoError(t, err)
	return o
}

func analyze(t *testing.T, src schema.Source, opts ...Option) *schemas.Report {
	t.Helper()
	report, err := newOrchestrator(t, opts...).Analyze(context.Background(), src)
	require.NoError(t, err)
	require.NotNil(t, report)
	return report
}

// -- Test Cases --

func TestStraightLineScenario(t *testing.T) {
	t.Parallel()

	report := analyze(t, factstest.StraightLine())

	require.Len(t, report.Findings, 1)
	f := report.Findings[0]
	assert.Equal(t, schemas.CategorySQLInjection, f.Category)
	assert.Equal(t, schemas.SeverityHigh, f.Severity)
	assert.Equal(t, 2, f.PathLength())
	assert.Equal(t, 0, f.HopDepth)
	assert.False(t, report.Incomplete)

	_, err := uuid.Parse(f.ID)
	assert.NoError(t, err, "finding IDs are UUIDs")
	_, err = uuid.Parse(report.RunID)
	assert.NoError(t, err)

	assert.Positive(t, report.Stats.Sources)
	assert.Positive(t, report.Stats.Sinks)
	assert.Equal(t, 1, report.Stats.Functions)
	assert.Positive(t, report.Stats.Duration)
}

func TestSanitizedScenario(t *testing.T) {
	t.Parallel()

	report := analyze(t, factstest.Sanitized())
	assert.Empty(t, report.Findings)
	assert.NotNil(t, report.Findings, "empty reports still carry a findings list")
}

func TestInterproceduralScenario(t *testing.T) {
	t.Parallel()

	report := analyze(t, factstest.Interprocedural())

	require.Len(t, report.Findings, 1)
	f := report.Findings[0]
	assert.Equal(t, schemas.CategoryCommandInjection, f.Category)
	assert.Equal(t, 1, f.HopDepth)
	assert.Equal(t, "handler", f.Path[0].Function)
	assert.Equal(t, "helper", f.Path[len(f.Path)-1].Function)
}

func TestMissingTableScenario(t *testing.T) {
	t.Parallel()

	report, err := newOrchestrator(t).Analyze(context.Background(), factstest.MissingEdges())
	require.Error(t, err)
	assert.Nil(t, report)

	var loadErr *schema.SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "cfg_edges", loadErr.Table)
	assert.Contains(t, err.Error(), "cfg_edges")
}

func TestRunsAreDeterministic(t *testing.T) {
	t.Parallel()

	src := factstest.Interprocedural()
	first := analyze(t, src)
	second := analyze(t, src)

	assert.NotEqual(t, first.RunID, second.RunID)
	if diff := cmp.Diff(first.Findings, second.Findings); diff != "" {
		t.Fatalf("findings differ between runs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Diagnostics, second.Diagnostics, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("diagnostics differ between runs (-first +second):\n%s", diff)
	}

	a, err := json.Marshal(first.Findings)
	require.NoError(t, err)
	b, err := json.Marshal(second.Findings)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestFindingOrder(t *testing.T) {
	t.Parallel()

	findings := []schemas.Finding{
		{ID: "c", Severity: schemas.SeverityMedium, Sink: schemas.Endpoint{Location: schemas.Location{File: "a.js", Line: 1}}},
		{ID: "b", Severity: schemas.SeverityHigh, Sink: schemas.Endpoint{Location: schemas.Location{File: "b.js", Line: 9}}},
		{ID: "a", Severity: schemas.SeverityHigh, Sink: schemas.Endpoint{Location: schemas.Location{File: "b.js", Line: 2}}},
		{ID: "d", Severity: schemas.SeverityCritical, Sink: schemas.Endpoint{Location: schemas.Location{File: "z.js", Line: 1}}},
	}
	sortFindings(findings)

	ids := make([]string, len(findings))
	for i, f := range findings {
		ids[i] = f.ID
	}
	assert.Equal(t, []string{"d", "a", "b", "c"}, ids)
}

func TestFindingIDIsContentDerived(t *testing.T) {
	t.Parallel()

	f := schemas.Finding{
		Category: schemas.CategorySQLInjection,
		Source:   schemas.Endpoint{Location: schemas.Location{File: "app.js", Line: 2}, Rule: "source.symbol.request"},
		Sink:     schemas.Endpoint{Location: schemas.Location{File: "app.js", Line: 3}, Rule: "sink.sql.query"},
		Path:     []schemas.Step{{Kind: schemas.StepSource, File: "app.js", Line: 2}},
	}
	id := findingID(f)
	assert.Equal(t, id, findingID(f))

	moved := f
	moved.Sink.Line = 4
	assert.NotEqual(t, id, findingID(moved))
}

func TestRulesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rules:
  - id: sink.sql.query
    kind: sink
    table: sql_queries
    category: sql
    name: command
    risk: {kind: fixed, level: high}
    args: {column: query_text, same_line_calls: true}
`), 0o600))

	cfg := config.NewDefaultConfig()
	cfg.DiscoveryCfg.RulesFile = path
	o, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, o.Rules(), 1)

	report, err := o.Analyze(context.Background(), factstest.StraightLine())
	require.NoError(t, err)
	assert.Empty(t, report.Findings, "a rule table without sources finds nothing")
	assert.Zero(t, report.Stats.Sources)

	cfg.DiscoveryCfg.RulesFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = New(cfg, zap.NewNop())
	assert.ErrorContains(t, err, "failed to load discovery rules")
}

func TestExplicitRulesOverrideRulesFile(t *testing.T) {
	t.Parallel()

	cfg := config.NewDefaultConfig()
	cfg.DiscoveryCfg.RulesFile = filepath.Join(t.TempDir(), "missing.yaml")
	o, err := New(cfg, zap.NewNop(), WithRules(discovery.DefaultRules()))
	require.NoError(t, err)
	assert.Len(t, o.Rules(), len(discovery.DefaultRules()))
}

func TestConfigurationFlowsThrough(t *testing.T) {
	t.Parallel()

	cfg := new(mocks.MockConfig)
	cfg.On("Discovery").Return(config.DiscoveryConfig{Sanitizers: []string{"clean"}})
	cfg.On("Analysis").Return(config.AnalysisConfig{MaxHops: 3, Concurrency: 2})

	o, err := New(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	// escape() is no longer a sanitizer once the list is replaced.
	report, err := o.Analyze(context.Background(), factstest.Sanitized())
	require.NoError(t, err)
	assert.Len(t, report.Findings, 1)
	cfg.AssertExpectations(t)
}

func TestAdditionalAnalyzers(t *testing.T) {
	t.Parallel()

	t.Run("results are merged", func(t *testing.T) {
		extra := new(mocks.MockAnalyzer)
		extra.On("Analyze", mock.Anything, mock.AnythingOfType("*core.AnalysisContext")).
			Run(func(args mock.Arguments) {
				actx := args.Get(1).(*core.AnalysisContext)
				actx.AddDiagnostic(schemas.Diagnostic{Kind: schemas.DiagInfeasiblePath, Message: "extra"})
			}).
			Return(nil)

		report := analyze(t, factstest.StraightLine(), WithAnalyzers(extra))
		assert.Len(t, report.Findings, 1)
		require.Len(t, report.Diagnostics, 1)
		assert.Equal(t, "extra", report.Diagnostics[0].Message)
		extra.AssertExpectations(t)
	})

	t.Run("failures abort the run", func(t *testing.T) {
		extra := new(mocks.MockAnalyzer)
		extra.On("Analyze", mock.Anything, mock.Anything).Return(errors.New("boom"))
		extra.On("Name").Return("extra")

		report, err := newOrchestrator(t, WithAnalyzers(extra)).Analyze(context.Background(), factstest.StraightLine())
		assert.Nil(t, report)
		assert.ErrorContains(t, err, "analyzer extra failed: boom")
	})
}

func TestResultStore(t *testing.T) {
	t.Parallel()

	t.Run("reports are persisted", func(t *testing.T) {
		store := new(mocks.MockResultStore)
		store.On("SaveReport", mock.Anything, mock.MatchedBy(func(r *schemas.Report) bool {
			return len(r.Findings) == 1
		})).Return(nil)

		analyze(t, factstest.StraightLine(), WithResultStore(store))
		store.AssertExpectations(t)
	})

	t.Run("persistence failures keep the report", func(t *testing.T) {
		store := new(mocks.MockResultStore)
		store.On("SaveReport", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

		report, err := newOrchestrator(t, WithResultStore(store)).Analyze(context.Background(), factstest.StraightLine())
		assert.ErrorContains(t, err, "failed to persist report")
		require.NotNil(t, report)
		assert.Len(t, report.Findings, 1)
	})

	t.Run("schema failures never reach the store", func(t *testing.T) {
		store := new(mocks.MockResultStore)
		_, err := newOrchestrator(t, WithResultStore(store)).Analyze(context.Background(), factstest.MissingEdges())
		require.Error(t, err)
		store.AssertNotCalled(t, "SaveReport", mock.Anything, mock.Anything)
	})
}

func TestNewRequiresConfig(t *testing.T) {
	t.Parallel()

	_, err := New(nil, nil)
	assert.Error(t, err)
}
