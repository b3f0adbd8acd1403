// File: internal/mocks/mocks.go
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
	"github.com/xkilldash9x/scalpel-taint/internal/analysis/core"
	"github.com/xkilldash9x/scalpel-taint/internal/config"
)

// -- Config Mock --

// MockConfig mocks the config.Interface.
type MockConfig struct {
	mock.Mock
}

var _ config.Interface = (*MockConfig)(nil)

// --- Getters ---

func (m *MockConfig) Logger() config.LoggerConfig {
	args := m.Called()
	return args.Get(0).(config.LoggerConfig)
}

func (m *MockConfig) Database() config.DatabaseConfig {
	args := m.Called()
	return args.Get(0).(config.DatabaseConfig)
}

func (m *MockConfig) Analysis() config.AnalysisConfig {
	args := m.Called()
	return args.Get(0).(config.AnalysisConfig)
}

func (m *MockConfig) Discovery() config.DiscoveryConfig {
	args := m.Called()
	return args.Get(0).(config.DiscoveryConfig)
}

func (m *MockConfig) Output() config.OutputConfig {
	args := m.Called()
	return args.Get(0).(config.OutputConfig)
}

// --- Setters ---

func (m *MockConfig) SetAnalysisMaxHops(n int)           { m.Called(n) }
func (m *MockConfig) SetAnalysisTimeout(d time.Duration) { m.Called(d) }
func (m *MockConfig) SetAnalysisConcurrency(n int)       { m.Called(n) }
func (m *MockConfig) SetOutputFormat(f string)           { m.Called(f) }
func (m *MockConfig) SetOutputPath(p string)             { m.Called(p) }

// -- Analyzer Mock --

// MockAnalyzer is a mock implementation of the core.Analyzer interface.
type MockAnalyzer struct {
	mock.Mock
}

var _ core.Analyzer = (*MockAnalyzer)(nil)

func (m *MockAnalyzer) Analyze(ctx context.Context, analysisCtx *core.AnalysisContext) error {
	return m.Called(ctx, analysisCtx).Error(0)
}
func (m *MockAnalyzer) Name() string        { return m.Called().String(0) }
func (m *MockAnalyzer) Description() string { return m.Called().String(0) }

// Type returns the configured analyzer type, defaulting to static.
func (m *MockAnalyzer) Type() core.AnalyzerType {
	args := m.Called()
	if t, ok := args.Get(0).(core.AnalyzerType); ok {
		return t
	}
	return core.TypeStatic
}

// -- Result Store Mock --

// MockResultStore mocks the report persistence used by the orchestrator.
type MockResultStore struct {
	mock.Mock
}

// SaveReport records the call and returns the configured error.
func (m *MockResultStore) SaveReport(ctx context.Context, report *schemas.Report) error {
	return m.Called(ctx, report).Error(0)
}
