// File: internal/mocks/mocks_test.go
package mocks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
	"github.com/xkilldash9x/scalpel-taint/internal/analysis/core"
	"github.com/xkilldash9x/scalpel-taint/internal/config"
)

func TestMockConfig(t *testing.T) {
	m := new(MockConfig)
	m.On("Analysis").Return(config.AnalysisConfig{MaxHops: 3})
	m.On("SetAnalysisTimeout", time.Second).Return()

	assert.Equal(t, 3, m.Analysis().MaxHops)
	m.SetAnalysisTimeout(time.Second)
	m.AssertExpectations(t)
}

func TestMockAnalyzer(t *testing.T) {
	m := new(MockAnalyzer)
	m.On("Name").Return("extra")
	m.On("Type").Return(nil)
	m.On("Analyze", mock.Anything, mock.Anything).Return(errors.New("boom"))

	assert.Equal(t, "extra", m.Name())
	assert.Equal(t, core.TypeStatic, m.Type())
	assert.EqualError(t, m.Analyze(context.Background(), core.NewAnalysisContext(nil, nil, nil)), "boom")
	m.AssertExpectations(t)
}

func TestMockResultStore(t *testing.T) {
	m := new(MockResultStore)
	report := &schemas.Report{RunID: "run"}
	m.On("SaveReport", mock.Anything, report).Return(nil)

	assert.NoError(t, m.SaveReport(context.Background(), report))
	m.AssertExpectations(t)
}
