// internal/analysis/core/context_test.go
package core

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
)

func TestAnalysisContextConcurrentWrites(t *testing.T) {
	actx := NewAnalysisContext(nil, nil, nil)

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			actx.AddFinding(schemas.Finding{ID: fmt.Sprint(i)})
			actx.AddDiagnostic(schemas.Diagnostic{Kind: schemas.DiagInfeasiblePath})
			actx.UpdateStats(func(s *schemas.Stats) { s.Functions++ })
		}(i)
	}
	wg.Wait()

	assert.Len(t, actx.Findings(), workers)
	assert.Len(t, actx.Diagnostics(), workers)
	assert.Equal(t, workers, actx.Stats().Functions)
	assert.False(t, actx.Incomplete())

	actx.MarkIncomplete()
	assert.True(t, actx.Incomplete())
}

func TestAnalysisContextReturnsCopies(t *testing.T) {
	actx := NewAnalysisContext(nil, nil, nil)
	assert.NotNil(t, actx.Findings())
	assert.Empty(t, actx.Findings())

	actx.AddFinding(schemas.Finding{ID: "a"})
	got := actx.Findings()
	got[0].ID = "changed"
	assert.Equal(t, "a", actx.Findings()[0].ID)
}

func TestBaseAnalyzer(t *testing.T) {
	obsCore, logs := observer.New(zap.DebugLevel)
	b := NewBaseAnalyzer("taint", "tracks flows", TypeStatic, zap.New(obsCore))

	assert.Equal(t, "taint", b.Name())
	assert.Equal(t, "tracks flows", b.Description())
	assert.Equal(t, TypeStatic, b.Type())

	b.Logger.Info("ready")
	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "taint", entries[0].LoggerName)
	}

	assert.NotNil(t, NewBaseAnalyzer("nop", "", TypeStatic, nil).Logger)
}
