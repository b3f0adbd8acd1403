// internal/analysis/core/context.go
package core

import (
	"sync"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
	"github.com/xkilldash9x/scalpel-taint/internal/discovery"
	"github.com/xkilldash9x/scalpel-taint/internal/facts"
)

// AnalysisContext is the input and output of one analysis run. The fact cache
// and the discovered endpoints are read-only; results are appended through
// the Add methods, which are safe for concurrent use.
type AnalysisContext struct {
	Cache   *facts.Cache
	Sources []discovery.Source
	Sinks   []discovery.Sink

	mu          sync.Mutex
	findings    []schemas.Finding
	diagnostics []schemas.Diagnostic
	incomplete  bool
	stats       schemas.Stats
}

// NewAnalysisContext bundles a cache with its discovered sources and sinks.
func NewAnalysisContext(cache *facts.Cache, sources []discovery.Source, sinks []discovery.Sink) *AnalysisContext {
	return &AnalysisContext{Cache: cache, Sources: sources, Sinks: sinks}
}

// AddFinding appends findings to the context.
func (ac *AnalysisContext) AddFinding(findings ...schemas.Finding) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.findings = append(ac.findings, findings...)
}

// AddDiagnostic appends diagnostics to the context.
func (ac *AnalysisContext) AddDiagnostic(diags ...schemas.Diagnostic) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.diagnostics = append(ac.diagnostics, diags...)
}

// MarkIncomplete flags the run as partial.
func (ac *AnalysisContext) MarkIncomplete() {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.incomplete = true
}

// UpdateStats applies fn to the run statistics under the context lock.
func (ac *AnalysisContext) UpdateStats(fn func(*schemas.Stats)) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	fn(&ac.stats)
}

// Findings returns a copy of the recorded findings.
func (ac *AnalysisContext) Findings() []schemas.Finding {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	out := make([]schemas.Finding, len(ac.findings))
	copy(out, ac.findings)
	return out
}

// Diagnostics returns a copy of the recorded diagnostics.
func (ac *AnalysisContext) Diagnostics() []schemas.Diagnostic {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	out := make([]schemas.Diagnostic, len(ac.diagnostics))
	copy(out, ac.diagnostics)
	return out
}

// Incomplete reports whether any analyzer stopped before its fixed point.
func (ac *AnalysisContext) Incomplete() bool {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	return ac.incomplete
}

// Stats returns the accumulated run statistics.
func (ac *AnalysisContext) Stats() schemas.Stats {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	return ac.stats
}
