package schemas

import (
	"time"
)

// -- Diagnostic Schemas --

// DiagnosticKind classifies a recovered problem encountered during a run.
type DiagnosticKind string

const (
	DiagUnanalyzableFunction DiagnosticKind = "unanalyzable_function"
	DiagMaxDepthTruncation   DiagnosticKind = "max_depth_truncation"
	DiagCancelled            DiagnosticKind = "cancelled"
	DiagInfeasiblePath       DiagnosticKind = "infeasible_path"
	DiagUnresolvedBinding    DiagnosticKind = "unresolved_binding"
)

// Diagnostic is a non-fatal event the caller should know about. A run that
// produced diagnostics still completed, possibly with fewer findings.
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	Message  string         `json:"message"`
	File     string         `json:"file,omitempty"`
	Function string         `json:"function,omitempty"`
	Line     int            `json:"line,omitempty"`
}

// -- Result Schemas --

// Stats summarizes the volume of work performed by a run.
type Stats struct {
	Sources               int           `json:"sources"`
	Sinks                 int           `json:"sinks"`
	Functions             int           `json:"functions"`
	UnanalyzableFunctions int           `json:"unanalyzable_functions"`
	Rounds                int           `json:"rounds"`
	Duration              time.Duration `json:"duration_ns"`
}

// Report is the complete outcome of one analysis run.
type Report struct {
	RunID       string       `json:"run_id"`
	Findings    []Finding    `json:"findings"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	// Incomplete is set when the run was cancelled or timed out. Findings
	// gathered up to that point are still included.
	Incomplete bool  `json:"incomplete"`
	Stats      Stats `json:"stats"`
}
