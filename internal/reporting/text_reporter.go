// internal/reporting/text_reporter.go
package reporting

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
)

// TextReporter writes a human readable summary with one block per finding.
type TextReporter struct {
	mu     sync.Mutex
	writer io.WriteCloser
}

// NewTextReporter creates a reporter that writes plain text to writer.
func NewTextReporter(writer io.WriteCloser) *TextReporter {
	return &TextReporter{writer: writer}
}

// Write renders the report.
func (r *TextReporter) Write(report *schemas.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w := bufio.NewWriter(r.writer)
	fmt.Fprintf(w, "Run %s: %d finding(s), %d diagnostic(s)\n", report.RunID, len(report.Findings), len(report.Diagnostics))
	if report.Incomplete {
		fmt.Fprintln(w, "WARNING: analysis incomplete, results are partial")
	}
	s := report.Stats
	fmt.Fprintf(w, "Sources: %d  Sinks: %d  Functions: %d (%d unanalyzable)  Rounds: %d  Duration: %s\n",
		s.Sources, s.Sinks, s.Functions, s.UnanalyzableFunctions, s.Rounds, s.Duration)

	for i, f := range report.Findings {
		fmt.Fprintf(w, "\n[%d] %s %s\n", i+1, strings.ToUpper(string(f.Severity)), f.Category)
		fmt.Fprintf(w, "    source: %s %s at %s:%d\n", f.Source.Category, f.Source.Name, f.Source.File, f.Source.Line)
		fmt.Fprintf(w, "    sink:   %s %s at %s:%d\n", f.Sink.Category, f.Sink.Name, f.Sink.File, f.Sink.Line)
		fmt.Fprintf(w, "    hops: %d  id: %s\n", f.HopDepth, f.ID)
		for _, step := range f.Path {
			fmt.Fprintf(w, "      %-10s %s:%d", step.Kind, step.File, step.Line)
			if step.Function != "" {
				fmt.Fprintf(w, " in %s", step.Function)
			}
			if step.Detail != "" {
				fmt.Fprintf(w, " (%s)", step.Detail)
			}
			fmt.Fprintln(w)
		}
	}

	if len(report.Diagnostics) > 0 {
		fmt.Fprintln(w, "\nDiagnostics:")
		for _, d := range report.Diagnostics {
			fmt.Fprintf(w, "  - %s", d.Kind)
			if d.File != "" {
				fmt.Fprintf(w, " %s", d.File)
				if d.Line > 0 {
					fmt.Fprintf(w, ":%d", d.Line)
				}
			}
			if d.Function != "" {
				fmt.Fprintf(w, " [%s]", d.Function)
			}
			fmt.Fprintf(w, ": %s\n", d.Message)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Close closes the underlying writer.
func (r *TextReporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.writer.Close(); err != nil {
		return fmt.Errorf("failed to close output writer: %w", err)
	}
	return nil
}
