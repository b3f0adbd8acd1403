// internal/reporting/json_reporter.go
package reporting

import (
	"fmt"
	"io"
	"sync"

	json "github.com/json-iterator/go"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
)

// JSONReporter writes each report as an indented JSON document.
type JSONReporter struct {
	mu     sync.Mutex
	writer io.WriteCloser
	stream *json.Stream
}

// NewJSONReporter creates a reporter that writes JSON to writer.
func NewJSONReporter(writer io.WriteCloser) *JSONReporter {
	api := json.Config{
		EscapeHTML:    false,
		SortMapKeys:   true,
		IndentionStep: 2,
	}.Froze()
	return &JSONReporter{writer: writer, stream: json.NewStream(api, writer, 4096)}
}

// Write encodes the report followed by a newline.
func (r *JSONReporter) Write(report *schemas.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stream.WriteVal(report)
	r.stream.WriteRaw("\n")
	if r.stream.Error != nil {
		return fmt.Errorf("failed to encode report: %w", r.stream.Error)
	}
	if err := r.stream.Flush(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Close closes the underlying writer.
func (r *JSONReporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.writer.Close(); err != nil {
		return fmt.Errorf("failed to close output writer: %w", err)
	}
	return nil
}
