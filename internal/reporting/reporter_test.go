// internal/reporting/reporter_test.go
package reporting_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
	"github.com/xkilldash9x/scalpel-taint/internal/reporting"
)

const testToolVersion = "v1.0.0-test"

// -- Test Helpers --

// MockWriteCloser allows capturing output and simulating I/O errors.
type MockWriteCloser struct {
	Buffer    bytes.Buffer
	FailWrite bool
	FailClose bool
	Closed    bool
}

func (m *MockWriteCloser) Write(p []byte) (int, error) {
	if m.FailWrite {
		return 0, errors.New("simulated write error")
	}
	return m.Buffer.Write(p)
}

func (m *MockWriteCloser) Close() error {
	m.Closed = true
	if m.FailClose {
		return errors.New("simulated close error")
	}
	return nil
}

func sampleReport() *schemas.Report {
	return &schemas.Report{
		RunID: "2b1f6a7e-0000-4000-8000-000000000001",
		Findings: []schemas.Finding{{
			ID:       "5d9c2a10-0000-5000-8000-000000000002",
			Severity: schemas.SeverityHigh,
			Category: schemas.CategorySQLInjection,
			Source: schemas.Endpoint{
				Location: schemas.Location{File: "app.js", Line: 2},
				Category: "http_request", Name: "req.id", Rule: "source.symbol.request", Risk: "high",
			},
			Sink: schemas.Endpoint{
				Location: schemas.Location{File: "app.js", Line: 3},
				Category: "sql", Name: "SELECT", Rule: "sink.sql.query", Risk: "high",
			},
			Path: []schemas.Step{
				{Kind: schemas.StepSource, File: "app.js", Line: 2, Function: "handler", Detail: "req.id"},
				{Kind: schemas.StepAssignment, File: "app.js", Line: 2, Function: "handler", Detail: "q"},
				{Kind: schemas.StepSink, File: "app.js", Line: 3, Function: "handler", Detail: "db.query"},
			},
		}},
		Diagnostics: []schemas.Diagnostic{{
			Kind: schemas.DiagUnanalyzableFunction, Message: "control flow graph rejected: no entry block",
			File: "lib.js", Function: "broken",
		}},
		Stats: schemas.Stats{Sources: 2, Sinks: 1, Functions: 2, UnanalyzableFunctions: 1, Rounds: 1, Duration: 3 * time.Millisecond},
	}
}

// -- Test Cases --

func TestNewWritesToFile(t *testing.T) {
	for _, format := range []string{"json", "sarif", "text"} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "report."+format)

			r, err := reporting.New(format, path, testToolVersion)
			require.NoError(t, err)
			require.NoError(t, r.Write(sampleReport()))
			require.NoError(t, r.Close())

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(content), "app.js")
		})
	}
}

func TestNewStdout(t *testing.T) {
	for _, path := range []string{"", "-", "stdout"} {
		r, err := reporting.New("json", path, testToolVersion)
		require.NoError(t, err)
		assert.NoError(t, r.Close(), "closing stdout is a no-op")
	}
}

func TestNewFailures(t *testing.T) {
	t.Run("unsupported format", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "output.xml")
		r, err := reporting.New("xml", path, testToolVersion)
		assert.Nil(t, r)
		assert.ErrorContains(t, err, "unsupported output format: xml")
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr), "no file is created for unknown formats")
	})

	t.Run("uncreatable file", func(t *testing.T) {
		r, err := reporting.New("sarif", t.TempDir(), testToolVersion)
		assert.Nil(t, r)
		assert.ErrorContains(t, err, "failed to create output file")
	})

	t.Run("writer closed on unknown format", func(t *testing.T) {
		w := &MockWriteCloser{}
		_, err := reporting.NewWithWriter("xml", w, testToolVersion)
		assert.Error(t, err)
		assert.True(t, w.Closed)
	})
}

func TestJSONReporter(t *testing.T) {
	w := &MockWriteCloser{}
	r := reporting.NewJSONReporter(w)
	require.NoError(t, r.Write(sampleReport()))
	require.NoError(t, r.Close())
	assert.True(t, w.Closed)

	var got schemas.Report
	require.NoError(t, json.Unmarshal(w.Buffer.Bytes(), &got))
	assert.Equal(t, *sampleReport(), got)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Buffer.Bytes(), &raw))
	assert.Contains(t, raw, "run_id")
	assert.Contains(t, raw, "incomplete")
	assert.Contains(t, w.Buffer.String(), "\n  \"", "output is indented")
}

func TestJSONReporterWriteError(t *testing.T) {
	r := reporting.NewJSONReporter(&MockWriteCloser{FailWrite: true})
	assert.ErrorContains(t, r.Write(sampleReport()), "simulated write error")
}

func TestTextReporter(t *testing.T) {
	report := sampleReport()
	report.Incomplete = true

	w := &MockWriteCloser{}
	r := reporting.NewTextReporter(w)
	require.NoError(t, r.Write(report))
	require.NoError(t, r.Close())

	out := w.Buffer.String()
	assert.Contains(t, out, "1 finding(s), 1 diagnostic(s)")
	assert.Contains(t, out, "analysis incomplete")
	assert.Contains(t, out, "[1] HIGH sql_injection")
	assert.Contains(t, out, "source: http_request req.id at app.js:2")
	assert.Contains(t, out, "sink:   sql SELECT at app.js:3")
	assert.Contains(t, out, "in handler (db.query)")
	assert.Contains(t, out, "unanalyzable_function lib.js [broken]: control flow graph rejected")
}

func TestCloseErrors(t *testing.T) {
	for _, format := range []string{"json", "sarif", "text"} {
		t.Run(format, func(t *testing.T) {
			r, err := reporting.NewWithWriter(format, &MockWriteCloser{FailClose: true}, testToolVersion)
			require.NoError(t, err)
			assert.ErrorContains(t, r.Close(), "failed to close output writer")
		})
	}
}
