// internal/reporting/sarif_reporter.go
package reporting

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/owenrumney/go-sarif/v2/sarif"
	"go.uber.org/zap"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
	"github.com/xkilldash9x/scalpel-taint/internal/observability"
)

// Constants for tool identification in the SARIF report.
const (
	ToolName    = "scalpel-taint"
	ToolInfoURI = "https://github.com/xkilldash9x/scalpel-taint"
)

// categoryDescriptions are the rule descriptions of each finding category.
var categoryDescriptions = map[schemas.Category]string{
	schemas.CategorySQLInjection:     "Untrusted data reaches a SQL query.",
	schemas.CategoryCommandInjection: "Untrusted data reaches a shell command.",
	schemas.CategoryCodeInjection:    "Untrusted data reaches dynamic code evaluation.",
	schemas.CategoryPathTraversal:    "Untrusted data reaches a filesystem path.",
	schemas.CategorySSRF:             "Untrusted data reaches an outbound request target.",
	schemas.CategoryXSS:              "Untrusted data reaches HTML output.",
	schemas.CategoryLDAPInjection:    "Untrusted data reaches an LDAP query.",
	schemas.CategoryNoSQLInjection:   "Untrusted data reaches a NoSQL query.",
	schemas.CategoryTaintedFlow:      "Untrusted data reaches a sensitive operation.",
}

// SARIFReporter renders reports as SARIF 2.1.0, one result per finding with
// the taint path as a code flow. Reports are buffered and written on Close.
type SARIFReporter struct {
	mu      sync.Mutex
	writer  io.WriteCloser
	logger  *zap.Logger
	version string
	reports []*schemas.Report
}

// NewSARIFReporter creates a reporter that writes SARIF output.
func NewSARIFReporter(writer io.WriteCloser, toolVersion string) *SARIFReporter {
	return &SARIFReporter{
		writer:  writer,
		logger:  observability.GetLogger().Named("sarif_reporter"),
		version: toolVersion,
	}
}

// Write buffers a report. Each report becomes one SARIF run.
func (r *SARIFReporter) Write(report *schemas.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
	return nil
}

// Close builds the SARIF log, writes it and closes the output writer.
func (r *SARIFReporter) Close() error {
	startTime := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	log, err := r.build()
	if err != nil {
		r.writer.Close()
		return err
	}

	writeErr := log.PrettyWrite(r.writer)
	// Always attempt to close the writer, regardless of encoding success.
	closeErr := r.writer.Close()

	if writeErr != nil {
		r.logger.Error("Failed to encode SARIF log", zap.Error(writeErr))
		return fmt.Errorf("failed to encode SARIF output: %w", writeErr)
	}
	if closeErr != nil {
		r.logger.Error("Failed to close output writer", zap.Error(closeErr))
		return fmt.Errorf("failed to close output writer: %w", closeErr)
	}

	r.logger.Debug("Wrote SARIF report",
		zap.Int("runs", len(r.reports)),
		zap.Duration("duration", time.Since(startTime)))
	return nil
}

func (r *SARIFReporter) build() (*sarif.Report, error) {
	log, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}
	if len(r.reports) == 0 {
		log.AddRun(r.newRun())
	}
	for _, report := range r.reports {
		run := r.newRun()
		run.Properties = sarif.Properties{
			"run_id":     report.RunID,
			"incomplete": report.Incomplete,
		}
		for _, f := range report.Findings {
			run.AddResult(r.result(run, f))
		}
		log.AddRun(run)
	}
	return log, nil
}

func (r *SARIFReporter) newRun() *sarif.Run {
	run := sarif.NewRunWithInformationURI(ToolName, ToolInfoURI)
	if r.version != "" {
		version := r.version
		run.Tool.Driver.Version = &version
	}
	run.Results = []*sarif.Result{}
	return run
}

// result converts one finding. Rules are keyed by category so that every
// finding of a class shares one descriptor.
func (r *SARIFReporter) result(run *sarif.Run, f schemas.Finding) *sarif.Result {
	ruleID := ruleID(f.Category)
	desc := categoryDescriptions[f.Category]
	if desc == "" {
		desc = categoryDescriptions[schemas.CategoryTaintedFlow]
	}
	run.AddRule(ruleID).
		WithDescription(desc).
		WithProperties(sarif.Properties{"tags": []string{"security", "taint", string(f.Category)}})

	msg := fmt.Sprintf("%s from %s (%s:%d) reaches %s (%s:%d)",
		f.Category, f.Source.Category, f.Source.File, f.Source.Line,
		f.Sink.Category, f.Sink.File, f.Sink.Line)
	if f.Truncated {
		msg += "; path truncated at the hop limit"
	}

	result := sarif.NewRuleResult(ruleID).
		WithMessage(sarif.NewTextMessage(msg)).
		WithLevel(level(f.Severity)).
		WithLocations([]*sarif.Location{location(f.Sink.Location, "sink: "+f.Sink.Name)})
	result.RelatedLocations = []*sarif.Location{location(f.Source.Location, "source: "+f.Source.Name)}
	result.CodeFlows = []*sarif.CodeFlow{codeFlow(f.Path)}
	result.Properties = sarif.Properties{
		"id":        f.ID,
		"severity":  string(f.Severity),
		"hop_depth": f.HopDepth,
		"truncated": f.Truncated,
	}
	return result
}

func codeFlow(path []schemas.Step) *sarif.CodeFlow {
	locs := make([]*sarif.ThreadFlowLocation, 0, len(path))
	for _, s := range path {
		text := string(s.Kind)
		if s.Detail != "" {
			text += " " + s.Detail
		}
		if s.Function != "" {
			text += " in " + s.Function
		}
		locs = append(locs, &sarif.ThreadFlowLocation{
			Location: location(schemas.Location{File: s.File, Line: s.Line}, text),
		})
	}
	return &sarif.CodeFlow{ThreadFlows: []*sarif.ThreadFlow{{Locations: locs}}}
}

func location(l schemas.Location, text string) *sarif.Location {
	physical := sarif.NewPhysicalLocation().
		WithArtifactLocation(sarif.NewArtifactLocation().WithUri(l.File))
	if l.Line > 0 {
		physical = physical.WithRegion(sarif.NewRegion().WithStartLine(l.Line))
	}
	loc := sarif.NewLocation().WithPhysicalLocation(physical)
	loc.Message = sarif.NewTextMessage(strings.TrimSpace(text))
	return loc
}

// ruleID turns a category into a SARIF rule ID, e.g. TAINT-SQL-INJECTION.
func ruleID(c schemas.Category) string {
	if c == "" {
		c = schemas.CategoryTaintedFlow
	}
	return "TAINT-" + strings.ToUpper(strings.ReplaceAll(string(c), "_", "-"))
}

// level maps severities onto SARIF levels.
func level(s schemas.Severity) string {
	switch s {
	case schemas.SeverityCritical, schemas.SeverityHigh:
		return "error"
	case schemas.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
