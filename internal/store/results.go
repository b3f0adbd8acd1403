package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
)

// ResultsDDL creates the tables SaveReport writes to.
const ResultsDDL = `
        CREATE TABLE IF NOT EXISTS taint_runs (
            run_id TEXT PRIMARY KEY,
            incomplete BOOLEAN NOT NULL,
            finding_count INTEGER NOT NULL,
            diagnostics JSONB NOT NULL,
            stats JSONB NOT NULL,
            created_at TIMESTAMPTZ NOT NULL
        );
        CREATE TABLE IF NOT EXISTS taint_findings (
            id TEXT NOT NULL,
            run_id TEXT NOT NULL REFERENCES taint_runs (run_id),
            severity TEXT NOT NULL,
            category TEXT NOT NULL,
            source_file TEXT NOT NULL,
            source_line INTEGER NOT NULL,
            sink_file TEXT NOT NULL,
            sink_line INTEGER NOT NULL,
            hop_depth INTEGER NOT NULL,
            truncated BOOLEAN NOT NULL,
            path JSONB NOT NULL,
            PRIMARY KEY (run_id, id)
        );
    `

const sqlInsertRun = `
        INSERT INTO taint_runs (run_id, incomplete, finding_count, diagnostics, stats, created_at)
        VALUES ($1, $2, $3, $4, $5, $6);
    `

var findingColumns = []string{"id", "run_id", "severity", "category", "source_file", "source_line", "sink_file", "sink_line", "hop_depth", "truncated", "path"}

// EnsureResultsSchema creates the report tables if they do not exist.
func (p *Postgres) EnsureResultsSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, ResultsDDL); err != nil {
		return fmt.Errorf("failed to create results tables: %w", err)
	}
	return nil
}

// SaveReport writes a report and its findings in a single transaction.
func (p *Postgres) SaveReport(ctx context.Context, report *schemas.Report) error {
	diagnostics, err := json.Marshal(report.Diagnostics)
	if err != nil {
		return fmt.Errorf("failed to encode diagnostics: %w", err)
	}
	stats, err := json.Marshal(report.Stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			p.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	if _, err := tx.Exec(ctx, sqlInsertRun,
		report.RunID, report.Incomplete, len(report.Findings),
		string(diagnostics), string(stats), time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if len(report.Findings) > 0 {
		if err := p.copyFindings(ctx, tx, report.RunID, report.Findings); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (p *Postgres) copyFindings(ctx context.Context, tx pgx.Tx, runID string, findings []schemas.Finding) error {
	rows := make([][]any, len(findings))
	for i, f := range findings {
		path, err := json.Marshal(f.Path)
		if err != nil {
			return fmt.Errorf("failed to encode path of finding %s: %w", f.ID, err)
		}
		rows[i] = []any{
			f.ID, runID,
			string(f.Severity), string(f.Category),
			f.Source.File, f.Source.Line,
			f.Sink.File, f.Sink.Line,
			f.HopDepth, f.Truncated,
			string(path),
		}
	}

	copyCount, err := tx.CopyFrom(ctx, pgx.Identifier{"taint_findings"}, findingColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to copy findings: %w", err)
	}
	if int(copyCount) != len(findings) {
		return fmt.Errorf("mismatch in copied findings count: expected %d, got %d", len(findings), copyCount)
	}
	return nil
}

const sqlFindingsByRun = `
        SELECT id, severity, category, source_file, source_line, sink_file, sink_line, hop_depth, truncated, path
        FROM taint_findings
        WHERE run_id = $1
        ORDER BY id ASC;
    `

// FindingsByRun reads back the findings stored for a run. Only the columns
// SaveReport persists are populated.
func (p *Postgres) FindingsByRun(ctx context.Context, runID string) ([]schemas.Finding, error) {
	rows, err := p.pool.Query(ctx, sqlFindingsByRun, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query findings: %w", err)
	}
	defer rows.Close()

	var findings []schemas.Finding
	for rows.Next() {
		var (
			f                  schemas.Finding
			severity, category string
			path               []byte
		)
		err := rows.Scan(
			&f.ID, &severity, &category,
			&f.Source.File, &f.Source.Line,
			&f.Sink.File, &f.Sink.Line,
			&f.HopDepth, &f.Truncated,
			&path,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan finding row: %w", err)
		}
		if err := json.Unmarshal(path, &f.Path); err != nil {
			return nil, fmt.Errorf("failed to decode path of finding %s: %w", f.ID, err)
		}
		f.Severity = schemas.Severity(severity)
		f.Category = schemas.Category(category)
		findings = append(findings, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return findings, nil
}
