// File: cmd/analyze.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
	"github.com/xkilldash9x/scalpel-taint/internal/config"
	"github.com/xkilldash9x/scalpel-taint/internal/observability"
	"github.com/xkilldash9x/scalpel-taint/internal/orchestrator"
	"github.com/xkilldash9x/scalpel-taint/internal/reporting"
	"github.com/xkilldash9x/scalpel-taint/internal/store"
)

// ErrIncompleteReport is returned after a partial report was written because
// the run was interrupted, timed out or hit its round cap.
var ErrIncompleteReport = errors.New("analysis did not complete; the report is partial")

// persistentStore is implemented by fact stores that can also hold reports.
type persistentStore interface {
	orchestrator.ResultStore
	EnsureResultsSchema(ctx context.Context) error
}

func newAnalyzeCmd() *cobra.Command {
	var persist bool

	analyzeCmd := &cobra.Command{
		Use:   "analyze [database]",
		Short: "Runs taint analysis over a fact database and writes a report.",
		Long: `Loads the fact database, discovers sources and sinks, tracks taint between
them and writes the findings. The database is a SQLite file, a PostgreSQL URL
or a JSON fixture; it defaults to database.url from the configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			dsn := cfg.Database().URL
			if len(args) == 1 {
				dsn = args[0]
			}
			if dsn == "" {
				return fmt.Errorf("no fact database given; pass one as an argument or set database.url")
			}
			if persist && store.Kind(dsn) != "postgres" {
				return fmt.Errorf("--persist requires a PostgreSQL fact database")
			}
			return runAnalyze(cmd, cfg, dsn, persist)
		},
	}

	analyzeCmd.Flags().IntP("max-hops", "m", 5, "maximum call depth followed from a source")
	analyzeCmd.Flags().Duration("timeout", 5*time.Minute, "overall analysis deadline, 0 disables it")
	analyzeCmd.Flags().IntP("concurrency", "j", 4, "functions analyzed in parallel")
	analyzeCmd.Flags().StringP("format", "f", config.FormatJSON, "report format: json, sarif or text")
	analyzeCmd.Flags().StringP("output", "o", "-", "report file, - for stdout")
	analyzeCmd.Flags().String("rules", "", "YAML rule file replacing the built-in rules")
	analyzeCmd.Flags().BoolVar(&persist, "persist", false, "store the report in the PostgreSQL fact database")

	bindFlag(analyzeCmd, "max-hops", "analysis.max_hops")
	bindFlag(analyzeCmd, "timeout", "analysis.timeout")
	bindFlag(analyzeCmd, "concurrency", "analysis.concurrency")
	bindFlag(analyzeCmd, "format", "output.format")
	bindFlag(analyzeCmd, "output", "output.path")
	bindFlag(analyzeCmd, "rules", "discovery.rules_file")

	return analyzeCmd
}

// runAnalyze opens the fact store, runs one analysis and writes the report.
// An interrupted run still writes its partial report.
func runAnalyze(cmd *cobra.Command, cfg config.Interface, dsn string, persist bool) error {
	ctx := cmd.Context()
	logger := observability.GetLogger().Named("analyze")

	handle, err := store.Open(ctx, dsn, logger)
	if err != nil {
		return fmt.Errorf("failed to open fact database: %w", err)
	}
	defer handle.Close()

	var opts []orchestrator.Option
	if persist {
		results, ok := handle.(persistentStore)
		if !ok {
			return fmt.Errorf("fact database %s cannot store reports", store.Kind(dsn))
		}
		if err := results.EnsureResultsSchema(ctx); err != nil {
			return err
		}
		opts = append(opts, orchestrator.WithResultStore(results))
	}

	orch, err := orchestrator.New(cfg, logger, opts...)
	if err != nil {
		return err
	}

	report, analyzeErr := orch.Analyze(ctx, handle)
	if report == nil {
		return analyzeErr
	}
	if analyzeErr != nil {
		logger.Error("Report was produced with errors", zap.Error(analyzeErr))
	}

	if err := writeReport(cmd, cfg.Output(), report); err != nil {
		return err
	}
	if report.Incomplete {
		logger.Warn("Analysis did not complete; the report is partial", zap.String("run_id", report.RunID))
	}
	return completionError(ctx, report, analyzeErr)
}

// completionError is the error of a run whose report was written. A partial
// report without another error yields ErrIncompleteReport, joined with the
// cancellation cause when the command itself was interrupted.
func completionError(ctx context.Context, report *schemas.Report, analyzeErr error) error {
	if analyzeErr != nil || !report.Incomplete {
		return analyzeErr
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ErrIncompleteReport, context.Cause(ctx))
	}
	return ErrIncompleteReport
}

// nopCloser keeps the command's output stream open after the reporter closes.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func writeReport(cmd *cobra.Command, out config.OutputConfig, report *schemas.Report) error {
	var (
		reporter reporting.Reporter
		err      error
	)
	if out.Path == "" || out.Path == "-" {
		reporter, err = reporting.NewWithWriter(out.Format, nopCloser{cmd.OutOrStdout()}, Version)
	} else {
		reporter, err = reporting.New(out.Format, out.Path, Version)
	}
	if err != nil {
		return fmt.Errorf("failed to create reporter: %w", err)
	}

	if err := reporter.Write(report); err != nil {
		reporter.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := reporter.Close(); err != nil {
		return fmt.Errorf("failed to finalize report: %w", err)
	}
	return nil
}
