package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/xkilldash9x/scalpel-taint/internal/schema"
)

// DBPool is an interface that abstracts the pgxpool.Pool to allow for mocking in tests.
type DBPool interface {
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Postgres reads fact tables from a PostgreSQL database. It also persists
// analysis reports when asked to (see SaveReport).
type Postgres struct {
	pool DBPool
	log  *zap.Logger
}

var _ schema.Source = (*Postgres)(nil)

// NewPostgres creates a new store instance and verifies the connection.
func NewPostgres(ctx context.Context, pool DBPool, logger *zap.Logger) (*Postgres, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{
		pool: pool,
		log:  logger.Named("store"),
	}, nil
}

const sqlColumns = `
        SELECT column_name
        FROM information_schema.columns
        WHERE table_schema = current_schema() AND table_name = $1
        ORDER BY ordinal_position;
    `

// Columns lists the columns of table in the current schema.
func (p *Postgres) Columns(ctx context.Context, table string) ([]string, error) {
	rows, err := p.pool.Query(ctx, sqlColumns, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column name: %w", err)
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return cols, nil
}

// selectSQL renders the full-table read. Identifiers come from the schema
// descriptors and are quoted regardless.
func selectSQL(table string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), pgx.Identifier{table}.Sanitize())
}

// ReadTable streams every row of table.
func (p *Postgres) ReadTable(ctx context.Context, table string, columns []string, fn func(schema.Row) error) error {
	rows, err := p.pool.Query(ctx, selectSQL(table, columns))
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return fmt.Errorf("failed to decode %s row: %w", table, err)
		}
		if len(vals) != len(columns) {
			return fmt.Errorf("%s row has %d values, expected %d", table, len(vals), len(columns))
		}
		if err := fn(valueRow(vals)); err != nil {
			return err
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error during row iteration: %w", err)
	}

	p.log.Debug("Read fact table", zap.String("table", table), zap.Int("rows", n))
	return nil
}
