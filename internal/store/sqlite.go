package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/xkilldash9x/scalpel-taint/internal/schema"
)

// SQLite reads fact tables from a SQLite database file, the format the
// extractors write by default.
type SQLite struct {
	mu   sync.Mutex
	conn *sqlite.Conn
	log  *zap.Logger
}

var _ schema.Source = (*SQLite)(nil)

// OpenSQLite opens the database at path read-only.
func OpenSQLite(path string, logger *zap.Logger) (*SQLite, error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return NewSQLite(conn, logger), nil
}

// NewSQLite wraps an open connection. The store owns conn from now on.
func NewSQLite(conn *sqlite.Conn, logger *zap.Logger) *SQLite {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLite{conn: conn, log: logger.Named("store")}
}

// Close closes the underlying connection.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}

// interruptible arranges for ctx to abort the running statement and maps the
// resulting SQLite error back to the context error.
func (s *SQLite) interruptible(ctx context.Context, run func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	s.conn.SetInterrupt(ctx.Done())
	defer s.conn.SetInterrupt(nil)

	if err := run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

// Columns implements schema.Source.
func (s *SQLite) Columns(ctx context.Context, table string) ([]string, error) {
	var cols []string
	err := s.interruptible(ctx, func() error {
		return sqlitex.Execute(s.conn, "SELECT name FROM pragma_table_info(?) ORDER BY cid", &sqlitex.ExecOptions{
			Args: []any{table},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				cols = append(cols, stmt.ColumnText(0))
				return nil
			},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", table, err)
	}
	return cols, nil
}

// ReadTable implements schema.Source.
func (s *SQLite) ReadTable(ctx context.Context, table string, columns []string, fn func(schema.Row) error) error {
	n := 0
	err := s.interruptible(ctx, func() error {
		return sqlitex.ExecuteTransient(s.conn, selectSQL(table, columns), &sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				n++
				return fn(stmtRow{stmt})
			},
		})
	})
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", table, err)
	}

	s.log.Debug("Read fact table", zap.String("table", table), zap.Int("rows", n))
	return nil
}

// stmtRow exposes the current result row of a statement as a schema.Row.
type stmtRow struct {
	stmt *sqlite.Stmt
}

func (r stmtRow) IsNull(i int) bool {
	return r.stmt.ColumnType(i) == sqlite.TypeNull
}

func (r stmtRow) Int(i int) int64 {
	return r.stmt.ColumnInt64(i)
}

func (r stmtRow) Float(i int) float64 {
	return r.stmt.ColumnFloat(i)
}

func (r stmtRow) Text(i int) string {
	return r.stmt.ColumnText(i)
}

// Bool accepts integer booleans and the textual forms some extractors write.
func (r stmtRow) Bool(i int) bool {
	if r.stmt.ColumnType(i) == sqlite.TypeText {
		b, err := strconv.ParseBool(strings.TrimSpace(r.stmt.ColumnText(i)))
		return err == nil && b
	}
	return r.stmt.ColumnInt64(i) != 0
}

func (r stmtRow) Bytes(i int) []byte {
	if r.IsNull(i) {
		return nil
	}
	buf := make([]byte, r.stmt.ColumnLen(i))
	r.stmt.ColumnBytes(i, buf)
	return buf
}
