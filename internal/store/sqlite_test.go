package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/xkilldash9x/scalpel-taint/internal/schema"
)

// newFactDB writes a SQLite fact database with every declared table and the
// given statements applied, and returns its path.
func newFactDB(t *testing.T, statements ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "facts.db")

	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite|sqlite.OpenCreate)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, sqlitex.ExecuteScript(conn, schema.DDL(schema.Tables, schema.SQLite), nil))
	for _, stmt := range statements {
		require.NoError(t, sqlitex.ExecuteTransient(conn, stmt, nil), stmt)
	}
	return path
}

func TestSQLite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := newFactDB(t,
		`INSERT INTO function_call_args (file, line, caller_function, callee_function, argument_index, argument_expr)
		 VALUES ('app.js', 3, 'handler', 'db.query', 0, 'sql')`,
		`INSERT INTO function_call_args (file, line, caller_function, callee_function, argument_index, argument_expr)
		 VALUES ('app.js', 5, 'handler', 'log', NULL, NULL)`,
		`INSERT INTO api_endpoints (file, line, method, pattern, has_auth, handler_function)
		 VALUES ('app.js', 1, 'GET', '/users', 'true', 'handler')`,
	)

	db, err := OpenSQLite(path, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	t.Run("lists columns in declaration order", func(t *testing.T) {
		cols, err := db.Columns(ctx, "cfg_edges")
		require.NoError(t, err)
		want, _ := schema.Lookup("cfg_edges")
		assert.Equal(t, want.ColumnNames(), cols)

		cols, err = db.Columns(ctx, "no_such_table")
		require.NoError(t, err)
		assert.Empty(t, cols)
	})

	t.Run("reads typed values", func(t *testing.T) {
		type call struct {
			line    int64
			callee  string
			index   int64
			noIndex bool
		}
		var calls []call
		err := db.ReadTable(ctx, "function_call_args", []string{"line", "callee_function", "argument_index"}, func(r schema.Row) error {
			calls = append(calls, call{r.Int(0), r.Text(1), r.Int(2), r.IsNull(2)})
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []call{{3, "db.query", 0, false}, {5, "log", 0, true}}, calls)
	})

	t.Run("parses textual booleans", func(t *testing.T) {
		var auth bool
		err := db.ReadTable(ctx, "api_endpoints", []string{"has_auth", "path"}, func(r schema.Row) error {
			auth = r.Bool(0)
			assert.Nil(t, r.Bytes(1))
			return nil
		})
		require.NoError(t, err)
		assert.True(t, auth)
	})

	t.Run("cancelled context aborts reads", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := db.ReadTable(cctx, "function_call_args", []string{"line"}, func(schema.Row) error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("missing columns are an error", func(t *testing.T) {
		err := db.ReadTable(ctx, "function_call_args", []string{"nope"}, func(schema.Row) error { return nil })
		assert.Error(t, err)
	})
}
