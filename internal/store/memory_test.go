package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/scalpel-taint/internal/schema"
)

func readAll(t *testing.T, src schema.Source, table string, columns []string) [][]string {
	t.Helper()
	var out [][]string
	err := src.ReadTable(context.Background(), table, columns, func(r schema.Row) error {
		row := make([]string, len(columns))
		for i := range columns {
			if r.IsNull(i) {
				row[i] = "<nil>"
				continue
			}
			row[i] = r.Text(i)
		}
		out = append(out, row)
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestMemory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("holds every declared table", func(t *testing.T) {
		m := NewMemory()
		for _, tbl := range schema.Tables {
			cols, err := m.Columns(ctx, tbl.Name)
			require.NoError(t, err)
			assert.Equal(t, tbl.ColumnNames(), cols, tbl.Name)
		}
	})

	t.Run("insert rejects unknown tables and columns", func(t *testing.T) {
		m := NewMemory()
		assert.Error(t, m.Insert("nope", Values{}))
		assert.Error(t, m.Insert("symbols", Values{"bogus": 1}))
		assert.Panics(t, func() { m.MustInsert("nope", nil) })
	})

	t.Run("reads projected columns with nulls", func(t *testing.T) {
		m := NewMemory().
			MustInsert("assignments", Values{"file": "a.js", "line": 1, "target_var": "x", "source_expr": "req.query.id", "in_function": "h"}).
			MustInsert("assignments", Values{"file": "a.js", "line": 2, "target_var": "y", "source_expr": "x", "in_function": "h"})

		rows := readAll(t, m, "assignments", []string{"target_var", "property_path", "line"})
		assert.Equal(t, [][]string{{"x", "<nil>", "1"}, {"y", "<nil>", "2"}}, rows)
	})

	t.Run("dropped tables and columns disappear", func(t *testing.T) {
		m := NewMemory().
			MustInsert("cfg_edges", Values{"id": 1, "file": "a.js", "function_name": "h", "source_block_id": 1, "target_block_id": 2, "edge_type": "normal"})
		m.DropColumn("cfg_edges", "edge_type")
		cols, err := m.Columns(ctx, "cfg_edges")
		require.NoError(t, err)
		assert.NotContains(t, cols, "edge_type")
		assert.Equal(t, [][]string{{"1", "2"}}, readAll(t, m, "cfg_edges", []string{"source_block_id", "target_block_id"}))

		m.DropTable("cfg_edges")
		cols, err = m.Columns(ctx, "cfg_edges")
		require.NoError(t, err)
		assert.Empty(t, cols)
		assert.Error(t, m.ReadTable(ctx, "cfg_edges", []string{"id"}, func(schema.Row) error { return nil }))
	})

	t.Run("read honors cancellation", func(t *testing.T) {
		m := NewMemory().MustInsert("symbols", Values{"path": "a.js"})
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := m.ReadTable(cctx, "symbols", []string{"path"}, func(schema.Row) error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestValueRowConversions(t *testing.T) {
	t.Parallel()

	doc := `{"func_params": [{"file": "a.js", "function_name": "h", "param_index": 2, "param_name": "req"}],
	         "symbols": [{"path": "a.js", "name": "req.id", "type": "property", "line": 4, "col": 7, "is_typed": true}]}`
	m, err := LoadJSON(strings.NewReader(doc))
	require.NoError(t, err)

	var (
		index int64
		typed bool
		col   float64
	)
	err = m.ReadTable(context.Background(), "func_params", []string{"param_index"}, func(r schema.Row) error {
		index = r.Int(0)
		return nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, index)

	err = m.ReadTable(context.Background(), "symbols", []string{"is_typed", "col", "end_line"}, func(r schema.Row) error {
		typed = r.Bool(0)
		col = r.Float(1)
		assert.True(t, r.IsNull(2))
		assert.Nil(t, r.Bytes(2))
		return nil
	})
	require.NoError(t, err)
	assert.True(t, typed)
	assert.Equal(t, 7.0, col)
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	t.Run("rejects malformed documents", func(t *testing.T) {
		_, err := LoadJSON(strings.NewReader(`{"symbols": `))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode fact fixture")
	})

	t.Run("rejects unknown columns", func(t *testing.T) {
		_, err := LoadJSON(strings.NewReader(`{"symbols": [{"unknown": 1}]}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown column unknown")
	})

	t.Run("absent tables are empty", func(t *testing.T) {
		m, err := LoadJSON(strings.NewReader(`{}`))
		require.NoError(t, err)
		assert.Empty(t, readAll(t, m, "cfg_edges", []string{"id"}))
	})
}
