package facts_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/scalpel-taint/internal/facts"
	"github.com/xkilldash9x/scalpel-taint/internal/schema"
	"github.com/xkilldash9x/scalpel-taint/internal/store"
)

func sampleStore() *store.Memory {
	return store.NewMemory().
		MustInsert("cfg_blocks", store.Values{"id": 1, "file": "app.js", "function_name": "handler", "block_type": "entry", "start_line": 1, "end_line": 1}).
		MustInsert("cfg_blocks", store.Values{"id": 2, "file": "app.js", "function_name": "handler", "block_type": "exit", "start_line": 4, "end_line": 4}).
		MustInsert("cfg_edges", store.Values{"id": 1, "file": "app.js", "function_name": "handler", "source_block_id": 1, "target_block_id": 2, "edge_type": "normal"}).
		MustInsert("function_call_args", store.Values{"file": "app.js", "line": 3, "caller_function": "handler", "callee_function": "db.query", "argument_index": 0, "argument_expr": "sql"}).
		MustInsert("function_call_args", store.Values{"file": "app.js", "line": 4, "caller_function": "handler", "callee_function": "log"}).
		MustInsert("api_endpoints", store.Values{"file": "app.js", "line": 1, "method": "GET", "pattern": "/u", "handler_function": "handler"}).
		MustInsert("api_endpoints", store.Values{"file": "app.js", "method": "POST", "pattern": "/anon"})
}

func TestLoad(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cache, err := facts.Load(ctx, sampleStore())
	require.NoError(t, err)
	require.NotNil(t, cache)

	t.Run("rows keep load order and typed values", func(t *testing.T) {
		blocks := cache.CFGBlocks().All()
		require.Len(t, blocks, 2)
		assert.Equal(t, 1, blocks[0].ID)
		assert.Equal(t, "exit", blocks[1].BlockType)
		assert.Equal(t, facts.Location{File: "app.js", Line: 4}, blocks[1].Location())

		calls := cache.FunctionCallArgs().ByCallerFunction("handler")
		require.Len(t, calls, 2)
		assert.True(t, calls[0].ArgumentIndex.Valid)
		assert.EqualValues(t, 0, calls[0].ArgumentIndex.Int64)
		assert.False(t, calls[1].ArgumentIndex.Valid)
		assert.False(t, calls[1].ArgumentExpr.Valid)
	})

	t.Run("indexes answer point lookups", func(t *testing.T) {
		assert.Len(t, cache.CFGEdges().BySourceBlockID(1), 1)
		assert.Empty(t, cache.CFGEdges().BySourceBlockID(2))
		assert.Len(t, cache.FunctionCallArgs().ByCalleeFunction("db.query"), 1)
		assert.Empty(t, cache.Symbols().ByName("missing"))
	})

	t.Run("null keys are not indexed", func(t *testing.T) {
		assert.Len(t, cache.APIEndpoints().ByHandlerFunction("handler"), 1)
		assert.Empty(t, cache.APIEndpoints().ByHandlerFunction(""))
		assert.Equal(t, 2, cache.APIEndpoints().Len())
	})

	t.Run("accessors return fresh slices", func(t *testing.T) {
		first := cache.CFGBlocks().All()
		first[0].BlockType = "mutated"
		byFile := cache.CFGBlocks().ByFile("app.js")
		byFile[0].File = "mutated"

		assert.Equal(t, "entry", cache.CFGBlocks().At(0).BlockType)
		assert.Equal(t, "app.js", cache.CFGBlocks().All()[0].File)
	})

	t.Run("generic records", func(t *testing.T) {
		seq, ok := cache.Records("function_call_args")
		require.True(t, ok)
		var callees []string
		for _, rec := range seq {
			v, ok := rec.Field("callee_function")
			require.True(t, ok)
			callees = append(callees, v)
			_, ok = rec.Field("no_such_column")
			assert.False(t, ok)
		}
		assert.Equal(t, []string{"db.query", "log"}, callees)

		seq, ok = cache.Records("function_call_args")
		require.True(t, ok)
		for i, rec := range seq {
			if i == 1 {
				_, ok := rec.Field("argument_index")
				assert.False(t, ok, "NULL fields report absence")
			}
		}

		_, ok = cache.Records("nope")
		assert.False(t, ok)
	})

	t.Run("table names follow declaration order", func(t *testing.T) {
		want := make([]string, len(schema.Tables))
		for i, tbl := range schema.Tables {
			want[i] = tbl.Name
		}
		assert.Equal(t, want, cache.TableNames())
	})
}

func TestLoadMissingTable(t *testing.T) {
	t.Parallel()

	cache, err := facts.Load(context.Background(), sampleStore().DropTable("cfg_edges"))
	require.Error(t, err)
	assert.Nil(t, cache)

	var loadErr *schema.SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "cfg_edges", loadErr.Table)
	assert.Empty(t, loadErr.Column)
	assert.Contains(t, err.Error(), "cfg_edges")
}

func TestLoadMissingColumn(t *testing.T) {
	t.Parallel()

	cache, err := facts.Load(context.Background(), sampleStore().DropColumn("function_call_args", "argument_index"))
	require.Error(t, err)
	assert.Nil(t, cache)

	var loadErr *schema.SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "function_call_args", loadErr.Table)
	assert.Equal(t, "argument_index", loadErr.Column)
}

// failingSource reports every table but fails to read one.
type failingSource struct {
	*store.Memory
	table string
	err   error
}

func (f failingSource) ReadTable(ctx context.Context, table string, columns []string, fn func(schema.Row) error) error {
	if table == f.table {
		return f.err
	}
	return f.Memory.ReadTable(ctx, table, columns, fn)
}

func TestLoadReadFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk I/O error")
	cache, err := facts.Load(context.Background(), failingSource{Memory: sampleStore(), table: "sql_queries", err: boom})
	assert.Nil(t, cache)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "reading table sql_queries")
}

func TestLoadCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cache, err := facts.Load(ctx, sampleStore())
	assert.Nil(t, cache)
	assert.ErrorIs(t, err, context.Canceled)
}
