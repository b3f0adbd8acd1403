package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKind(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"postgres://user@localhost/facts":   "postgres",
		"postgresql://user@localhost/facts": "postgres",
		"json:fixture":                      "json",
		"testdata/app.JSON":                 "json",
		"sqlite:.pf/repo_index.db":          "sqlite",
		".pf/repo_index.db":                 "sqlite",
	}
	for dsn, want := range tests {
		assert.Equal(t, want, Kind(dsn), dsn)
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("empty dsn", func(t *testing.T) {
		_, err := Open(ctx, "", nil)
		assert.Error(t, err)
	})

	t.Run("json fixture", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "facts.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"symbols": [{"path": "a.js", "name": "req.id"}]}`), 0o600))

		h, err := Open(ctx, path, zap.NewNop())
		require.NoError(t, err)
		defer h.Close()
		assert.IsType(t, &Memory{}, h)
		assert.Len(t, readAll(t, h, "symbols", []string{"name"}), 1)
	})

	t.Run("sqlite file", func(t *testing.T) {
		path := newFactDB(t, `INSERT INTO cfg_blocks (id, file, function_name, block_type, start_line, end_line) VALUES (1, 'a.js', 'h', 'entry', 1, 1)`)

		h, err := Open(ctx, "sqlite:"+path, zap.NewNop())
		require.NoError(t, err)
		defer h.Close()
		assert.Equal(t, [][]string{{"entry"}}, readAll(t, h, "cfg_blocks", []string{"block_type"}))
	})

	t.Run("missing sqlite file", func(t *testing.T) {
		h, err := Open(ctx, filepath.Join(t.TempDir(), "absent.db"), zap.NewNop())
		assert.Error(t, err)
		assert.Nil(t, h)
	})

	t.Run("missing json file", func(t *testing.T) {
		h, err := Open(ctx, "json:"+filepath.Join(t.TempDir(), "absent"), zap.NewNop())
		assert.Error(t, err)
		assert.Nil(t, h)
	})
}
