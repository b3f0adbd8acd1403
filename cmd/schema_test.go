// File: cmd/schema_test.go
package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/scalpel-taint/internal/schema"
	"github.com/xkilldash9x/scalpel-taint/internal/schema/codegen"
)

func TestSchemaGenerateCmd(t *testing.T) {
	want, err := codegen.Generate(schema.Tables, codegen.Options{Package: "facts"})
	require.NoError(t, err)

	t.Run("stdout", func(t *testing.T) {
		out, err := executeCommand(t, "schema", "generate", "--out", "-")
		require.NoError(t, err)
		assert.Equal(t, string(want), out)
	})

	t.Run("file and check", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "facts_gen.go")
		_, err := executeCommand(t, "schema", "generate", "-o", path)
		require.NoError(t, err)

		written, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, written)

		_, err = executeCommand(t, "schema", "generate", "-o", path, "--check")
		assert.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("package facts\n"), 0o644))
		_, err = executeCommand(t, "schema", "generate", "-o", path, "--check")
		assert.ErrorContains(t, err, "is stale")
	})

	t.Run("package name", func(t *testing.T) {
		out, err := executeCommand(t, "schema", "generate", "-o", "-", "--package", "factsdb")
		require.NoError(t, err)
		assert.Contains(t, out, "package factsdb")
	})
}

func TestSchemaDDLCmd(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		contains []string
		absent   []string
		wantErr  string
	}{
		{
			name:     "every table in sqlite",
			args:     nil,
			contains: []string{"CREATE TABLE IF NOT EXISTS cfg_edges (", "CREATE TABLE IF NOT EXISTS symbols ("},
		},
		{
			name:     "selected tables",
			args:     []string{"cfg_blocks", "cfg_edges", "cfg_blocks"},
			contains: []string{"CREATE TABLE IF NOT EXISTS cfg_blocks (", "CREATE TABLE IF NOT EXISTS cfg_edges ("},
			absent:   []string{"CREATE TABLE IF NOT EXISTS symbols ("},
		},
		{
			name:     "postgres types",
			args:     []string{"--dialect", "postgres", "cfg_blocks"},
			contains: []string{"BIGINT"},
		},
		{name: "unknown table", args: []string{"no_such_table"}, wantErr: "unknown table: no_such_table"},
		{name: "unknown dialect", args: []string{"--dialect", "oracle"}, wantErr: "unsupported dialect: oracle"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := executeCommand(t, append([]string{"schema", "ddl"}, tc.args...)...)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			for _, s := range tc.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tc.absent {
				assert.NotContains(t, out, s)
			}
		})
	}

	t.Run("tables are not repeated", func(t *testing.T) {
		out, err := executeCommand(t, "schema", "ddl", "cfg_blocks", "cfg_blocks")
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(out, "CREATE TABLE IF NOT EXISTS cfg_blocks ("))
	})
}
