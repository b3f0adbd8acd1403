package codegen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/scalpel-taint/internal/schema"
)

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "facts_gen.go")

	err := WriteFile(path, schema.Tables, Options{}, true)
	assert.ErrorContains(t, err, "failed to read", "check needs an existing file")

	require.NoError(t, WriteFile(path, schema.Tables, Options{}, false))
	want, err := Generate(schema.Tables, Options{})
	require.NoError(t, err)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	assert.NoError(t, WriteFile(path, schema.Tables, Options{}, true))

	assert.ErrorContains(t, WriteFile(path, schema.Tables, Options{Package: "other"}, true), "is stale")
}

func TestWriteFileRejectsInvalidTables(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "facts_gen.go")
	err := WriteFile(path, []schema.Table{{Name: "bad name"}}, Options{}, false)
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "nothing is written for invalid descriptors")
}
