package codegen

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/scalpel-taint/internal/schema"
)

func TestGenerateIsIdempotent(t *testing.T) {
	t.Parallel()

	first, err := Generate(schema.Tables, Options{})
	require.NoError(t, err)
	second, err := Generate(schema.Tables, Options{})
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestCommittedFactsAreCurrent(t *testing.T) {
	t.Parallel()

	want, err := Generate(schema.Tables, Options{Package: "facts"})
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join("..", "..", "facts", "facts_gen.go"))
	require.NoError(t, err)

	assert.Equal(t, string(want), string(got), "internal/facts/facts_gen.go is stale")
}

func TestGenerateProducesValidGo(t *testing.T) {
	t.Parallel()

	src, err := Generate(schema.Tables, Options{})
	require.NoError(t, err)

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "facts_gen.go", src, parser.ParseComments)
	require.NoError(t, err)
	assert.Equal(t, "facts", file.Name.Name)
	assert.True(t, strings.HasPrefix(string(src), "// Code generated by schemagen. DO NOT EDIT."))

	types := map[string]bool{}
	methods := map[string]bool{}
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				if ts, ok := spec.(*ast.TypeSpec); ok {
					types[ts.Name.Name] = true
				}
			}
		case *ast.FuncDecl:
			name := d.Name.Name
			if d.Recv != nil {
				recv := d.Recv.List[0].Type
				if star, ok := recv.(*ast.StarExpr); ok {
					recv = star.X
				}
				name = recv.(*ast.Ident).Name + "." + name
			}
			methods[name] = true
		}
	}

	// One rule for every table: a row type, a table type, get_all and one
	// get_by accessor per indexed column.
	for _, tb := range schema.Tables {
		goName := schema.GoName(tb.Name)
		assert.True(t, types[goName+"Row"], "row type for %s", tb.Name)
		assert.True(t, types[goName+"Table"], "table type for %s", tb.Name)
		assert.True(t, methods[goName+"Table.All"], "All for %s", tb.Name)
		assert.True(t, methods[goName+"Row.Field"], "Field for %s", tb.Name)
		assert.True(t, methods["Cache."+goName], "cache accessor for %s", tb.Name)
		for _, c := range tb.IndexedColumns() {
			assert.True(t, methods[goName+"Table.By"+schema.GoName(c.Name)], "By%s for %s", c.Name, tb.Name)
		}
	}
	assert.True(t, methods["Load"])
	assert.True(t, methods["Cache.Records"])
}

func TestGenerateHandlesEveryColumnType(t *testing.T) {
	t.Parallel()

	tables := []schema.Table{{
		Name: "blobs",
		Columns: []schema.Column{
			{Name: "file", Type: schema.Text, Indexed: true},
			{Name: "line", Type: schema.Integer, Nullable: true, Indexed: true},
			{Name: "score", Type: schema.Real, Nullable: true},
			{Name: "weight", Type: schema.Real},
			{Name: "payload", Type: schema.Blob, Nullable: true},
			{Name: "flag", Type: schema.Boolean, Nullable: true, Indexed: true},
		},
		Location: schema.LocationRoles{File: "file", Line: "line"},
	}}

	src, err := Generate(tables, Options{Package: "fixture"})
	require.NoError(t, err)
	_, err = parser.ParseFile(token.NewFileSet(), "fixture_gen.go", src, 0)
	require.NoError(t, err)

	out := string(src)
	assert.Contains(t, out, `"bytes"`)
	assert.Contains(t, out, "Payload []byte")
	assert.Contains(t, out, "sql.NullFloat64")
	assert.Contains(t, out, "func (t *BlobsTable) ByLine(v int) []BlobsRow")
	assert.Contains(t, out, "func (t *BlobsTable) ByFlag(v bool) []BlobsRow")
	assert.Contains(t, out, "if r.Line.Valid {")
	assert.Contains(t, out, "return Location{File: r.File, Line: int(r.Line.Int64)}")
}

func TestGenerateOmitsUnusedImports(t *testing.T) {
	t.Parallel()

	tables := []schema.Table{{
		Name:     "notes",
		Columns:  []schema.Column{{Name: "file", Type: schema.Text}},
		Location: schema.LocationRoles{File: "file"},
	}}
	src, err := Generate(tables, Options{})
	require.NoError(t, err)

	out := string(src)
	assert.NotContains(t, out, `"bytes"`)
	assert.NotContains(t, out, `"database/sql"`)
	assert.NotContains(t, out, `"strconv"`)
}

func TestGenerateRejectsMalformedDescriptors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		tables []schema.Table
	}{
		{
			name: "duplicate table",
			tables: []schema.Table{
				{Name: "a", Columns: []schema.Column{{Name: "x", Type: schema.Text}}},
				{Name: "a", Columns: []schema.Column{{Name: "x", Type: schema.Text}}},
			},
		},
		{
			name:   "unknown type",
			tables: []schema.Table{{Name: "a", Columns: []schema.Column{{Name: "x", Type: "UUID"}}}},
		},
		{
			name:   "reserved cache method",
			tables: []schema.Table{{Name: "records", Columns: []schema.Column{{Name: "x", Type: schema.Text}}}},
		},
		{
			name:   "keyword",
			tables: []schema.Table{{Name: "func", Columns: []schema.Column{{Name: "x", Type: schema.Text}}}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			src, err := Generate(tc.tables, Options{})
			require.Error(t, err)
			assert.Nil(t, src)

			var genErr *schema.SchemaGenerationError
			assert.True(t, errors.As(err, &genErr))
		})
	}
}
