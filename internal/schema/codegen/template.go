package codegen

const fileTmpl = `// Code generated by {{.Generator}}. DO NOT EDIT.

package {{.Package}}

import (
{{- if .NeedBytes}}
	"bytes"
{{- end}}
	"context"
{{- if .NeedSQL}}
	"database/sql"
{{- end}}
	"fmt"
	"iter"
	"slices"
{{- if .NeedStrconv}}
	"strconv"
{{- end}}

	"{{.SchemaImport}}"
)
{{range $t := .Tables}}
// ---- {{.Name}} ----

var {{.ColumnsVar}} = []string{ {{- .ColumnList -}} }

// {{.Row}} is one row of the {{.Name}} table.
type {{.Row}} struct {
{{- range .Columns}}
	{{.Field}} {{.GoType}}
{{- end}}
}

// Field returns the text form of the named column. The second result is
// false for unknown columns and NULL values.
func (r {{.Row}}) Field(column string) (string, bool) {
	switch column {
{{- range .Columns}}
	case "{{.Name}}":
{{- if .Nullable}}
		if {{.NullCheck}} {
			return "", false
		}
{{- end}}
		return {{.Text}}, true
{{- end}}
	}
	return "", false
}

// Location returns the position of the row in the analysed code.
func (r {{.Row}}) Location() Location {
	return {{.Location}}
}

// {{.Type}} holds the rows of the {{.Name}} table in load order.
type {{.Type}} struct {
	rows []{{.Row}}
{{- range .Indexes}}
	{{.IndexField}} map[{{.KeyType}}][]int32
{{- end}}
}

// All returns every row in load order.
func (t *{{.Type}}) All() []{{.Row}} {
	return slices.Clone(t.rows)
}

// Len returns the number of rows.
func (t *{{.Type}}) Len() int {
	return len(t.rows)
}

// At returns the i-th row in load order.
func (t *{{.Type}}) At(i int) {{.Row}} {
	return t.rows[i]
}
{{range .Indexes}}
// By{{.Field}} returns the rows whose {{.Name}} equals v, in load order.
func (t *{{$t.Type}}) By{{.Field}}(v {{.KeyType}}) []{{$t.Row}} {
	return t.pick(t.{{.IndexField}}[v])
}
{{end}}
func (t *{{.Type}}) pick(idx []int32) []{{.Row}} {
	out := make([]{{.Row}}, len(idx))
	for i, j := range idx {
		out[i] = t.rows[j]
	}
	return out
}

func (t *{{.Type}}) records() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		for i, r := range t.rows {
			if !yield(i, r) {
				return
			}
		}
	}
}

func (t *{{.Type}}) load(ctx context.Context, src schema.Source) error {
	t.rows = nil
{{- range .Indexes}}
	t.{{.IndexField}} = make(map[{{.KeyType}}][]int32)
{{- end}}
	err := src.ReadTable(ctx, "{{.Name}}", {{.ColumnsVar}}, func(row schema.Row) error {
		var r {{.Row}}
{{- range .Columns}}
		r.{{.Field}} = {{.Read}}
{{- end}}
		i := int32(len(t.rows))
		t.rows = append(t.rows, r)
{{- range .Indexes}}
{{- if .Nullable}}
		if r.{{.Field}}.Valid {
			t.{{.IndexField}}[{{.KeyExpr}}] = append(t.{{.IndexField}}[{{.KeyExpr}}], i)
		}
{{- else}}
		t.{{.IndexField}}[{{.KeyExpr}}] = append(t.{{.IndexField}}[{{.KeyExpr}}], i)
{{- end}}
{{- end}}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reading table {{.Name}}: %w", err)
	}
	return nil
}
{{end}}
// ---- cache ----

// Cache is the frozen, fully loaded set of fact tables. It has no mutators
// and every accessor returns fresh slices.
type Cache struct {
{{- range .Tables}}
	{{.Field}} {{.Type}}
{{- end}}
}
{{range .Tables}}
// {{.Accessor}} returns the {{.Name}} table.
func (c *Cache) {{.Accessor}}() *{{.Type}} {
	return &c.{{.Field}}
}
{{end}}
// TableNames returns the declared table names in declared order.
func (c *Cache) TableNames() []string {
	return []string{
{{- range .Tables}}
		"{{.Name}}",
{{- end}}
	}
}

// Records iterates the rows of a table by name through the generic Record
// view. The second result is false for unknown tables.
func (c *Cache) Records(table string) (iter.Seq2[int, Record], bool) {
	switch table {
{{- range .Tables}}
	case "{{.Name}}":
		return c.{{.Field}}.records(), true
{{- end}}
	}
	return nil, false
}

// Load reads every declared table from src. All tables and columns are
// checked before the first row is read, so a mismatched fact store never
// produces a partially loaded cache.
func Load(ctx context.Context, src schema.Source) (*Cache, error) {
{{- range .Tables}}
	if err := checkTable(ctx, src, "{{.Name}}", {{.ColumnsVar}}); err != nil {
		return nil, err
	}
{{- end}}

	c := &Cache{}
{{- range .Tables}}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.{{.Field}}.load(ctx, src); err != nil {
		return nil, err
	}
{{- end}}
	return c, nil
}
`
