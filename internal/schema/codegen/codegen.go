// Package codegen renders the typed fact rows, per-table accessors and the
// cache loader from a set of schema descriptors. The output is a single Go
// source file, identical for identical input.
package codegen

import (
	"bytes"
	"fmt"
	"go/token"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/xkilldash9x/scalpel-taint/internal/schema"
)

// DefaultSchemaImport is the import path of the schema package the generated
// loader depends on.
const DefaultSchemaImport = "github.com/xkilldash9x/scalpel-taint/internal/schema"

// Options controls the generated file.
type Options struct {
	// Package is the package clause of the generated file. Defaults to "facts".
	Package string
	// SchemaImport overrides DefaultSchemaImport.
	SchemaImport string
	// Generator is named in the "Code generated" header. Defaults to "schemagen".
	Generator string
}

func (o Options) withDefaults() Options {
	if o.Package == "" {
		o.Package = "facts"
	}
	if o.SchemaImport == "" {
		o.SchemaImport = DefaultSchemaImport
	}
	if o.Generator == "" {
		o.Generator = "schemagen"
	}
	return o
}

// cacheMethods are declared on the generated Cache and cannot be reused as
// table accessor names.
var cacheMethods = map[string]bool{"Records": true, "TableNames": true}

// Generate validates the descriptors and renders the source file. Nothing is
// rendered when validation fails.
func Generate(tables []schema.Table, opts Options) ([]byte, error) {
	if err := schema.Validate(tables); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	data, err := buildFile(tables, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	out, err := imports.Process(opts.Package+"_gen.go", buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("formatting generated source: %w", err)
	}
	return out, nil
}

type fileData struct {
	Generator    string
	Package      string
	SchemaImport string
	NeedBytes    bool
	NeedSQL      bool
	NeedStrconv  bool
	Tables       []tableData
}

type tableData struct {
	Name       string
	Accessor   string
	Row        string
	Type       string
	Field      string
	ColumnsVar string
	ColumnList string
	Location   string
	Columns    []columnData
	Indexes    []columnData
}

type columnData struct {
	Name       string
	Field      string
	GoType     string
	Read       string
	Text       string
	NullCheck  string
	Nullable   bool
	IndexField string
	KeyType    string
	KeyExpr    string
}

func buildFile(tables []schema.Table, opts Options) (fileData, error) {
	fd := fileData{
		Generator:    opts.Generator,
		Package:      opts.Package,
		SchemaImport: opts.SchemaImport,
	}
	for _, t := range tables {
		td, err := buildTable(t)
		if err != nil {
			return fileData{}, err
		}
		for _, c := range t.Columns {
			if c.Type == schema.Blob {
				fd.NeedBytes = true
			}
			if c.Nullable && c.Type != schema.Blob {
				fd.NeedSQL = true
			}
			if c.Type != schema.Text && c.Type != schema.Blob {
				fd.NeedStrconv = true
			}
		}
		fd.Tables = append(fd.Tables, td)
	}
	return fd, nil
}

func lowerCamel(name string) string {
	parts := strings.SplitN(name, "_", 2)
	if len(parts) == 1 {
		return parts[0]
	}
	return parts[0] + schema.GoName(parts[1])
}

func buildTable(t schema.Table) (tableData, error) {
	goName := schema.GoName(t.Name)
	field := lowerCamel(t.Name)
	if cacheMethods[goName] {
		return tableData{}, &schema.SchemaGenerationError{Table: t.Name, Reason: fmt.Sprintf("Go name %q is reserved", goName)}
	}
	if token.IsKeyword(field) {
		return tableData{}, &schema.SchemaGenerationError{Table: t.Name, Reason: fmt.Sprintf("%q is a Go keyword", field)}
	}

	quoted := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		quoted[i] = fmt.Sprintf("%q", c.Name)
	}

	td := tableData{
		Name:       t.Name,
		Accessor:   goName,
		Row:        goName + "Row",
		Type:       goName + "Table",
		Field:      field,
		ColumnsVar: field + "Columns",
		ColumnList: strings.Join(quoted, ", "),
	}

	byName := make(map[string]columnData, len(t.Columns))
	for i, c := range t.Columns {
		cd := buildColumn(c, i)
		byName[c.Name] = cd
		td.Columns = append(td.Columns, cd)
		if c.Indexed {
			td.Indexes = append(td.Indexes, cd)
		}
	}
	td.Location = locationExpr(t.Location, byName)
	return td, nil
}

func buildColumn(c schema.Column, pos int) columnData {
	f := schema.GoName(c.Name)
	cd := columnData{
		Name:       c.Name,
		Field:      f,
		Nullable:   c.Nullable,
		IndexField: "by" + f,
	}
	ref := "r." + f

	switch c.Type {
	case schema.Integer:
		if c.Nullable {
			cd.GoType = "sql.NullInt64"
			cd.Read = fmt.Sprintf("sql.NullInt64{Int64: row.Int(%d), Valid: !row.IsNull(%d)}", pos, pos)
			cd.Text = fmt.Sprintf("strconv.FormatInt(%s.Int64, 10)", ref)
			cd.KeyExpr = fmt.Sprintf("int(%s.Int64)", ref)
		} else {
			cd.GoType = "int"
			cd.Read = fmt.Sprintf("int(row.Int(%d))", pos)
			cd.Text = fmt.Sprintf("strconv.Itoa(%s)", ref)
			cd.KeyExpr = ref
		}
		cd.KeyType = "int"
	case schema.Text:
		if c.Nullable {
			cd.GoType = "sql.NullString"
			cd.Read = fmt.Sprintf("sql.NullString{String: row.Text(%d), Valid: !row.IsNull(%d)}", pos, pos)
			cd.Text = ref + ".String"
			cd.KeyExpr = ref + ".String"
		} else {
			cd.GoType = "string"
			cd.Read = fmt.Sprintf("row.Text(%d)", pos)
			cd.Text = ref
			cd.KeyExpr = ref
		}
		cd.KeyType = "string"
	case schema.Real:
		if c.Nullable {
			cd.GoType = "sql.NullFloat64"
			cd.Read = fmt.Sprintf("sql.NullFloat64{Float64: row.Float(%d), Valid: !row.IsNull(%d)}", pos, pos)
			cd.Text = fmt.Sprintf("strconv.FormatFloat(%s.Float64, 'g', -1, 64)", ref)
		} else {
			cd.GoType = "float64"
			cd.Read = fmt.Sprintf("row.Float(%d)", pos)
			cd.Text = fmt.Sprintf("strconv.FormatFloat(%s, 'g', -1, 64)", ref)
		}
	case schema.Boolean:
		if c.Nullable {
			cd.GoType = "sql.NullBool"
			cd.Read = fmt.Sprintf("sql.NullBool{Bool: row.Bool(%d), Valid: !row.IsNull(%d)}", pos, pos)
			cd.Text = fmt.Sprintf("strconv.FormatBool(%s.Bool)", ref)
			cd.KeyExpr = ref + ".Bool"
		} else {
			cd.GoType = "bool"
			cd.Read = fmt.Sprintf("row.Bool(%d)", pos)
			cd.Text = fmt.Sprintf("strconv.FormatBool(%s)", ref)
			cd.KeyExpr = ref
		}
		cd.KeyType = "bool"
	case schema.Blob:
		cd.GoType = "[]byte"
		cd.Read = fmt.Sprintf("bytes.Clone(row.Bytes(%d))", pos)
		cd.Text = fmt.Sprintf("string(%s)", ref)
	}

	if c.Nullable {
		if c.Type == schema.Blob {
			cd.NullCheck = ref + " == nil"
		} else {
			cd.NullCheck = "!" + ref + ".Valid"
		}
	}
	return cd
}

func locationExpr(roles schema.LocationRoles, cols map[string]columnData) string {
	var parts []string
	if c, ok := cols[roles.File]; ok {
		parts = append(parts, "File: "+c.KeyExpr)
	}
	if c, ok := cols[roles.Line]; ok {
		parts = append(parts, "Line: "+c.KeyExpr)
	}
	if c, ok := cols[roles.Column]; ok {
		parts = append(parts, "Column: "+c.KeyExpr)
	}
	return "Location{" + strings.Join(parts, ", ") + "}"
}

var fileTemplate = template.Must(template.New("facts").Parse(fileTmpl))
