// Package schema declares the fact tables the analysis engine reads. The
// descriptors are the single source of truth for the generated row types in
// internal/facts, for the fact store DDL, and for load-time validation.
package schema

import (
	"fmt"
	"strings"
	"unicode"
)

// Type is the storage type of a column.
type Type string

const (
	Integer Type = "INTEGER"
	Text    Type = "TEXT"
	Real    Type = "REAL"
	Blob    Type = "BLOB"
	Boolean Type = "BOOLEAN"
)

// Valid reports whether t is one of the supported column types.
func (t Type) Valid() bool {
	switch t {
	case Integer, Text, Real, Blob, Boolean:
		return true
	}
	return false
}

// indexable types have a comparable Go representation usable as a map key.
func (t Type) indexable() bool {
	return t == Integer || t == Text || t == Boolean
}

// Column describes one column of a fact table.
type Column struct {
	Name     string
	Type     Type
	Nullable bool
	// Indexed columns get a hash index and a By<Column> accessor.
	Indexed bool
}

// LocationRoles names the columns that locate a row in the analysed code.
// Any role may be empty when the table does not record it, but a line or
// column role needs a file role.
type LocationRoles struct {
	File   string
	Line   string
	Column string
}

// Table is the declarative description of one fact table.
type Table struct {
	Name       string
	Columns    []Column
	PrimaryKey []string
	Location   LocationRoles
}

// Column returns the named column.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in declared order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// IndexedColumns returns the indexed columns in declared order.
func (t Table) IndexedColumns() []Column {
	var out []Column
	for _, c := range t.Columns {
		if c.Indexed {
			out = append(out, c)
		}
	}
	return out
}

// Lookup finds a table by name in the default schema.
func Lookup(name string) (Table, bool) {
	for _, t := range Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// initialisms are rendered in upper case when they form a whole word of a name.
var initialisms = map[string]string{
	"api":  "API",
	"cfg":  "CFG",
	"id":   "ID",
	"orm":  "ORM",
	"sql":  "SQL",
	"url":  "URL",
	"http": "HTTP",
	"jsx":  "JSX",
}

// GoName converts a snake_case identifier into an exported Go identifier,
// e.g. "cfg_edges" becomes "CFGEdges" and "source_block_id" "SourceBlockID".
func GoName(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		if up, ok := initialisms[strings.ToLower(part)]; ok {
			b.WriteString(up)
			continue
		}
		r := []rune(part)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// reservedFields are method names on generated row types.
var reservedFields = map[string]bool{"Field": true, "Location": true}

// Validate checks a set of table descriptors for everything the code
// generator relies on. It returns the first problem as a *SchemaGenerationError.
func Validate(tables []Table) error {
	if len(tables) == 0 {
		return &SchemaGenerationError{Reason: "no tables declared"}
	}

	tableNames := make(map[string]bool, len(tables))
	goNames := make(map[string]string, len(tables))
	for _, t := range tables {
		if !isIdentifier(t.Name) {
			return &SchemaGenerationError{Table: t.Name, Reason: "table name must be a lower-case snake_case identifier"}
		}
		if tableNames[t.Name] {
			return &SchemaGenerationError{Table: t.Name, Reason: "duplicate table"}
		}
		tableNames[t.Name] = true

		gn := GoName(t.Name)
		if other, ok := goNames[gn]; ok {
			return &SchemaGenerationError{Table: t.Name, Reason: fmt.Sprintf("Go name %q collides with table %q", gn, other)}
		}
		goNames[gn] = t.Name

		if err := validateTable(t); err != nil {
			return err
		}
	}
	return nil
}

func validateTable(t Table) error {
	if len(t.Columns) == 0 {
		return &SchemaGenerationError{Table: t.Name, Reason: "table has no columns"}
	}

	cols := make(map[string]Column, len(t.Columns))
	fields := make(map[string]string, len(t.Columns))
	for _, c := range t.Columns {
		if !isIdentifier(c.Name) {
			return &SchemaGenerationError{Table: t.Name, Column: c.Name, Reason: "column name must be a lower-case snake_case identifier"}
		}
		if _, dup := cols[c.Name]; dup {
			return &SchemaGenerationError{Table: t.Name, Column: c.Name, Reason: "duplicate column"}
		}
		if !c.Type.Valid() {
			return &SchemaGenerationError{Table: t.Name, Column: c.Name, Reason: fmt.Sprintf("unknown type %q", c.Type)}
		}
		if c.Indexed && !c.Type.indexable() {
			return &SchemaGenerationError{Table: t.Name, Column: c.Name, Reason: fmt.Sprintf("%s columns cannot be indexed", c.Type)}
		}
		gn := GoName(c.Name)
		if reservedFields[gn] {
			return &SchemaGenerationError{Table: t.Name, Column: c.Name, Reason: fmt.Sprintf("Go name %q is reserved", gn)}
		}
		if other, ok := fields[gn]; ok {
			return &SchemaGenerationError{Table: t.Name, Column: c.Name, Reason: fmt.Sprintf("Go name %q collides with column %q", gn, other)}
		}
		fields[gn] = c.Name
		cols[c.Name] = c
	}

	for _, pk := range t.PrimaryKey {
		if _, ok := cols[pk]; !ok {
			return &SchemaGenerationError{Table: t.Name, Column: pk, Reason: "primary key references unknown column"}
		}
	}

	roles := []struct {
		role, col string
		want      Type
	}{
		{"file", t.Location.File, Text},
		{"line", t.Location.Line, Integer},
		{"column", t.Location.Column, Integer},
	}
	if t.Location.File == "" && (t.Location.Line != "" || t.Location.Column != "") {
		return &SchemaGenerationError{Table: t.Name, Reason: "location line or column role set without a file role"}
	}
	for _, r := range roles {
		if r.col == "" {
			continue
		}
		c, ok := cols[r.col]
		if !ok {
			return &SchemaGenerationError{Table: t.Name, Column: r.col, Reason: fmt.Sprintf("location %s role references unknown column", r.role)}
		}
		if c.Type != r.want {
			return &SchemaGenerationError{Table: t.Name, Column: r.col, Reason: fmt.Sprintf("location %s role must be %s, got %s", r.role, r.want, c.Type)}
		}
	}
	return nil
}
