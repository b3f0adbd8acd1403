package schema

import (
	"fmt"
	"strings"
)

// Dialect selects the SQL flavour used by CreateTableSQL.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

func (d Dialect) columnType(t Type) string {
	if d == Postgres {
		switch t {
		case Blob:
			return "BYTEA"
		case Real:
			return "DOUBLE PRECISION"
		case Integer:
			return "BIGINT"
		}
	}
	return string(t)
}

// CreateTableSQL renders the CREATE TABLE and CREATE INDEX statements for one
// table. Statements are separated by ";\n" and the output is deterministic.
func CreateTableSQL(t Table, d Dialect) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", t.Name)
	for i, c := range t.Columns {
		fmt.Fprintf(&b, "    %s %s", c.Name, d.columnType(c.Type))
		if !c.Nullable {
			b.WriteString(" NOT NULL")
		}
		if i < len(t.Columns)-1 || len(t.PrimaryKey) > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	if len(t.PrimaryKey) > 0 {
		fmt.Fprintf(&b, "    PRIMARY KEY (%s)\n", strings.Join(t.PrimaryKey, ", "))
	}
	b.WriteString(");\n")

	for _, c := range t.IndexedColumns() {
		fmt.Fprintf(&b, "CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s (%s);\n", t.Name, c.Name, t.Name, c.Name)
	}
	return b.String()
}

// DDL renders the statements for every table, in declared order.
func DDL(tables []Table, d Dialect) string {
	parts := make([]string, len(tables))
	for i, t := range tables {
		parts[i] = CreateTableSQL(t, d)
	}
	return strings.Join(parts, "\n")
}
