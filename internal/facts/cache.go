package facts

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/scalpel-taint/internal/schema"
)

// Location is the position a fact row points at in the analysed code.
// Line and Column are zero when the table does not record them.
type Location struct {
	File   string
	Line   int
	Column int
}

// Record is the table-agnostic view of a row. Discovery rules address rows
// through it so that one rule engine serves every table.
type Record interface {
	Field(column string) (string, bool)
	Location() Location
}

// checkTable verifies that src has the table with every declared column.
func checkTable(ctx context.Context, src schema.Source, table string, columns []string) error {
	have, err := src.Columns(ctx, table)
	if err != nil {
		return fmt.Errorf("inspecting table %s: %w", table, err)
	}
	if len(have) == 0 {
		return &schema.SchemaLoadError{Table: table}
	}

	present := make(map[string]struct{}, len(have))
	for _, c := range have {
		present[c] = struct{}{}
	}
	for _, c := range columns {
		if _, ok := present[c]; !ok {
			return &schema.SchemaLoadError{Table: table, Column: c}
		}
	}
	return nil
}
