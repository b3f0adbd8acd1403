package schema

import (
	"context"
)

// Source is a read-only relational fact store. Implementations live in
// internal/store.
type Source interface {
	// Columns lists the columns of a table in storage order. A table that
	// does not exist yields an empty slice and a nil error.
	Columns(ctx context.Context, table string) ([]string, error)
	// ReadTable performs one full read of the given columns, calling fn once
	// per row. The Row is only valid for the duration of the call.
	ReadTable(ctx context.Context, table string, columns []string, fn func(Row) error) error
}

// Row gives typed access to the values of the current row, addressed by the
// position of the column in the list passed to ReadTable. Accessors return
// the zero value for NULL.
type Row interface {
	IsNull(i int) bool
	Int(i int) int64
	Float(i int) float64
	Text(i int) string
	Bool(i int) bool
	Bytes(i int) []byte
}
