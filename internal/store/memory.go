package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/xkilldash9x/scalpel-taint/internal/schema"
)

// Values is one row keyed by column name. Missing columns are NULL.
type Values map[string]any

// Memory is an in-process fact store used for fixtures and tests.
type Memory struct {
	mu     sync.RWMutex
	tables map[string]*memTable
}

type memTable struct {
	columns []string
	rows    [][]any
}

var _ schema.Source = (*Memory)(nil)

// NewMemory returns a store holding every table of schema.Tables, empty.
func NewMemory() *Memory {
	return NewMemoryFor(schema.Tables)
}

// NewMemoryFor returns a store holding the given tables, empty.
func NewMemoryFor(tables []schema.Table) *Memory {
	m := &Memory{tables: make(map[string]*memTable, len(tables))}
	for _, t := range tables {
		m.tables[t.Name] = &memTable{columns: t.ColumnNames()}
	}
	return m
}

// Insert appends a row to table.
func (m *Memory) Insert(table string, values Values) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[table]
	if !ok {
		return fmt.Errorf("insert into unknown table %s", table)
	}
	for k := range values {
		if !slices.Contains(t.columns, k) {
			return fmt.Errorf("insert into %s: unknown column %s", table, k)
		}
	}
	row := make([]any, len(t.columns))
	for i, c := range t.columns {
		row[i] = values[c]
	}
	t.rows = append(t.rows, row)
	return nil
}

// MustInsert is Insert for fixtures; it panics on error and returns m for chaining.
func (m *Memory) MustInsert(table string, values Values) *Memory {
	if err := m.Insert(table, values); err != nil {
		panic(err)
	}
	return m
}

// DropTable removes a table, as if the extractor never created it.
func (m *Memory) DropTable(table string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, table)
	return m
}

// DropColumn removes a column and its values from a table.
func (m *Memory) DropColumn(table, column string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[table]
	if !ok {
		return m
	}
	i := slices.Index(t.columns, column)
	if i < 0 {
		return m
	}
	t.columns = slices.Delete(slices.Clone(t.columns), i, i+1)
	for r, row := range t.rows {
		t.rows[r] = slices.Delete(slices.Clone(row), i, i+1)
	}
	return m
}

// Columns implements schema.Source.
func (m *Memory) Columns(_ context.Context, table string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tables[table]
	if !ok {
		return nil, nil
	}
	return slices.Clone(t.columns), nil
}

// ReadTable implements schema.Source.
func (m *Memory) ReadTable(ctx context.Context, table string, columns []string, fn func(schema.Row) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tables[table]
	if !ok {
		return fmt.Errorf("no such table: %s", table)
	}
	pos := make([]int, len(columns))
	for i, c := range columns {
		pos[i] = slices.Index(t.columns, c)
		if pos[i] < 0 {
			return fmt.Errorf("no such column: %s.%s", table, c)
		}
	}

	row := make(valueRow, len(columns))
	for n, stored := range t.rows {
		if n%256 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for i, p := range pos {
			row[i] = stored[p]
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

// Close implements io.Closer so Memory can be returned from Open.
func (m *Memory) Close() error { return nil }
