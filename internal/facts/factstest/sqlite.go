package factstest

import (
	"context"
	"fmt"
	"strings"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/xkilldash9x/scalpel-taint/internal/schema"
)

// WriteSQLite copies every declared table src has into a new SQLite database
// at path. Tables and columns missing from src are missing from the file too,
// so schema mismatches survive the copy.
func WriteSQLite(ctx context.Context, path string, src schema.Source) (err error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite|sqlite.OpenCreate)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := conn.Close(); err == nil {
			err = cerr
		}
	}()

	for _, t := range schema.Tables {
		columns, err := src.Columns(ctx, t.Name)
		if err != nil {
			return err
		}
		if len(columns) == 0 {
			continue
		}
		if err := copyTable(ctx, conn, src, t, columns); err != nil {
			return fmt.Errorf("failed to copy %s: %w", t.Name, err)
		}
	}
	return nil
}

func copyTable(ctx context.Context, conn *sqlite.Conn, src schema.Source, t schema.Table, columns []string) (err error) {
	types := make([]schema.Type, len(columns))
	defs := make([]string, len(columns))
	for i, name := range columns {
		c, ok := t.Column(name)
		if !ok {
			return fmt.Errorf("undeclared column %s", name)
		}
		types[i] = c.Type
		defs[i] = name + " " + string(c.Type)
	}
	if err := sqlitex.ExecuteTransient(conn, fmt.Sprintf("CREATE TABLE %s (%s)", t.Name, strings.Join(defs, ", ")), nil); err != nil {
		return err
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.Name, strings.Join(columns, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", "))

	endFn, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return err
	}
	defer endFn(&err)

	return src.ReadTable(ctx, t.Name, columns, func(row schema.Row) error {
		args := make([]any, len(columns))
		for i, typ := range types {
			if row.IsNull(i) {
				continue
			}
			switch typ {
			case schema.Integer:
				args[i] = row.Int(i)
			case schema.Real:
				args[i] = row.Float(i)
			case schema.Boolean:
				args[i] = row.Bool(i)
			case schema.Blob:
				args[i] = row.Bytes(i)
			default:
				args[i] = row.Text(i)
			}
		}
		return sqlitex.Execute(conn, insert, &sqlitex.ExecOptions{Args: args})
	})
}
