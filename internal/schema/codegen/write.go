package codegen

import (
	"bytes"
	"fmt"
	"os"

	"github.com/xkilldash9x/scalpel-taint/internal/schema"
)

// WriteFile renders tables into path. With check set nothing is written and
// a path whose content differs from the rendered source is an error.
func WriteFile(path string, tables []schema.Table, opts Options, check bool) error {
	src, err := Generate(tables, opts)
	if err != nil {
		return err
	}
	if check {
		current, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if !bytes.Equal(current, src) {
			return fmt.Errorf("%s is stale, run go generate ./internal/facts", path)
		}
		return nil
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
