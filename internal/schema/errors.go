package schema

import (
	"fmt"
)

// SchemaGenerationError reports a malformed table descriptor. It is raised
// before any code is generated.
type SchemaGenerationError struct {
	Table  string
	Column string
	Reason string
}

func (e *SchemaGenerationError) Error() string {
	switch {
	case e.Table == "":
		return fmt.Sprintf("schema generation: %s", e.Reason)
	case e.Column == "":
		return fmt.Sprintf("schema generation: table %q: %s", e.Table, e.Reason)
	default:
		return fmt.Sprintf("schema generation: table %q column %q: %s", e.Table, e.Column, e.Reason)
	}
}

// SchemaLoadError reports a fact store that does not match the declared
// schema. Column is empty when the whole table is missing.
type SchemaLoadError struct {
	Table  string
	Column string
	// Err is the underlying store error, if the mismatch was detected by one.
	Err error
}

func (e *SchemaLoadError) Error() string {
	msg := fmt.Sprintf("schema load: table %q is missing from the fact store", e.Table)
	if e.Column != "" {
		msg = fmt.Sprintf("schema load: table %q has no column %q", e.Table, e.Column)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SchemaLoadError) Unwrap() error { return e.Err }
