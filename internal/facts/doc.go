// Package facts is the in-memory fact cache. The row types, table accessors
// and the loader in facts_gen.go are generated from schema.Tables; edit the
// descriptors, not the generated file.
package facts

//go:generate go run ../../cmd/schemagen -o facts_gen.go
