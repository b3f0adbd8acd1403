// internal/discovery/types.go
package discovery

import (
	"github.com/xkilldash9x/scalpel-taint/api/schemas"
	"github.com/xkilldash9x/scalpel-taint/internal/facts"
)

// Kind tells whether a rule produces sources or sinks.
type Kind string

const (
	KindSource Kind = "source"
	KindSink   Kind = "sink"
)

// Source categories.
const (
	CategoryHTTPRequest     = "http_request"
	CategoryUserInput       = "user_input"
	CategoryPositionalParam = "positional_param"
	CategoryStdin           = "stdin"
	CategoryEnv             = "env"
	CategoryDatabaseRead    = "database_read"
)

// Sink categories.
const (
	CategorySQL        = "sql"
	CategoryCommand    = "command"
	CategoryEval       = "eval"
	CategoryFilesystem = "filesystem"
	CategoryNetwork    = "network"
	CategoryXSS        = "xss"
	CategoryLDAP       = "ldap"
	CategoryNoSQL      = "nosql"
)

// Origin points at the cache row a source or sink was classified from.
type Origin struct {
	Table string `json:"table"`
	Row   int    `json:"row"`
}

// Source is an entry point for untrusted data.
type Source struct {
	ID       string
	Rule     string
	Category string
	Location facts.Location
	// Symbol is the slot that holds the untrusted value at Location. Empty
	// when the rule names a Function instead or no slot could be resolved.
	Symbol string
	// Function names a handler whose parameters are all untrusted on entry.
	Function string
	Risk     schemas.Severity
	Origin   Origin
}

// Sink is a dangerous operation.
type Sink struct {
	ID       string
	Rule     string
	Category string
	Location facts.Location
	Name     string
	// Args are the recorded argument expressions that must stay untainted.
	Args   []string
	Risk   schemas.Severity
	Origin Origin
}

// FindingCategory maps a sink category to the category reported on findings.
func FindingCategory(sinkCategory string) schemas.Category {
	switch sinkCategory {
	case CategorySQL:
		return schemas.CategorySQLInjection
	case CategoryCommand:
		return schemas.CategoryCommandInjection
	case CategoryEval:
		return schemas.CategoryCodeInjection
	case CategoryFilesystem:
		return schemas.CategoryPathTraversal
	case CategoryNetwork:
		return schemas.CategorySSRF
	case CategoryXSS:
		return schemas.CategoryXSS
	case CategoryLDAP:
		return schemas.CategoryLDAPInjection
	case CategoryNoSQL:
		return schemas.CategoryNoSQLInjection
	}
	return schemas.CategoryTaintedFlow
}
