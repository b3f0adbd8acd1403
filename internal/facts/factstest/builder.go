// Package factstest builds fact stores for tests: a small fluent builder over
// store.Memory plus the canonical scenarios the analysis is checked against.
package factstest

import (
	"github.com/xkilldash9x/scalpel-taint/internal/store"
)

// Builder accumulates fact rows. Block and edge IDs are allocated globally so
// that they stay unique across functions.
type Builder struct {
	m         *store.Memory
	nextBlock int
	nextEdge  int
	nextRow   int
}

// New returns an empty builder over every declared table.
func New() *Builder {
	return &Builder{m: store.NewMemory(), nextBlock: 1, nextEdge: 1, nextRow: 1}
}

// Store returns the underlying store.
func (b *Builder) Store() *store.Memory {
	return b.m
}

// Raw inserts a row as is.
func (b *Builder) Raw(table string, v store.Values) *Builder {
	b.m.MustInsert(table, v)
	return b
}

// Func adds a straight-line function: an entry block on the first line, one
// body block spanning [start, end] and an exit block on the last line.
func (b *Builder) Func(file, name string, start, end int, params ...string) *Builder {
	entry := b.Block(file, name, "entry", start, start)
	body := b.Block(file, name, "basic", start, end)
	exit := b.Block(file, name, "exit", end, end)
	b.Edge(file, name, entry, body, "normal")
	b.Edge(file, name, body, exit, "normal")
	return b.Params(file, name, params...)
}

// Block adds a CFG block and returns its ID.
func (b *Builder) Block(file, function, typ string, start, end int) int {
	id := b.nextBlock
	b.nextBlock++
	b.m.MustInsert("cfg_blocks", store.Values{
		"id": id, "file": file, "function_name": function, "block_type": typ, "start_line": start, "end_line": end,
	})
	return id
}

// Edge adds a CFG edge between two blocks.
func (b *Builder) Edge(file, function string, from, to int, typ string) *Builder {
	b.m.MustInsert("cfg_edges", store.Values{
		"id": b.nextEdge, "file": file, "function_name": function, "source_block_id": from, "target_block_id": to, "edge_type": typ,
	})
	b.nextEdge++
	return b
}

// Params declares the formal parameters of a function in order.
func (b *Builder) Params(file, function string, params ...string) *Builder {
	for i, p := range params {
		b.m.MustInsert("func_params", store.Values{"file": file, "function_name": function, "param_index": i, "param_name": p})
	}
	return b
}

// Symbol records a property access such as req.id.
func (b *Builder) Symbol(file, name string, line int) *Builder {
	b.m.MustInsert("symbols", store.Values{"path": file, "name": name, "type": "property", "line": line, "col": 0, "is_typed": false})
	return b
}

// Assign records target = expr. Sources, when given, are recorded in
// assignment_sources the way extractors list the variables an RHS reads.
func (b *Builder) Assign(file, function string, line int, target, expr string, sources ...string) *Builder {
	b.m.MustInsert("assignments", store.Values{
		"file": file, "line": line, "target_var": target, "source_expr": expr, "in_function": function,
	})
	for _, s := range sources {
		b.m.MustInsert("assignment_sources", store.Values{
			"id": b.nextRow, "assignment_file": file, "assignment_line": line, "assignment_target": target, "source_var_name": s,
		})
		b.nextRow++
	}
	return b
}

// Call records a call with positional arguments.
func (b *Builder) Call(file, function string, line int, callee string, args ...string) *Builder {
	if len(args) == 0 {
		b.m.MustInsert("function_call_args", store.Values{
			"file": file, "line": line, "caller_function": function, "callee_function": callee,
		})
		return b
	}
	for i, a := range args {
		b.m.MustInsert("function_call_args", store.Values{
			"file": file, "line": line, "caller_function": function, "callee_function": callee,
			"argument_index": i, "argument_expr": a,
		})
	}
	return b
}

// Query records an extracted SQL statement.
func (b *Builder) Query(file string, line int, command, text string) *Builder {
	b.m.MustInsert("sql_queries", store.Values{
		"file_path": file, "line_number": line, "query_text": text, "command": command, "extraction_source": "code_execute",
	})
	return b
}

// Return records a return statement and the variables it returns.
func (b *Builder) Return(file, function string, line int, expr string, vars ...string) *Builder {
	b.m.MustInsert("function_returns", store.Values{
		"file": file, "line": line, "function_name": function, "return_expr": expr, "has_jsx": false, "returns_component": false,
	})
	for _, v := range vars {
		b.m.MustInsert("function_return_sources", store.Values{
			"id": b.nextRow, "return_file": file, "return_line": line, "return_function": function, "return_var_name": v,
		})
		b.nextRow++
	}
	return b
}

// Endpoint records an HTTP route served by handler.
func (b *Builder) Endpoint(file string, line int, method, pattern, handler string, authed bool) *Builder {
	b.m.MustInsert("api_endpoints", store.Values{
		"file": file, "line": line, "method": method, "pattern": pattern, "has_auth": authed, "handler_function": handler,
	})
	return b
}

// Validator records a validation call that cleans its result.
func (b *Builder) Validator(file string, line int, framework, method string) *Builder {
	b.m.MustInsert("validation_framework_usage", store.Values{
		"file_path": file, "line": line, "framework": framework, "method": method, "is_validator": true,
	})
	return b
}
