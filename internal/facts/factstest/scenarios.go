package factstest

import (
	"github.com/xkilldash9x/scalpel-taint/internal/store"
)

// SQLText is the concatenated query the scenarios build.
const SQLText = `"SELECT * FROM users WHERE id=" + req.id`

// StraightLine is a single handler that concatenates a request parameter
// into a query and runs it:
//
//	1 function handler(req) {
//	2   q = "SELECT * FROM users WHERE id=" + req.id
//	3   db.query(q)
//	4 }
func StraightLine() *store.Memory {
	return New().
		Func("app.js", "handler", 1, 4).
		Symbol("app.js", "req.id", 2).
		Assign("app.js", "handler", 2, "q", SQLText).
		Call("app.js", "handler", 3, "db.query", "q").
		Query("app.js", 3, "SELECT", SQLText).
		Store()
}

// Sanitized is StraightLine with the parameter escaped before use:
//
//	2   id = escape(req.id)
//	3   q = "SELECT * FROM users WHERE id=" + id
//	4   db.query(q)
func Sanitized() *store.Memory {
	return New().
		Func("app.js", "handler", 1, 5).
		Symbol("app.js", "req.id", 2).
		Assign("app.js", "handler", 2, "id", "escape(req.id)").
		Assign("app.js", "handler", 3, "q", `"SELECT * FROM users WHERE id=" + id`).
		Call("app.js", "handler", 4, "db.query", "q").
		Query("app.js", 4, "SELECT", `"SELECT * FROM users WHERE id=" + id`).
		Store()
}

// Interprocedural passes a request parameter to a helper that runs it as a
// shell command:
//
//	 2   helper(req.id)
//	11   child_process.exec(cmd)    // in helper(cmd)
func Interprocedural() *store.Memory {
	return New().
		Func("app.js", "handler", 1, 4).
		Func("app.js", "helper", 10, 13, "cmd").
		Symbol("app.js", "req.id", 2).
		Call("app.js", "handler", 2, "helper", "req.id").
		Call("app.js", "helper", 11, "child_process.exec", "cmd").
		Store()
}

// MissingEdges is StraightLine without the cfg_edges table.
func MissingEdges() *store.Memory {
	return StraightLine().DropTable("cfg_edges")
}
