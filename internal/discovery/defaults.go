// internal/discovery/defaults.go
package discovery

import (
	"slices"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
)

// RequestSymbolRuleID is the default rule that treats request-object
// properties as sources. WithRequestPrefixes rewrites its prefix list.
const RequestSymbolRuleID = "source.symbol.request"

// DefaultRequestPrefixes are the symbol name prefixes of request objects
// across the common web frameworks.
var DefaultRequestPrefixes = []string{
	"req.", "request.", "ctx.request.", "ctx.query", "ctx.params", "ctx.req.",
	"event.body", "event.queryStringParameters", "event.pathParameters", "event.headers",
	"$_GET", "$_POST", "$_REQUEST", "$_COOKIE", "r.URL.", "r.Form", "r.PostForm",
}

// sqlExecCallees name the calls that execute query text across drivers and
// ORMs. Other calls on a query's line do not feed the query.
var sqlExecCallees = []string{
	"query", "execute", "exec", "executemany", "executescript", "raw", "run", "all", "get", "each",
	"prepare", "Query", "QueryContext", "QueryRow", "QueryRowContext", "Exec", "ExecContext",
	"Prepare", "PrepareContext", "Raw", "$queryRaw", "$queryRawUnsafe", "$executeRaw", "$executeRawUnsafe",
	"literal", "extra", "text", "sql", "none", "mysqli_query", "pg_query", "executeQuery", "executeUpdate",
}

// DefaultRules returns a fresh copy of the built-in rule table.
func DefaultRules() []Rule {
	return []Rule{
		// -- Sources --
		{
			ID:       "source.endpoint",
			Kind:     KindSource,
			Table:    "api_endpoints",
			Category: CategoryHTTPRequest,
			Function: "handler_function",
			Risk:     RiskSpec{Kind: RiskAuth, Column: "has_auth"},
		},
		requestRule(DefaultRequestPrefixes),
		{
			ID:    "source.symbol.argv",
			Kind:  KindSource,
			Table: "symbols",
			Match: []Condition{
				{Column: "name", Op: OpPrefix, Values: []string{"process.argv", "sys.argv", "os.Args"}},
			},
			Category: CategoryPositionalParam,
			Symbol:   "name",
			Risk:     RiskSpec{Kind: RiskFixed, Level: schemas.SeverityMedium},
		},
		{
			ID:    "source.call.stdin",
			Kind:  KindSource,
			Table: "function_call_args",
			Match: []Condition{
				{Column: "callee_function", Op: OpLastSegmentIn, Values: []string{"input", "raw_input", "readline", "readLine", "question"}},
			},
			Category:      CategoryStdin,
			AssignTargets: true,
			Risk:          RiskSpec{Kind: RiskFixed, Level: schemas.SeverityMedium},
		},
		{
			ID:    "source.call.stdin_stream",
			Kind:  KindSource,
			Table: "function_call_args",
			Match: []Condition{
				{Column: "callee_function", Op: OpPrefix, Values: []string{"sys.stdin", "process.stdin", "os.Stdin", "bufio.NewReader(os.Stdin"}},
			},
			Category:      CategoryStdin,
			AssignTargets: true,
			Risk:          RiskSpec{Kind: RiskFixed, Level: schemas.SeverityMedium},
		},
		{
			ID:             "source.env",
			Kind:           KindSource,
			Table:          "env_var_usage",
			Category:       CategoryEnv,
			Symbol:         "property_access",
			SymbolFallback: "var_name",
			Risk:           RiskSpec{Kind: RiskFixed, Level: schemas.SeverityLow},
		},
		{
			ID:    "source.sql.select",
			Kind:  KindSource,
			Table: "sql_queries",
			Match: []Condition{
				{Column: "command", Op: OpEq, Value: "SELECT", IgnoreCase: true},
			},
			Category:      CategoryDatabaseRead,
			AssignTargets: true,
			Risk:          RiskSpec{Kind: RiskFixed, Level: schemas.SeverityLow},
		},

		// -- Sinks --
		{
			ID:       "sink.sql.query",
			Kind:     KindSink,
			Table:    "sql_queries",
			Category: CategorySQL,
			Name:     "command",
			Args:     ArgSpec{Column: "query_text", SameLineCalls: true, Callees: slices.Clone(sqlExecCallees)},
			Risk:     RiskSpec{Kind: RiskStructural, Column: "query_text"},
		},
		{
			ID:    "sink.orm.raw",
			Kind:  KindSink,
			Table: "orm_queries",
			Match: []Condition{
				{Column: "query_type", Op: OpRegex, Value: `(^|\.)(raw|query|\$queryRaw|\$queryRawUnsafe|\$executeRaw|\$executeRawUnsafe|literal|extra|execute)$`, IgnoreCase: true},
			},
			Category: CategorySQL,
			Name:     "query_type",
			Args:     ArgSpec{SameLineCalls: true, Callees: slices.Clone(sqlExecCallees)},
			Risk:     RiskSpec{Kind: RiskFixed, Level: schemas.SeverityMedium},
		},
		{
			ID:    "sink.call.command",
			Kind:  KindSink,
			Table: "function_call_args",
			Match: []Condition{
				{Column: "callee_function", Op: OpLastSegmentIn, Values: []string{
					"exec", "execSync", "spawn", "spawnSync", "execFile", "execFileSync", "system", "popen", "shell_exec", "passthru",
				}},
			},
			Category: CategoryCommand,
			Name:     "callee_function",
			Args:     ArgSpec{Column: "argument_expr"},
			Risk:     RiskSpec{Kind: RiskStructural, Column: "argument_expr", Level: schemas.SeverityHigh},
		},
		{
			ID:    "sink.call.subprocess",
			Kind:  KindSink,
			Table: "function_call_args",
			Match: []Condition{
				{Column: "callee_function", Op: OpPrefix, Values: []string{"subprocess.", "os.system", "os.popen", "exec.Command"}},
			},
			Category: CategoryCommand,
			Name:     "callee_function",
			Args:     ArgSpec{Column: "argument_expr"},
			Risk:     RiskSpec{Kind: RiskStructural, Column: "argument_expr", Level: schemas.SeverityHigh},
		},
		{
			ID:    "sink.call.eval",
			Kind:  KindSink,
			Table: "function_call_args",
			Match: []Condition{
				{Column: "callee_function", Op: OpLastSegmentIn, Values: []string{"eval", "Function", "execScript", "compile", "runInNewContext", "runInThisContext"}},
			},
			Category: CategoryEval,
			Name:     "callee_function",
			Args:     ArgSpec{Column: "argument_expr"},
			Risk:     RiskSpec{Kind: RiskStructural, Column: "argument_expr", Level: schemas.SeverityHigh},
		},
		{
			// setTimeout and setInterval only evaluate string arguments.
			ID:    "sink.call.eval_timer",
			Kind:  KindSink,
			Table: "function_call_args",
			Match: []Condition{
				{Column: "callee_function", Op: OpLastSegmentIn, Values: []string{"setTimeout", "setInterval"}},
				{Column: "argument_index", Op: OpEq, Value: "0"},
				{Column: "argument_expr", Op: OpRegex, Value: `^\s*(["'` + "`" + `]|[^=]*\+)`},
			},
			Category: CategoryEval,
			Name:     "callee_function",
			Args:     ArgSpec{Column: "argument_expr"},
			Risk:     RiskSpec{Kind: RiskStructural, Column: "argument_expr", Level: schemas.SeverityHigh},
		},
		{
			ID:    "sink.call.filesystem",
			Kind:  KindSink,
			Table: "function_call_args",
			Match: []Condition{
				{Column: "callee_function", Op: OpLastSegmentIn, Values: []string{
					"readFile", "readFileSync", "writeFile", "writeFileSync", "appendFile", "appendFileSync",
					"createReadStream", "createWriteStream", "unlink", "unlinkSync", "rmdir", "mkdir", "access",
					"sendFile", "open", "ReadFile", "WriteFile", "Open", "OpenFile", "Remove",
				}},
				{Column: "argument_expr", Op: OpNotLiteral},
			},
			Category: CategoryFilesystem,
			Name:     "callee_function",
			Args:     ArgSpec{Column: "argument_expr"},
			Risk:     RiskSpec{Kind: RiskStructural, Column: "argument_expr"},
		},
		{
			ID:    "sink.call.network",
			Kind:  KindSink,
			Table: "function_call_args",
			Match: []Condition{
				{Column: "callee_function", Op: OpRegex, Value: `^(fetch|axios(\.(get|post|put|delete|patch|request))?|http\.(get|request|Get|Post|NewRequest)|https\.(get|request)|requests\.(get|post|put|delete|patch|request)|urllib\.request\.urlopen|urlopen|got|superagent\.(get|post))$`},
				{Column: "argument_index", Op: OpEq, Value: "0"},
				{Column: "argument_expr", Op: OpNotLiteral},
			},
			Category: CategoryNetwork,
			Name:     "callee_function",
			Args:     ArgSpec{Column: "argument_expr"},
			Risk:     RiskSpec{Kind: RiskStructural, Column: "argument_expr"},
		},
		{
			ID:    "sink.assign.html",
			Kind:  KindSink,
			Table: "assignments",
			Match: []Condition{
				{Column: "target_var", Op: OpSuffix, Values: []string{"innerHTML", "outerHTML"}},
			},
			Category: CategoryXSS,
			Name:     "target_var",
			Args:     ArgSpec{Column: "source_expr"},
			Risk:     RiskSpec{Kind: RiskFixed, Level: schemas.SeverityHigh},
		},
		{
			ID:    "sink.call.document_write",
			Kind:  KindSink,
			Table: "function_call_args",
			Match: []Condition{
				{Column: "callee_function", Op: OpIn, Values: []string{"document.write", "document.writeln"}},
			},
			Category: CategoryXSS,
			Name:     "callee_function",
			Args:     ArgSpec{Column: "argument_expr"},
			Risk:     RiskSpec{Kind: RiskFixed, Level: schemas.SeverityHigh},
		},
		{
			ID:    "sink.call.ldap",
			Kind:  KindSink,
			Table: "function_call_args",
			Match: []Condition{
				{Column: "callee_function", Op: OpContains, Value: "ldap", IgnoreCase: true},
				{Column: "callee_function", Op: OpLastSegmentIn, Values: []string{"search", "search_s", "bind", "add", "modify", "delete", "Search"}},
			},
			Category: CategoryLDAP,
			Name:     "callee_function",
			Args:     ArgSpec{Column: "argument_expr"},
			Risk:     RiskSpec{Kind: RiskFixed, Level: schemas.SeverityMedium},
		},
	}
}

func requestRule(prefixes []string) Rule {
	return Rule{
		ID:    RequestSymbolRuleID,
		Kind:  KindSource,
		Table: "symbols",
		Match: []Condition{
			{Column: "type", Op: OpIn, Values: []string{"property", "variable"}},
			{Column: "name", Op: OpPrefix, Values: slices.Clone(prefixes)},
		},
		Category: CategoryHTTPRequest,
		Symbol:   "name",
		Risk:     RiskSpec{Kind: RiskFixed, Level: schemas.SeverityHigh},
	}
}
