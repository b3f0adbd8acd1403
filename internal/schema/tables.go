package schema

// Tables is the fact schema consumed by discovery and the taint analyzer.
// Adding a table here and re-running `go generate ./internal/facts` is all it
// takes to make it available in the cache.
var Tables = []Table{
	{
		Name: "symbols",
		Columns: []Column{
			{Name: "path", Type: Text, Indexed: true},
			{Name: "name", Type: Text, Indexed: true},
			{Name: "type", Type: Text, Indexed: true},
			{Name: "line", Type: Integer},
			{Name: "col", Type: Integer},
			{Name: "end_line", Type: Integer, Nullable: true},
			{Name: "type_annotation", Type: Text, Nullable: true},
			{Name: "parameters", Type: Text, Nullable: true},
			{Name: "is_typed", Type: Boolean},
		},
		PrimaryKey: []string{"path", "name", "line", "type", "col"},
		Location:   LocationRoles{File: "path", Line: "line", Column: "col"},
	},
	{
		Name: "assignments",
		Columns: []Column{
			{Name: "file", Type: Text, Indexed: true},
			{Name: "line", Type: Integer},
			{Name: "target_var", Type: Text, Indexed: true},
			{Name: "source_expr", Type: Text},
			{Name: "in_function", Type: Text, Indexed: true},
			{Name: "property_path", Type: Text, Nullable: true},
		},
		PrimaryKey: []string{"file", "line", "target_var"},
		Location:   LocationRoles{File: "file", Line: "line"},
	},
	{
		Name: "assignment_sources",
		Columns: []Column{
			{Name: "id", Type: Integer},
			{Name: "assignment_file", Type: Text, Indexed: true},
			{Name: "assignment_line", Type: Integer},
			{Name: "assignment_target", Type: Text},
			{Name: "source_var_name", Type: Text},
		},
		PrimaryKey: []string{"id"},
		Location:   LocationRoles{File: "assignment_file", Line: "assignment_line"},
	},
	{
		Name: "function_call_args",
		Columns: []Column{
			{Name: "file", Type: Text, Indexed: true},
			{Name: "line", Type: Integer},
			{Name: "caller_function", Type: Text, Indexed: true},
			{Name: "callee_function", Type: Text, Indexed: true},
			{Name: "argument_index", Type: Integer, Nullable: true},
			{Name: "argument_expr", Type: Text, Nullable: true},
			{Name: "param_name", Type: Text, Nullable: true},
			{Name: "callee_file_path", Type: Text, Nullable: true},
		},
		Location: LocationRoles{File: "file", Line: "line"},
	},
	{
		Name: "func_params",
		Columns: []Column{
			{Name: "file", Type: Text, Indexed: true},
			{Name: "function_name", Type: Text, Indexed: true},
			{Name: "param_index", Type: Integer},
			{Name: "param_name", Type: Text},
		},
		PrimaryKey: []string{"file", "function_name", "param_index"},
		Location:   LocationRoles{File: "file"},
	},
	{
		Name: "function_returns",
		Columns: []Column{
			{Name: "file", Type: Text, Indexed: true},
			{Name: "line", Type: Integer},
			{Name: "function_name", Type: Text, Indexed: true},
			{Name: "return_expr", Type: Text},
			{Name: "has_jsx", Type: Boolean},
			{Name: "returns_component", Type: Boolean},
			{Name: "cleanup_operations", Type: Text, Nullable: true},
		},
		PrimaryKey: []string{"file", "line", "function_name"},
		Location:   LocationRoles{File: "file", Line: "line"},
	},
	{
		Name: "function_return_sources",
		Columns: []Column{
			{Name: "id", Type: Integer},
			{Name: "return_file", Type: Text, Indexed: true},
			{Name: "return_line", Type: Integer},
			{Name: "return_function", Type: Text, Indexed: true},
			{Name: "return_var_name", Type: Text},
		},
		PrimaryKey: []string{"id"},
		Location:   LocationRoles{File: "return_file", Line: "return_line"},
	},
	{
		Name: "cfg_blocks",
		Columns: []Column{
			{Name: "id", Type: Integer, Indexed: true},
			{Name: "file", Type: Text, Indexed: true},
			{Name: "function_name", Type: Text, Indexed: true},
			{Name: "block_type", Type: Text},
			{Name: "start_line", Type: Integer},
			{Name: "end_line", Type: Integer},
			{Name: "condition_expr", Type: Text, Nullable: true},
		},
		PrimaryKey: []string{"id"},
		Location:   LocationRoles{File: "file", Line: "start_line"},
	},
	{
		Name: "cfg_edges",
		Columns: []Column{
			{Name: "id", Type: Integer},
			{Name: "file", Type: Text, Indexed: true},
			{Name: "function_name", Type: Text, Indexed: true},
			{Name: "source_block_id", Type: Integer, Indexed: true},
			{Name: "target_block_id", Type: Integer, Indexed: true},
			{Name: "edge_type", Type: Text},
		},
		PrimaryKey: []string{"id"},
		Location:   LocationRoles{File: "file"},
	},
	{
		Name: "cfg_block_statements",
		Columns: []Column{
			{Name: "block_id", Type: Integer, Indexed: true},
			{Name: "statement_type", Type: Text},
			{Name: "line", Type: Integer},
			{Name: "statement_text", Type: Text, Nullable: true},
		},
	},
	{
		Name: "api_endpoints",
		Columns: []Column{
			{Name: "file", Type: Text, Indexed: true},
			{Name: "line", Type: Integer, Nullable: true},
			{Name: "method", Type: Text},
			{Name: "pattern", Type: Text},
			{Name: "path", Type: Text, Nullable: true},
			{Name: "has_auth", Type: Boolean, Nullable: true},
			{Name: "handler_function", Type: Text, Nullable: true, Indexed: true},
		},
		Location: LocationRoles{File: "file", Line: "line"},
	},
	{
		Name: "sql_queries",
		Columns: []Column{
			{Name: "file_path", Type: Text, Indexed: true},
			{Name: "line_number", Type: Integer},
			{Name: "query_text", Type: Text},
			{Name: "command", Type: Text, Indexed: true},
			{Name: "extraction_source", Type: Text},
		},
		PrimaryKey: []string{"file_path", "line_number"},
		Location:   LocationRoles{File: "file_path", Line: "line_number"},
	},
	{
		Name: "orm_queries",
		Columns: []Column{
			{Name: "file", Type: Text, Indexed: true},
			{Name: "line", Type: Integer},
			{Name: "query_type", Type: Text},
			{Name: "includes", Type: Text, Nullable: true},
			{Name: "has_limit", Type: Boolean, Nullable: true},
			{Name: "has_transaction", Type: Boolean, Nullable: true},
		},
		PrimaryKey: []string{"file", "line", "query_type"},
		Location:   LocationRoles{File: "file", Line: "line"},
	},
	{
		Name: "validation_framework_usage",
		Columns: []Column{
			{Name: "file_path", Type: Text, Indexed: true},
			{Name: "line", Type: Integer},
			{Name: "framework", Type: Text},
			{Name: "method", Type: Text},
			{Name: "variable_name", Type: Text, Nullable: true},
			{Name: "is_validator", Type: Boolean},
			{Name: "argument_expr", Type: Text, Nullable: true},
		},
		Location: LocationRoles{File: "file_path", Line: "line"},
	},
	{
		Name: "env_var_usage",
		Columns: []Column{
			{Name: "file", Type: Text, Indexed: true},
			{Name: "line", Type: Integer},
			{Name: "var_name", Type: Text, Indexed: true},
			{Name: "access_type", Type: Text},
			{Name: "in_function", Type: Text, Nullable: true},
			{Name: "property_access", Type: Text, Nullable: true},
		},
		PrimaryKey: []string{"file", "line", "var_name", "access_type"},
		Location:   LocationRoles{File: "file", Line: "line"},
	},
}
