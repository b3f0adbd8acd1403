// File: cmd/schema.go
package cmd

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/scalpel-taint/internal/schema"
	"github.com/xkilldash9x/scalpel-taint/internal/schema/codegen"
)

func newSchemaCmd() *cobra.Command {
	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Works with the declared fact schema.",
	}
	schemaCmd.AddCommand(newSchemaGenerateCmd())
	schemaCmd.AddCommand(newSchemaDDLCmd())
	return schemaCmd
}

func newSchemaGenerateCmd() *cobra.Command {
	var (
		out   string
		pkg   string
		check bool
	)
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generates the typed fact tables and cache loader.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateFacts(cmd.OutOrStdout(), out, pkg, check)
		},
	}
	generateCmd.Flags().StringVarP(&out, "out", "o", "facts_gen.go", "output file, - for stdout")
	generateCmd.Flags().StringVar(&pkg, "package", "facts", "package name of the generated file")
	generateCmd.Flags().BoolVar(&check, "check", false, "fail if the output file differs from what would be generated")
	return generateCmd
}

// generateFacts writes the rendered fact tables to w when out is "-" and to
// the file out otherwise.
func generateFacts(w io.Writer, out, pkg string, check bool) error {
	opts := codegen.Options{Package: pkg}
	if out != "-" {
		return codegen.WriteFile(out, schema.Tables, opts, check)
	}
	src, err := codegen.Generate(schema.Tables, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(src)
	return err
}

func newSchemaDDLCmd() *cobra.Command {
	var dialect string
	ddlCmd := &cobra.Command{
		Use:   "ddl [table...]",
		Short: "Prints CREATE TABLE statements for the fact schema.",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := schema.Dialect(dialect)
			if d != schema.SQLite && d != schema.Postgres {
				return fmt.Errorf("unsupported dialect: %s", dialect)
			}

			tables := schema.Tables
			if len(args) > 0 {
				tables = nil
				for _, name := range args {
					t, ok := schema.Lookup(name)
					if !ok {
						return fmt.Errorf("unknown table: %s", name)
					}
					if !slices.ContainsFunc(tables, func(x schema.Table) bool { return x.Name == t.Name }) {
						tables = append(tables, t)
					}
				}
			}
			_, err := io.WriteString(cmd.OutOrStdout(), schema.DDL(tables, d))
			return err
		},
	}
	ddlCmd.Flags().StringVar(&dialect, "dialect", string(schema.SQLite), "SQL dialect: sqlite or postgres")
	return ddlCmd
}
