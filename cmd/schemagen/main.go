// File: cmd/schemagen/main.go

// schemagen renders internal/facts/facts_gen.go from the declared fact
// schema. It is driven by the go:generate directive in internal/facts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/scalpel-taint/internal/schema"
	"github.com/xkilldash9x/scalpel-taint/internal/schema/codegen"
)

// Allows mocking os.Exit in tests.
var osExit = os.Exit

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "schemagen:", err)
		osExit(1)
	}
}

func newCommand() *cobra.Command {
	var (
		out     string
		pkg     string
		check   bool
		verbose bool
	)
	cmd := &cobra.Command{
		Use:           "schemagen",
		Short:         "Generate typed fact tables and the cache loader from the schema descriptors",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := codegen.WriteFile(out, schema.Tables, codegen.Options{Package: pkg}, check); err != nil {
				return err
			}
			if verbose && !check {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d tables)\n", out, len(schema.Tables))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "facts_gen.go", "output file")
	cmd.Flags().StringVar(&pkg, "package", "facts", "package name of the generated file")
	cmd.Flags().BoolVar(&check, "check", false, "fail if the output file differs from what would be generated")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "report what was written")
	return cmd
}
