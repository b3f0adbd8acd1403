// File: cmd/rules.go
package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/xkilldash9x/scalpel-taint/internal/discovery"
	"github.com/xkilldash9x/scalpel-taint/internal/observability"
	"github.com/xkilldash9x/scalpel-taint/internal/orchestrator"
)

// rulesFile is the document layout discovery.LoadRules reads.
type rulesFile struct {
	Rules []discovery.Rule `yaml:"rules"`
}

func newRulesCmd() *cobra.Command {
	var format string
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Prints the effective source and sink rule table.",
		Long: `Prints the rules an analysis would run with: the configured rules file, or
the built-in rules when none is set. The yaml format can be edited and passed
back with --rules.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			orch, err := orchestrator.New(cfg, observability.GetLogger())
			if err != nil {
				return err
			}

			switch format {
			case "table":
				return printRuleTable(cmd, orch.Rules())
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(rulesFile{Rules: orch.Rules()}); err != nil {
					return fmt.Errorf("failed to encode rules: %w", err)
				}
				return enc.Close()
			default:
				return fmt.Errorf("unsupported rules format: %s", format)
			}
		},
	}
	rulesCmd.Flags().String("rules", "", "YAML rule file replacing the built-in rules")
	rulesCmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table or yaml")
	bindFlag(rulesCmd, "rules", "discovery.rules_file")
	return rulesCmd
}

func printRuleTable(cmd *cobra.Command, rules []discovery.Rule) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tTABLE\tCATEGORY\tRISK")
	for _, r := range rules {
		risk := string(r.Risk.Kind)
		if r.Risk.Level != "" {
			risk += ":" + string(r.Risk.Level)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Kind, r.Table, r.Category, risk)
	}
	return tw.Flush()
}
