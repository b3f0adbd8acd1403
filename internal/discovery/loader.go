// internal/discovery/loader.go
package discovery

import (
	"fmt"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// LoadRules reads a rule file. Any format viper understands works; the rules
// live under a top-level "rules" key:
//
//	rules:
//	  - id: sink.call.knex_raw
//	    kind: sink
//	    table: function_call_args
//	    match:
//	      - {column: callee_function, op: suffix, value: knex.raw}
//	    category: sql
//	    risk: {kind: structural, column: argument_expr}
//	    args: {column: argument_expr}
func LoadRules(path string) ([]Rule, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand rules path %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(expanded)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", expanded, err)
	}

	var rules []Rule
	if err := v.UnmarshalKey("rules", &rules); err != nil {
		return nil, fmt.Errorf("failed to decode rules file %s: %w", expanded, err)
	}
	for i, r := range rules {
		if r.ID == "" {
			return nil, fmt.Errorf("rules file %s: rule %d has no id", expanded, i)
		}
	}
	return rules, nil
}
