// internal/discovery/rules.go
package discovery

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
	"github.com/xkilldash9x/scalpel-taint/internal/facts"
	"github.com/xkilldash9x/scalpel-taint/internal/schema"
)

// Op is a predicate operator over one column of a fact row.
type Op string

const (
	OpEq            Op = "eq"
	OpIn            Op = "in"
	OpPrefix        Op = "prefix"
	OpSuffix        Op = "suffix"
	OpContains      Op = "contains"
	OpRegex         Op = "regex"
	OpLastSegmentIn Op = "last_segment_in"
	OpNotLiteral    Op = "not_literal"
	OpNotNull       Op = "not_null"
	OpTrue          Op = "true"
	OpFalse         Op = "false"
)

// Condition is one predicate of a rule. Prefix, suffix and contains match
// any of Values (or Value when Values is empty).
type Condition struct {
	Column     string   `mapstructure:"column" yaml:"column"`
	Op         Op       `mapstructure:"op" yaml:"op"`
	Value      string   `mapstructure:"value" yaml:"value,omitempty"`
	Values     []string `mapstructure:"values" yaml:"values,omitempty"`
	Negate     bool     `mapstructure:"negate" yaml:"negate,omitempty"`
	IgnoreCase bool     `mapstructure:"ignore_case" yaml:"ignore_case,omitempty"`
}

// RiskKind selects how a rule grades its hits.
type RiskKind string

const (
	// RiskFixed assigns Level to every hit.
	RiskFixed RiskKind = "fixed"
	// RiskStructural scores the text of Column with the engine's RiskScorer.
	// Level, when set, is a floor.
	RiskStructural RiskKind = "structural"
	// RiskAuth grades endpoint sources by the authentication flag in Column.
	RiskAuth RiskKind = "auth"
)

// RiskSpec is the risk function of a rule.
type RiskSpec struct {
	Kind   RiskKind         `mapstructure:"kind" yaml:"kind"`
	Level  schemas.Severity `mapstructure:"level" yaml:"level,omitempty"`
	Column string           `mapstructure:"column" yaml:"column,omitempty"`
}

// ArgSpec says where a sink's argument expressions come from.
type ArgSpec struct {
	Column string `mapstructure:"column" yaml:"column,omitempty"`
	// SameLineCalls collects the arguments of the outermost calls recorded
	// on the sink's line, falling back to Column when there are none.
	SameLineCalls bool `mapstructure:"same_line_calls" yaml:"same_line_calls,omitempty"`
	// Callees restricts SameLineCalls to calls whose callee matches one of
	// these names exactly or by its last dotted segment.
	Callees []string `mapstructure:"callees" yaml:"callees,omitempty"`
}

// Rule classifies the rows of one table that satisfy every condition.
type Rule struct {
	ID       string      `mapstructure:"id" yaml:"id"`
	Kind     Kind        `mapstructure:"kind" yaml:"kind"`
	Table    string      `mapstructure:"table" yaml:"table"`
	Match    []Condition `mapstructure:"match" yaml:"match,omitempty"`
	Category string      `mapstructure:"category" yaml:"category"`
	Risk     RiskSpec    `mapstructure:"risk" yaml:"risk"`
	// Symbol is the column naming the tainted slot of a source;
	// SymbolFallback is read when it is NULL or empty.
	Symbol         string `mapstructure:"symbol" yaml:"symbol,omitempty"`
	SymbolFallback string `mapstructure:"symbol_fallback" yaml:"symbol_fallback,omitempty"`
	// AssignTargets makes the assignment target on the source's line the slot.
	AssignTargets bool `mapstructure:"assign_targets" yaml:"assign_targets,omitempty"`
	// Function is the column naming a handler whose parameters are tainted.
	Function string  `mapstructure:"function" yaml:"function,omitempty"`
	Name     string  `mapstructure:"name" yaml:"name,omitempty"`
	Args     ArgSpec `mapstructure:"args" yaml:"args,omitempty"`
	// Disabled drops a rule of the same ID from the rule set.
	Disabled bool `mapstructure:"disabled" yaml:"disabled,omitempty"`
}

// compiledRule is a validated rule ready to evaluate.
type compiledRule struct {
	Rule
	conds []compiledCondition
}

type compiledCondition struct {
	Condition
	re  *regexp.Regexp
	set map[string]struct{}
}

func (c compiledCondition) values() []string {
	if len(c.Values) > 0 {
		return c.Values
	}
	if c.Value != "" {
		return []string{c.Value}
	}
	return nil
}

// compileRule validates r against the declared tables.
func compileRule(r Rule) (compiledRule, error) {
	if r.ID == "" {
		return compiledRule{}, fmt.Errorf("rule without id on table %q", r.Table)
	}
	if r.Kind != KindSource && r.Kind != KindSink {
		return compiledRule{}, fmt.Errorf("rule %s: unknown kind %q", r.ID, r.Kind)
	}
	if r.Category == "" {
		return compiledRule{}, fmt.Errorf("rule %s: missing category", r.ID)
	}
	table, ok := schema.Lookup(r.Table)
	if !ok {
		return compiledRule{}, fmt.Errorf("rule %s: unknown table %q", r.ID, r.Table)
	}
	hasColumn := func(name string) bool {
		_, ok := table.Column(name)
		return ok
	}
	for _, col := range []string{r.Symbol, r.SymbolFallback, r.Function, r.Name, r.Args.Column, r.Risk.Column} {
		if col != "" && !hasColumn(col) {
			return compiledRule{}, fmt.Errorf("rule %s: table %s has no column %q", r.ID, r.Table, col)
		}
	}

	switch r.Risk.Kind {
	case RiskFixed:
		if r.Risk.Level.Rank() < 0 {
			return compiledRule{}, fmt.Errorf("rule %s: fixed risk needs a valid level, got %q", r.ID, r.Risk.Level)
		}
	case RiskStructural:
		if r.Risk.Column == "" {
			return compiledRule{}, fmt.Errorf("rule %s: structural risk needs a column", r.ID)
		}
		if r.Risk.Level != "" && r.Risk.Level.Rank() < 0 {
			return compiledRule{}, fmt.Errorf("rule %s: invalid risk floor %q", r.ID, r.Risk.Level)
		}
	case RiskAuth:
		if r.Risk.Column == "" {
			return compiledRule{}, fmt.Errorf("rule %s: auth risk needs a column", r.ID)
		}
	default:
		return compiledRule{}, fmt.Errorf("rule %s: unknown risk kind %q", r.ID, r.Risk.Kind)
	}

	cr := compiledRule{Rule: r}
	for i, c := range r.Match {
		if !hasColumn(c.Column) {
			return compiledRule{}, fmt.Errorf("rule %s: condition %d: table %s has no column %q", r.ID, i, r.Table, c.Column)
		}
		cc := compiledCondition{Condition: c}
		switch c.Op {
		case OpEq:
			if c.Value == "" {
				return compiledRule{}, fmt.Errorf("rule %s: condition %d: eq needs a value", r.ID, i)
			}
		case OpIn, OpLastSegmentIn:
			vals := cc.values()
			if len(vals) == 0 {
				return compiledRule{}, fmt.Errorf("rule %s: condition %d: %s needs values", r.ID, i, c.Op)
			}
			cc.set = make(map[string]struct{}, len(vals))
			for _, v := range vals {
				if c.IgnoreCase {
					v = strings.ToLower(v)
				}
				cc.set[v] = struct{}{}
			}
		case OpPrefix, OpSuffix, OpContains:
			if len(cc.values()) == 0 {
				return compiledRule{}, fmt.Errorf("rule %s: condition %d: %s needs values", r.ID, i, c.Op)
			}
		case OpRegex:
			pattern := c.Value
			if c.IgnoreCase {
				pattern = "(?i)" + pattern
			}
			re, err := regexp.Compile(pattern)
			if err != nil {
				return compiledRule{}, fmt.Errorf("rule %s: condition %d: %w", r.ID, i, err)
			}
			cc.re = re
		case OpNotLiteral, OpNotNull, OpTrue, OpFalse:
		default:
			return compiledRule{}, fmt.Errorf("rule %s: condition %d: unknown op %q", r.ID, i, c.Op)
		}
		cr.conds = append(cr.conds, cc)
	}
	return cr, nil
}

// matches reports whether every condition holds for rec.
func (r compiledRule) matches(rec facts.Record) bool {
	for _, c := range r.conds {
		if c.eval(rec) == c.Negate {
			return false
		}
	}
	return true
}

func (c compiledCondition) eval(rec facts.Record) bool {
	v, ok := rec.Field(c.Column)
	if c.Op == OpNotNull {
		return ok
	}
	if !ok {
		return false
	}
	if c.IgnoreCase && c.Op != OpRegex {
		v = strings.ToLower(v)
	}
	fold := func(s string) string {
		if c.IgnoreCase {
			return strings.ToLower(s)
		}
		return s
	}

	switch c.Op {
	case OpEq:
		return v == fold(c.Value)
	case OpIn:
		_, hit := c.set[v]
		return hit
	case OpLastSegmentIn:
		_, hit := c.set[LastSegment(v)]
		return hit
	case OpPrefix:
		return slices.ContainsFunc(c.values(), func(p string) bool { return strings.HasPrefix(v, fold(p)) })
	case OpSuffix:
		return slices.ContainsFunc(c.values(), func(p string) bool { return strings.HasSuffix(v, fold(p)) })
	case OpContains:
		return slices.ContainsFunc(c.values(), func(p string) bool { return strings.Contains(v, fold(p)) })
	case OpRegex:
		return c.re.MatchString(v)
	case OpNotLiteral:
		return !IsLiteral(v)
	case OpTrue:
		return v == "true"
	case OpFalse:
		return v == "false"
	}
	return false
}

// LastSegment returns the part of a dotted callee name after the last dot,
// without a trailing call suffix: "child_process.exec" -> "exec".
func LastSegment(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, "()")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// IsLiteral reports whether expr is a constant: a quoted string without
// interpolation, a number, or a keyword constant.
func IsLiteral(expr string) bool {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return true
	}
	switch expr {
	case "true", "false", "null", "nil", "None", "undefined", "True", "False":
		return true
	}
	first, last := expr[0], expr[len(expr)-1]
	if (first == '"' || first == '\'') && last == first && len(expr) >= 2 {
		return strings.IndexByte(expr[1:len(expr)-1], first) < 0
	}
	if first == '`' && last == '`' && len(expr) >= 2 {
		return !strings.Contains(expr, "${")
	}
	if _, err := strconv.ParseFloat(expr, 64); err == nil {
		return true
	}
	_, err := strconv.ParseInt(expr, 0, 64)
	return err == nil
}
