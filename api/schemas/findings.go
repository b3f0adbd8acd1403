package schemas

// -- Finding Schemas --

// Severity represents the severity level of a taint finding, ranging from
// critical to informational. The values are lowercase to keep report output stable.
type Severity string

// Constants defining the standard severity levels for findings.
const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Rank orders severities so that a higher rank is more severe.
// Unknown values rank below info.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	case SeverityInfo:
		return 0
	default:
		return -1
	}
}

// Category names the vulnerability class a finding belongs to.
type Category string

const (
	CategorySQLInjection     Category = "sql_injection"
	CategoryCommandInjection Category = "command_injection"
	CategoryCodeInjection    Category = "code_injection"
	CategoryPathTraversal    Category = "path_traversal"
	CategorySSRF             Category = "ssrf"
	CategoryXSS              Category = "xss"
	CategoryLDAPInjection    Category = "ldap_injection"
	CategoryNoSQLInjection   Category = "nosql_injection"
	CategoryTaintedFlow      Category = "tainted_flow"
)

// Location pins a fact to a place in the analysed code base.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

// StepKind is the kind of fact a path step was derived from.
type StepKind string

const (
	StepSource     StepKind = "source"
	StepAssignment StepKind = "assignment"
	StepCall       StepKind = "call"
	StepParameter  StepKind = "parameter"
	StepReturn     StepKind = "return"
	StepSink       StepKind = "sink"
	// StepTruncated marks where a path was cut because it exceeded the hop limit.
	StepTruncated StepKind = "truncated"
)

// Step is one hop of a forensic taint path.
type Step struct {
	Kind     StepKind `json:"kind"`
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Function string   `json:"function,omitempty"`
	// Detail is the variable, callee or expression the step is about.
	Detail string `json:"detail,omitempty"`
}

// Endpoint describes the source or sink end of a finding.
type Endpoint struct {
	Location
	Category string `json:"category"`
	Name     string `json:"name,omitempty"`
	Rule     string `json:"rule"`
	Risk     string `json:"risk"`
}

// Finding is a single proven flow of untrusted data into a dangerous operation.
type Finding struct {
	// ID is derived from the finding content, so it is stable across runs.
	ID       string   `json:"id"`
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Source   Endpoint `json:"source"`
	Sink     Endpoint `json:"sink"`
	Path     []Step   `json:"path"`
	// HopDepth counts the function-call boundaries crossed by the path.
	HopDepth int `json:"hop_depth"`
	// Truncated is set when the path exceeded the configured hop limit and
	// the steps beyond it were elided.
	Truncated bool `json:"truncated,omitempty"`
}

// PathLength is the number of edges between consecutive path steps.
func (f Finding) PathLength() int {
	if len(f.Path) == 0 {
		return 0
	}
	return len(f.Path) - 1
}
