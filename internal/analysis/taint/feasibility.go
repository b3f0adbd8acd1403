// internal/analysis/taint/feasibility.go
package taint

import (
	"fmt"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
)

// feasible checks every consecutive pair of a chain against the CFG and the
// call graph. It returns the first offending pair when the chain cannot be
// executed.
func (p *program) feasible(steps []step) (bool, string) {
	for i := 1; i < len(steps); i++ {
		a, b := steps[i-1], steps[i]
		if a.kind == schemas.StepTruncated || b.kind == schemas.StepTruncated {
			continue
		}
		if ok := p.feasiblePair(a, b); !ok {
			return false, fmt.Sprintf("%s at %s:%d cannot reach %s at %s:%d", a.kind, a.file, a.line, b.kind, b.file, b.line)
		}
	}
	return true, ""
}

func (p *program) feasiblePair(a, b step) bool {
	if a.fn < 0 || b.fn < 0 || a.fn >= len(p.funcs) || b.fn >= len(p.funcs) {
		return false
	}
	switch {
	case a.kind == schemas.StepCall && b.kind == schemas.StepParameter:
		return p.called(a.fn, b.fn) && b.block == p.funcs[b.fn].entry
	case a.kind == schemas.StepReturn && b.kind == schemas.StepAssignment && p.called(b.fn, a.fn):
		return true
	case a.fn != b.fn:
		return false
	}

	f := p.funcs[a.fn]
	if a.block == b.block {
		return b.pos > a.pos || f.reaches(a.block, a.block)
	}
	return f.reaches(a.block, b.block)
}
