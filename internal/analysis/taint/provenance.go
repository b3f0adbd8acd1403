// internal/analysis/taint/provenance.go
package taint

import (
	"cmp"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
)

// step is one hop of a path with the arena position needed to check it.
type step struct {
	kind   schemas.StepKind
	fn     int
	block  int
	pos    int
	line   int
	file   string
	detail string
}

func compareStep(a, b step) int {
	return cmp.Or(
		cmp.Compare(a.kind, b.kind),
		cmp.Compare(a.fn, b.fn),
		cmp.Compare(a.block, b.block),
		cmp.Compare(a.pos, b.pos),
		cmp.Compare(a.line, b.line),
		cmp.Compare(a.file, b.file),
		cmp.Compare(a.detail, b.detail),
	)
}

// prov is an immutable provenance chain, stored newest step first. Chains are
// shared freely between states, summaries and goroutines.
type prov struct {
	step      step
	prev      *prov
	len       int
	depth     int
	truncated bool
}

func newProv(s step) *prov {
	return &prov{step: s, len: 1}
}

// push returns p extended by s.
func (p *prov) push(s step) *prov {
	if p == nil {
		return newProv(s)
	}
	return &prov{step: s, prev: p, len: p.len + 1, depth: p.depth, truncated: p.truncated}
}

// steps returns the chain oldest first.
func (p *prov) steps() []step {
	out := make([]step, p.len)
	for i, n := p.len-1, p; n != nil; i, n = i-1, n.prev {
		out[i] = n.step
	}
	return out
}

// first returns the oldest step of the chain.
func (p *prov) first() step {
	n := p
	for n.prev != nil {
		n = n.prev
	}
	return n.step
}

// concat appends the steps of tail onto p. The result carries the given depth
// and the union of both truncation flags.
func (p *prov) concat(tail *prov, depth int) *prov {
	out := p
	for _, s := range tail.steps() {
		out = out.push(s)
	}
	out.depth = depth
	out.truncated = p.truncated || tail.truncated
	return out
}

// compareProv is the canonical order between chains: complete chains before
// truncated ones, shorter before longer, then step by step from the newest
// end. Extending two chains by the same step preserves their order, which
// keeps the dataflow fixed point independent of visiting order.
func compareProv(a, b *prov) int {
	if a == b {
		return 0
	}
	if a.truncated != b.truncated {
		if a.truncated {
			return 1
		}
		return -1
	}
	if c := cmp.Compare(a.len, b.len); c != 0 {
		return c
	}
	if c := cmp.Compare(a.depth, b.depth); c != 0 {
		return c
	}
	for x, y := a, b; x != nil && y != nil; x, y = x.prev, y.prev {
		if x == y {
			return 0
		}
		if c := compareStep(x.step, y.step); c != 0 {
			return c
		}
	}
	return 0
}

// better reports whether candidate should replace current.
func better(candidate, current *prov) bool {
	return current == nil || compareProv(candidate, current) < 0
}
