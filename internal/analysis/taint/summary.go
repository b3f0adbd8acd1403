// internal/analysis/taint/summary.go
package taint

// summary is the taint behaviour of a function as seen by its callers.
// Summaries are immutable once installed.
type summary struct {
	// sinks maps a parameter to the sinks it reaches and the chain from the
	// parameter step to the sink step.
	sinks map[int]map[int]*prov
	// returns maps a parameter to its chain into a return statement.
	returns map[int]*prov
	// intrinsic maps a source local to the function to its chain into a
	// return statement.
	intrinsic map[int]*prov
}

func newSummary() *summary {
	return &summary{
		sinks:     make(map[int]map[int]*prov),
		returns:   make(map[int]*prov),
		intrinsic: make(map[int]*prov),
	}
}

func (s *summary) addSink(param, sink int, p *prov) {
	m, ok := s.sinks[param]
	if !ok {
		m = make(map[int]*prov)
		s.sinks[param] = m
	}
	if better(p, m[sink]) {
		m[sink] = p
	}
}

func (s *summary) addReturn(param int, p *prov) {
	if better(p, s.returns[param]) {
		s.returns[param] = p
	}
}

func (s *summary) addIntrinsic(source int, p *prov) {
	if better(p, s.intrinsic[source]) {
		s.intrinsic[source] = p
	}
}

// mergeSummary folds next into a copy of prev, keeping the canonical chain
// per entry. It reports whether the result differs from prev.
func mergeSummary(prev, next *summary) (*summary, bool) {
	out := newSummary()
	for p, m := range prev.sinks {
		for k, c := range m {
			out.addSink(p, k, c)
		}
	}
	for p, c := range prev.returns {
		out.returns[p] = c
	}
	for s, c := range prev.intrinsic {
		out.intrinsic[s] = c
	}

	changed := false
	for p, m := range next.sinks {
		for k, c := range m {
			if better(c, out.sinks[p][k]) {
				out.addSink(p, k, c)
				changed = true
			}
		}
	}
	for p, c := range next.returns {
		if better(c, out.returns[p]) {
			out.returns[p] = c
			changed = true
		}
	}
	for s, c := range next.intrinsic {
		if better(c, out.intrinsic[s]) {
			out.intrinsic[s] = c
			changed = true
		}
	}
	if !changed {
		return prev, false
	}
	return out, true
}
