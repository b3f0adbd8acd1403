// internal/analysis/taint/state.go
package taint

// root identifies where taint originates: a discovered source (>= 0) or a
// formal parameter of the function under analysis (< 0).
type root int

func sourceRoot(i int) root { return root(i) }
func paramRoot(p int) root  { return root(-(p + 1)) }

func (r root) isParam() bool { return r < 0 }
func (r root) param() int    { return int(-r) - 1 }
func (r root) source() int   { return int(r) }

// state maps a slot to the canonical chain of every root tainting it.
type state map[string]map[root]*prov

func (s state) clone() state {
	out := make(state, len(s))
	for slot, roots := range s {
		m := make(map[root]*prov, len(roots))
		for r, p := range roots {
			m[r] = p
		}
		out[slot] = m
	}
	return out
}

// set records p for (slot, r) when it beats the current chain. It reports
// whether the state changed.
func (s state) set(slot string, r root, p *prov) bool {
	roots, ok := s[slot]
	if !ok {
		roots = make(map[root]*prov)
		s[slot] = roots
	}
	if better(p, roots[r]) {
		roots[r] = p
		return true
	}
	return false
}

// kill removes slot and its dotted sub-slots.
func (s state) kill(slot string) {
	for k := range s {
		if under(k, slot) {
			delete(s, k)
		}
	}
}

// join merges other into s and reports whether s changed.
func (s state) join(other state) bool {
	changed := false
	for slot, roots := range other {
		for r, p := range roots {
			if s.set(slot, r, p) {
				changed = true
			}
		}
	}
	return changed
}

// read returns, per root, the best chain of every slot observed by names.
func (s state) read(names []string) map[root]*prov {
	var out map[root]*prov
	for _, name := range names {
		for slot, roots := range s {
			if !related(slot, name) {
				continue
			}
			for r, p := range roots {
				if out == nil {
					out = make(map[root]*prov)
				}
				if better(p, out[r]) {
					out[r] = p
				}
			}
		}
	}
	return out
}
