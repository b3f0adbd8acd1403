// internal/discovery/discovery.go
package discovery

import (
	"github.com/xkilldash9x/scalpel-taint/internal/facts"
)

// Classifier turns cache contents into taint sources and sinks. The
// orchestrator depends on this interface rather than on Engine so rule
// evaluation can be swapped out in tests.
type Classifier interface {
	DiscoverSources(cache *facts.Cache) []Source
	DiscoverSinks(cache *facts.Cache) []Sink
}

var _ Classifier = (*Engine)(nil)
