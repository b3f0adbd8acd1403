package schemas

import (
	"testing"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityRank(t *testing.T) {
	ordered := []Severity{SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, ordered[i].Rank(), ordered[i-1].Rank(), "%s should outrank %s", ordered[i], ordered[i-1])
	}
	assert.Less(t, Severity("bogus").Rank(), SeverityInfo.Rank())
}

func TestPathLength(t *testing.T) {
	testCases := []struct {
		name  string
		steps int
		want  int
	}{
		{"no path", 0, 0},
		{"single step", 1, 0},
		{"source to sink", 2, 1},
		{"through a call", 4, 3},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := Finding{Path: make([]Step, tc.steps)}
			assert.Equal(t, tc.want, f.PathLength())
		})
	}
}

func TestFindingJSONLayout(t *testing.T) {
	f := Finding{
		ID:       "id",
		Severity: SeverityHigh,
		Category: CategorySQLInjection,
		Source:   Endpoint{Location: Location{File: "app.js", Line: 2}, Rule: "source.symbol.request"},
		Sink:     Endpoint{Location: Location{File: "app.js", Line: 3}, Rule: "sink.sql.query"},
	}
	data, err := json.Marshal(f)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "high", doc["severity"])
	assert.Equal(t, "sql_injection", doc["category"])
	assert.NotContains(t, doc, "truncated", "truncated is only written when set")

	source, ok := doc["source"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "app.js", source["file"], "locations are flattened into endpoints")
	assert.EqualValues(t, 2, source["line"])
}
