package store

import (
	"fmt"
	"io"
	"sort"

	json "github.com/json-iterator/go"
)

// LoadJSON builds a Memory store from a fixture document of the form
//
//	{"symbols": [{"path": "app.js", "name": "req.id", ...}], "cfg_blocks": [...]}
//
// Every declared table exists in the result; tables absent from the
// document are empty. Unknown tables or columns are an error.
func LoadJSON(r io.Reader) (*Memory, error) {
	dec := json.ConfigCompatibleWithStandardLibrary.NewDecoder(r)
	dec.UseNumber()

	var doc map[string][]Values
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode fact fixture: %w", err)
	}

	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	sort.Strings(names)

	m := NewMemory()
	for _, name := range names {
		for i, row := range doc[name] {
			if err := m.Insert(name, row); err != nil {
				return nil, fmt.Errorf("fixture row %d: %w", i, err)
			}
		}
	}
	return m, nil
}
