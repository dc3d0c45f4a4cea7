package resolver

import (
	"maps"
	"slices"
)

// Snapshot is a copy of the global scope taken after parsing.
type Snapshot struct {
	Variables map[string]string `json:"variables"`
	Consts    []string          `json:"consts"`
	Functions []string          `json:"functions"`
	Types     []string          `json:"types"`
}

// Snapshot copies the global scope. Name lists are sorted.
func (c *Checker) Snapshot() Snapshot {
	global := c.scopes.Global()
	vars := make(map[string]string, len(global.Variables))
	for name, tag := range global.Variables {
		vars[name] = tag.String()
	}
	return Snapshot{
		Variables: vars,
		Consts:    sortedKeys(global.Consts),
		Functions: sortedKeys(global.Functions),
		Types:     sortedKeys(global.Types),
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := slices.Sorted(maps.Keys(m))
	if keys == nil {
		keys = []string{}
	}
	return keys
}
