package querycache

import (
	"fmt"
	"sort"
	"strings"
)

// Params maps parameter names to scalar values for a computation.
type Params map[string]any

// DeriveKey builds the cache key for a named computation. Entries are
// sorted by parameter name and rendered name:value, so semantically
// identical calls produce identical keys regardless of argument order,
// and keys are stable across process restarts.
//
// Nil-valued parameters are omitted entirely, so {"type": nil} and {}
// derive the same key; anything else fragments the keyspace for no reason.
func DeriveKey(name string, params Params) string {
	parts := make([]string, 0, len(params)+1)
	parts = append(parts, name)

	names := make([]string, 0, len(params))
	for k, v := range params {
		if v == nil {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)

	for _, k := range names {
		parts = append(parts, fmt.Sprintf("%s:%v", k, params[k]))
	}
	return strings.Join(parts, ":")
}
