package recagent

import (
	"encoding/json"
	"strings"
)

// NormalizeInterests coerces a loosely-typed research_interests field into
// the canonical ordered set of strings. The server may send a single
// scalar, an array, or nothing at all:
//
//	absent / null / ""  → []
//	"x"                 → ["x"]
//	["a", " ", "b"]     → ["a", "b"]
//
// Values are trimmed of surrounding whitespace, blank entries are dropped,
// and duplicates are removed preserving first occurrence. Non-string array
// elements are dropped. The result is never nil and the function is
// idempotent over its own output.
func NormalizeInterests(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}

	var scalar string
	if err := json.Unmarshal(raw, &scalar); err == nil {
		return NormalizeStringSet([]string{scalar})
	}

	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		values := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				values = append(values, s)
			}
		}
		return NormalizeStringSet(values)
	}

	// null, a number, an object: nothing usable.
	return []string{}
}

// NormalizeStringSet trims each value, drops blanks, and removes duplicates
// preserving order. The result is never nil.
func NormalizeStringSet(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))

	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	return out
}
