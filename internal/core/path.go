package core

// path.go provides dotted-path access into arbitrary nested JSON values.
// GetPath is used to pull fields out of enrichment API responses;
// SetPath is how flat mapping targets like "user.address.city" produce
// nested output objects. Neither function ever fails: unresolvable reads
// yield nil and writes overwrite whatever is in the way.

import (
	"strconv"
	"strings"
)

// GetPath reads the value at a dot-separated path inside root.
// Slice elements are addressed by numeric index; an out-of-range or
// non-numeric index, or descending into a scalar, resolves to nil.
// An empty path returns root itself.
func GetPath(root any, path string) any {
	if path == "" {
		return root
	}

	current := root
	for _, key := range strings.Split(path, ".") {
		switch c := current.(type) {
		case map[string]any:
			current = c[key]
		case []any:
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 || idx >= len(c) {
				return nil
			}
			current = c[idx]
		default:
			// Scalar or nil: nothing to descend into.
			return nil
		}
	}
	return current
}

// SetPath assigns value at a dot-separated path inside root, creating
// intermediate maps as needed. An existing non-map value at an
// intermediate segment is overwritten with a fresh map.
func SetPath(root map[string]any, path string, value any) {
	if !strings.Contains(path, ".") {
		root[path] = value
		return
	}

	keys := strings.Split(path, ".")
	current := root
	for _, key := range keys[:len(keys)-1] {
		next, ok := current[key].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[key] = next
		}
		current = next
	}
	current[keys[len(keys)-1]] = value
}
