// Package accessor provides path-accessor implementations for common
// record shapes: decoded JSON-style map trees and raw JSON documents.
// Both auto-expand array-valued intermediate nodes, collecting every
// string leaf in document order.
package accessor

import (
	"strconv"
)

// MapWalker resolves paths against map[string]any / []any trees, the
// shape produced by encoding/json into any. Numbers and booleans are
// rendered as strings; missing paths yield no values.
type MapWalker struct{}

// NewMapWalker returns the generic tree-walking accessor.
func NewMapWalker() MapWalker {
	return MapWalker{}
}

// Resolve walks record along path. A bare string record with an empty
// path resolves to itself.
func (MapWalker) Resolve(record any, path []string) []string {
	var leaves []string
	walk(record, path, &leaves)
	return leaves
}

func walk(node any, path []string, leaves *[]string) {
	if len(path) == 0 {
		switch v := node.(type) {
		case string:
			*leaves = append(*leaves, v)
		case bool:
			*leaves = append(*leaves, strconv.FormatBool(v))
		case float64:
			*leaves = append(*leaves, strconv.FormatFloat(v, 'f', -1, 64))
		case int:
			*leaves = append(*leaves, strconv.Itoa(v))
		case int64:
			*leaves = append(*leaves, strconv.FormatInt(v, 10))
		}
		return
	}

	segment := path[0]
	rest := path[1:]

	switch v := node.(type) {
	case map[string]any:
		child, ok := v[segment]
		if !ok {
			return
		}
		descend(child, rest, leaves)
	case []any:
		// A numeric segment indexes the array; anything else expands it.
		if i, err := strconv.Atoi(segment); err == nil {
			if i >= 0 && i < len(v) {
				descend(v[i], rest, leaves)
			}
			return
		}
		for _, item := range v {
			walk(item, path, leaves)
		}
	}
}

// descend handles the node one segment resolved to, expanding arrays
// against the remaining path.
func descend(child any, rest []string, leaves *[]string) {
	if arr, ok := child.([]any); ok {
		for _, item := range arr {
			walk(item, rest, leaves)
		}
		return
	}
	walk(child, rest, leaves)
}
