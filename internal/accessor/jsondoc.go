package accessor

import (
	"strconv"

	"github.com/tidwall/gjson"
)

// JSONDoc resolves paths against raw JSON documents without decoding
// them first. Records may be string, []byte, or gjson.Result values;
// anything else yields no values.
type JSONDoc struct{}

// NewJSONDoc returns the raw-JSON accessor.
func NewJSONDoc() JSONDoc {
	return JSONDoc{}
}

// Resolve walks the JSON document along path, expanding arrays the same
// way MapWalker does.
func (JSONDoc) Resolve(record any, path []string) []string {
	var root gjson.Result
	switch v := record.(type) {
	case string:
		root = gjson.Parse(v)
	case []byte:
		root = gjson.ParseBytes(v)
	case gjson.Result:
		root = v
	default:
		return nil
	}

	var leaves []string
	walkResult(root, path, &leaves)
	return leaves
}

func walkResult(node gjson.Result, path []string, leaves *[]string) {
	if len(path) == 0 {
		switch node.Type {
		case gjson.String, gjson.Number, gjson.True, gjson.False:
			*leaves = append(*leaves, node.String())
		}
		return
	}

	if node.IsArray() {
		// A numeric segment indexes the array; anything else expands it.
		if _, err := strconv.Atoi(path[0]); err == nil {
			if child := node.Get(path[0]); child.Exists() {
				walkResult(child, path[1:], leaves)
			}
			return
		}
		for _, item := range node.Array() {
			walkResult(item, path, leaves)
		}
		return
	}
	if !node.IsObject() {
		return
	}

	child := node.Get(path[0])
	if !child.Exists() {
		return
	}
	if child.IsArray() {
		for _, item := range child.Array() {
			walkResult(item, path[1:], leaves)
		}
		return
	}
	walkResult(child, path[1:], leaves)
}
