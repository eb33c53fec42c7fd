package accessor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bookJSON = `{
	"title": "Old Man's War",
	"author": {
		"name": "John Scalzi",
		"age": 18,
		"tags": [
			{"value": "American", "nested": {"value": "nested test 1"}},
			{"value": "sci-fi", "nested": {"value": "nested test 2"}}
		]
	}
}`

func decodedBook(t *testing.T) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(bookJSON), &v))
	return v
}

func TestMapWalker_SingleString(t *testing.T) {
	w := NewMapWalker()
	got := w.Resolve(decodedBook(t), []string{"author", "name"})
	assert.Equal(t, []string{"John Scalzi"}, got)
}

func TestMapWalker_NumberAsString(t *testing.T) {
	w := NewMapWalker()
	got := w.Resolve(decodedBook(t), []string{"author", "age"})
	assert.Equal(t, []string{"18"}, got)
}

func TestMapWalker_ArrayExpansion(t *testing.T) {
	w := NewMapWalker()
	got := w.Resolve(decodedBook(t), []string{"author", "tags", "value"})
	assert.Equal(t, []string{"American", "sci-fi"}, got)
}

func TestMapWalker_NestedArrayExpansion(t *testing.T) {
	w := NewMapWalker()
	got := w.Resolve(decodedBook(t), []string{"author", "tags", "nested", "value"})
	assert.Equal(t, []string{"nested test 1", "nested test 2"}, got)
}

func TestMapWalker_NumericIndex(t *testing.T) {
	w := NewMapWalker()
	got := w.Resolve(decodedBook(t), []string{"author", "tags", "1", "value"})
	assert.Equal(t, []string{"sci-fi"}, got)
}

func TestMapWalker_MissingPath(t *testing.T) {
	w := NewMapWalker()
	assert.Empty(t, w.Resolve(decodedBook(t), []string{"publisher", "name"}))
	assert.Empty(t, w.Resolve(decodedBook(t), []string{"author", "missing"}))
}

func TestMapWalker_BareString(t *testing.T) {
	w := NewMapWalker()
	got := w.Resolve("just a string", nil)
	assert.Equal(t, []string{"just a string"}, got)
}

func TestJSONDoc_SingleString(t *testing.T) {
	a := NewJSONDoc()
	got := a.Resolve(bookJSON, []string{"author", "name"})
	assert.Equal(t, []string{"John Scalzi"}, got)
}

func TestJSONDoc_ArrayExpansion(t *testing.T) {
	a := NewJSONDoc()
	got := a.Resolve([]byte(bookJSON), []string{"author", "tags", "value"})
	assert.Equal(t, []string{"American", "sci-fi"}, got)
}

func TestJSONDoc_NestedArrayExpansion(t *testing.T) {
	a := NewJSONDoc()
	got := a.Resolve(bookJSON, []string{"author", "tags", "nested", "value"})
	assert.Equal(t, []string{"nested test 1", "nested test 2"}, got)
}

func TestJSONDoc_NumericIndex(t *testing.T) {
	a := NewJSONDoc()
	got := a.Resolve(bookJSON, []string{"author", "tags", "0", "value"})
	assert.Equal(t, []string{"American"}, got)
}

func TestJSONDoc_MissingPathAndBadInput(t *testing.T) {
	a := NewJSONDoc()
	assert.Empty(t, a.Resolve(bookJSON, []string{"publisher"}))
	assert.Empty(t, a.Resolve(42, []string{"title"}))
}

// Both accessors must agree on the same document so indexes built from
// either are interchangeable.
func TestAccessorsAgree(t *testing.T) {
	paths := [][]string{
		{"title"},
		{"author", "name"},
		{"author", "tags", "value"},
		{"author", "tags", "nested", "value"},
	}

	w := NewMapWalker()
	a := NewJSONDoc()
	decoded := decodedBook(t)
	for _, path := range paths {
		assert.Equal(t, w.Resolve(decoded, path), a.Resolve(bookJSON, path), "path %v", path)
	}
}
