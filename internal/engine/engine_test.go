package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/fuzzdex/internal/index"
	"github.com/dshills/fuzzdex/internal/keystore"
	"github.com/dshills/fuzzdex/pkg/types"
)

func buildIndex(t *testing.T, docs []any, specs []types.KeySpec) *index.Index {
	t.Helper()
	var ks *keystore.Store
	if len(specs) > 0 {
		var err error
		ks, err = keystore.New(specs)
		require.NoError(t, err)
	}
	ix, err := index.Build(context.Background(), docs, ks, nil, nil)
	require.NoError(t, err)
	return ix
}

func titleDocs() []any {
	return []any{
		map[string]any{"title": "Old Man's War"},
		map[string]any{"title": "The Lock Artist"},
	}
}

func titleKeys() []types.KeySpec {
	return []types.KeySpec{{Name: "title", Weight: 1}}
}

func TestSearch_GoldenTitleScenario(t *testing.T) {
	ix := buildIndex(t, titleDocs(), titleKeys())
	opts := types.Default()
	opts.IncludeScore = true
	opts.Keys = titleKeys()

	results, err := New(ix, opts).Search(context.Background(), "old man")
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, 0, results[0].Index)
	assert.Less(t, results[0].Score, 0.01, "exact-substring match must score near 0")

	// Record 1 is either absent or ranked last.
	if len(results) > 1 {
		assert.Equal(t, 1, results[1].Index)
		assert.Greater(t, results[1].Score, results[0].Score)
	}
}

func TestSearch_EmptyQueryMatchesEverythingWithScoreZero(t *testing.T) {
	ix := buildIndex(t, titleDocs(), titleKeys())
	opts := types.Default()
	opts.IncludeScore = true
	opts.Keys = titleKeys()

	results, err := New(ix, opts).Search(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, results, 2)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, 0.0, r.Score)
	}
}

func TestSearch_HeavyKeyPerfectMatchOutranksLightKey(t *testing.T) {
	docs := []any{
		map[string]any{"heavy": "alpha", "light": "zzzz"},
		map[string]any{"heavy": "zzzz", "light": "alpha"},
	}
	specs := []types.KeySpec{
		{Name: "heavy", Weight: 10},
		{Name: "light", Weight: 1},
	}
	ix := buildIndex(t, docs, specs)
	opts := types.Default()
	opts.IncludeScore = true
	opts.Keys = specs

	results, err := New(ix, opts).Search(context.Background(), "alpha")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 0, results[0].Index, "perfect match on the weight-10 key must rank first")
	assert.Equal(t, 1, results[1].Index)
	assert.Less(t, results[0].Score, results[1].Score)
}

func TestSearch_KeyOrderDoesNotChangeScores(t *testing.T) {
	docs := []any{
		map[string]any{"a": "hello world", "b": "hello help desk"},
	}
	forward := []types.KeySpec{{Name: "a"}, {Name: "b"}}
	backward := []types.KeySpec{{Name: "b"}, {Name: "a"}}

	score := func(specs []types.KeySpec) float64 {
		ix := buildIndex(t, docs, specs)
		opts := types.Default()
		opts.IncludeScore = true
		opts.Keys = specs
		results, err := New(ix, opts).Search(context.Background(), "hello")
		require.NoError(t, err)
		require.Len(t, results, 1)
		return results[0].Score
	}

	assert.InDelta(t, score(forward), score(backward), 1e-12)
}

func TestSearch_ThresholdIsAPureFilter(t *testing.T) {
	docs := []any{
		map[string]any{"t": "hello world"},
		map[string]any{"t": "xx hello there"},
		map[string]any{"t": "say hello out there somewhere"},
	}
	specs := []types.KeySpec{{Name: "t"}}

	run := func(threshold float64) []int {
		ix := buildIndex(t, docs, specs)
		opts := types.Default()
		opts.Threshold = threshold
		opts.IncludeScore = true
		opts.Keys = specs
		results, err := New(ix, opts).Search(context.Background(), "hello")
		require.NoError(t, err)
		ids := make([]int, 0, len(results))
		for _, r := range results {
			ids = append(ids, r.Index)
		}
		return ids
	}

	loose := run(0.6)
	tight := run(0.45)

	// Every record passing the tight threshold appears in the loose run
	// in the same relative order.
	pos := make(map[int]int, len(loose))
	for i, id := range loose {
		pos[id] = i
	}
	last := -1
	for _, id := range tight {
		p, ok := pos[id]
		require.True(t, ok, "record %d passed 0.45 but not 0.6", id)
		assert.Greater(t, p, last, "relative order changed between thresholds")
		last = p
	}
}

func TestSearch_MissingKeyIsNeutral(t *testing.T) {
	docs := []any{
		map[string]any{"title": "hello world", "subtitle": "zzzz"},
		map[string]any{"title": "hello world"},
	}
	specs := []types.KeySpec{{Name: "title"}, {Name: "subtitle"}}
	ix := buildIndex(t, docs, specs)
	opts := types.Default()
	opts.IncludeScore = true
	opts.Keys = specs

	results, err := New(ix, opts).Search(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, results, 2)

	// The record lacking the subtitle key scores identically: absence
	// neither penalizes nor helps.
	assert.InDelta(t, results[0].Score, results[1].Score, 1e-12)
}

func TestSearch_IgnoreFieldNormEqualizesFieldLengths(t *testing.T) {
	docs := []any{
		map[string]any{"t": "hello"},
		map[string]any{"t": "hello with a much longer tail of words"},
	}
	specs := []types.KeySpec{{Name: "t"}}

	run := func(ignore bool) []types.SearchResult {
		ix := buildIndex(t, docs, specs)
		opts := types.Default()
		opts.IgnoreFieldNorm = ignore
		opts.IncludeScore = true
		opts.Keys = specs
		results, err := New(ix, opts).Search(context.Background(), "hello")
		require.NoError(t, err)
		require.Len(t, results, 2)
		return results
	}

	// Both fields carry the query as an exact prefix; only the length
	// norm separates them.
	normed := run(false)
	assert.Equal(t, 0, normed[0].Index, "shorter field must rank first under the length norm")
	assert.Less(t, normed[0].Score, normed[1].Score)

	flat := run(true)
	assert.InDelta(t, flat[0].Score, flat[1].Score, 1e-12,
		"ignoring the field norm must score short and long fields alike")
}

func TestSearch_StableTieOrder(t *testing.T) {
	docs := []any{
		map[string]any{"t": "hello world"},
		map[string]any{"t": "hello world"},
	}
	specs := []types.KeySpec{{Name: "t"}}
	ix := buildIndex(t, docs, specs)
	opts := types.Default()
	opts.Keys = specs

	results, err := New(ix, opts).Search(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].Index)
	assert.Equal(t, 1, results[1].Index)
}

func TestSearch_ShouldSortDisabledPreservesInsertionOrder(t *testing.T) {
	docs := []any{
		map[string]any{"t": "xx hello there"}, // worse match
		map[string]any{"t": "hello world"},    // better match
	}
	specs := []types.KeySpec{{Name: "t"}}
	ix := buildIndex(t, docs, specs)

	opts := types.Default()
	opts.Keys = specs
	sorted, err := New(ix, opts).Search(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, sorted, 2)
	assert.Equal(t, 1, sorted[0].Index)

	opts.ShouldSort = false
	unsorted, err := New(ix, opts).Search(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, unsorted, 2)
	assert.Equal(t, 0, unsorted[0].Index)
	assert.Equal(t, 1, unsorted[1].Index)
}

func TestSearch_CustomSortFn(t *testing.T) {
	docs := []any{
		map[string]any{"t": "xx hello there"}, // worse match
		map[string]any{"t": "hello world"},    // better match
	}
	specs := []types.KeySpec{{Name: "t"}}
	ix := buildIndex(t, docs, specs)

	opts := types.Default()
	opts.IncludeScore = true
	opts.Keys = specs
	opts.SortFn = func(a, b types.SearchResult) bool { return a.Score > b.Score }

	results, err := New(ix, opts).Search(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Descending by score: the worse match leads.
	assert.Equal(t, 0, results[0].Index)
	assert.Equal(t, 1, results[1].Index)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearch_IncludeMatches(t *testing.T) {
	ix := buildIndex(t, titleDocs(), titleKeys())
	opts := types.Default()
	opts.IncludeMatches = true
	opts.Keys = titleKeys()

	results, err := New(ix, opts).Search(context.Background(), "old man")
	require.NoError(t, err)
	require.NotEmpty(t, results)

	require.NotEmpty(t, results[0].Matches)
	m := results[0].Matches[0]
	assert.Equal(t, "title", m.Key)
	assert.Equal(t, "Old Man's War", m.Value)
	require.NotEmpty(t, m.Indices)
	assert.Equal(t, 0, m.Indices[0].Start)
}

func TestSearch_IncludeScoreGatesEmission(t *testing.T) {
	ix := buildIndex(t, titleDocs(), titleKeys())

	opts := types.Default()
	opts.Keys = titleKeys()
	results, err := New(ix, opts).Search(context.Background(), "old man")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.False(t, results[0].HasScore)

	opts.IncludeScore = true
	results, err = New(ix, opts).Search(context.Background(), "old man")
	require.NoError(t, err)
	assert.True(t, results[0].HasScore)
}

func TestSearch_ArrayValuedKeyBestValueWins(t *testing.T) {
	docs := []any{
		map[string]any{"tags": []any{"nothing here", "hello world", "hello help"}},
	}
	specs := []types.KeySpec{{Name: "tags"}}
	ix := buildIndex(t, docs, specs)
	opts := types.Default()
	opts.IncludeMatches = true
	opts.Keys = specs

	results, err := New(ix, opts).Search(context.Background(), "hello world")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NotEmpty(t, results[0].Matches)
	assert.Equal(t, "hello world", results[0].Matches[0].Value)
}

func TestSearch_StringRecords(t *testing.T) {
	ix := buildIndex(t, []any{"old man's war", "the lock artist"}, nil)
	opts := types.Default()
	opts.IncludeScore = true

	results, err := New(ix, opts).Search(context.Background(), "old man")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, 0, results[0].Index)
	assert.Equal(t, "old man's war", results[0].Item)
}

func TestSearch_Canceled(t *testing.T) {
	ix := buildIndex(t, titleDocs(), titleKeys())
	opts := types.Default()
	opts.Keys = titleKeys()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(ix, opts).Search(ctx, "old man")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
