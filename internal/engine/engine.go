package engine

import (
	"context"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/fuzzdex/internal/bitap"
	"github.com/dshills/fuzzdex/internal/index"
	"github.com/dshills/fuzzdex/pkg/types"
)

// epsilon substitutes for a perfect per-key score inside the weighted
// product, so key weights still separate records that match perfectly
// on different keys.
const epsilon = 2.220446049250313e-16

// Engine runs queries against one index snapshot. It is stateless
// across calls: each Search is a pure function of (snapshot, query,
// options) and may run concurrently with other Searches on the same
// snapshot.
type Engine struct {
	idx  *index.Index
	opts types.Options
}

// New creates an engine bound to an index snapshot.
func New(idx *index.Index, opts types.Options) *Engine {
	return &Engine{idx: idx, opts: opts}
}

// keyHit is the winning outcome of one key for one record.
type keyHit struct {
	slot    int
	score   float64
	value   index.Value
	outcome bitap.Outcome
}

// recordScore is a scored record before formatting.
type recordScore struct {
	id    int
	score float64
	hits  []keyHit
}

// Search returns records approximately containing query, best (lowest
// score) first. An empty query matches every record with score 0. The
// only error condition is context cancellation.
func (e *Engine) Search(ctx context.Context, query string) ([]types.SearchResult, error) {
	pattern := bitap.NewPattern(query, e.opts)
	if pattern.Empty() {
		return e.formatAll(), nil
	}

	n := e.idx.Len()
	scored := make([]*recordScore, n)

	// Matching has no cross-record data dependencies; partition records
	// across workers and aggregate after the join.
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	chunkSize := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunkSize {
		lo := lo
		hi := lo + chunkSize
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for id := lo; id < hi; id++ {
				scored[id] = e.scoreRecord(id, pattern)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]types.SearchResult, 0, n)
	for _, rs := range scored {
		if rs == nil || rs.score > e.opts.Threshold {
			continue
		}
		results = append(results, e.format(rs))
	}

	if e.opts.ShouldSort {
		less := e.opts.SortFn
		if less == nil {
			less = func(a, b types.SearchResult) bool { return a.Score < b.Score }
		}
		// Stable: ties keep original record insertion order.
		sort.SliceStable(results, func(i, j int) bool {
			return less(results[i], results[j])
		})
	}
	return results, nil
}

// scoreRecord aggregates per-key outcomes into one record score using a
// weighted product: recordScore = prod_k eff(score_k)^(weight_k*norm_k).
// Keys with no extracted value or no qualifying match contribute a
// neutral factor; a record with no matching key at all is nil.
func (e *Engine) scoreRecord(id int, pattern *bitap.Pattern) *recordScore {
	slots := 1
	if ks := e.idx.Keys(); ks != nil && ks.Len() > 0 {
		slots = ks.Len()
	}

	var hits []keyHit
	total := 1.0
	for slot := 0; slot < slots; slot++ {
		values := e.idx.ValuesForKey(id, slot)
		if len(values) == 0 {
			continue // absence is neutral, not penalizing
		}

		best, ok := bestValue(pattern, values)
		if !ok {
			continue
		}
		best.slot = slot
		hits = append(hits, best)

		keyWeight := 1.0
		if ks := e.idx.Keys(); ks != nil && ks.Len() > 0 {
			keyWeight = ks.Keys()[slot].Weight
		}

		exponent := best.value.Norm
		if e.opts.IgnoreFieldNorm {
			exponent = keyWeight
		}

		eff := best.score
		if eff == 0 && keyWeight > 0 {
			eff = epsilon
		}
		total *= math.Pow(eff, exponent)
	}

	if len(hits) == 0 {
		return nil
	}
	if total > 1 {
		total = 1
	}
	return &recordScore{id: id, score: total, hits: hits}
}

// bestValue picks the minimum-score value under one key; ties keep the
// first occurrence.
func bestValue(pattern *bitap.Pattern, values []index.Value) (keyHit, bool) {
	var best keyHit
	found := false
	for _, v := range values {
		out, ok := pattern.MatchIn(v.Text)
		if !ok {
			continue
		}
		if !found || out.Score < best.score {
			best = keyHit{score: out.Score, value: v, outcome: out}
			found = true
		}
	}
	return best, found
}

// format shapes one scored record per the output options.
func (e *Engine) format(rs *recordScore) types.SearchResult {
	result := types.SearchResult{
		Index: rs.id,
		Item:  e.idx.Doc(rs.id),
		// Ranking needs the aggregate even when it is not emitted;
		// HasScore gates emission.
		Score:    rs.score,
		HasScore: e.opts.IncludeScore,
	}
	if e.opts.IncludeMatches {
		result.Matches = e.matches(rs)
	}
	return result
}

func (e *Engine) matches(rs *recordScore) []types.Match {
	ks := e.idx.Keys()
	out := make([]types.Match, 0, len(rs.hits))
	for _, hit := range rs.hits {
		m := types.Match{
			Value:   hit.value.Text,
			Indices: hit.outcome.Indices,
			Score:   hit.score,
		}
		if ks != nil && ks.Len() > hit.slot {
			m.Key = ks.Keys()[hit.slot].Name
		}
		out = append(out, m)
	}
	return out
}

// formatAll emits every record with score 0, in insertion order, for
// the empty query.
func (e *Engine) formatAll() []types.SearchResult {
	results := make([]types.SearchResult, 0, e.idx.Len())
	for id := 0; id < e.idx.Len(); id++ {
		results = append(results, types.SearchResult{
			Index:    id,
			Item:     e.idx.Doc(id),
			Score:    0,
			HasScore: e.opts.IncludeScore,
		})
	}
	return results
}
