// Package fuzzdex is an in-process fuzzy text-matching engine. Given a
// collection of structured records, a set of weighted (possibly nested)
// keys, and a query string, it returns a relevance-ranked list of
// records whose field values approximately contain the query, with
// optional match-location detail.
//
// Basic usage:
//
//	books := []any{
//	    map[string]any{"title": "Old Man's War"},
//	    map[string]any{"title": "The Lock Artist"},
//	}
//
//	opts := fuzzdex.DefaultOptions()
//	opts.IncludeScore = true
//	opts.Keys = []fuzzdex.KeySpec{{Name: "title"}}
//
//	fz, err := fuzzdex.New(context.Background(), books, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	results, err := fz.Search(context.Background(), "old man")
//
// Scores run from 0 (perfect) to 1; results are sorted ascending. A
// record absent from the results simply did not match; no match is
// never an error.
package fuzzdex

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dshills/fuzzdex/internal/engine"
	"github.com/dshills/fuzzdex/internal/index"
	"github.com/dshills/fuzzdex/internal/keystore"
	"github.com/dshills/fuzzdex/pkg/types"
)

// Re-exported domain types; see pkg/types for details.
type (
	Options      = types.Options
	KeySpec      = types.KeySpec
	SearchResult = types.SearchResult
	Match        = types.Match
	MatchRange   = types.MatchRange
	Accessor     = types.Accessor
)

// DefaultOptions returns the reference option set.
func DefaultOptions() Options {
	return types.Default()
}

// Fuzzdex binds a record collection, its precomputed index, and the
// search options.
//
// Reads and writes follow publish-by-swap: Search loads the current
// index snapshot atomically and never blocks, while Add and RemoveAt
// clone the snapshot, mutate the clone, and publish it. Writers
// serialize among themselves on a mutex.
type Fuzzdex struct {
	opts Options

	writeMu  sync.Mutex
	snapshot atomic.Pointer[index.Index]
}

// New validates opts, indexes records, and returns a ready searcher.
// Records may be structured values resolved through opts.Keys and the
// accessor, or plain strings with no keys declared. The context bounds
// the index build.
func New(ctx context.Context, records []any, opts Options) (*Fuzzdex, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(opts.Keys) == 0 && !allStrings(records) {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidConfiguration, types.ErrNoKeys)
	}

	ks, err := storeFor(opts)
	if err != nil {
		return nil, err
	}
	ix, err := index.Build(ctx, records, ks, opts.Accessor, nil)
	if err != nil {
		return nil, err
	}
	return fromIndex(ix, opts), nil
}

// NewFromIndex wires a previously built or parsed index snapshot. When
// records is non-nil it is attached so results carry item references;
// its length must match the snapshot.
func NewFromIndex(ix *index.Index, records []any, opts Options) (*Fuzzdex, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if records != nil {
		if err := ix.AttachDocs(records); err != nil {
			return nil, err
		}
	}
	return fromIndex(ix, opts), nil
}

func fromIndex(ix *index.Index, opts Options) *Fuzzdex {
	f := &Fuzzdex{opts: opts}
	f.snapshot.Store(ix)
	return f
}

// Search runs one query against the current snapshot. Results are
// discarded state: recreated per call, never retained by the engine.
func (f *Fuzzdex) Search(ctx context.Context, query string) ([]SearchResult, error) {
	return engine.New(f.snapshot.Load(), f.opts).Search(ctx, query)
}

// Add indexes one record incrementally and publishes a new snapshot,
// returning the record id.
func (f *Fuzzdex) Add(record any) int {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	next := f.snapshot.Load().Clone()
	id := next.Add(record)
	f.snapshot.Store(next)
	return id
}

// RemoveAt deletes a record by id and publishes a new snapshot.
// Subsequent record ids shift down by one.
func (f *Fuzzdex) RemoveAt(id int) error {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	next := f.snapshot.Load().Clone()
	if err := next.RemoveAt(id); err != nil {
		return err
	}
	f.snapshot.Store(next)
	return nil
}

// Len reports the number of indexed records in the current snapshot.
func (f *Fuzzdex) Len() int {
	return f.snapshot.Load().Len()
}

// Index exposes the current snapshot, e.g. for serialization.
func (f *Fuzzdex) Index() *index.Index {
	return f.snapshot.Load()
}

func storeFor(opts Options) (*keystore.Store, error) {
	if len(opts.Keys) == 0 {
		return nil, nil
	}
	return keystore.New(opts.Keys)
}

func allStrings(records []any) bool {
	for _, r := range records {
		if _, ok := r.(string); !ok {
			return false
		}
	}
	return true
}
