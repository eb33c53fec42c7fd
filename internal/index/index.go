package index

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/fuzzdex/internal/accessor"
	"github.com/dshills/fuzzdex/internal/keystore"
	"github.com/dshills/fuzzdex/internal/norm"
	"github.com/dshills/fuzzdex/pkg/types"
)

// Value is one extracted field value with its precomputed norm. Pos is
// the position within an array-valued field, used for stable ordering.
type Value struct {
	Text string  `json:"v"`
	Norm float64 `json:"n"`
	Pos  int     `json:"i,omitempty"`
}

// Record holds the extracted values of one source record, one slot per
// key in declaration order.
type Record struct {
	Index  int       `json:"i"`
	Fields [][]Value `json:"$"`
}

// Index is the precomputed search index: per record and key, the
// extracted values and their norms. Entries are immutable once built;
// reads never touch the raw records again. Mutation (Add/RemoveAt) must
// not be interleaved with concurrent reads of the same instance: the
// intended discipline is to clone, mutate, and publish the new snapshot.
type Index struct {
	keys       *keystore.Store
	accessor   types.Accessor
	normalizer *norm.Normalizer
	records    []Record
	docs       []any
}

// BuildConfig tunes index construction.
type BuildConfig struct {
	Workers   int // concurrent extraction workers (default: runtime.NumCPU())
	CacheSize int // norm cache entries (default: norm.DefaultCacheSize)
	Logger    *zap.Logger
}

// Build extracts and norms every record x key pair. Extraction failures
// (missing or unresolvable paths) are non-fatal: the key contributes no
// value for that record. Build honors ctx cancellation, since its cost
// is unbounded in record count.
func Build(ctx context.Context, docs []any, keys *keystore.Store, acc types.Accessor, cfg *BuildConfig) (*Index, error) {
	if cfg == nil {
		cfg = &BuildConfig{}
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if acc == nil {
		acc = accessor.NewMapWalker()
	}

	ix := &Index{
		keys:       keys,
		accessor:   acc,
		normalizer: norm.New(cfg.CacheSize),
		records:    make([]Record, len(docs)),
		docs:       append([]any(nil), docs...),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range docs {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ix.records[i] = ix.buildRecord(i, docs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("index build canceled: %w", err)
	}

	logger.Debug("index built",
		zap.Int("records", len(ix.records)),
		zap.Int("keys", ix.keySlots()),
		zap.Int("workers", workers),
	)
	return ix, nil
}

// buildRecord extracts every key of one record. With no keys declared
// the record itself is treated as a single string value.
func (ix *Index) buildRecord(id int, doc any) Record {
	rec := Record{Index: id, Fields: make([][]Value, ix.keySlots())}

	if ix.keys == nil || ix.keys.Len() == 0 {
		rec.Fields[0] = ix.extract(doc, nil, 1)
		return rec
	}
	for slot, key := range ix.keys.Keys() {
		rec.Fields[slot] = ix.extract(doc, key.Path, key.Weight)
	}
	return rec
}

func (ix *Index) extract(doc any, path []string, weight float64) []Value {
	leaves := ix.accessor.Resolve(doc, path)
	if len(leaves) == 0 {
		return nil
	}
	values := make([]Value, 0, len(leaves))
	for pos, leaf := range leaves {
		if strings.TrimSpace(leaf) == "" {
			continue
		}
		values = append(values, Value{
			Text: leaf,
			Norm: ix.normalizer.Get(utf8.RuneCountInString(leaf), weight),
			Pos:  pos,
		})
	}
	return values
}

// keySlots is the number of per-record field slots.
func (ix *Index) keySlots() int {
	if ix.keys == nil || ix.keys.Len() == 0 {
		return 1
	}
	return ix.keys.Len()
}

// Add extracts and appends one record, returning its id. Cost is
// proportional to the number of keys, not the index size.
func (ix *Index) Add(doc any) int {
	id := len(ix.records)
	ix.docs = append(ix.docs, doc)
	ix.records = append(ix.records, ix.buildRecord(id, doc))
	return id
}

// RemoveAt deletes the record with the given id and reindexes the
// records after it.
func (ix *Index) RemoveAt(id int) error {
	if id < 0 || id >= len(ix.records) {
		return fmt.Errorf("%w: %d", types.ErrRecordOutOfRange, id)
	}
	ix.records = append(ix.records[:id], ix.records[id+1:]...)
	ix.docs = append(ix.docs[:id], ix.docs[id+1:]...)
	for i := id; i < len(ix.records); i++ {
		ix.records[i].Index = i
	}
	return nil
}

// ValuesForKey returns the ordered values of one record under one key
// slot. Out-of-range arguments yield nil.
func (ix *Index) ValuesForKey(recordID, keySlot int) []Value {
	if recordID < 0 || recordID >= len(ix.records) {
		return nil
	}
	fields := ix.records[recordID].Fields
	if keySlot < 0 || keySlot >= len(fields) {
		return nil
	}
	return fields[keySlot]
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	return len(ix.records)
}

// Doc returns the source record for an id, or nil when the id is stale
// or the index was parsed from a snapshot without records attached.
func (ix *Index) Doc(id int) any {
	if id < 0 || id >= len(ix.docs) {
		return nil
	}
	return ix.docs[id]
}

// Keys returns the key store, which may be nil for plain-string
// collections.
func (ix *Index) Keys() *keystore.Store {
	return ix.keys
}

// AttachDocs binds source records to a parsed snapshot so results can
// carry item references.
func (ix *Index) AttachDocs(docs []any) error {
	if len(docs) != len(ix.records) {
		return fmt.Errorf("%w: have %d records, got %d documents", types.ErrRecordOutOfRange, len(ix.records), len(docs))
	}
	ix.docs = append([]any(nil), docs...)
	return nil
}

// Clone returns a snapshot sharing no slice headers with the original,
// for the publish-by-swap mutation discipline.
func (ix *Index) Clone() *Index {
	records := make([]Record, len(ix.records))
	copy(records, ix.records)
	docs := append([]any(nil), ix.docs...)
	return &Index{
		keys:       ix.keys,
		accessor:   ix.accessor,
		normalizer: ix.normalizer,
		records:    records,
		docs:       docs,
	}
}
