package index

import (
	"encoding/json"
	"fmt"

	"github.com/dshills/fuzzdex/internal/accessor"
	"github.com/dshills/fuzzdex/internal/keystore"
	"github.com/dshills/fuzzdex/internal/norm"
)

// snapshot is the serialized index form: key metadata plus the
// extracted records. Source documents are not part of the snapshot;
// attach them after parsing when item references are needed.
type snapshot struct {
	Keys    []keystore.Key `json:"keys,omitempty"`
	Records []Record       `json:"records"`
}

// MarshalJSON serializes the precomputed index so it can be built once
// and shipped alongside the data.
func (ix *Index) MarshalJSON() ([]byte, error) {
	snap := snapshot{Records: ix.records}
	if ix.keys != nil {
		snap.Keys = ix.keys.Keys()
	}
	return json.Marshal(snap)
}

// Parse restores an index from its serialized form. The returned index
// carries no source documents and the default accessor; use AttachDocs
// before searching if results must reference items.
func Parse(data []byte) (*Index, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}

	var keys *keystore.Store
	if len(snap.Keys) > 0 {
		var err error
		keys, err = keystore.FromKeys(snap.Keys)
		if err != nil {
			return nil, fmt.Errorf("parse index: %w", err)
		}
	}

	return &Index{
		keys:       keys,
		accessor:   accessor.NewMapWalker(),
		normalizer: norm.New(0),
		records:    snap.Records,
		docs:       make([]any, len(snap.Records)),
	}, nil
}
