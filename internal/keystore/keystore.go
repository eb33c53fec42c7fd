// Package keystore resolves and weight-normalizes the set of searchable
// keys. Path resolution against records is delegated entirely to the
// accessor; the store only carries paths and normalized weights.
package keystore

import (
	"fmt"
	"strings"

	"github.com/dshills/fuzzdex/pkg/types"
)

// Key is one resolved searchable field. Weight is normalized against the
// heaviest declared key, so the top-weighted key carries a multiplier of
// 1 and the rest scale down proportionally.
type Key struct {
	Name   string   `json:"name"`
	Path   []string `json:"path"`
	Weight float64  `json:"weight"`
}

// Store is an ordered collection of keys. Declaration order is preserved
// for deterministic tie-breaking.
type Store struct {
	keys   []Key
	byName map[string]int
}

// New builds a Store from the declared specs, validating weights and
// name uniqueness and normalizing weights into (0,1].
func New(specs []types.KeySpec) (*Store, error) {
	keys := make([]Key, 0, len(specs))
	byName := make(map[string]int, len(specs))

	maxWeight := 0.0
	for _, spec := range specs {
		k, err := createKey(spec)
		if err != nil {
			return nil, err
		}
		if _, dup := byName[k.Name]; dup {
			return nil, fmt.Errorf("%w: %w: %q", types.ErrInvalidConfiguration, types.ErrDuplicateKey, k.Name)
		}
		byName[k.Name] = len(keys)
		keys = append(keys, k)
		if k.Weight > maxWeight {
			maxWeight = k.Weight
		}
	}

	if maxWeight > 0 {
		for i := range keys {
			keys[i].Weight /= maxWeight
		}
	}

	return &Store{keys: keys, byName: byName}, nil
}

// FromKeys restores a Store from already-normalized keys, as produced by
// a serialized index snapshot. Weights are taken as-is.
func FromKeys(keys []Key) (*Store, error) {
	byName := make(map[string]int, len(keys))
	for i, k := range keys {
		if _, dup := byName[k.Name]; dup {
			return nil, fmt.Errorf("%w: %w: %q", types.ErrInvalidConfiguration, types.ErrDuplicateKey, k.Name)
		}
		byName[k.Name] = i
	}
	return &Store{keys: keys, byName: byName}, nil
}

func createKey(spec types.KeySpec) (Key, error) {
	path := spec.Path
	name := spec.Name
	if len(path) == 0 {
		path = strings.Split(name, ".")
	}
	if name == "" {
		name = strings.Join(path, ".")
	}
	if name == "" {
		return Key{}, fmt.Errorf("%w: key with empty name and path", types.ErrInvalidConfiguration)
	}

	weight := spec.Weight
	if weight == 0 {
		weight = 1
	}
	if weight < 0 {
		return Key{}, fmt.Errorf("%w: %w: key %q has weight %v", types.ErrInvalidConfiguration, types.ErrInvalidWeight, name, spec.Weight)
	}

	return Key{Name: name, Path: path, Weight: weight}, nil
}

// Get returns the key with the given name.
func (s *Store) Get(name string) (Key, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Key{}, false
	}
	return s.keys[i], true
}

// Keys returns every key in declaration order. The slice is shared; do
// not mutate it.
func (s *Store) Keys() []Key {
	return s.keys
}

// Len returns the number of keys.
func (s *Store) Len() int {
	return len(s.keys)
}
