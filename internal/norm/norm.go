// Package norm computes the length-based weighting factor applied to a
// field value's contribution to scoring. Longer values are statistically
// more likely to contain an incidental match, so their contribution per
// character is discounted by 1/sqrt(length).
package norm

import (
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the factor cache. Factors are cheap to
// recompute, so eviction only costs a little floating-point work.
const DefaultCacheSize = 1024

// mantissa rounds cached factors to three decimal places, matching the
// reference scoring output.
const mantissa = 1000.0

type cacheKey struct {
	length int
	weight float64
}

// Normalizer caches norm factors keyed by (length, weight). Safe for
// concurrent use; the LRU cache carries its own lock.
type Normalizer struct {
	cache *lru.Cache[cacheKey, float64]
}

// New creates a Normalizer with the given cache size. Size <= 0 selects
// DefaultCacheSize.
func New(size int) *Normalizer {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[cacheKey, float64](size)
	if err != nil {
		// Only reachable with a non-positive size, which is guarded above.
		panic(fmt.Sprintf("norm: failed to create cache: %v", err))
	}
	return &Normalizer{cache: cache}
}

// Get returns weight / sqrt(max(1, length)), rounded to three decimals.
func (n *Normalizer) Get(length int, weight float64) float64 {
	key := cacheKey{length: length, weight: weight}
	if v, ok := n.cache.Get(key); ok {
		return v
	}

	if length < 1 {
		length = 1
	}
	v := weight / math.Sqrt(float64(length))
	v = math.Round(v*mantissa) / mantissa

	n.cache.Add(key, v)
	return v
}

// Clear drops every cached factor.
func (n *Normalizer) Clear() {
	n.cache.Purge()
}
