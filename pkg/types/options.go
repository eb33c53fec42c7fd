package types

import "fmt"

// KeySpec declares a searchable field: a path into the record plus a
// relative importance weight. Name may use dot notation ("author.name"),
// in which case Path is derived by splitting on '.'. An explicit Path
// takes precedence over the dotted name.
type KeySpec struct {
	Name   string
	Path   []string
	Weight float64 // > 0; zero means "use the default of 1"
}

// Options controls matching and result formatting. The zero value is not
// usable directly; call Default() or ApplyDefaults() first.
type Options struct {
	// Matching
	IsCaseSensitive    bool // fold case on both pattern and text when false
	IgnoreDiacritics   bool // strip combining marks before matching
	Location           int  // expected match start position
	Distance           int  // decay radius for the location penalty
	Threshold          float64
	IgnoreLocation     bool
	FindAllMatches     bool
	MinMatchCharLength int

	// Scoring
	IgnoreFieldNorm bool // drop the field-length factor from the score exponent

	// Output
	IncludeScore   bool
	IncludeMatches bool
	ShouldSort     bool

	// SortFn orders results when ShouldSort is set. Nil sorts ascending
	// by score, with insertion order breaking ties.
	SortFn func(a, b SearchResult) bool

	// Keys to search. Empty is allowed only for plain-string collections.
	Keys []KeySpec

	// Accessor resolves key paths against records. Nil selects the
	// built-in map walker.
	Accessor Accessor
}

// Default returns the reference option set.
func Default() Options {
	return Options{
		Threshold:          0.6,
		Distance:           100,
		Location:           0,
		MinMatchCharLength: 1,
		ShouldSort:         true,
	}
}

// ApplyDefaults fills zero-valued Distance and MinMatchCharLength with
// the reference defaults. Threshold is left alone: zero is meaningful
// (only perfect matches pass), so start from Default() to get 0.6.
// Boolean fields keep their zero values.
func (o *Options) ApplyDefaults() {
	if o.Distance == 0 {
		o.Distance = 100
	}
	if o.MinMatchCharLength == 0 {
		o.MinMatchCharLength = 1
	}
}

// Validate checks option ranges and key declarations. Every returned
// error wraps ErrInvalidConfiguration.
func (o *Options) Validate() error {
	if o.Threshold < 0 || o.Threshold > 1 {
		return fmt.Errorf("%w: %w: got %v", ErrInvalidConfiguration, ErrInvalidThreshold, o.Threshold)
	}
	if o.Distance < 0 {
		return fmt.Errorf("%w: %w: got %d", ErrInvalidConfiguration, ErrInvalidDistance, o.Distance)
	}
	if o.Location < 0 {
		return fmt.Errorf("%w: %w: got %d", ErrInvalidConfiguration, ErrInvalidLocation, o.Location)
	}
	if o.MinMatchCharLength < 1 {
		return fmt.Errorf("%w: min match char length must be >= 1, got %d", ErrInvalidConfiguration, o.MinMatchCharLength)
	}
	seen := make(map[string]struct{}, len(o.Keys))
	for _, k := range o.Keys {
		if k.Weight < 0 {
			return fmt.Errorf("%w: %w: key %q has weight %v", ErrInvalidConfiguration, ErrInvalidWeight, k.Name, k.Weight)
		}
		if _, dup := seen[k.Name]; dup {
			return fmt.Errorf("%w: %w: %q", ErrInvalidConfiguration, ErrDuplicateKey, k.Name)
		}
		seen[k.Name] = struct{}{}
	}
	return nil
}
