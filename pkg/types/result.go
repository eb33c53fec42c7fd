package types

// MatchRange is an inclusive pair of character indices within a value.
type MatchRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Match carries per-key match detail for one result, attached when
// IncludeMatches is enabled. Indices describe the winning value for
// the key.
type Match struct {
	Key     string       `json:"key"`
	Value   string       `json:"value"`
	Indices []MatchRange `json:"indices,omitempty"`
	Score   float64      `json:"score"`
}

// SearchResult is one ranked record reference. Score is present only
// when IncludeScore was set; HasScore distinguishes an absent score
// from a perfect 0.
type SearchResult struct {
	Index    int     `json:"refIndex"`
	Item     any     `json:"item,omitempty"`
	Score    float64 `json:"score,omitempty"`
	HasScore bool    `json:"-"`
	Matches  []Match `json:"matches,omitempty"`
}
