// Package engine orchestrates matching across the search index and
// aggregates per-key outcomes into ranked results.
//
// For each record the engine matches the compiled pattern against every
// indexed value; under a key the minimum score wins, first occurrence
// breaking ties. Across keys, scores combine through a norm-weighted
// product (the complement form of a weighted probabilistic OR):
//
//	recordScore = prod_k score_k^(weight_k * norm_k)
//
// where a perfect per-key score is lifted to epsilon so weights still
// order perfect matches on different keys, and keys with no extracted
// value or no qualifying match are neutral. Records whose aggregate
// exceeds the threshold are dropped, the rest sorted ascending by score
// with insertion order breaking ties.
package engine
