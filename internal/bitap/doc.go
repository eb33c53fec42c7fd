// Package bitap implements bit-parallel approximate string matching.
//
// A Pattern is compiled once per query: the (case-folded) pattern is
// split into segments of at most MaxBits characters, and a presence
// bitmask is built per distinct character of each segment. Matching a
// text value then scans it once per allowed error level, tracking all
// substrings within that edit distance of the pattern in a bit vector.
//
// Scores combine edit accuracy with a location penalty:
//
//	accuracy  = errors / patternLength
//	proximity = min(1, |matchStart - location| / distance)
//	score     = accuracy + proximity*(1-accuracy)
//
// A score of 0 is a perfect match at the expected location. Matches
// whose best window exceeds the threshold are reported as no match,
// never as an error. Patterns longer than MaxBits are matched per
// segment and the segment scores averaged, so no pattern is ever
// truncated.
package bitap
