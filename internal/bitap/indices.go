package bitap

import "github.com/dshills/fuzzdex/pkg/types"

// maskToRanges converts a per-position match mask into inclusive ranges,
// dropping runs shorter than minLength.
func maskToRanges(mask []bool, minLength int) []types.MatchRange {
	var ranges []types.MatchRange
	start := -1
	for i, hit := range mask {
		if hit {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && i-start >= minLength {
			ranges = append(ranges, types.MatchRange{Start: start, End: i - 1})
		}
		start = -1
	}
	if start >= 0 && len(mask)-start >= minLength {
		ranges = append(ranges, types.MatchRange{Start: start, End: len(mask) - 1})
	}
	return ranges
}
