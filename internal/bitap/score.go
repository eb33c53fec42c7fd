package bitap

import "github.com/dshills/fuzzdex/pkg/types"

// computeScore blends edit accuracy with a location penalty.
//
// accuracy is the fraction of the pattern consumed by errors. When the
// location penalty applies, proximity is clamped to [0,1] and blended so
// that position only matters to the extent accuracy is imperfect:
//
//	score = accuracy + proximity*(1-accuracy)
//
// A distance of 0 demands an exact location: any displacement scores a
// full mismatch.
func computeScore(patternLen, errors, currentLocation, expectedLocation int, opts types.Options) float64 {
	accuracy := float64(errors) / float64(patternLen)
	if opts.IgnoreLocation {
		return accuracy
	}

	proximity := currentLocation - expectedLocation
	if proximity < 0 {
		proximity = -proximity
	}

	if opts.Distance == 0 {
		if proximity != 0 {
			return 1
		}
		return accuracy
	}

	p := float64(proximity) / float64(opts.Distance)
	if p > 1 {
		p = 1
	}
	return accuracy + p*(1-accuracy)
}
