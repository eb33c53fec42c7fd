package bitap

import "github.com/dshills/fuzzdex/pkg/types"

// scanResult is the raw outcome of one chunk scan.
type scanResult struct {
	isMatch bool
	score   float64
	indices []types.MatchRange
}

// scan runs the bit-parallel approximate search of pattern over text.
// pattern must fit in MaxBits; chunking upstream guarantees that.
//
// The scan proceeds in increasing allowed-error levels. For each level
// a binary search bounds the window of text positions whose location
// penalty alone could still beat the running threshold, then a reverse
// sweep of the bit-vector state detects every substring within that
// many edits. The running threshold tightens as better windows are
// found, which in turn narrows later windows and triggers early exit
// once even a perfectly-located match at the next error level could
// not qualify.
func scan(text, pattern []rune, alphabet map[rune]uint32, opts types.Options) scanResult {
	patternLen := len(pattern)
	textLen := len(text)

	expected := opts.Location
	if expected > textLen {
		expected = textLen
	}

	currentThreshold := opts.Threshold

	computeMatches := opts.MinMatchCharLength > 1 || opts.IncludeMatches
	var matchMask []bool
	if computeMatches {
		matchMask = make([]bool, textLen)
	}

	// Exact-substring prescan. Every literal occurrence tightens the
	// threshold before the expensive error-level loop runs.
	next := expected
	for {
		i := runeIndex(text, pattern, next)
		if i < 0 {
			break
		}
		score := computeScore(patternLen, 0, i, expected, opts)
		if score < currentThreshold {
			currentThreshold = score
		}
		next = i + patternLen

		if computeMatches {
			for j := 0; j < patternLen; j++ {
				matchMask[i+j] = true
			}
		}
	}

	bestLocation := -1
	finalScore := 1.0
	binMax := patternLen + textLen
	mask := uint32(1) << (patternLen - 1)
	var lastBits []uint32

	for i := 0; i < patternLen; i++ {
		// Largest displacement from the expected location that could
		// still score within the running threshold at this error level.
		binMin := 0
		binMid := binMax
		for binMin < binMid {
			mid := binMin + (binMax-binMin)/2
			if computeScore(patternLen, i, expected+mid, expected, opts) <= currentThreshold {
				binMin = mid
			} else {
				binMax = mid
			}
			binMid = binMin + (binMax-binMin)/2
		}
		binMax = binMid

		start := expected - binMid + 1
		if start < 1 {
			start = 1
		}
		var finish int
		if opts.FindAllMatches {
			finish = textLen
		} else {
			finish = expected + binMid
			if finish > textLen {
				finish = textLen
			}
			finish += patternLen
		}

		bits := make([]uint32, finish+2)
		bits[finish+1] = (1 << i) - 1

		for j := finish; j >= start; j-- {
			currentLocation := j - 1
			var charMatch uint32
			if currentLocation < textLen {
				charMatch = alphabet[text[currentLocation]]
				if computeMatches {
					matchMask[currentLocation] = charMatch != 0
				}
			}

			// Exact-match transition, then substitution, insertion and
			// deletion transitions from the previous error level.
			bits[j] = ((bits[j+1] << 1) | 1) & charMatch
			if i > 0 {
				var prev, prevShifted uint32
				if j < len(lastBits) {
					prev = lastBits[j]
				}
				if j+1 < len(lastBits) {
					prevShifted = lastBits[j+1]
				}
				bits[j] |= ((prevShifted | prev) << 1) | 1 | prevShifted
			}

			if bits[j]&mask != 0 {
				finalScore = computeScore(patternLen, i, currentLocation, expected, opts)

				if finalScore <= currentThreshold {
					currentThreshold = finalScore
					bestLocation = currentLocation

					// Locations before the expected one can only score
					// worse from here on.
					if bestLocation <= expected {
						break
					}
					start = 2*expected - bestLocation
					if start < 1 {
						start = 1
					}
				}
			}
		}

		// One more error at the ideal location already exceeds the
		// threshold, so deeper levels cannot qualify.
		if computeScore(patternLen, i+1, expected, expected, opts) > currentThreshold {
			break
		}
		lastBits = bits
	}

	result := scanResult{
		isMatch: bestLocation >= 0,
		score:   finalScore,
	}

	if computeMatches {
		ranges := maskToRanges(matchMask, opts.MinMatchCharLength)
		if len(ranges) == 0 {
			result.isMatch = false
		} else if opts.IncludeMatches {
			result.indices = ranges
		}
	}
	return result
}

// runeIndex returns the first occurrence of pattern in text at or after
// from, or -1.
func runeIndex(text, pattern []rune, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i+len(pattern) <= len(text); i++ {
		found := true
		for j := range pattern {
			if text[i+j] != pattern[j] {
				found = false
				break
			}
		}
		if found {
			return i
		}
	}
	return -1
}
