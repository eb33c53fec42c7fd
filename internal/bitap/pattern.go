package bitap

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	unorm "golang.org/x/text/unicode/norm"

	"github.com/dshills/fuzzdex/pkg/types"
)

// MaxBits is the native bit-width of the matcher. Patterns longer than
// this are split into chunks, never truncated.
const MaxBits = 32

// chunk is one bit-parallel searchable segment of the pattern.
type chunk struct {
	pattern  []rune
	alphabet map[rune]uint32
	start    int // offset of this segment within the full pattern
}

// Pattern is an immutable compiled query. Bitmasks and chunk boundaries
// are computed once; MatchIn may then be called concurrently.
type Pattern struct {
	text  string // folded pattern
	runes []rune
	opts  types.Options

	chunks []chunk
}

// NewPattern compiles pattern under the given options. An empty pattern
// is legal and matches every text with score 0.
func NewPattern(pattern string, opts types.Options) *Pattern {
	folded := foldText(pattern, opts)
	p := &Pattern{
		text:  folded,
		runes: []rune(folded),
		opts:  opts,
	}
	p.addChunks()
	return p
}

// Empty reports whether the compiled pattern has no characters.
func (p *Pattern) Empty() bool { return len(p.runes) == 0 }

// addChunks splits the pattern into MaxBits-sized segments. The
// remainder segment is anchored at len-MaxBits so it stays full width,
// overlapping the previous segment.
func (p *Pattern) addChunks() {
	n := len(p.runes)
	if n == 0 {
		return
	}
	if n <= MaxBits {
		p.addChunk(p.runes, 0)
		return
	}

	end := n - n%MaxBits
	for i := 0; i < end; i += MaxBits {
		p.addChunk(p.runes[i:i+MaxBits], i)
	}
	if n%MaxBits > 0 {
		start := n - MaxBits
		p.addChunk(p.runes[start:], start)
	}
}

func (p *Pattern) addChunk(pattern []rune, start int) {
	p.chunks = append(p.chunks, chunk{
		pattern:  pattern,
		alphabet: patternAlphabet(pattern),
		start:    start,
	})
}

// patternAlphabet builds the per-character presence bitmasks. Bit
// (len-i-1) marks an occurrence at position i.
func patternAlphabet(pattern []rune) map[rune]uint32 {
	masks := make(map[rune]uint32, len(pattern))
	n := len(pattern)
	for i, r := range pattern {
		masks[r] |= 1 << (n - i - 1)
	}
	return masks
}

// Outcome is the result of matching one pattern against one text value.
// Score is 0 for a perfect match; Indices are inclusive rune ranges and
// are populated only when IncludeMatches is set.
type Outcome struct {
	Score   float64
	Indices []types.MatchRange
}

// MatchIn scores the pattern against text. The second return value is
// false when no window scored within the threshold.
func (p *Pattern) MatchIn(text string) (Outcome, bool) {
	folded := foldText(text, p.opts)
	textRunes := []rune(folded)

	// Empty pattern matches everywhere.
	if len(p.runes) == 0 {
		out := Outcome{Score: 0}
		if p.opts.IncludeMatches && len(textRunes) > 0 {
			out.Indices = []types.MatchRange{{Start: 0, End: len(textRunes) - 1}}
		}
		return out, true
	}

	// Identical strings short-circuit the scan.
	if folded == p.text {
		out := Outcome{Score: 0}
		if p.opts.IncludeMatches {
			out.Indices = []types.MatchRange{{Start: 0, End: len(textRunes) - 1}}
		}
		return out, true
	}

	var (
		total   float64
		indices []types.MatchRange
		matched bool
	)
	for _, c := range p.chunks {
		chunkOpts := p.opts
		chunkOpts.Location = p.opts.Location + c.start

		res := scan(textRunes, c.pattern, c.alphabet, chunkOpts)
		if res.isMatch {
			matched = true
			indices = append(indices, res.indices...)
		}
		total += res.score
	}

	if !matched {
		return Outcome{Score: 1}, false
	}
	return Outcome{
		Score:   total / float64(len(p.chunks)),
		Indices: indices,
	}, true
}

var diacriticStripper = transform.Chain(unorm.NFD, runes.Remove(runes.In(unicode.Mn)), unorm.NFC)

// foldText applies case folding and diacritic stripping per options.
func foldText(s string, opts types.Options) string {
	if !opts.IsCaseSensitive {
		s = strings.ToLower(s)
	}
	if opts.IgnoreDiacritics {
		if stripped, _, err := transform.String(diacriticStripper, s); err == nil {
			s = stripped
		}
	}
	return s
}
