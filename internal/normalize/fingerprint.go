package normalize

import (
	"html"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// Fingerprint reduces a title to a canonical form used solely for fuzzy
// matching: HTML-entity-decode, NFKD-normalize, strip non-ASCII, strip
// non-alphanumerics, lowercase (spec.md §3, §4.1).
func Fingerprint(title string) string {
	decoded := html.UnescapeString(title)
	folded := norm.NFKD.String(decoded)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r > unicode.MaxASCII {
			continue // drop combining marks and any remaining non-ASCII
		}
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Ratio computes an edit-distance-based similarity ratio between two
// strings, scaled 0-100, equivalent in spirit to Python rapidfuzz's
// fuzz.ratio: identical strings score 100. The distance is Levenshtein, so a
// substitution costs one edit and two equal-length strings never score below
// 50; only strings of very different lengths approach 0.
func Ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 100
	}
	lensum := len(a) + len(b)
	if lensum == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	ratio := float64(lensum-dist) / float64(lensum) * 100
	if ratio < 0 {
		ratio = 0
	}
	return ratio
}

// TitlesMatch reports whether two titles' fingerprints match at the
// spec-mandated threshold of 95.
func TitlesMatch(a, b string) bool {
	return Ratio(Fingerprint(a), Fingerprint(b)) >= 95
}
