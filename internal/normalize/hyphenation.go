package normalize

import (
	"regexp"
	"strings"
)

// DefaultCompoundSuffixes is the default compound-suffix set (spec.md §4.1):
// a hyphen before one of these stays a hyphen ("human-centered"); any other
// line-break hyphen is deleted ("detec- tion" -> "detection").
var DefaultCompoundSuffixes = map[string]bool{}

func init() {
	for _, w := range []string{
		"centered", "based", "driven", "aware", "oriented", "specific",
		"related", "dependent", "independent", "like", "free", "friendly",
		"rich", "poor", "scale", "level", "order", "class", "type", "style",
		"wise", "fold", "shot", "step", "time", "world", "source", "domain",
		"task", "modal", "intensive", "efficient", "agnostic", "invariant",
		"sensitive", "grained", "agent", "site",
	} {
		DefaultCompoundSuffixes[w] = true
	}
}

// hyphenBreak matches a letter, a hyphen, whitespace (typically a line
// break), and the start of the next word.
var hyphenBreak = regexp.MustCompile(`([A-Za-z])-\s+([A-Za-z]+)`)

// FixHyphenation repairs hyphenation introduced by line wrapping, using
// suffixes to decide between a genuine compound ("human-centered") and a
// broken word ("detec- tion" -> "detection"). suffixes may be nil, in which
// case DefaultCompoundSuffixes is used.
func FixHyphenation(s string, suffixes map[string]bool) string {
	if suffixes == nil {
		suffixes = DefaultCompoundSuffixes
	}
	return hyphenBreak.ReplaceAllStringFunc(s, func(m string) string {
		sub := hyphenBreak.FindStringSubmatch(m)
		letter, tail := sub[1], sub[2]
		key := strings.ToLower(strings.TrimRight(tail, ".,;:)"))
		if suffixes[key] {
			return letter + "-" + tail
		}
		return letter + tail
	})
}
