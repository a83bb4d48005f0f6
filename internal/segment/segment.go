// Package segment splits a bibliography region into per-entry strings (L3,
// spec.md §4.3).
package segment

import (
	"regexp"
	"strings"
)

// Strategy splits text into segments, or abstains by returning false.
// Custom strategies registered via Segmenter.Use are values, not subclass
// overrides (spec.md §9).
type Strategy func(text string) ([]string, bool)

var (
	ieeePattern     = regexp.MustCompile(`\n\s*\[(\d+)\]\s*`)
	numberedPattern = regexp.MustCompile(`\n\s*(\d+)\.\s+`)
	aaaiPattern     = regexp.MustCompile(`[a-z0-9)]\.\n+[A-Z][a-z]+,`)
)

// minSegments is the threshold a strategy must reach for it to "win" (spec.md §4.3).
const minSegments = 3

// Segmenter tries strategies in order and returns the first result meeting
// minSegments, falling back to paragraph splitting unconditionally.
type Segmenter struct {
	// Custom holds user-registered strategies, tried in registration order
	// before any built-in strategy.
	Custom []Strategy
}

// NewSegmenter returns a Segmenter with no custom strategies registered.
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// Use registers a custom strategy, appended after any previously registered
// ones.
func (s *Segmenter) Use(strategy Strategy) {
	s.Custom = append(s.Custom, strategy)
}

// Segment splits text using, in order: registered custom strategies, IEEE
// bracketed numbering, plain numbering, the AAAI/period heuristic, and
// finally an unconditional paragraph-boundary fallback. The first strategy
// (among the first four) that yields at least minSegments wins; each
// resulting segment is whitespace-trimmed and order is preserved.
func (s *Segmenter) Segment(text string) []string {
	for _, custom := range s.Custom {
		if segs, ok := custom(text); ok && len(segs) >= minSegments {
			return trimAll(segs)
		}
	}
	for _, strat := range []Strategy{splitByPattern(ieeePattern), splitByPattern(numberedPattern), splitAAAI} {
		if segs, ok := strat(text); ok && len(segs) >= minSegments {
			return trimAll(segs)
		}
	}
	return trimAll(splitParagraphs(text))
}

// splitByPattern builds a Strategy that splits text at every match of pat,
// discarding the preamble before the first match.
func splitByPattern(pat *regexp.Regexp) Strategy {
	return func(text string) ([]string, bool) {
		locs := pat.FindAllStringIndex(text, -1)
		if len(locs) == 0 {
			return nil, false
		}
		var segs []string
		for i, loc := range locs {
			start := loc[1]
			end := len(text)
			if i+1 < len(locs) {
				end = locs[i+1][0]
			}
			segs = append(segs, text[start:end])
		}
		return segs, true
	}
}

func splitAAAI(text string) ([]string, bool) {
	locs := aaaiPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil, false
	}
	var segs []string
	prev := 0
	for _, loc := range locs {
		// loc spans "x.\n\nY," — the break point is after the period+newlines,
		// i.e. where the capitalized surname begins. Find it within the match.
		matched := text[loc[0]:loc[1]]
		nlIdx := strings.LastIndexAny(matched, "\n")
		breakAt := loc[0] + nlIdx + 1
		segs = append(segs, text[prev:breakAt])
		prev = breakAt
	}
	segs = append(segs, text[prev:])
	return segs, true
}

func splitParagraphs(text string) []string {
	parts := regexp.MustCompile(`\n\s*\n`).Split(text, -1)
	var segs []string
	for _, p := range parts {
		if len(strings.TrimSpace(p)) >= 20 {
			segs = append(segs, p)
		}
	}
	return segs
}

func trimAll(segs []string) []string {
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		t := strings.TrimSpace(s)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
