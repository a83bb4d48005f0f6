// Package section locates the bibliography region inside a document's raw
// text (L2, spec.md §4.2).
package section

import "regexp"

// DefaultHeaderPattern matches the first line introducing a references
// section.
var DefaultHeaderPattern = regexp.MustCompile(`(?mi)^\s*(references|bibliography|works cited)\s*$`)

// DefaultEndPattern matches the first line after the header that ends the
// references section.
var DefaultEndPattern = regexp.MustCompile(`(?mi)^\s*(appendix|acknowledg(e)?ments|supplementary)\b`)

// DefaultFallbackFraction is the fraction of the document returned when no
// header is found.
const DefaultFallbackFraction = 0.30

// Locator finds the bibliography region of a document. All fields are
// exported and replaceable, and precompiled once per assignment (spec.md §9).
type Locator struct {
	HeaderPattern    *regexp.Regexp
	EndPattern       *regexp.Regexp
	FallbackFraction float64
}

// NewLocator returns a Locator configured with spec.md's defaults.
func NewLocator() *Locator {
	return &Locator{
		HeaderPattern:    DefaultHeaderPattern,
		EndPattern:       DefaultEndPattern,
		FallbackFraction: DefaultFallbackFraction,
	}
}

// Find returns the bibliography slice of text. It never returns empty for a
// non-empty input: if no header is found, it returns the trailing
// FallbackFraction of the document.
func (l *Locator) Find(text string) string {
	if text == "" {
		return ""
	}
	headerPat := l.HeaderPattern
	if headerPat == nil {
		headerPat = DefaultHeaderPattern
	}
	endPat := l.EndPattern
	if endPat == nil {
		endPat = DefaultEndPattern
	}
	frac := l.FallbackFraction
	if frac <= 0 {
		frac = DefaultFallbackFraction
	}

	loc := headerPat.FindStringIndex(text)
	if loc == nil {
		return fallbackSlice(text, frac)
	}

	rest := text[loc[1]:]
	if endLoc := endPat.FindStringIndex(rest); endLoc != nil {
		rest = rest[:endLoc[0]]
	}
	return rest
}

func fallbackSlice(text string, frac float64) string {
	n := len(text)
	start := n - int(float64(n)*frac)
	if start < 0 {
		start = 0
	}
	return text[start:]
}
