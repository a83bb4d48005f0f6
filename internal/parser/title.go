package parser

import (
	"regexp"
	"strings"

	"github.com/weinshel/hallucinator-sub000/internal/normalize"
)

// DefaultVenueCutoffs are applied, in order, to truncate a non-quoted title
// at the start of venue/publication boilerplate (spec.md §4.4 step 6).
var DefaultVenueCutoffs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\.?\s*\bIn\s+(Proc\.|Proceedings)\b.*$`),
	regexp.MustCompile(`(?i)\b(Proceedings|IEEE|ACM|USENIX|NDSS|CCS|AAAI|WWW|CHI|arXiv)\b.*$`),
	regexp.MustCompile(`(?i)\.?\s*\(\d{4}\).*$`),
	regexp.MustCompile(`(?i)\bvol\.?\s*\d+.*$`),
	regexp.MustCompile(`https?://\S+.*$`),
	regexp.MustCompile(`(?i)\barxiv preprint\b.*$`),
	regexp.MustCompile(`,?\s*pp\.?\s*\d+.*$`),
}

var venueMarkerBoundary = regexp.MustCompile(`(?i)(\.\s*In\s|\.\s*\(?\d{4}\)?|\.\s*(Proceedings|IEEE|ACM|USENIX|NDSS|CCS|AAAI|WWW|CHI|arXiv))`)

var quoteRe = regexp.MustCompile(`"([^"]+)"|“([^”]+)”`)

var acmYearRe = regexp.MustCompile(`\.\s*(19|20)\d{2}\.\s*`)

var journalLocatorRe = regexp.MustCompile(`(?i)\.\s*(Journal|Review|Transactions|Letters)[^,]*,\s*(Vol\.?|vol\.?)?\s*\d*\(?\d*\)?,`)

// titleResult is one candidate title extraction.
type titleResult struct {
	Title        string
	FromQuotes   bool
	AuthorPrefix string // the segment text preceding the title marker
}

// ExtractTitle tries quoted, ACM, USENIX/period, journal, and fallback
// extraction in that strict priority order and returns the first candidate
// whose cleaned title has at least minWords words.
func ExtractTitle(segment string, minWords int) (titleResult, bool) {
	candidates := []func(string) (titleResult, bool){
		extractQuotedTitle,
		extractACMTitle,
		extractUSENIXTitle,
		extractJournalTitle,
		extractFallbackTitle,
	}
	for _, extract := range candidates {
		tr, ok := extract(segment)
		if !ok {
			continue
		}
		cleaned := tr.Title
		if !tr.FromQuotes {
			cleaned = cleanTitle(cleaned)
		}
		cleaned = strings.TrimSpace(strings.Trim(cleaned, ".,;: "))
		if wordCount(cleaned) >= minWords {
			tr.Title = cleaned
			return tr, true
		}
	}
	return titleResult{}, false
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func extractQuotedTitle(segment string) (titleResult, bool) {
	loc := quoteRe.FindStringSubmatchIndex(segment)
	if loc == nil {
		return titleResult{}, false
	}
	var inner string
	if loc[2] >= 0 {
		inner = segment[loc[2]:loc[3]]
	} else {
		inner = segment[loc[4]:loc[5]]
	}
	title := strings.TrimSpace(inner)
	prefix := segment[:loc[0]]

	// If the character right after the closing quote is ':' or '-', append a
	// subtitle up to the next venue marker.
	after := segment[loc[1]:]
	trimmedAfter := strings.TrimLeft(after, " ")
	if strings.HasPrefix(trimmedAfter, ":") || strings.HasPrefix(trimmedAfter, "-") {
		sub := trimmedAfter[1:]
		if idx := venueMarkerBoundary.FindStringIndex(sub); idx != nil {
			sub = sub[:idx[0]]
		}
		sub = strings.TrimSpace(sub)
		if sub != "" {
			title = title + ": " + sub
		}
	}
	return titleResult{Title: title, FromQuotes: true, AuthorPrefix: prefix}, true
}

func extractACMTitle(segment string) (titleResult, bool) {
	loc := acmYearRe.FindStringIndex(segment)
	if loc == nil {
		return titleResult{}, false
	}
	rest := segment[loc[1]:]
	if idx := venueMarkerBoundary.FindStringIndex(rest); idx != nil {
		rest = rest[:idx[0]]
	}
	return titleResult{Title: rest, AuthorPrefix: segment[:loc[0]]}, true
}

func extractUSENIXTitle(segment string) (titleResult, bool) {
	sentences := SplitSentencesSkipInitials(segment, nil)
	if len(sentences) < 2 {
		return titleResult{}, false
	}
	// sentences[0] is the authors sentence; the title is the sentence after
	// it, skipping forward if that sentence still looks author-like.
	for i := 1; i < len(sentences); i++ {
		if looksAuthorLike(sentences[i]) {
			continue
		}
		prefix := strings.Join(sentences[:i], ". ") + "."
		return titleResult{Title: sentences[i], AuthorPrefix: prefix}, true
	}
	return titleResult{}, false
}

func extractJournalTitle(segment string) (titleResult, bool) {
	loc := journalLocatorRe.FindStringIndex(segment)
	if loc == nil {
		return titleResult{}, false
	}
	before := segment[:loc[0]]
	sentences := SplitSentencesSkipInitials(before, nil)
	if len(sentences) == 0 {
		return titleResult{}, false
	}
	title := sentences[len(sentences)-1]
	prefix := strings.Join(sentences[:len(sentences)-1], ". ")
	return titleResult{Title: title, AuthorPrefix: prefix}, true
}

func extractFallbackTitle(segment string) (titleResult, bool) {
	sentences := SplitSentencesSkipInitials(segment, nil)
	if len(sentences) < 2 {
		return titleResult{}, false
	}
	candidate := sentences[1]
	if strings.HasPrefix(strings.TrimSpace(candidate), "In ") || looksAuthorLike(candidate) {
		if len(sentences) < 3 {
			return titleResult{}, false
		}
		candidate = sentences[2]
	}
	return titleResult{Title: candidate, AuthorPrefix: sentences[0]}, true
}

// cleanTitle truncates a non-quoted title at the first genuine
// sentence-ending period (skipping initials, abbreviations, and periods
// glued to the next character as in "Node.js"), applies the venue-cutoff
// regexes, and strips trailing punctuation.
func cleanTitle(title string) string {
	title = normalize.FixHyphenation(title, nil)
	sentences := SplitSentencesSkipInitials(title, nil)
	if len(sentences) > 0 {
		title = sentences[0]
	}
	for _, cutoff := range DefaultVenueCutoffs {
		title = cutoff.ReplaceAllString(title, "")
	}
	return strings.TrimSpace(strings.Trim(title, ".,;:- "))
}
