package parser

import (
	"regexp"
	"strings"
)

// DefaultMaxAuthors is the cap on extracted authors (spec.md §4.4 step 8).
const DefaultMaxAuthors = 15

var connectors = map[string]bool{
	"and": true, "de": true, "van": true, "von": true, "la": true,
	"del": true, "di": true,
}

var etAlRe = regexp.MustCompile(`(?i)\bet\s+al\.?`)
var andAmpRe = regexp.MustCompile(`\s+(and|&)\s+`)
var hasDigit = regexp.MustCompile(`\d`)
var hasUpper = regexp.MustCompile(`[A-Z]`)
var hasLower = regexp.MustCompile(`[a-z]`)

// ExtractAuthors extracts an ordered list of author strings from the text
// preceding a title marker (spec.md §4.4 step 8). It normalizes
// conjunctions, drops "et al.", splits on separators, filters implausible
// candidates, and caps the result at maxAuthors (0 means DefaultMaxAuthors).
func ExtractAuthors(prefix string, maxAuthors int) []string {
	if maxAuthors <= 0 {
		maxAuthors = DefaultMaxAuthors
	}
	s := etAlRe.ReplaceAllString(prefix, "")
	s = andAmpRe.ReplaceAllString(s, ", ")

	var rawParts []string
	for _, p := range strings.Split(s, ";") {
		rawParts = append(rawParts, strings.Split(p, ",")...)
	}

	var authors []string
	for _, p := range rawParts {
		cand := strings.TrimSpace(p)
		if cand == "" {
			continue
		}
		if !isPlausibleAuthor(cand) {
			continue
		}
		authors = append(authors, cand)
		if len(authors) >= maxAuthors {
			break
		}
	}
	return authors
}

func isPlausibleAuthor(cand string) bool {
	if hasDigit.MatchString(cand) {
		return false
	}
	tokens := strings.Fields(cand)
	if len(tokens) == 0 || len(tokens) > 5 {
		return false
	}
	if !hasUpper.MatchString(cand) || !hasLower.MatchString(cand) {
		return false
	}
	lowerNonConnector := 0
	for _, tok := range tokens {
		bare := strings.Trim(tok, ".,")
		if bare == "" {
			continue
		}
		if connectors[strings.ToLower(bare)] {
			continue
		}
		r := []rune(bare)[0]
		if r >= 'a' && r <= 'z' {
			lowerNonConnector++
		}
	}
	return lowerNonConnector <= 1
}
