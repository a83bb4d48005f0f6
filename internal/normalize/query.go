package normalize

import (
	"regexp"
	"strings"
)

// DefaultStopWords is the fixed stop-word set dropped during query-word
// extraction (spec.md §4.1).
var DefaultStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "and": true, "or": true,
	"for": true, "to": true, "in": true, "on": true, "with": true, "by": true,
}

var wordSplitter = regexp.MustCompile(`[^A-Za-z0-9]+`)

// QueryWords tokenizes title on non-alphanumerics, drops stop words and
// tokens shorter than 3 characters, and returns the first n significant
// tokens. If fewer than 3 significant tokens remain, it falls back to the
// raw token list (still capped at n).
func QueryWords(title string, n int) []string {
	if n <= 0 {
		n = 6
	}
	raw := wordSplitter.Split(strings.TrimSpace(title), -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if t != "" {
			tokens = append(tokens, t)
		}
	}

	significant := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if len(t) < 3 {
			continue
		}
		if DefaultStopWords[strings.ToLower(t)] {
			continue
		}
		significant = append(significant, t)
	}

	pool := significant
	if len(pool) < 3 {
		pool = tokens
	}
	if len(pool) > n {
		pool = pool[:n]
	}
	return pool
}

// Query joins QueryWords into a single space-separated search string.
func Query(title string, n int) string {
	return strings.Join(QueryWords(title, n), " ")
}
