// Package offlinefts builds FTS5 MATCH queries for the SQLite-backed DBLP
// and ACL offline adapters, which share one schema
// (publications/authors/publication_authors/publications_fts, spec.md
// §4.5) and one query-construction algorithm.
package offlinefts

import (
	"regexp"
	"sort"
	"strings"

	"github.com/weinshel/hallucinator-sub000/internal/normalize"
)

var splitter = regexp.MustCompile(`[^A-Za-z0-9\-]+`)

type scoredToken struct {
	text  string
	score float64
}

// BuildQuery tokenizes title per spec.md §4.5's offline-adapter query
// algorithm and returns an FTS5 MATCH expression ANDing the top four scored
// tokens, each phrase-quoted. Like normalize.QueryWords, it drops stop words
// and tokens shorter than 3 characters before scoring.
func BuildQuery(title string) string {
	raw := splitter.Split(strings.TrimSpace(title), -1)

	var tokens []string
	for _, t := range raw {
		if len(t) < 3 || normalize.DefaultStopWords[strings.ToLower(t)] {
			continue
		}
		tokens = append(tokens, expandToken(t)...)
	}

	seen := make(map[string]bool, len(tokens))
	var deduped []string
	for _, t := range tokens {
		key := strings.ToLower(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, t)
	}

	scored := make([]scoredToken, 0, len(deduped))
	for i, t := range deduped {
		scored = append(scored, scoredToken{text: t, score: scoreToken(t, i)})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	if len(scored) > 4 {
		scored = scored[:4]
	}

	parts := make([]string, 0, len(scored))
	for _, s := range scored {
		parts = append(parts, `"`+strings.ReplaceAll(s.text, `"`, `""`)+`"`)
	}
	return strings.Join(parts, " AND ")
}

// expandToken drops merged compounds (>12 chars, no hyphen) and long
// acronyms (all-caps >4 chars), and splits hyphenated compounds into their
// 3-12-char parts, per spec.md §4.5.
func expandToken(t string) []string {
	if strings.Contains(t, "-") {
		var parts []string
		for _, p := range strings.Split(t, "-") {
			if len(p) >= 3 && len(p) <= 12 {
				parts = append(parts, p)
			}
		}
		return parts
	}
	if len(t) > 12 {
		return nil
	}
	if isAllCaps(t) && len(t) > 4 {
		return nil
	}
	return []string{t}
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

func scoreToken(t string, position int) float64 {
	score := float64(len(t))
	if len(t) > 0 && t[0] >= 'A' && t[0] <= 'Z' {
		score += 10
	}
	if isAllCaps(t) && len(t) <= 4 {
		score += 5
	}
	score -= 0.5 * float64(position)
	return score
}

// FuzzyMatch reports whether candidateTitle fingerprint-matches title at
// the spec-mandated threshold (spec.md §4.5's offline "fuzzy-match" step).
func FuzzyMatch(title, candidateTitle string) bool {
	return normalize.TitlesMatch(title, candidateTitle)
}
