package parser

import (
	"regexp"
	"strings"

	"github.com/weinshel/hallucinator-sub000/internal/domain"
	"github.com/weinshel/hallucinator-sub000/internal/normalize"
)

// DefaultMinTitleWords is the minimum word count a title must have to be
// accepted (spec.md §3).
const DefaultMinTitleWords = 4

var doiRe = regexp.MustCompile(`10\.\d{4,9}/\S+`)
var arxivNewRe = regexp.MustCompile(`\d{4}\.\d{4,5}(v\d+)?`)
var arxivOldRe = regexp.MustCompile(`[a-z\-]+/\d{7}`)

// urlRe tolerates whitespace artefacts inside the scheme, e.g. "http s ://".
var urlRe = regexp.MustCompile(`(?i)h\s*t\s*t\s*p\s*s?\s*:\s*/\s*/`)

var emDashRe = regexp.MustCompile(`^[—–-]{2,}\s*,`)

// DefaultAcademicHosts are hosts whose presence exempts a URL-bearing
// segment from the url_only skip (spec.md §4.4 step 2).
var DefaultAcademicHosts = []string{"acm.org", "ieee.org", "usenix.org", "arxiv.org", "doi.org"}

// Parser implements L4: it is pure, and all configuration is injected
// (spec.md §4.4, §9).
type Parser struct {
	MinTitleWords int
	MaxAuthors    int
	AcademicHosts []string
}

// NewParser returns a Parser configured with spec.md's defaults.
func NewParser() *Parser {
	return &Parser{
		MinTitleWords: DefaultMinTitleWords,
		MaxAuthors:    DefaultMaxAuthors,
		AcademicHosts: DefaultAcademicHosts,
	}
}

// ParseReference parses one segment into a Reference, or reports why it was
// skipped. prevAuthors is the author list of the immediately preceding
// reference, used to resolve em-dash continuations; it may be nil.
func (p *Parser) ParseReference(segment string, prevAuthors []string) (domain.Reference, domain.SkipReason, bool) {
	raw := segment
	s := normalize.ExpandLigatures(segment)
	s = normalize.FixHyphenation(s, nil)
	s = strings.Join(strings.Fields(s), " ")

	if p.isURLOnly(s) {
		return domain.Reference{}, domain.SkipURLOnly, false
	}

	doi := extractDOI(s)
	arxivID := extractArxivID(s)

	inherit := emDashRe.MatchString(strings.TrimSpace(s))

	minWords := p.MinTitleWords
	if minWords <= 0 {
		minWords = DefaultMinTitleWords
	}
	tr, ok := ExtractTitle(s, minWords)
	if !ok {
		return domain.Reference{}, domain.SkipShortTitle, false
	}

	var authors []string
	if inherit {
		if len(prevAuthors) == 0 {
			return domain.Reference{}, domain.SkipNoAuthors, false
		}
		authors = append([]string(nil), prevAuthors...)
	} else {
		authors = ExtractAuthors(tr.AuthorPrefix, p.MaxAuthors)
	}

	ref := domain.Reference{
		Title:       tr.Title,
		Authors:     authors,
		DOI:         doi,
		ArxivID:     arxivID,
		RawCitation: raw,
	}
	return ref, "", true
}

func (p *Parser) isURLOnly(s string) bool {
	if !urlRe.MatchString(s) {
		return false
	}
	hosts := p.AcademicHosts
	if hosts == nil {
		hosts = DefaultAcademicHosts
	}
	lower := strings.ToLower(s)
	for _, h := range hosts {
		if strings.Contains(lower, h) {
			return false
		}
	}
	return true
}

func extractDOI(s string) string {
	m := doiRe.FindString(s)
	if m == "" {
		return ""
	}
	m = strings.TrimRight(m, ".,;)")
	return strings.ToLower(m)
}

func extractArxivID(s string) string {
	if m := arxivNewRe.FindString(s); m != "" {
		return m
	}
	if m := arxivOldRe.FindString(s); m != "" {
		return m
	}
	return ""
}
