// Package domain holds the plain data types shared by the extraction and
// validation stages: references parsed out of a bibliography, and the
// verdicts produced for them.
package domain

// Reference is the extractor's output and the validator's input.
//
// Invariant: Title is non-empty and has at least MinTitleWords words; no
// entry in Authors contains a digit. A Reference is immutable once built by
// the parser.
type Reference struct {
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	DOI         string   `json:"doi,omitempty"`
	ArxivID     string   `json:"arxiv_id,omitempty"`
	RawCitation string   `json:"raw_citation"`
}

// SkipReason explains why a segment did not become a Reference.
type SkipReason string

const (
	SkipURLOnly    SkipReason = "url_only"
	SkipShortTitle SkipReason = "short_title"
	SkipNoTitle    SkipReason = "no_title"
	SkipNoAuthors  SkipReason = "no_authors"
)

// SkipStats tallies why raw segments failed to become References.
type SkipStats struct {
	TotalRaw   int `json:"total_raw"`
	URLOnly    int `json:"url_only"`
	ShortTitle int `json:"short_title"`
	NoTitle    int `json:"no_title"`
	NoAuthors  int `json:"no_authors"`
}

// ExtractionResult is the output of the extraction stage: the ordered
// References successfully parsed plus stats on what was skipped.
type ExtractionResult struct {
	References []Reference `json:"references"`
	Stats      SkipStats   `json:"skip_stats"`
}
