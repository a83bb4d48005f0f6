package domain

// Status is the final verdict for one Reference.
type Status string

const (
	StatusVerified       Status = "verified"
	StatusAuthorMismatch Status = "author_mismatch"
	StatusNotFound       Status = "not_found"
	StatusRetracted      Status = "retracted"
)

// DbStatus is the per-adapter outcome recorded on a ValidationResult.
type DbStatus string

const (
	DbMatch         DbStatus = "match"
	DbNoMatch       DbStatus = "no_match"
	DbAuthorMismatch DbStatus = "author_mismatch"
	DbTimeout       DbStatus = "timeout"
	DbError         DbStatus = "error"
	DbSkipped       DbStatus = "skipped"
)

// DbResult records what one database adapter found for one reference.
type DbResult struct {
	DbName        string   `json:"db_name"`
	Status        DbStatus `json:"status"`
	FoundTitle    string   `json:"found_title,omitempty"`
	FoundAuthors  []string `json:"found_authors,omitempty"`
	URL           string   `json:"url,omitempty"`
}

// DoiInfo is populated when a Reference carries a DOI and CrossRef resolves it.
type DoiInfo struct {
	DOI           string `json:"doi"`
	Valid         bool   `json:"valid"`
	Title         string `json:"title,omitempty"`
	TitleMismatch bool   `json:"title_mismatch,omitempty"`
}

// ArxivInfo is populated when a Reference carries (or resolves to) an arXiv id.
type ArxivInfo struct {
	ArxivID string `json:"arxiv_id"`
	Valid   bool   `json:"valid"`
	Title   string `json:"title,omitempty"`
}

// RetractionInfo records the outcome of the retraction watchlist check.
type RetractionInfo struct {
	IsRetracted bool   `json:"is_retracted"`
	Notice      string `json:"notice,omitempty"`
	Source      string `json:"source,omitempty"`
}

// ValidationResult is the per-reference verdict produced by the validator.
//
// Invariant: Source is set iff Status != StatusNotFound. If
// RetractionInfo.IsRetracted is true then Status == StatusRetracted.
// FailedDbs is always a subset of the set of enabled databases.
type ValidationResult struct {
	Title          string          `json:"title"`
	RawCitation    string          `json:"raw_citation"`
	RefAuthors     []string        `json:"ref_authors"`
	Status         Status          `json:"status"`
	Source         string          `json:"source,omitempty"`
	FoundAuthors   []string        `json:"found_authors,omitempty"`
	PaperURL       string          `json:"paper_url,omitempty"`
	DbResults      []DbResult      `json:"db_results"`
	FailedDbs      []string        `json:"failed_dbs"`
	DoiInfo        *DoiInfo        `json:"doi_info,omitempty"`
	ArxivInfo      *ArxivInfo      `json:"arxiv_info,omitempty"`
	RetractionInfo *RetractionInfo `json:"retraction_info,omitempty"`
}

// CheckStats summarizes a batch of ValidationResult values.
type CheckStats struct {
	Total          int `json:"total"`
	Verified       int `json:"verified"`
	NotFound       int `json:"not_found"`
	AuthorMismatch int `json:"author_mismatch"`
	Retracted      int `json:"retracted"`
	Skipped        int `json:"skipped"`
}

// Stats computes CheckStats over a completed (or partial, post-cancellation)
// batch of results. Skipped reflects references dropped before validation,
// passed in separately since the validator never sees them.
func Stats(results []ValidationResult, skipped int) CheckStats {
	s := CheckStats{Total: len(results), Skipped: skipped}
	for _, r := range results {
		switch r.Status {
		case StatusVerified:
			s.Verified++
		case StatusNotFound:
			s.NotFound++
		case StatusAuthorMismatch:
			s.AuthorMismatch++
		case StatusRetracted:
			s.Retracted++
		}
	}
	return s
}
