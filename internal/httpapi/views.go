package httpapi

import "github.com/weinshel/hallucinator-sub000/internal/domain"

// resultView mirrors app-rs.py's validation_result_to_dict: the same
// domain.ValidationResult fields, plus a derived error_type the Python
// original exposes separately from status.
type resultView struct {
	domain.ValidationResult
	ErrorType *string `json:"error_type"`
}

func toResultView(r domain.ValidationResult) resultView {
	v := resultView{ValidationResult: r}
	if r.Status != domain.StatusVerified {
		s := string(r.Status)
		v.ErrorType = &s
	}
	return v
}

func toResultViews(results []domain.ValidationResult) []resultView {
	views := make([]resultView, len(results))
	for i, r := range results {
		views[i] = toResultView(r)
	}
	return views
}

// summary mirrors app-rs.py's per-file and aggregate "summary" dict.
type summary struct {
	TotalRaw          int `json:"total_raw"`
	Total             int `json:"total"`
	Verified          int `json:"verified"`
	NotFound          int `json:"not_found"`
	Mismatched        int `json:"mismatched"`
	Skipped           int `json:"skipped"`
	SkippedURL        int `json:"skipped_url"`
	SkippedShortTitle int `json:"skipped_short_title"`
	TitleOnly         int `json:"title_only"`
}

func buildSummary(stats domain.SkipStats, results []domain.ValidationResult) summary {
	s := summary{
		TotalRaw:          stats.TotalRaw,
		Total:             len(results),
		SkippedURL:        stats.URLOnly,
		SkippedShortTitle: stats.ShortTitle,
		TitleOnly:         stats.NoAuthors,
	}
	s.Skipped = s.SkippedURL + s.SkippedShortTitle
	for _, r := range results {
		switch r.Status {
		case domain.StatusVerified:
			s.Verified++
		case domain.StatusNotFound:
			s.NotFound++
		case domain.StatusAuthorMismatch:
			s.Mismatched++
		}
	}
	return s
}

func addSummary(agg *summary, s summary) {
	agg.TotalRaw += s.TotalRaw
	agg.Total += s.Total
	agg.Verified += s.Verified
	agg.NotFound += s.NotFound
	agg.Mismatched += s.Mismatched
	agg.Skipped += s.Skipped
	agg.SkippedURL += s.SkippedURL
	agg.SkippedShortTitle += s.SkippedShortTitle
	agg.TitleOnly += s.TitleOnly
}

// fileResult is one archive member's outcome, matching app-rs.py's
// per-file dict in the multi-PDF response.
type fileResult struct {
	Filename string       `json:"filename"`
	Success  bool         `json:"success"`
	Error    string       `json:"error,omitempty"`
	Summary  *summary     `json:"summary,omitempty"`
	Results  []resultView `json:"results"`
}
