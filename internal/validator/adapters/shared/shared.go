// Package shared holds the small pieces every database adapter in
// internal/validator/adapters repeats: an HTTP GET with a deadline, a
// standard outcome mapping for transport failures, and title matching
// against a reference via the L1 fingerprint ratio.
package shared

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/weinshel/hallucinator-sub000/internal/domain"
	"github.com/weinshel/hallucinator-sub000/internal/normalize"
	"github.com/weinshel/hallucinator-sub000/internal/validator"
)

// DefaultHTTPClient is reused across adapters; each request still carries
// its own per-query deadline via the context passed to Get.
var DefaultHTTPClient = &http.Client{}

// Get issues a GET request against url with headers applied, bounded by
// ctx. It returns the response body and status code, or an AdapterOutcome
// already classified as Timeout/Error when the request itself fails —
// callers check ok before using body/status.
func Get(ctx context.Context, url string, headers map[string]string) (body []byte, status int, outcome validator.AdapterOutcome, ok bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, validator.AdapterOutcome{Kind: validator.OutcomeError, ErrorKind: validator.ErrNetwork}, false
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := DefaultHTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, validator.AdapterOutcome{Kind: validator.OutcomeTimeout}, false
		}
		return nil, 0, validator.AdapterOutcome{Kind: validator.OutcomeError, ErrorKind: validator.ErrNetwork}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, resp.StatusCode, RateLimited(resp.Header.Get("Retry-After")), false
	}
	if resp.StatusCode >= 500 {
		return nil, resp.StatusCode, validator.AdapterOutcome{Kind: validator.OutcomeError, ErrorKind: validator.ErrHTTP}, false
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, validator.AdapterOutcome{Kind: validator.OutcomeError, ErrorKind: validator.ErrNetwork}, false
	}
	return b, resp.StatusCode, validator.AdapterOutcome{}, true
}

// RateLimited builds a RateLimited AdapterOutcome, parsing a Retry-After
// header given in seconds when present (spec.md §4.5).
func RateLimited(retryAfterHeader string) validator.AdapterOutcome {
	out := validator.AdapterOutcome{Kind: validator.OutcomeRateLimited}
	if retryAfterHeader == "" {
		return out
	}
	if secs, err := time.ParseDuration(retryAfterHeader + "s"); err == nil {
		out.RetryAfter = secs
	}
	return out
}

// DeadlineContext derives a child context bounded by both ctx and deadline,
// returning the cancel func the caller must defer.
func DeadlineContext(ctx context.Context, deadline time.Time) (context.Context, context.CancelFunc) {
	return context.WithDeadline(ctx, deadline)
}

// TitleHit builds a Hit outcome if candidateTitle fingerprint-matches
// ref.Title at the spec threshold, else a Miss.
func TitleHit(ref domain.Reference, candidateTitle string, authors []string, url string) validator.AdapterOutcome {
	if candidateTitle == "" || !normalize.TitlesMatch(ref.Title, candidateTitle) {
		return validator.AdapterOutcome{Kind: validator.OutcomeMiss}
	}
	return validator.AdapterOutcome{
		Kind:         validator.OutcomeHit,
		FoundTitle:   candidateTitle,
		FoundAuthors: authors,
		URL:          url,
	}
}

// BiomedicalCues is the heuristic keyword list used to pre-filter
// PubMed/Europe PMC/SSRN queries (spec.md §4.5).
var BiomedicalCues = []string{
	"clinical", "patient", "disease", "cancer", "therapy", "diagnosis",
	"medicine", "medical", "health", "cell", "gene", "protein", "drug",
	"treatment", "trial", "biomedical", "genomic", "pathology", "virus",
	"vaccine", "tumor", "surgery", "epidemiology",
}

// CSPhysicsCues gates arXiv pre-filtering.
var CSPhysicsCues = []string{
	"neural", "learning", "algorithm", "network", "quantum", "physics",
	"computation", "transformer", "language model", "optimization",
	"reinforcement", "graph", "computer vision", "robotics",
}

// NLPCues gates ACL Anthology pre-filtering.
var NLPCues = []string{
	"language", "nlp", "linguistic", "translation", "parsing", "semantic",
	"syntax", "dialogue", "text", "corpus", "speech",
}

// MLCues gates NeurIPS pre-filtering.
var MLCues = []string{
	"neural", "learning", "network", "reinforcement", "generative",
	"optimization", "bayesian", "inference", "deep learning",
}

// ContainsAnyCue reports whether title (case-insensitively) contains any of cues.
func ContainsAnyCue(title string, cues []string) bool {
	lower := strings.ToLower(title)
	for _, c := range cues {
		if strings.Contains(lower, c) {
			return true
		}
	}
	return false
}
