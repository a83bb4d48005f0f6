// Package neurips implements the NeurIPS database adapter: a scrape of the
// per-year paper index (spec.md §6). Same stdlib-regex justification as
// adapters/acl — no HTML-parsing library exists anywhere in the example
// pack.
package neurips

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/weinshel/hallucinator-sub000/internal/domain"
	"github.com/weinshel/hallucinator-sub000/internal/validator"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/shared"
)

const indexURLFormat = "https://papers.nips.cc/paper_files/paper/%s/hash/index.html"

type Client struct{}

func New() *Client { return &Client{} }

func (c *Client) Name() string           { return "neurips" }
func (c *Client) RateLimitGroup() string { return "neurips" }

// PreFilter only queries NeurIPS for ML-flavored titles (spec.md §4.5).
func (c *Client) PreFilter(ref domain.Reference) bool {
	return shared.ContainsAnyCue(ref.Title, shared.MLCues)
}

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)
var paperLink = regexp.MustCompile(`(?s)<a[^>]*href="([^"]*Abstract[^"]*)"[^>]*>\s*([^<]+?)\s*</a>`)

func (c *Client) Query(ctx context.Context, ref domain.Reference, deadline time.Time) validator.AdapterOutcome {
	year := yearPattern.FindString(ref.RawCitation)
	if year == "" {
		return validator.AdapterOutcome{Kind: validator.OutcomeMiss}
	}

	qctx, cancel := shared.DeadlineContext(ctx, deadline)
	defer cancel()

	reqURL := fmt.Sprintf(indexURLFormat, year)
	body, _, out, ok := shared.Get(qctx, reqURL, nil)
	if !ok {
		return out
	}

	html := string(body)
	for _, m := range paperLink.FindAllStringSubmatch(html, -1) {
		title := strings.TrimSpace(m[2])
		hit := shared.TitleHit(ref, title, nil, "https://papers.nips.cc"+m[1])
		if hit.Kind == validator.OutcomeHit {
			return hit
		}
	}
	return validator.AdapterOutcome{Kind: validator.OutcomeMiss}
}
