// Package crossref implements the CrossRef database adapter plus the DOI
// resolver and retraction-flag source the validator's fusion step consumes
// (spec.md §4.5 steps 4-5, §6).
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/weinshel/hallucinator-sub000/internal/domain"
	"github.com/weinshel/hallucinator-sub000/internal/normalize"
	"github.com/weinshel/hallucinator-sub000/internal/validator"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/shared"
)

var (
	worksURL = "https://api.crossref.org/works"
	doiURL   = "https://api.crossref.org/works/"
)

// Client is the CrossRef adapter. Mailto puts requests in CrossRef's
// "polite pool" (higher rate limit, spec.md §4.5); it is optional.
type Client struct {
	Mailto string
}

func New(mailto string) *Client {
	return &Client{Mailto: mailto}
}

func (c *Client) Name() string { return "crossref" }

// RateLimitGroup returns the polite-pool group when a mailto is configured,
// else the stricter anonymous group (spec.md §4.5's rate table).
func (c *Client) RateLimitGroup() string {
	if c.Mailto != "" {
		return "crossref.polite"
	}
	return "crossref.anonymous"
}

func (c *Client) PreFilter(domain.Reference) bool { return true }

type worksResponse struct {
	Message struct {
		Items []workItem `json:"items"`
	} `json:"message"`
}

type workItem struct {
	Title        []string `json:"title"`
	Author       []author `json:"author"`
	DOI          string   `json:"DOI"`
	URL          string   `json:"URL"`
	UpdateTo     []struct {
		Type string `json:"type"`
	} `json:"update-to"`
}

type author struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

func (c *Client) Query(ctx context.Context, ref domain.Reference, deadline time.Time) validator.AdapterOutcome {
	qctx, cancel := shared.DeadlineContext(ctx, deadline)
	defer cancel()

	params := url.Values{}
	params.Set("query.title", normalize.Query(ref.Title, 6))
	params.Set("rows", "5")
	if c.Mailto != "" {
		params.Set("mailto", c.Mailto)
	}
	reqURL := fmt.Sprintf("%s?%s", worksURL, params.Encode())

	body, _, out, ok := shared.Get(qctx, reqURL, nil)
	if !ok {
		return out
	}

	var resp worksResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return validator.AdapterOutcome{Kind: validator.OutcomeError, ErrorKind: validator.ErrDecode}
	}
	for _, item := range resp.Message.Items {
		if len(item.Title) == 0 {
			continue
		}
		hit := shared.TitleHit(ref, item.Title[0], authorNames(item.Author), item.URL)
		if hit.Kind == validator.OutcomeHit {
			return hit
		}
	}
	return validator.AdapterOutcome{Kind: validator.OutcomeMiss}
}

func authorNames(authors []author) []string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		if a.Given == "" && a.Family == "" {
			continue
		}
		names = append(names, (a.Given + " " + a.Family))
	}
	return names
}

// ResolveDOI implements validator.DOIResolver by fetching CrossRef's
// canonical record for doi (spec.md §4.5 step 4).
func (c *Client) ResolveDOI(ctx context.Context, doi string) (string, bool) {
	body, _, _, ok := shared.Get(ctx, doiURL+url.PathEscape(doi), nil)
	if !ok {
		return "", false
	}
	var resp struct {
		Message workItem `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Message.Title) == 0 {
		return "", false
	}
	return resp.Message.Title[0], true
}

// CheckRetracted implements validator.RetractionSource using CrossRef's
// update-to metadata, which flags retraction/correction notices attached to
// a work record (spec.md §4.5 step 5).
func (c *Client) CheckRetracted(ctx context.Context, doi string) (string, bool) {
	body, _, _, ok := shared.Get(ctx, doiURL+url.PathEscape(doi), nil)
	if !ok {
		return "", false
	}
	var resp struct {
		Message workItem `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", false
	}
	for _, u := range resp.Message.UpdateTo {
		if u.Type == "retraction" {
			return "retracted per CrossRef update-to metadata", true
		}
	}
	return "", false
}
