// Package semanticscholar implements the Semantic Scholar database adapter,
// adapted from the paper-search backend's Graph API client.
package semanticscholar

import (
	"context"
	"fmt"
	"encoding/json"
	"net/url"
	"time"

	"github.com/weinshel/hallucinator-sub000/internal/domain"
	"github.com/weinshel/hallucinator-sub000/internal/normalize"
	"github.com/weinshel/hallucinator-sub000/internal/validator"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/shared"
)

const apiBaseURL = "https://api.semanticscholar.org/graph/v1"

// Client is the Semantic Scholar adapter. APIKey, when set, both raises the
// host's rate limit tier and is sent as the x-api-key header (spec.md §4.5,
// §6).
type Client struct {
	APIKey string
}

func New(apiKey string) *Client { return &Client{APIKey: apiKey} }

func (c *Client) Name() string { return "semanticscholar" }

func (c *Client) RateLimitGroup() string {
	if c.APIKey != "" {
		return "semanticscholar.keyed"
	}
	return "semanticscholar"
}

func (c *Client) PreFilter(domain.Reference) bool { return true }

type searchResponse struct {
	Data []paperResult `json:"data"`
}

type paperResult struct {
	Title   string       `json:"title"`
	URL     string       `json:"url"`
	Authors []authorInfo `json:"authors"`
}

type authorInfo struct {
	Name string `json:"name"`
}

func (c *Client) Query(ctx context.Context, ref domain.Reference, deadline time.Time) validator.AdapterOutcome {
	qctx, cancel := shared.DeadlineContext(ctx, deadline)
	defer cancel()

	params := url.Values{}
	params.Set("query", normalize.Query(ref.Title, 6))
	params.Set("limit", "5")
	params.Set("fields", "title,url,authors")
	reqURL := fmt.Sprintf("%s/paper/search?%s", apiBaseURL, params.Encode())

	headers := map[string]string{}
	if c.APIKey != "" {
		headers["x-api-key"] = c.APIKey
	}

	body, _, out, ok := shared.Get(qctx, reqURL, headers)
	if !ok {
		return out
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return validator.AdapterOutcome{Kind: validator.OutcomeError, ErrorKind: validator.ErrDecode}
	}
	for _, r := range resp.Data {
		authors := make([]string, 0, len(r.Authors))
		for _, a := range r.Authors {
			if a.Name != "" {
				authors = append(authors, a.Name)
			}
		}
		hit := shared.TitleHit(ref, r.Title, authors, r.URL)
		if hit.Kind == validator.OutcomeHit {
			return hit
		}
	}
	return validator.AdapterOutcome{Kind: validator.OutcomeMiss}
}
