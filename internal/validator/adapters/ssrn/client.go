// Package ssrn implements the SSRN database adapter (spec.md §6). No
// teacher package covers this host directly; the client follows the shape
// of this backend's other typed JSON clients.
package ssrn

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

const searchURL = "https://api.ssrn.com/content/v1/search"

type Client struct{}

func New() *Client { return &Client{} }

func (c *Client) Name() string           { return "ssrn" }
func (c *Client) RateLimitGroup() string { return "ssrn" }

func (c *Client) PreFilter(ref domain.Reference) bool {
	return shared.ContainsAnyCue(ref.Title, shared.BiomedicalCues)
}

type searchResponse struct {
	Papers []paper `json:"papers"`
}

type paper struct {
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
	AbsURL  string   `json:"abstract_url"`
}

func (c *Client) Query(ctx context.Context, ref domain.Reference, deadline time.Time) validator.AdapterOutcome {
	qctx, cancel := shared.DeadlineContext(ctx, deadline)
	defer cancel()

	params := url.Values{}
	params.Set("q", normalize.Query(ref.Title, 6))
	params.Set("limit", "5")
	reqURL := fmt.Sprintf("%s?%s", searchURL, params.Encode())

	body, _, out, ok := shared.Get(qctx, reqURL, nil)
	if !ok {
		return out
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return validator.AdapterOutcome{Kind: validator.OutcomeError, ErrorKind: validator.ErrDecode}
	}
	for _, p := range resp.Papers {
		hit := shared.TitleHit(ref, p.Title, p.Authors, p.AbsURL)
		if hit.Kind == validator.OutcomeHit {
			return hit
		}
	}
	return validator.AdapterOutcome{Kind: validator.OutcomeMiss}
}
