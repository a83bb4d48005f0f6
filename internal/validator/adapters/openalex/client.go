// Package openalex implements the OpenAlex database adapter, adapted from
// the paper-search backend's OpenAlex works-search client.
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/weinshel/hallucinator-sub000/internal/domain"
	"github.com/weinshel/hallucinator-sub000/internal/normalize"
	"github.com/weinshel/hallucinator-sub000/internal/validator"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/shared"
)

const baseURL = "https://api.openalex.org"

// Client is the OpenAlex adapter. APIKey, when set, is sent as the api_key
// query parameter (spec.md §6).
type Client struct {
	APIKey string
}

func New(apiKey string) *Client { return &Client{APIKey: apiKey} }

func (c *Client) Name() string                    { return "openalex" }
func (c *Client) RateLimitGroup() string          { return "openalex" }
func (c *Client) PreFilter(domain.Reference) bool { return true }

type searchResponse struct {
	Results []workResult `json:"results"`
}

type workResult struct {
	Title           string       `json:"title"`
	DisplayName     string       `json:"display_name"`
	Authorships     []authorship `json:"authorships"`
	PrimaryLocation *location    `json:"primary_location"`
	ID              string       `json:"id"`
}

type authorship struct {
	Author struct {
		DisplayName string `json:"display_name"`
	} `json:"author"`
}

type location struct {
	LandingPageURL string `json:"landing_page_url"`
}

func (c *Client) Query(ctx context.Context, ref domain.Reference, deadline time.Time) validator.AdapterOutcome {
	qctx, cancel := shared.DeadlineContext(ctx, deadline)
	defer cancel()

	params := url.Values{}
	params.Set("search", normalize.Query(ref.Title, 6))
	params.Set("per_page", "5")
	if c.APIKey != "" {
		params.Set("api_key", c.APIKey)
	}
	reqURL := fmt.Sprintf("%s/works?%s", baseURL, params.Encode())

	body, _, out, ok := shared.Get(qctx, reqURL, nil)
	if !ok {
		return out
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return validator.AdapterOutcome{Kind: validator.OutcomeError, ErrorKind: validator.ErrDecode}
	}
	for _, w := range resp.Results {
		title := w.Title
		if title == "" {
			title = w.DisplayName
		}
		authors := make([]string, 0, len(w.Authorships))
		for _, a := range w.Authorships {
			if a.Author.DisplayName != "" {
				authors = append(authors, a.Author.DisplayName)
			}
		}
		paperURL := strings.TrimPrefix(w.ID, "https://openalex.org/")
		if w.PrimaryLocation != nil && w.PrimaryLocation.LandingPageURL != "" {
			paperURL = w.PrimaryLocation.LandingPageURL
		}
		hit := shared.TitleHit(ref, title, authors, paperURL)
		if hit.Kind == validator.OutcomeHit {
			return hit
		}
	}
	return validator.AdapterOutcome{Kind: validator.OutcomeMiss}
}
