// Package dblp implements the online DBLP database adapter (spec.md §6).
// See adapters/dblpoffline for the SQLite-backed alternative.
package dblp

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

const searchURL = "https://dblp.org/search/publ/api"

type Client struct{}

func New() *Client { return &Client{} }

func (c *Client) Name() string                    { return "dblp" }
func (c *Client) RateLimitGroup() string          { return "dblp" }
func (c *Client) PreFilter(domain.Reference) bool { return true }

type searchResponse struct {
	Result struct {
		Hits struct {
			Hit []hit `json:"hit"`
		} `json:"hits"`
	} `json:"result"`
}

type hit struct {
	Info struct {
		Title   string      `json:"title"`
		Authors interface{} `json:"authors"`
		URL     string      `json:"url"`
	} `json:"info"`
}

func (c *Client) Query(ctx context.Context, ref domain.Reference, deadline time.Time) validator.AdapterOutcome {
	qctx, cancel := shared.DeadlineContext(ctx, deadline)
	defer cancel()

	params := url.Values{}
	params.Set("q", normalize.Query(ref.Title, 6))
	params.Set("format", "json")
	reqURL := fmt.Sprintf("%s?%s", searchURL, params.Encode())

	body, _, out, ok := shared.Get(qctx, reqURL, nil)
	if !ok {
		return out
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return validator.AdapterOutcome{Kind: validator.OutcomeError, ErrorKind: validator.ErrDecode}
	}
	for _, h := range resp.Result.Hits.Hit {
		authors := extractAuthorNames(h.Info.Authors)
		hitOut := shared.TitleHit(ref, h.Info.Title, authors, h.Info.URL)
		if hitOut.Kind == validator.OutcomeHit {
			return hitOut
		}
	}
	return validator.AdapterOutcome{Kind: validator.OutcomeMiss}
}

// extractAuthorNames unpacks DBLP's inconsistently-shaped "authors" field:
// either {"author": {...}} (single author) or {"author": [...]} (several).
func extractAuthorNames(raw interface{}) []string {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}
	authorField, ok := m["author"]
	if !ok {
		return nil
	}
	switch v := authorField.(type) {
	case []interface{}:
		names := make([]string, 0, len(v))
		for _, a := range v {
			if name := authorName(a); name != "" {
				names = append(names, name)
			}
		}
		return names
	default:
		if name := authorName(v); name != "" {
			return []string{name}
		}
	}
	return nil
}

func authorName(v interface{}) string {
	switch a := v.(type) {
	case string:
		return a
	case map[string]interface{}:
		if s, ok := a["text"].(string); ok {
			return s
		}
	}
	return ""
}
