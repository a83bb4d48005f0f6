// Package europepmc implements the Europe PMC database adapter (spec.md
// §6). No teacher package covers this host directly; the client follows the
// shape of this backend's other typed JSON clients (pubmed, openalex).
package europepmc

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

const searchURL = "https://www.ebi.ac.uk/europepmc/webservices/rest/search"

type Client struct{}

func New() *Client { return &Client{} }

func (c *Client) Name() string           { return "europepmc" }
func (c *Client) RateLimitGroup() string { return "europepmc" }

func (c *Client) PreFilter(ref domain.Reference) bool {
	return shared.ContainsAnyCue(ref.Title, shared.BiomedicalCues)
}

type searchResponse struct {
	ResultList struct {
		Result []result `json:"result"`
	} `json:"resultList"`
}

type result struct {
	Title         string `json:"title"`
	AuthorString  string `json:"authorString"`
	DOI           string `json:"doi"`
}

func (c *Client) Query(ctx context.Context, ref domain.Reference, deadline time.Time) validator.AdapterOutcome {
	qctx, cancel := shared.DeadlineContext(ctx, deadline)
	defer cancel()

	params := url.Values{}
	params.Set("query", normalize.Query(ref.Title, 6))
	params.Set("format", "json")
	params.Set("pageSize", "5")
	reqURL := fmt.Sprintf("%s?%s", searchURL, params.Encode())

	body, _, out, ok := shared.Get(qctx, reqURL, nil)
	if !ok {
		return out
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return validator.AdapterOutcome{Kind: validator.OutcomeError, ErrorKind: validator.ErrDecode}
	}
	for _, r := range resp.ResultList.Result {
		var authors []string
		if r.AuthorString != "" {
			for _, a := range strings.Split(r.AuthorString, ", ") {
				authors = append(authors, strings.TrimSpace(a))
			}
		}
		paperURL := ""
		if r.DOI != "" {
			paperURL = "https://doi.org/" + r.DOI
		}
		hit := shared.TitleHit(ref, r.Title, authors, paperURL)
		if hit.Kind == validator.OutcomeHit {
			return hit
		}
	}
	return validator.AdapterOutcome{Kind: validator.OutcomeMiss}
}
