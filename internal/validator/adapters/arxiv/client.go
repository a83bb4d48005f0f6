// Package arxiv implements the arXiv database adapter, adapted from the
// paper-search arXiv Atom-feed client this backend already shipped.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/weinshel/hallucinator-sub000/internal/domain"
	"github.com/weinshel/hallucinator-sub000/internal/normalize"
	"github.com/weinshel/hallucinator-sub000/internal/validator"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/shared"
)

var baseURL = "http://export.arxiv.org/api/query"

type Client struct{}

func New() *Client { return &Client{} }

func (c *Client) Name() string           { return "arxiv" }
func (c *Client) RateLimitGroup() string { return "arxiv" }

// PreFilter only queries arXiv for CS/physics-flavored titles, or when the
// reference already carries an arXiv id (spec.md §4.5).
func (c *Client) PreFilter(ref domain.Reference) bool {
	return ref.ArxivID != "" || shared.ContainsAnyCue(ref.Title, shared.CSPhysicsCues)
}

type feed struct {
	XMLName xml.Name `xml:"feed"`
	Entries []entry  `xml:"entry"`
}

type entry struct {
	ID      string   `xml:"id"`
	Title   string   `xml:"title"`
	Authors []author `xml:"author"`
}

type author struct {
	Name string `xml:"name"`
}

func (c *Client) Query(ctx context.Context, ref domain.Reference, deadline time.Time) validator.AdapterOutcome {
	qctx, cancel := shared.DeadlineContext(ctx, deadline)
	defer cancel()

	params := url.Values{}
	if ref.ArxivID != "" {
		params.Set("id_list", ref.ArxivID)
	} else {
		params.Set("search_query", "all:"+normalize.Query(ref.Title, 6))
		params.Set("max_results", "5")
	}
	reqURL := fmt.Sprintf("%s?%s", baseURL, params.Encode())

	body, _, out, ok := shared.Get(qctx, reqURL, nil)
	if !ok {
		return out
	}

	var f feed
	if err := xml.Unmarshal(body, &f); err != nil {
		return validator.AdapterOutcome{Kind: validator.OutcomeError, ErrorKind: validator.ErrDecode}
	}
	for _, e := range f.Entries {
		authors := make([]string, 0, len(e.Authors))
		for _, a := range e.Authors {
			authors = append(authors, strings.TrimSpace(a.Name))
		}
		id := extractArxivID(e.ID)
		hit := shared.TitleHit(ref, strings.TrimSpace(e.Title), authors, fmt.Sprintf("https://arxiv.org/abs/%s", id))
		if hit.Kind == validator.OutcomeHit {
			return hit
		}
	}
	return validator.AdapterOutcome{Kind: validator.OutcomeMiss}
}

// extractArxivID pulls the bare id out of an entry's full abs URL, e.g.
// "http://arxiv.org/abs/2301.00001v1" -> "2301.00001".
func extractArxivID(fullURL string) string {
	parts := strings.Split(fullURL, "/abs/")
	if len(parts) != 2 {
		return ""
	}
	id := parts[1]
	if idx := strings.LastIndex(id, "v"); idx > 0 {
		versionPart := id[idx+1:]
		isVersion := len(versionPart) > 0
		for _, r := range versionPart {
			if r < '0' || r > '9' {
				isVersion = false
				break
			}
		}
		if isVersion {
			id = id[:idx]
		}
	}
	return id
}
