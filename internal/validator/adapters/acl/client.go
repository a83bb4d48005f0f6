// Package acl implements the ACL Anthology database adapter: an HTML
// scrape of the anthology's search page (spec.md §6). No HTML-parsing
// library appears anywhere in the example pack, so extraction here uses
// stdlib regexp rather than a dependency with no pack precedent.
package acl

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/weinshel/hallucinator-sub000/internal/domain"
	"github.com/weinshel/hallucinator-sub000/internal/normalize"
	"github.com/weinshel/hallucinator-sub000/internal/validator"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/shared"
)

const searchURL = "https://aclanthology.org/search/"

type Client struct{}

func New() *Client { return &Client{} }

func (c *Client) Name() string           { return "acl" }
func (c *Client) RateLimitGroup() string { return "acl" }

// PreFilter only queries ACL Anthology for NLP/linguistics-flavored titles
// (spec.md §4.5).
func (c *Client) PreFilter(ref domain.Reference) bool {
	return shared.ContainsAnyCue(ref.Title, shared.NLPCues)
}

// entryBlock matches one search-result card: an h5 title link followed,
// somewhere before the next h5, by one or more author badges.
var entryBlock = regexp.MustCompile(`(?s)<h5[^>]*>.*?<a[^>]*>([^<]+)</a>.*?</h5>(.*?)(?:<h5|\z)`)
var authorBadge = regexp.MustCompile(`(?s)class="badge[^"]*"[^>]*>\s*([^<]+?)\s*<`)

func (c *Client) Query(ctx context.Context, ref domain.Reference, deadline time.Time) validator.AdapterOutcome {
	qctx, cancel := shared.DeadlineContext(ctx, deadline)
	defer cancel()

	params := url.Values{}
	params.Set("q", normalize.Query(ref.Title, 6))
	reqURL := fmt.Sprintf("%s?%s", searchURL, params.Encode())

	body, _, out, ok := shared.Get(qctx, reqURL, nil)
	if !ok {
		return out
	}

	html := string(body)
	for _, m := range entryBlock.FindAllStringSubmatch(html, -1) {
		title := strings.TrimSpace(m[1])
		var authors []string
		for _, am := range authorBadge.FindAllStringSubmatch(m[2], -1) {
			authors = append(authors, strings.TrimSpace(am[1]))
		}
		hit := shared.TitleHit(ref, title, authors, "")
		if hit.Kind == validator.OutcomeHit {
			return hit
		}
	}
	return validator.AdapterOutcome{Kind: validator.OutcomeMiss}
}
