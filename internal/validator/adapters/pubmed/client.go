// Package pubmed implements the PubMed database adapter, adapted from the
// paper-search backend's ESearch/EFetch client.
package pubmed

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

const (
	esearchURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	efetchURL  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

type Client struct{}

func New() *Client { return &Client{} }

func (c *Client) Name() string           { return "pubmed" }
func (c *Client) RateLimitGroup() string { return "pubmed" }

// PreFilter only queries PubMed for biomedical-flavored titles (spec.md
// §4.5).
func (c *Client) PreFilter(ref domain.Reference) bool {
	return shared.ContainsAnyCue(ref.Title, shared.BiomedicalCues)
}

type eSearchResult struct {
	IDList struct {
		IDs []string `xml:"Id"`
	} `xml:"IdList"`
}

type articleSet struct {
	Articles []article `xml:"PubmedArticle"`
}

type article struct {
	MedlineCitation struct {
		Article struct {
			ArticleTitle string `xml:"ArticleTitle"`
			AuthorList   struct {
				Authors []pubmedAuthor `xml:"Author"`
			} `xml:"AuthorList"`
		} `xml:"Article"`
	} `xml:"MedlineCitation"`
	PubmedData struct {
		ArticleIDList struct {
			ArticleIDs []struct {
				IDType string `xml:"IdType,attr"`
				Value  string `xml:",chardata"`
			} `xml:"ArticleId"`
		} `xml:"ArticleIdList"`
	} `xml:"PubmedData"`
}

type pubmedAuthor struct {
	LastName string `xml:"LastName"`
	ForeName string `xml:"ForeName"`
}

func (c *Client) Query(ctx context.Context, ref domain.Reference, deadline time.Time) validator.AdapterOutcome {
	qctx, cancel := shared.DeadlineContext(ctx, deadline)
	defer cancel()

	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", normalize.Query(ref.Title, 6))
	params.Set("retmax", "5")
	params.Set("retmode", "xml")
	searchReqURL := fmt.Sprintf("%s?%s", esearchURL, params.Encode())

	body, _, out, ok := shared.Get(qctx, searchReqURL, nil)
	if !ok {
		return out
	}
	var search eSearchResult
	if err := xml.Unmarshal(body, &search); err != nil {
		return validator.AdapterOutcome{Kind: validator.OutcomeError, ErrorKind: validator.ErrDecode}
	}
	if len(search.IDList.IDs) == 0 {
		return validator.AdapterOutcome{Kind: validator.OutcomeMiss}
	}

	fetchParams := url.Values{}
	fetchParams.Set("db", "pubmed")
	fetchParams.Set("id", strings.Join(search.IDList.IDs, ","))
	fetchParams.Set("retmode", "xml")
	fetchReqURL := fmt.Sprintf("%s?%s", efetchURL, fetchParams.Encode())

	body, _, out, ok = shared.Get(qctx, fetchReqURL, nil)
	if !ok {
		return out
	}
	var set articleSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return validator.AdapterOutcome{Kind: validator.OutcomeError, ErrorKind: validator.ErrDecode}
	}
	for _, a := range set.Articles {
		authors := make([]string, 0, len(a.MedlineCitation.Article.AuthorList.Authors))
		for _, au := range a.MedlineCitation.Article.AuthorList.Authors {
			authors = append(authors, strings.TrimSpace(au.ForeName+" "+au.LastName))
		}
		pmURL := ""
		for _, id := range a.PubmedData.ArticleIDList.ArticleIDs {
			if id.IDType == "doi" {
				pmURL = "https://doi.org/" + id.Value
			}
		}
		hit := shared.TitleHit(ref, a.MedlineCitation.Article.ArticleTitle, authors, pmURL)
		if hit.Kind == validator.OutcomeHit {
			return hit
		}
	}
	return validator.AdapterOutcome{Kind: validator.OutcomeMiss}
}
