package crossref

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weinshel/hallucinator-sub000/internal/domain"
	"github.com/weinshel/hallucinator-sub000/internal/validator"
)

func withTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestQuery_Hit(t *testing.T) {
	srv := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":{"items":[{"title":["Attention Is All You Need"],"author":[{"given":"Ashish","family":"Vaswani"}],"URL":"https://doi.org/x"}]}}`))
	})
	worksURL = srv.URL

	c := New("")
	ref := domain.Reference{Title: "Attention Is All You Need", Authors: []string{"A. Vaswani"}}
	out := c.Query(context.Background(), ref, time.Now().Add(time.Second))
	require.Equal(t, validator.OutcomeHit, out.Kind)
	assert.Contains(t, out.FoundAuthors, "Ashish Vaswani")
}

func TestQuery_Miss(t *testing.T) {
	srv := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":{"items":[]}}`))
	})
	worksURL = srv.URL

	c := New("")
	ref := domain.Reference{Title: "Attention Is All You Need"}
	out := c.Query(context.Background(), ref, time.Now().Add(time.Second))
	assert.Equal(t, validator.OutcomeMiss, out.Kind)
}

func TestRateLimitGroup_PoliteWithMailto(t *testing.T) {
	assert.Equal(t, "crossref.anonymous", New("").RateLimitGroup())
	assert.Equal(t, "crossref.polite", New("me@example.org").RateLimitGroup())
}

func TestResolveDOI(t *testing.T) {
	srv := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":{"title":["Some Resolved Title"]}}`))
	})
	doiURL = srv.URL + "/"

	c := New("")
	title, ok := c.ResolveDOI(context.Background(), "10.1/xyz")
	require.True(t, ok)
	assert.Equal(t, "Some Resolved Title", title)
}

func TestCheckRetracted(t *testing.T) {
	srv := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":{"update-to":[{"type":"retraction"}]}}`))
	})
	doiURL = srv.URL + "/"

	c := New("")
	_, retracted := c.CheckRetracted(context.Background(), "10.1/xyz")
	assert.True(t, retracted)
}
