package shared

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

func TestGet_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	body, status, _, ok := Get(context.Background(), srv.URL, nil)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "ok")
}

func TestGet_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, _, out, ok := Get(context.Background(), srv.URL, nil)
	require.False(t, ok)
	assert.Equal(t, validator.OutcomeRateLimited, out.Kind)
	assert.Equal(t, 2*time.Second, out.RetryAfter)
}

func TestGet_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, _, out, ok := Get(context.Background(), srv.URL, nil)
	require.False(t, ok)
	assert.Equal(t, validator.OutcomeError, out.Kind)
}

func TestGet_Timeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
	}))
	defer srv.Close()

	_, _, out, ok := Get(ctx, srv.URL, nil)
	require.False(t, ok)
	assert.Equal(t, validator.OutcomeTimeout, out.Kind)
}

func TestTitleHit_MatchAndMiss(t *testing.T) {
	ref := domain.Reference{Title: "Attention Is All You Need"}
	hit := TitleHit(ref, "Attention Is All You Need", []string{"A. Vaswani"}, "https://example.org")
	assert.Equal(t, validator.OutcomeHit, hit.Kind)

	miss := TitleHit(ref, "A Completely Unrelated Paper About Gardening", nil, "")
	assert.Equal(t, validator.OutcomeMiss, miss.Kind)
}

func TestContainsAnyCue(t *testing.T) {
	assert.True(t, ContainsAnyCue("A Clinical Trial of Gene Therapy", BiomedicalCues))
	assert.False(t, ContainsAnyCue("Attention Is All You Need", BiomedicalCues))
}
