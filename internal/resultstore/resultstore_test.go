package resultstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weinshel/hallucinator-sub000/internal/domain"
)

// These tests need a real Postgres instance (Save/Get round-trip JSONB
// through pgx) and are skipped unless RESULT_DATABASE_URL_TEST points at
// one — there is no in-process fake for pgxpool in this pack.
func testStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("RESULT_DATABASE_URL_TEST")
	if url == "" {
		t.Skip("RESULT_DATABASE_URL_TEST not set, skipping resultstore integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestSaveAndGet_RoundTrip(t *testing.T) {
	s := testStore(t)
	results := []domain.ValidationResult{
		{Title: "Some Paper", Status: domain.StatusVerified, Source: "crossref"},
	}
	stats := domain.Stats(results, 0)

	ctx := context.Background()
	id, err := s.Save(ctx, "paper.pdf", results, stats)
	require.NoError(t, err)

	batch, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "paper.pdf", batch.Filename)
	require.Len(t, batch.Results, 1)
	assert.Equal(t, "Some Paper", batch.Results[0].Title)
	assert.Equal(t, 1, batch.Stats.Verified)
}

func TestGet_UnknownID(t *testing.T) {
	s := testStore(t)
	_, err := s.Get(context.Background(), uuid.Nil)
	assert.Error(t, err)
}
