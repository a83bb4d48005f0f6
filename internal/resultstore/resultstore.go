// Package resultstore optionally persists validation batches to Postgres,
// keyed by job id, repurposing the teacher's pgx-based repository pattern
// (internal/repository/postgres) for this domain's rows instead of
// papers/users/library entries. Persistence is entirely optional: a nil
// Store means the HTTP layer returns results inline and nothing is written.
package resultstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/weinshel/hallucinator-sub000/internal/domain"
)

// Store persists ValidationResult batches. The schema is a single table:
//
//	CREATE TABLE IF NOT EXISTS validation_batches (
//	    id UUID PRIMARY KEY,
//	    filename TEXT NOT NULL,
//	    stats JSONB NOT NULL,
//	    results JSONB NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL
//	);
type Store struct {
	db *pgxpool.Pool
}

// Batch is one persisted analysis run.
type Batch struct {
	ID        uuid.UUID                `json:"id"`
	Filename  string                   `json:"filename"`
	Stats     domain.CheckStats        `json:"stats"`
	Results   []domain.ValidationResult `json:"results"`
	CreatedAt time.Time                `json:"created_at"`
}

// Open connects to Postgres and ensures the schema exists. Callers should
// treat a non-nil error as non-fatal — the server runs fine without result
// persistence (see internal/config.ResultDBConfig.Enabled).
func Open(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("resultstore: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("resultstore: ping: %w", err)
	}
	s := &Store{db: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("resultstore: schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() {
	s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS validation_batches (
			id UUID PRIMARY KEY,
			filename TEXT NOT NULL,
			stats JSONB NOT NULL,
			results JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`)
	return err
}

// Save inserts one completed (or partial, post-cancellation) batch and
// returns its generated id.
func (s *Store) Save(ctx context.Context, filename string, results []domain.ValidationResult, stats domain.CheckStats) (uuid.UUID, error) {
	id := uuid.New()
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resultstore: marshal stats: %w", err)
	}
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resultstore: marshal results: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO validation_batches (id, filename, stats, results, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		id, filename, statsJSON, resultsJSON, time.Now())
	if err != nil {
		return uuid.Nil, fmt.Errorf("resultstore: insert: %w", err)
	}
	return id, nil
}

// Get retrieves a previously saved batch by id.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*Batch, error) {
	var b Batch
	var statsJSON, resultsJSON []byte
	err := s.db.QueryRow(ctx, `
		SELECT id, filename, stats, results, created_at
		FROM validation_batches WHERE id = $1`, id).
		Scan(&b.ID, &b.Filename, &statsJSON, &resultsJSON, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("resultstore: get %s: %w", id, err)
	}
	if err := json.Unmarshal(statsJSON, &b.Stats); err != nil {
		return nil, fmt.Errorf("resultstore: unmarshal stats: %w", err)
	}
	if err := json.Unmarshal(resultsJSON, &b.Results); err != nil {
		return nil, fmt.Errorf("resultstore: unmarshal results: %w", err)
	}
	return &b, nil
}
