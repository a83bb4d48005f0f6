// Package dblpoffline implements DBLP's optional SQLite/FTS5-backed mode
// (spec.md §4.5), querying a locally-built dump instead of the network API
// adapters/dblp uses. The dump itself (N-Triples parse, two-pass URI
// resolution, FTS5 build) is an excluded external collaborator; this
// package only reads the resulting schema.
package dblpoffline

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/weinshel/hallucinator-sub000/internal/domain"
	"github.com/weinshel/hallucinator-sub000/internal/validator"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/offlinefts"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/shared"
	"github.com/weinshel/hallucinator-sub000/internal/verrors"
)

// Client queries a read-only SQLite dump with the
// publications(id,key,title)/authors(id,name)/publication_authors(pub_id,
// author_id)/publications_fts(title) schema spec.md §4.5 names.
type Client struct {
	db *sql.DB
}

// Open opens the SQLite file at path in read-only mode. Config errors here
// surface at construction, never at check time (spec.md §7).
func Open(path string) (*Client, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("dblpoffline: open %s: %w: %w", path, verrors.ErrConfig, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("dblpoffline: ping %s: %w: %w", path, verrors.ErrConfig, err)
	}
	return &Client{db: db}, nil
}

func (c *Client) Close() error { return c.db.Close() }

func (c *Client) Name() string                    { return "dblp_offline" }
func (c *Client) RateLimitGroup() string          { return "dblp_offline" }
func (c *Client) PreFilter(domain.Reference) bool { return true }

func (c *Client) Query(ctx context.Context, ref domain.Reference, deadline time.Time) validator.AdapterOutcome {
	qctx, cancel := shared.DeadlineContext(ctx, deadline)
	defer cancel()

	ftsQuery := offlinefts.BuildQuery(ref.Title)
	if ftsQuery == "" {
		return validator.AdapterOutcome{Kind: validator.OutcomeMiss}
	}

	rows, err := c.db.QueryContext(qctx, `
		SELECT p.id, p.title
		FROM publications p
		JOIN publications_fts f ON f.rowid = p.id
		WHERE publications_fts MATCH ?
		LIMIT 20`, ftsQuery)
	if err != nil {
		if qctx.Err() != nil {
			return validator.AdapterOutcome{Kind: validator.OutcomeTimeout}
		}
		return validator.AdapterOutcome{Kind: validator.OutcomeError, ErrorKind: validator.ErrNetwork}
	}
	defer rows.Close()

	type candidate struct {
		id    int64
		title string
	}
	var candidates []candidate
	for rows.Next() {
		var cand candidate
		if err := rows.Scan(&cand.id, &cand.title); err != nil {
			return validator.AdapterOutcome{Kind: validator.OutcomeError, ErrorKind: validator.ErrDecode}
		}
		candidates = append(candidates, cand)
	}

	for _, cand := range candidates {
		if !offlinefts.FuzzyMatch(ref.Title, cand.title) {
			continue
		}
		authors, err := c.authorsFor(qctx, cand.id)
		if err != nil {
			return validator.AdapterOutcome{Kind: validator.OutcomeError, ErrorKind: validator.ErrNetwork}
		}
		return shared.TitleHit(ref, cand.title, authors, "")
	}
	return validator.AdapterOutcome{Kind: validator.OutcomeMiss}
}

func (c *Client) authorsFor(ctx context.Context, pubID int64) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT a.name
		FROM authors a
		JOIN publication_authors pa ON pa.author_id = a.id
		WHERE pa.pub_id = ?`, pubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}
