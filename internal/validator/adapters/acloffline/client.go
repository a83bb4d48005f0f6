// Package acloffline implements ACL Anthology's optional SQLite/FTS5-backed
// mode (spec.md §4.5), mirroring adapters/dblpoffline's schema and query
// construction exactly (publications/authors/publication_authors/
// publications_fts) — the two offline adapters share one storage shape.
package acloffline

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

type Client struct {
	db *sql.DB
}

func Open(path string) (*Client, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("acloffline: open %s: %w: %w", path, verrors.ErrConfig, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("acloffline: ping %s: %w: %w", path, verrors.ErrConfig, err)
	}
	return &Client{db: db}, nil
}

func (c *Client) Close() error { return c.db.Close() }

func (c *Client) Name() string           { return "acl_offline" }
func (c *Client) RateLimitGroup() string { return "acl_offline" }

func (c *Client) PreFilter(ref domain.Reference) bool {
	return shared.ContainsAnyCue(ref.Title, shared.NLPCues)
}

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
