package validator

import (
	"context"
	"sync"

	"github.com/weinshel/hallucinator-sub000/internal/retraction"
)

// DOIResolver resolves a DOI to its registered title via CrossRef's DOI
// endpoint (spec.md §4.5 step 4). Implemented by the crossref adapter.
type DOIResolver interface {
	ResolveDOI(ctx context.Context, doi string) (title string, ok bool)
}

// RetractionSource checks CrossRef's own retraction/update-flag for a DOI
// (spec.md §4.5 step 5, first half: "adapter over CrossRef's retraction
// flag").
type RetractionSource interface {
	CheckRetracted(ctx context.Context, doi string) (notice string, retracted bool)
}

// retractionGate combines the CrossRef-backed RetractionSource with the
// local Watchlist supplement (SPEC_FULL.md §11) into the single check
// fuse() needs.
type retractionGate struct {
	crossref RetractionSource

	mu        sync.RWMutex
	watchlist *retraction.Watchlist
}

func (g *retractionGate) check(ctx context.Context, doi, title string) (notice, source string, retracted bool) {
	if g == nil {
		return "", "", false
	}
	if g.crossref != nil && doi != "" {
		if n, yes := g.crossref.CheckRetracted(ctx, doi); yes {
			return n, "crossref", true
		}
	}
	g.mu.RLock()
	watchlist := g.watchlist
	g.mu.RUnlock()
	if watchlist != nil {
		if e, yes := watchlist.Check(doi, title); yes {
			return e.Notice, "watchlist", true
		}
	}
	return "", "", false
}

func (g *retractionGate) setWatchlist(w *retraction.Watchlist) {
	g.mu.Lock()
	g.watchlist = w
	g.mu.Unlock()
}
