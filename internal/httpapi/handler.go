// Package httpapi is the HTTP collaborator spec.md §1 treats as an excluded
// interface: upload handling, archive ingest, SSE progress streaming, and
// the optional admin route for reloading the retraction watchlist. It is
// pure plumbing around internal/extractor and internal/validator — none of
// the core extraction/validation semantics live here.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/weinshel/hallucinator-sub000/internal/adminauth"
	"github.com/weinshel/hallucinator-sub000/internal/archive"
	"github.com/weinshel/hallucinator-sub000/internal/domain"
	"github.com/weinshel/hallucinator-sub000/internal/extractor"
	"github.com/weinshel/hallucinator-sub000/internal/resultstore"
	"github.com/weinshel/hallucinator-sub000/internal/retraction"
	"github.com/weinshel/hallucinator-sub000/internal/validator"
	"github.com/weinshel/hallucinator-sub000/internal/validator/ratelimit"
)

// Handler wires the extraction/validation core into HTTP. It holds the
// shared adapter set and rate-limit registry once, and builds a
// per-request Validator (cheap: adapters/limiter are reused pointers) so
// per-upload overrides like disabled_dbs don't mutate shared state.
type Handler struct {
	Extractor     *extractor.PdfExtractor
	Adapters      []validator.Adapter
	Limiter       *ratelimit.Registry
	DOI           validator.DOIResolver
	Retractions   validator.RetractionSource
	BaseConfig    domain.ValidatorConfig
	ArchiveLimits archive.Limits
	Store         *resultstore.Store // optional, nil disables persistence
	Admin         *adminauth.Guard
	WatchlistPath string // for /admin/watchlist/reload; empty disables reload
	Log           zerolog.Logger

	watchlist atomic.Pointer[retraction.Watchlist] // current in-memory watchlist, hot-swapped by ReloadWatchlist
}

// New builds a Handler. watchlist may be nil (no local watchlist
// supplement configured).
func New(
	ext *extractor.PdfExtractor,
	adapters []validator.Adapter,
	limiter *ratelimit.Registry,
	doi validator.DOIResolver,
	retractions validator.RetractionSource,
	watchlist *retraction.Watchlist,
	baseConfig domain.ValidatorConfig,
	archiveLimits archive.Limits,
	store *resultstore.Store,
	admin *adminauth.Guard,
	watchlistPath string,
	logger zerolog.Logger,
) *Handler {
	h := &Handler{
		Extractor:     ext,
		Adapters:      adapters,
		Limiter:       limiter,
		DOI:           doi,
		Retractions:   retractions,
		BaseConfig:    baseConfig,
		ArchiveLimits: archiveLimits,
		Store:         store,
		Admin:         admin,
		WatchlistPath: watchlistPath,
		Log:           logger,
	}
	h.watchlist.Store(watchlist)
	return h
}

// buildValidator constructs a fresh Validator over the shared adapters and
// limiter, using cfg (a per-request clone of BaseConfig with overrides
// applied), then loads the current watchlist snapshot into it — so a
// concurrent ReloadWatchlist is picked up by the next request without
// mutating any in-flight Validator.
func (h *Handler) buildValidator(cfg domain.ValidatorConfig) *validator.Validator {
	v := validator.New(cfg, h.Adapters, h.Limiter, h.DOI, h.Retractions, nil)
	v.ReloadWatchlist(h.watchlist.Load())
	return v
}

// requestConfig clones BaseConfig and applies the per-upload overrides the
// original Python app exposed as form fields: disabled_dbs and
// check_openalex_authors. API keys (openalex_key/s2_api_key) stay
// server-wide, fixed at the adapters' construction — generalizing this to
// a per-request override would require reconstructing the keyed adapters
// themselves, which the HTTP layer does not do.
func (h *Handler) requestConfig(r *http.Request) domain.ValidatorConfig {
	cfg := h.BaseConfig
	disabled := map[string]bool{}
	for k, v := range h.BaseConfig.DisabledDbs {
		disabled[k] = v
	}

	if raw := strings.TrimSpace(r.FormValue("disabled_dbs")); raw != "" {
		var names []string
		if err := json.Unmarshal([]byte(raw), &names); err == nil {
			for _, name := range names {
				disabled[name] = true
			}
		}
	}
	cfg.DisabledDbs = disabled
	cfg.CheckOpenAlexAuthors = r.FormValue("check_openalex_authors") == "true" || h.BaseConfig.CheckOpenAlexAuthors

	return cfg
}

const defaultAnalyzeTimeout = 10 * time.Minute
