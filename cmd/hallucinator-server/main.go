package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/weinshel/hallucinator-sub000/internal/adminauth"
	"github.com/weinshel/hallucinator-sub000/internal/archive"
	"github.com/weinshel/hallucinator-sub000/internal/config"
	"github.com/weinshel/hallucinator-sub000/internal/extractor"
	"github.com/weinshel/hallucinator-sub000/internal/httpapi"
	"github.com/weinshel/hallucinator-sub000/internal/resultstore"
	"github.com/weinshel/hallucinator-sub000/internal/retraction"
	"github.com/weinshel/hallucinator-sub000/internal/validator"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/acl"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/acloffline"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/arxiv"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/crossref"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/dblp"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/dblpoffline"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/europepmc"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/neurips"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/openalex"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/pubmed"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/semanticscholar"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/ssrn"
	"github.com/weinshel/hallucinator-sub000/internal/validator/ratelimit"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	log.Info().Msg("hallucinator-server starting")

	cfg := config.Load()

	crossrefClient := crossref.New(cfg.Validator.CrossrefMailto)
	adapters, limiter := buildAdapters(cfg, log, crossrefClient)

	var watchlist *retraction.Watchlist
	if cfg.Validator.RetractionListPath != "" {
		w, err := retraction.Load(cfg.Validator.RetractionListPath)
		if err != nil {
			log.Warn().Err(err).Msg("failed to load retraction watchlist, continuing without it")
		} else {
			watchlist = w
			log.Info().Msg("loaded retraction watchlist")
		}
	}

	var store *resultstore.Store
	if cfg.ResultDB.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		s, err := resultstore.Open(ctx, cfg.ResultDB.URL)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("result database unreachable, continuing without persistence")
		} else {
			store = s
			defer store.Close()
			log.Info().Msg("connected to result database")
		}
	}

	var admin *adminauth.Guard
	if cfg.Admin.PasswordHash != "" {
		admin = adminauth.New(cfg.Admin.PasswordHash, cfg.Admin.JWTSecret, cfg.Admin.TokenExpiry)
	}

	handler := httpapi.New(
		extractor.New(),
		adapters,
		limiter,
		crossrefClient,
		crossrefClient,
		watchlist,
		cfg.Validator,
		archive.Limits{MaxFiles: cfg.Archive.MaxFiles, MaxExtractedBytes: cfg.Archive.MaxExtractedBytes},
		store,
		admin,
		cfg.Validator.RetractionListPath,
		log,
	)

	router := httpapi.NewRouter(handler, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server stopped gracefully")
}

// buildAdapters wires every database adapter named in spec.md §4.5, skipping
// those cfg.Validator disables, and seeds the rate-limit registry with the
// higher tiers that become available when a mailto/API key is configured.
func buildAdapters(cfg *config.Config, log zerolog.Logger, crossrefClient *crossref.Client) ([]validator.Adapter, *ratelimit.Registry) {
	limiter := ratelimit.NewRegistry()
	v := cfg.Validator

	var adapters []validator.Adapter
	add := func(name string, a validator.Adapter) {
		if v.IsEnabled(name) {
			adapters = append(adapters, a)
		}
	}

	add("crossref", crossrefClient)
	add("arxiv", arxiv.New())
	add("openalex", openalex.New(v.OpenAlexKey))
	add("semanticscholar", semanticscholar.New(v.S2ApiKey))
	add("europepmc", europepmc.New())
	add("pubmed", pubmed.New())
	add("ssrn", ssrn.New())
	add("neurips", neurips.New())

	if v.DblpOfflinePath != "" {
		c, err := dblpoffline.Open(v.DblpOfflinePath)
		if err != nil {
			log.Warn().Err(err).Msg("dblp offline database unavailable, falling back to network dblp adapter")
			add("dblp", dblp.New())
		} else {
			add("dblp_offline", c)
		}
	} else {
		add("dblp", dblp.New())
	}

	if v.AclOfflinePath != "" {
		c, err := acloffline.Open(v.AclOfflinePath)
		if err != nil {
			log.Warn().Err(err).Msg("acl offline database unavailable, falling back to network acl adapter")
			add("acl", acl.New())
		} else {
			add("acl_offline", c)
		}
	} else {
		add("acl", acl.New())
	}

	if v.CrossrefMailto != "" {
		limiter.SetRate("crossref.polite", 50)
	}
	if v.S2ApiKey != "" {
		limiter.SetRate("semanticscholar.keyed", 10)
	}

	return adapters, limiter
}
