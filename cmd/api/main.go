// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/econlab/indicadores/bcch"
	"github.com/econlab/indicadores/cache"
	"github.com/econlab/indicadores/indicator"
	"github.com/econlab/indicadores/internal/config"
	"github.com/econlab/indicadores/internal/http/routes"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if !cfg.HasCredentials() {
		logger.Warn().Msg("BCCH_USER/BCCH_PASS not set; indicator fetches will fail until configured")
	}

	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load indicator catalog")
	}

	store := newStore(cfg, logger)
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	client := bcch.New(
		bcch.Credentials{User: cfg.BCCHUser, Password: cfg.BCCHPass},
		bcch.WithLogger(logger),
	)
	repo := indicator.NewRepository(store, client,
		indicator.WithTTL(cfg.CacheTTL),
		indicator.WithLogger(logger),
	)

	s := routes.New(routes.ServerOptions{
		Repo:    repo,
		Store:   store,
		Catalog: catalog,
		Log:     logger,
	})
	h := hlog.NewHandler(logger)(s.Router)

	if cfg.RefreshCron != "" {
		c := cron.New()
		_, err := c.AddFunc(cfg.RefreshCron, func() { warmCatalog(store, repo, catalog, logger) })
		if err != nil {
			logger.Fatal().Err(err).Str("spec", cfg.RefreshCron).Msg("invalid REFRESH_CRON")
		}
		c.Start()
		defer c.Stop()
		logger.Info().Str("spec", cfg.RefreshCron).Msg("periodic cache refresh enabled")
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: h}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("starting indicadores api")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}

// newStore picks the cache backend: Badger when a directory is configured,
// in-memory otherwise. A broken Badger directory degrades to memory, the
// cache is never worth refusing to boot over.
func newStore(cfg config.Config, logger zerolog.Logger) cache.Store {
	if cfg.CacheDir == "" {
		logger.Info().Msg("using in-memory cache")
		return cache.NewMemoryStore()
	}
	bs, err := cache.NewBadgerStore(cfg.CacheDir)
	if err != nil {
		logger.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("badger unavailable, falling back to in-memory cache")
		return cache.NewMemoryStore()
	}
	logger.Info().Str("dir", cfg.CacheDir).Msg("using persistent badger cache")
	return bs
}

// warmCatalog drops every indicator entry and refetches the catalog's
// display window so the first dashboard load after a refresh is warm.
func warmCatalog(store cache.Store, repo *indicator.Repository, catalog []config.Indicator, logger zerolog.Logger) {
	store.ClearByPrefix(cache.IndicatorPrefix)

	now := time.Now()
	first := now.AddDate(-1, 0, -7).Format("2006-01-02")
	last := now.Format("2006-01-02")

	for _, ind := range catalog {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		_, err := repo.GetSeries(ctx, ind.SeriesID, first, last)
		cancel()
		if err != nil {
			logger.Warn().Str("series", ind.SeriesID).Err(err).Msg("cache warm failed")
		}
	}
	logger.Info().Int("indicators", len(catalog)).Msg("indicator cache refreshed")
}
