// Package app assembles the analysis pipeline from configuration and runs the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/carbonwise/backend/config"
	httpDelivery "github.com/carbonwise/backend/internal/delivery/http"
	"github.com/carbonwise/backend/internal/domain"
	"github.com/carbonwise/backend/internal/infrastructure/cache"
	"github.com/carbonwise/backend/internal/infrastructure/catalog"
	"github.com/carbonwise/backend/internal/infrastructure/llm"
	"github.com/carbonwise/backend/internal/infrastructure/scraper"
	"github.com/carbonwise/backend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// App owns the long-lived dependencies of the service
type App struct {
	Config   *config.Config
	Tables   *catalog.Store
	Analysis *usecase.AnalysisService

	closers []func()
}

// NewTables returns the table store for cfg and loads it eagerly. A load failure is
// logged and retried on first use.
func NewTables(cfg *config.Config) *catalog.Store {
	tables := catalog.NewStore(cfg.Data.EmissionFactorsPath, cfg.Data.CatalogPath)
	if err := tables.Load(); err != nil {
		log.Warn().Err(err).Str("component", "app").Msg("static tables not loaded, will retry on first request")
	}
	return tables
}

// NewEstimator returns the configured LLM client, or nil when no key is configured
func NewEstimator(cfg *config.Config) (domain.CarbonEstimator, error) {
	estimator, err := llm.NewClient(llm.Config{
		Provider:          cfg.LLM.Provider,
		APIKeys:           cfg.LLM.APIKeys,
		Model:             cfg.LLM.Model,
		BaseURL:           cfg.LLM.BaseURL,
		Timeout:           cfg.LLM.Timeout,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
	})
	if errors.Is(err, domain.ErrLLMNoCredentials) {
		log.Warn().Str("component", "app").Msg("no LLM API keys configured, unmatched materials use the default factor")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("component", "app").
		Str("provider", cfg.LLM.Provider).
		Int("keys", len(cfg.LLM.APIKeys)).
		Msg("LLM estimator configured")
	return estimator, nil
}

// New wires every dependency described by cfg. Close releases them.
func New(cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	a.Tables = NewTables(cfg)

	estimator, err := NewEstimator(cfg)
	if err != nil {
		return nil, err
	}

	fetcher := a.newFetcher()

	var responseCache domain.CacheRepository
	if cfg.Cache.Type == "memory" {
		memoryCache := cache.NewMemoryCache()
		janitor, err := cache.NewJanitor(memoryCache, cfg.Cache.CleanupSchedule)
		if err != nil {
			a.Close()
			return nil, err
		}
		janitor.Start()
		a.closers = append(a.closers, janitor.Stop)
		responseCache = memoryCache
	}

	a.Analysis = usecase.NewAnalysisService(
		responseCache,
		scraper.NewPageScraper(fetcher),
		a.Tables,
		estimator,
		usecase.AnalysisServiceConfig{
			CacheTTL:          cfg.Cache.TTL,
			AllowPrivateHosts: cfg.Scraper.AllowPrivateHosts,
		},
	)

	log.Info().
		Str("component", "app").
		Str("scraper", cfg.Scraper.Mode).
		Str("cache", cfg.Cache.Type).
		Dur("cache_ttl", cfg.Cache.TTL).
		Msg("analysis pipeline ready")

	return a, nil
}

// newFetcher honours scraper.mode. If Chromium cannot start the plain HTTP fetcher is used.
func (a *App) newFetcher() scraper.Fetcher {
	timeout := a.Config.Scraper.Timeout
	var opts []scraper.HTTPFetcherOption
	if a.Config.Scraper.AllowPrivateHosts {
		opts = append(opts, scraper.WithPrivateHosts())
	}
	if a.Config.Scraper.Mode != "browser" {
		return scraper.NewHTTPFetcher(timeout, opts...)
	}

	browser, err := scraper.NewBrowserFetcher(timeout)
	if err != nil {
		log.Warn().Err(err).Str("component", "app").Msg("headless browser unavailable, falling back to HTTP fetcher")
		return scraper.NewHTTPFetcher(timeout, opts...)
	}
	a.closers = append(a.closers, func() {
		if err := browser.Close(); err != nil {
			log.Warn().Err(err).Str("component", "app").Msg("failed to close browser")
		}
	})
	return browser
}

// Router returns the gin engine serving the API
func (a *App) Router() *gin.Engine {
	handler := httpDelivery.NewHandler(a.Analysis, a.Tables)
	return httpDelivery.SetupRouter(a.Config, handler)
}

// Serve listens on the configured port until ctx is cancelled, then shuts down gracefully
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", a.Config.Server.Port),
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("component", "app").Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Str("component", "app").Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// Close releases background workers and the browser, newest first
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
