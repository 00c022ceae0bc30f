package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/carbonwise/backend/config"
	"github.com/carbonwise/backend/internal/app"
	httpDelivery "github.com/carbonwise/backend/internal/delivery/http"
	"github.com/carbonwise/backend/internal/logging"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Init("info", "console")
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(cfg.Logging.Level, cfg.Logging.Format)

	log.Info().
		Str("version", httpDelivery.Version).
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache", cfg.Cache.Type).
		Msg("starting CarbonWise backend")

	a, err := app.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Serve(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped")
		a.Close()
		os.Exit(1)
	}
}
