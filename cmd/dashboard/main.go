package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/env-damage-dashboard/internal/adapter/csvsource"
	httpadapter "github.com/couchcryptid/env-damage-dashboard/internal/adapter/http"
	"github.com/couchcryptid/env-damage-dashboard/internal/config"
	"github.com/couchcryptid/env-damage-dashboard/internal/observability"
	"github.com/couchcryptid/env-damage-dashboard/internal/pipeline"
	"github.com/couchcryptid/env-damage-dashboard/internal/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source := csvsource.NewSource(cfg.DataPath, logger)
	clock := clockwork.NewRealClock()
	dash := pipeline.New(source, logger, metrics, clock)

	// The dataset is static for the life of the process; without it there is
	// nothing to serve.
	if err := dash.Load(ctx); err != nil {
		logger.Error("failed to load dataset", "error", err, "path", cfg.DataPath)
		os.Exit(1)
	}

	chartOpts := render.Options{Width: cfg.ChartWidth, Height: cfg.ChartHeight}
	srv := httpadapter.NewServer(cfg.HTTPAddr, dash, metrics, chartOpts, clock, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
