package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/landsplit/internal/config"
	"github.com/JonMunkholm/landsplit/internal/core"
	"github.com/JonMunkholm/landsplit/internal/ingest"
	"github.com/JonMunkholm/landsplit/internal/logging"
	"github.com/JonMunkholm/landsplit/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"ingest_max_concurrent", cfg.Ingest.MaxConcurrent,
		"upload_max_file_size", cfg.Upload.MaxFileSize,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"sheets_credentials", cfg.Sheets.CredentialsFile != "",
	)
	slog.Info("region profile",
		"source", profileSource(cfg),
		"classification_column", cfg.Profile.ClassificationColumn,
		"buckets", cfg.Profile.BucketNames(),
	)

	limiter := core.NewIngestLimiter(cfg.Ingest.MaxConcurrent, cfg.Ingest.MaxWaitTime)
	metrics := core.NewMetrics(core.DefaultMetricsNamespace, func() float64 {
		return float64(limiter.ActiveCount())
	})
	fetcher := ingest.FetcherFromConfig(cfg.Sheets, cfg.Profile.WorksheetIndex)

	service := core.NewService(cfg.Profile, fetcher,
		core.WithLimiter(limiter),
		core.WithMetrics(metrics),
	)

	server := web.NewServer(cfg, service, metrics)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Stop accepting requests; in-flight handlers finish first.
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		if status := limiter.Status(); status.Active > 0 {
			slog.Info("waiting for ingestions to complete", "active", status.Active)
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("ingestions did not complete in time", "error", err)
			}
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}

func profileSource(cfg *config.Config) string {
	if cfg.Source.RegionsFile != "" {
		return cfg.Source.RegionsFile
	}
	return "built-in"
}
