package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tendant/presign-service/pkg/presign/api"
	"github.com/tendant/presign-service/pkg/presign/config"
	"github.com/tendant/presign-service/pkg/presign/metrics"
	s3signer "github.com/tendant/presign-service/pkg/presign/storage/s3"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(".env"); err != nil {
		slog.Debug("No .env file found, using process environment", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}

	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		slog.Error("Failed to create logger", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	signer, err := s3signer.New(cfg.S3())
	if err != nil {
		slog.Error("Failed to initialize S3 signer", "err", err)
		os.Exit(1)
	}

	routerConfig := api.RouterConfig{
		Signer: signer,
		Logger: logger,
	}
	if cfg.MetricsEnabled {
		routerConfig.Metrics = metrics.New()
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(routerConfig),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Presign server starting",
			"addr", cfg.Addr(),
			"bucket", cfg.Bucket,
			"endpoint", cfg.Endpoint,
			"region", cfg.Region,
			"extension_mode", cfg.ExtensionMode,
			"metrics", cfg.MetricsEnabled,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "err", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}
