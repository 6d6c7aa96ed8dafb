// Package main provides the slackabout webhook server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raphaelgruber/slackabout-go/internal/config"
	"github.com/raphaelgruber/slackabout-go/internal/db"
	"github.com/raphaelgruber/slackabout-go/internal/metrics"
	"github.com/raphaelgruber/slackabout-go/internal/server"
	"github.com/raphaelgruber/slackabout-go/internal/slack"
	"github.com/raphaelgruber/slackabout-go/internal/stats"
)

const version = "0.1.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger (dual output: stderr text + file JSON)
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	logger.Info("slackabout starting",
		"version", version,
		"surrealdb_url", cfg.SurrealDBURL,
		"port", cfg.ServerPort,
	)

	if cfg.SlackToken == "" {
		logger.Error("SLACK_TOKEN is not set, refusing to accept unauthenticated webhooks")
		os.Exit(1)
	}

	collector := metrics.NewCollector()

	// Connect to database
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	dbCfg := db.Config{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
	}
	dbClient, err := db.NewClient(ctx, dbCfg, logger, collector)
	cancel()
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		logger.Info("closing database connection")
		_ = dbClient.Close(context.Background())
	}()

	// Initialize database schema
	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = dbClient.InitSchema(initCtx)
	cancel()
	if err != nil {
		logger.Error("failed to initialize database schema", "error", err)
		os.Exit(1)
	}

	// Assemble the pipeline
	sender := slack.NewSender(cfg.DeliveryTimeout, logger)
	statsCollector := stats.NewCollector(stats.Dependencies{
		Gateway: dbClient,
		Sink:    sender,
		Logger:  logger,
		Metrics: collector,
	}, cfg.QueryTimeout, cfg.DeliveryTimeout)

	srv := server.New(statsCollector, cfg.SlackToken, logger, collector)

	httpServer := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      srv.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("webhook endpoint available", "addr", httpServer.Addr, "path", "/ask")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down server", "signal", sig)

	// Graceful shutdown with timeout; in-flight deliveries get a moment
	// to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
