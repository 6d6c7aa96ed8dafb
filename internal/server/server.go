// Package server provides the HTTP webhook surface for the slash command,
// with health and metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/raphaelgruber/slackabout-go/internal/metrics"
	"github.com/raphaelgruber/slackabout-go/internal/stats"
)

// StatsService is the slice of the statistics pipeline the webhook needs.
// *stats.Collector satisfies it.
type StatsService interface {
	Collect(ctx context.Context, kind stats.Kind, raw, responseURL string) stats.Ack
}

// Server routes slash-command webhooks to the statistics pipeline.
type Server struct {
	service   StatsService
	authToken string
	logger    *slog.Logger
	metrics   *metrics.Collector
}

// New creates the webhook server. authToken is the shared command
// verification token; requests carrying any other token are rejected.
func New(service StatsService, authToken string, logger *slog.Logger, collector *metrics.Collector) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		service:   service,
		authToken: authToken,
		logger:    logger,
		metrics:   collector,
	}
}

// Handler returns the routed handler with logging middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /stats", s.handleStats)

	return LoggingMiddleware(s.logger)(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.metrics == nil {
		_, _ = w.Write([]byte("{}"))
		return
	}
	if err := json.NewEncoder(w).Encode(s.metrics.Snapshot()); err != nil {
		s.logger.Error("encoding metrics snapshot", "error", err)
	}
}
