package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Sender posts formatted messages to Slack response URLs. Failed deliveries
// are never retried; a circuit breaker stops hammering an endpoint that
// keeps failing and a rate limiter keeps outbound traffic within Slack's
// tolerance.
type Sender struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewSender creates a delivery sink with the given per-request timeout.
func NewSender(timeout time.Duration, logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:        "slack-delivery",
		MaxRequests: 2,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("delivery breaker state change", "from", from.String(), "to", to.String())
		},
	}

	return &Sender{
		httpClient: &http.Client{Timeout: timeout},
		breaker:    gobreaker.NewCircuitBreaker(settings),
		// Slack asks integrations to stay around one message per second.
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		logger:  logger,
	}
}

// Post delivers msg to the given response URL. Non-2xx responses are
// errors. The response body is drained and discarded beyond logging.
func (s *Sender) Post(ctx context.Context, url string, msg Message) error {
	if url == "" {
		return fmt.Errorf("post message: empty response url")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	_, err = s.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("execute request: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("slack returned %s: %s", resp.Status, string(respBody))
		}

		s.logger.Debug("message delivered", "url", url, "status", resp.Status)
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	return nil
}
