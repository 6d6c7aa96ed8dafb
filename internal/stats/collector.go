package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/raphaelgruber/slackabout-go/internal/metrics"
	"github.com/raphaelgruber/slackabout-go/internal/slack"
)

// Collector orchestrates the pipeline: resolve synchronously, then
// aggregate, format and deliver in the background. Each request owns its
// entity and record exclusively; nothing is shared across requests beyond
// the gateway connection.
type Collector struct {
	gateway Gateway
	sink    Sink
	logger  *slog.Logger
	metrics *metrics.Collector

	queryTimeout    time.Duration
	deliveryTimeout time.Duration
}

// NewCollector creates a pipeline collector. queryTimeout bounds one whole
// aggregation (the original design had none and a hung query stalled the
// request forever); deliveryTimeout bounds the callback POST.
func NewCollector(deps Dependencies, queryTimeout, deliveryTimeout time.Duration) *Collector {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if queryTimeout <= 0 {
		queryTimeout = 15 * time.Second
	}
	if deliveryTimeout <= 0 {
		deliveryTimeout = 10 * time.Second
	}

	return &Collector{
		gateway:         deps.Gateway,
		sink:            deps.Sink,
		logger:          logger,
		metrics:         deps.Metrics,
		queryTimeout:    queryTimeout,
		deliveryTimeout: deliveryTimeout,
	}
}

// Collect resolves the identifier and returns the acknowledgement for the
// invoking layer. On successful resolution the statistics are collected
// and delivered to responseURL in the background; the acknowledgement does
// not wait for them. After the acknowledgement, failures are logged only;
// the user simply never receives the follow-up message.
func (c *Collector) Collect(ctx context.Context, kind Kind, raw, responseURL string) Ack {
	if c.sink == nil || responseURL == "" {
		err := &MissingInputError{Reason: "no delivery sink or response url"}
		c.logger.Error("request rejected", "kind", kind.String(), "error", err)
		return AckForError(err)
	}

	start := time.Now()
	entity, err := Resolve(ctx, c.gateway, kind, raw)
	if err != nil {
		c.metrics.RecordError(metrics.OpResolve, time.Since(start))
		c.logResolveFailure(kind, raw, err)
		return AckForError(err)
	}
	c.metrics.RecordTiming(metrics.OpResolve, time.Since(start))

	requestID := uuid.NewString()
	c.logger.Info("entity resolved, collecting statistics",
		"request_id", requestID, "kind", kind.String(), "name", entity.Name)

	// Fire and forget: the continuation outlives the HTTP request that
	// spawned it and reports only through the delivery sink.
	go c.collectAndDeliver(context.WithoutCancel(ctx), requestID, entity, responseURL)

	return Ack{
		Status: http.StatusOK,
		Text:   fmt.Sprintf("Collecting information about %s %s.", kind, entity.Name),
	}
}

// Summarize runs resolution, aggregation and formatting synchronously and
// returns the formatted message instead of delivering it. Used by the CLI.
func (c *Collector) Summarize(ctx context.Context, kind Kind, raw string) (*slack.Message, error) {
	entity, err := Resolve(ctx, c.gateway, kind, raw)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()

	record, err := Aggregate(ctx, c.gateway, entity)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s %s: %w", kind, entity.Name, err)
	}

	msg, err := Format(entity, record)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// collectAndDeliver is the background continuation of one request. The
// aggregation is all-or-nothing: on any query failure nothing is posted.
func (c *Collector) collectAndDeliver(ctx context.Context, requestID string, entity *Entity, responseURL string) {
	queryCtx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()

	start := time.Now()
	record, err := Aggregate(queryCtx, c.gateway, entity)
	if err != nil {
		c.metrics.RecordError(metrics.OpAggregate, time.Since(start))
		c.logger.Error("statistics aggregation failed, nothing delivered",
			"request_id", requestID, "kind", entity.Kind.String(), "name", entity.Name, "error", err)
		return
	}
	c.metrics.RecordTiming(metrics.OpAggregate, time.Since(start))

	msg, err := Format(entity, record)
	if err != nil {
		c.logger.Error("formatting failed, nothing delivered",
			"request_id", requestID, "kind", entity.Kind.String(), "name", entity.Name, "error", err)
		return
	}

	deliveryCtx, cancel := context.WithTimeout(ctx, c.deliveryTimeout)
	defer cancel()

	start = time.Now()
	if err := c.sink.Post(deliveryCtx, responseURL, msg); err != nil {
		// No retry: the acknowledgement went out long ago, the user just
		// never sees a follow-up.
		c.metrics.RecordError(metrics.OpDelivery, time.Since(start))
		c.logger.Error("delivery failed",
			"request_id", requestID, "kind", entity.Kind.String(), "name", entity.Name, "error", err)
		return
	}
	c.metrics.RecordTiming(metrics.OpDelivery, time.Since(start))

	c.logger.Info("statistics delivered",
		"request_id", requestID, "kind", entity.Kind.String(), "name", entity.Name)
}

// logResolveFailure separates expected user errors from gateway failures.
func (c *Collector) logResolveFailure(kind Kind, raw string, err error) {
	var validationErr *ValidationError
	var notFoundErr *NotFoundError
	if errors.As(err, &validationErr) || errors.As(err, &notFoundErr) {
		c.logger.Info("resolution rejected", "kind", kind.String(), "input", raw, "error", err)
		return
	}
	c.logger.Error("resolution failed", "kind", kind.String(), "input", raw, "error", err)
}
