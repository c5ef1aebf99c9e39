// Package gate connects the network layer to the database: it turns raw
// request bytes into framed responses.
package gate

import (
	"errors"
	"time"

	"gatekv/internal/database"
	"gatekv/internal/database/compute"
	"gatekv/internal/database/network"
	"gatekv/internal/database/render"

	"go.uber.org/zap"
)

type Executor interface {
	Execute(request []byte) database.Outcome
	Len() int
}

type Renderer interface {
	Render(outcome database.Outcome) (render.Page, error)
}

type Metrics interface {
	ObserveRequest(command, status string, duration time.Duration)
	ObserveRejection(reason string)
	SetStoredKeys(count int)
}

type Handler struct {
	logger   *zap.Logger
	executor Executor
	renderer Renderer
	metrics  Metrics
}

// NewHandler builds a handler; metrics may be nil.
func NewHandler(logger *zap.Logger, executor Executor, renderer Renderer, metrics Metrics) (*Handler, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if executor == nil || renderer == nil {
		return nil, errors.New("executor and renderer are required")
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &Handler{
		logger:   logger,
		executor: executor,
		renderer: renderer,
		metrics:  metrics,
	}, nil
}

func (h *Handler) HandleRequest(request []byte) []byte {
	start := time.Now()

	outcome := h.executor.Execute(request)
	page := h.render(outcome)

	h.metrics.ObserveRequest(commandLabel(outcome), statusLabel(page.Status), time.Since(start))
	h.metrics.SetStoredKeys(h.executor.Len())

	return page.Bytes()
}

func (h *Handler) HandleRejection(reason error) []byte {
	h.metrics.ObserveRejection(reasonLabel(reason))

	return h.render(database.Failure(reason)).Bytes()
}

func (h *Handler) render(outcome database.Outcome) render.Page {
	page, err := h.renderer.Render(outcome)
	if err != nil {
		h.logger.Error("failed to render response", zap.Error(err))
		return render.Page{Status: network.StatusBadRequest, Body: []byte("Internal error")}
	}

	return page
}

func commandLabel(outcome database.Outcome) string {
	switch {
	case outcome.Skipped():
		return "INDEX"
	case outcome.Command == nil:
		return "NONE"
	}

	if command, ok := compute.ParseCommand(*outcome.Command); ok {
		return command.String()
	}
	return "UNKNOWN"
}

func statusLabel(status string) string {
	if status == network.StatusOK {
		return "200"
	}
	return "400"
}

func reasonLabel(reason error) string {
	switch {
	case errors.Is(reason, network.ErrMessageTooLarge):
		return "message_too_large"
	case errors.Is(reason, network.ErrNoConnectionsAvailable):
		return "no_connections"
	case errors.Is(reason, network.ErrTooManyRequests):
		return "rate_limited"
	default:
		return "other"
	}
}

type noopMetrics struct{}

func (noopMetrics) ObserveRequest(string, string, time.Duration) {}

func (noopMetrics) ObserveRejection(string) {}

func (noopMetrics) SetStoredKeys(int) {}
