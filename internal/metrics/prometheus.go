package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "gatekv"

// Prometheus records request handling metrics.
type Prometheus struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	rejectionsTotal *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	storedKeys      prometheus.Gauge
}

func NewPrometheus() (*Prometheus, error) {
	m := &Prometheus{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Handled requests by command and response status.",
			},
			[]string{"command", "status"},
		),
		rejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rejections_total",
				Help:      "Connections answered without being handled, by reason.",
			},
			[]string{"reason"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Time spent parsing, dispatching and rendering one request.",
				Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05, 0.1},
			},
			[]string{"command"},
		),
		storedKeys: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "stored_keys",
				Help:      "Number of keys in the store.",
			},
		),
	}

	for _, c := range []prometheus.Collector{
		m.requestsTotal,
		m.rejectionsTotal,
		m.requestDuration,
		m.storedKeys,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("metrics register: %w", err)
		}
	}

	return m, nil
}

func (m *Prometheus) ObserveRequest(command, status string, duration time.Duration) {
	m.requestsTotal.WithLabelValues(command, status).Inc()
	m.requestDuration.WithLabelValues(command).Observe(duration.Seconds())
}

func (m *Prometheus) ObserveRejection(reason string) {
	m.rejectionsTotal.WithLabelValues(reason).Inc()
}

func (m *Prometheus) SetStoredKeys(count int) {
	m.storedKeys.Set(float64(count))
}

func (m *Prometheus) Gatherer() prometheus.Gatherer {
	return m.registry
}

func (m *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Serve exposes /metrics on address until ctx is done.
func (m *Prometheus) Serve(ctx context.Context, logger *zap.Logger, address string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	lis, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("listen metrics %s: %w", address, err)
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("serving metrics", zap.String("address", lis.Addr().String()))

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
