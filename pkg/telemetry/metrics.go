package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Metrics collects installer metrics. A nil *Metrics is a valid no-op
// collector, so callers can wire it unconditionally.
type Metrics struct {
	config MetricsConfig

	apiCalls     *prometheus.CounterVec
	apiDuration  *prometheus.HistogramVec
	steps        *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	hosts        *prometheus.CounterVec

	registry *prometheus.Registry
	server   *http.Server
}

// NewMetrics creates a metrics collector. When the configuration is
// disabled it returns nil, which every method tolerates.
func NewMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return nil
	}

	namespace := cfg.Namespace
	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		apiCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_calls_total",
				Help:      "Total number of Zabbix API calls",
			},
			[]string{"method", "outcome"},
		),
		apiDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_call_duration_seconds",
				Help:      "Duration of Zabbix API calls in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "steps_total",
				Help:      "Total number of pipeline steps executed",
			},
			[]string{"step", "outcome"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "step_duration_seconds",
				Help:      "Duration of pipeline steps in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"step"},
		),
		hosts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "hosts_total",
				Help:      "Total number of host creation attempts",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(m.apiCalls, m.apiDuration, m.steps, m.stepDuration, m.hosts)
	return m
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveCall records one Zabbix API call. Its signature matches the
// client's call observer hook.
func (m *Metrics) ObserveCall(method string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.apiCalls.WithLabelValues(method, outcome(err)).Inc()
	m.apiDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// StepCompleted records one pipeline step outcome.
func (m *Metrics) StepCompleted(step string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.steps.WithLabelValues(step, outcome(err)).Inc()
	m.stepDuration.WithLabelValues(step).Observe(elapsed.Seconds())
}

// HostAttempted records one host creation attempt.
func (m *Metrics) HostAttempted(_ string, err error) {
	if m == nil {
		return
	}
	m.hosts.WithLabelValues(outcome(err)).Inc()
}

// Serve starts the metrics HTTP endpoint in the background. Shutdown
// stops it.
func (m *Metrics) Serve(log zerolog.Logger) {
	if m == nil {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	m.server = &http.Server{Addr: m.config.ListenAddress, Handler: mux}

	go func() {
		log.Info().Str("addr", m.config.ListenAddress).Msg("metrics endpoint listening")
		if err := m.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn().Err(err).Msg("metrics endpoint stopped")
		}
	}()
}

// Shutdown stops the metrics endpoint if it was started.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil || m.server == nil {
		return nil
	}
	return m.server.Shutdown(ctx)
}
