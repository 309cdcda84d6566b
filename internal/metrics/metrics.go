// Package metrics exposes the dashboard's Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus metric names.
const (
	MetricRendersTotal       = "horas_renders_total"
	MetricDatasetLoadSeconds = "horas_dataset_load_seconds"
	MetricDatasetRows        = "horas_dataset_rows"
	MetricLoginAttemptsTotal = "horas_login_attempts_total"
)

// Render and login outcomes.
const (
	OutcomeOK           = "ok"
	OutcomeEmpty        = "empty"
	OutcomeSourceError  = "source_error"
	OutcomeDataError    = "data_error"
	OutcomeInvalid      = "invalid_credentials"
	OutcomeAuthError    = "error"
	OutcomeLoginSuccess = "success"
)

// Metrics holds the collectors on a private registry.
//
// Safe for concurrent use.
type Metrics struct {
	registry      *prometheus.Registry
	renders       *prometheus.CounterVec
	loadDuration  *prometheus.HistogramVec
	datasetRows   *prometheus.GaugeVec
	loginAttempts *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricRendersTotal,
			Help: "Dashboard renders by outcome.",
		}, []string{"outcome"}),
		loadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricDatasetLoadSeconds,
			Help:    "Time spent downloading and parsing a dataset.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"dataset", "success"}),
		datasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricDatasetRows,
			Help: "Rows read in the last successful load of a dataset.",
		}, []string{"dataset"}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricLoginAttemptsTotal,
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(
		m.renders, m.loadDuration, m.datasetRows, m.loginAttempts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveRender(outcome string) {
	m.renders.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveLoad(dataset string, took time.Duration, rows int, err error) {
	success := "true"
	if err != nil {
		success = "false"
	}
	m.loadDuration.WithLabelValues(dataset, success).Observe(took.Seconds())
	if err == nil {
		m.datasetRows.WithLabelValues(dataset).Set(float64(rows))
	}
}

func (m *Metrics) ObserveLogin(outcome string) {
	m.loginAttempts.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
