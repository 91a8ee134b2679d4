// Package monitoring exposes Prometheus metrics for the predictor.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prediction outcomes.
const (
	OutcomeOK             = "ok"
	OutcomeCached         = "cached"
	OutcomeSchemaMismatch = "schema_mismatch"
	OutcomeInvalidInput   = "invalid_input"
	OutcomeError          = "error"
)

// Metrics holds the service collectors on their own registry.
type Metrics struct {
	registry *prometheus.Registry

	predictions     *prometheus.CounterVec
	latency         prometheus.Histogram
	predictedSalary prometheus.Histogram
	modelInfo       *prometheus.GaugeVec
	artifactChanges prometheus.Counter
	httpRequests    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "salary", Subsystem: "predictor", Name: "predictions_total", Help: "Prediction requests by outcome."},
			[]string{"outcome"},
		),
		latency: prometheus.NewHistogram(
			prometheus.HistogramOpts{Namespace: "salary", Subsystem: "predictor", Name: "inference_seconds", Help: "Model inference latency.", Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10)},
		),
		predictedSalary: prometheus.NewHistogram(
			prometheus.HistogramOpts{Namespace: "salary", Subsystem: "predictor", Name: "predicted_lpa", Help: "Distribution of predicted salaries in LPA.", Buckets: prometheus.LinearBuckets(0, 5, 12)},
		),
		modelInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Namespace: "salary", Subsystem: "model", Name: "info", Help: "Loaded model artifact; value is always 1."},
			[]string{"type", "version", "path"},
		),
		artifactChanges: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: "salary", Subsystem: "model", Name: "artifact_changes_total", Help: "Changes to the artifact file seen since the model was loaded."},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "salary", Subsystem: "http", Name: "requests_total", Help: "HTTP requests by route and status code."},
			[]string{"method", "route", "code"},
		),
	}
	m.registry.MustRegister(
		m.predictions,
		m.latency,
		m.predictedSalary,
		m.modelInfo,
		m.artifactChanges,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObservePrediction(outcome string, took time.Duration, salary float64) {
	m.predictions.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		m.latency.Observe(took.Seconds())
	}
	if outcome == OutcomeOK || outcome == OutcomeCached {
		m.predictedSalary.Observe(salary)
	}
}

func (m *Metrics) ObserveFailure(outcome string) {
	m.predictions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetModel(modelType, version, path string) {
	m.modelInfo.Reset()
	m.modelInfo.WithLabelValues(modelType, version, path).Set(1)
}

func (m *Metrics) ArtifactChanged() {
	m.artifactChanges.Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, code int) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
