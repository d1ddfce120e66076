package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsNamespace = "placement"

	FailureValidation = "validation"
	FailureInference  = "inference"
)

// Metrics holds the service's collectors on a private registry so that
// several servers can coexist in one process.
type Metrics struct {
	registry    *prometheus.Registry
	predictions *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "predictions_total",
			Help:      "Counter of served predictions by label.",
		}, []string{"label"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "prediction_failures_total",
			Help:      "Counter of rejected or failed prediction requests by reason.",
		}, []string{"reason"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "inference_duration_seconds",
			Help:      "Time spent scaling and classifying one request.",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
	}
	m.registry.MustRegister(
		m.predictions,
		m.failures,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) observePrediction(label int, elapsed time.Duration) {
	m.predictions.WithLabelValues(strconv.Itoa(label)).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) observeFailure(reason string) {
	m.failures.WithLabelValues(reason).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
