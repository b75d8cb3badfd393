package licenseapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks license api usage.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetricsHandler returns an http.Handler for the given Gatherer.
func NewMetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// NewMetrics creates and registers the license api metrics with the registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_license_requests_total",
			Help: "The total number of license api requests by action and result.",
		}, []string{"action", "result"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "roster_license_request_duration_seconds",
			Help:    "The duration of license api requests.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"action"}),
	}

	registerer.MustRegister(metrics.Requests, metrics.Duration)

	return metrics
}

func (m *Metrics) observe(action string, result string, seconds float64) {
	m.Requests.WithLabelValues(action, result).Inc()
	m.Duration.WithLabelValues(action).Observe(seconds)
}
