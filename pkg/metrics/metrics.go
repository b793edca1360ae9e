// Package metrics exposes Prometheus instrumentation for the backend.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the application metric vectors.
type Recorder struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	recommendations     *prometheus.CounterVec
	trades              *prometheus.CounterVec
	ledgerConflicts     prometheus.Counter
}

// New creates a Recorder with all vectors registered on the default registry.
func New() *Recorder {
	return &Recorder{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockwise_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockwise_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method"},
		),
		recommendations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockwise_recommendations_total",
				Help: "Recommendations computed, by resulting action",
			},
			[]string{"action"},
		),
		trades: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockwise_trades_total",
				Help: "Ledger trades executed, by side and outcome",
			},
			[]string{"side", "outcome"},
		),
		ledgerConflicts: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "stockwise_ledger_conflicts_total",
				Help: "Optimistic-concurrency conflicts detected in the ledger",
			},
		),
	}
}

// RecordHTTPRequest records one served HTTP request. Route should be the
// templated path, not the raw URL, to keep cardinality low.
func (r *Recorder) RecordHTTPRequest(route, method, status string, seconds float64) {
	r.httpRequestsTotal.WithLabelValues(route, method, status).Inc()
	r.httpRequestDuration.WithLabelValues(route, method).Observe(seconds)
}

// RecordRecommendation records a computed recommendation.
func (r *Recorder) RecordRecommendation(action string) {
	r.recommendations.WithLabelValues(action).Inc()
}

// RecordTrade records a buy/sell attempt and its outcome.
func (r *Recorder) RecordTrade(side, outcome string) {
	r.trades.WithLabelValues(side, outcome).Inc()
}

// RecordLedgerConflict records a detected concurrent-write conflict.
func (r *Recorder) RecordLedgerConflict() {
	r.ledgerConflicts.Inc()
}

// Handler returns the /metrics scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
