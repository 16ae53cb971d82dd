// Package metrics holds the Prometheus collectors of the ingestion service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	importsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statement_imports_total",
		Help: "Statement imports by bank and outcome",
	}, []string{"bank", "outcome"})

	importDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "statement_import_duration_seconds",
		Help:    "End-to-end import latency",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120},
	}, []string{"bank"})

	transactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statement_transactions_total",
		Help: "Parsed transactions by bank and result (created, duplicate, skipped, line_error)",
	}, []string{"bank", "result"})

	categorizeBatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "categorize_batches_total",
		Help: "Categorization batches by outcome",
	}, []string{"outcome"})

	httpReqTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ingest_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"method", "endpoint"})
)

// ObserveImport records one finished import.
func ObserveImport(bank, outcome string, d time.Duration) {
	importsTotal.WithLabelValues(bank, outcome).Inc()
	importDuration.WithLabelValues(bank).Observe(d.Seconds())
}

// AddTransactions adds n transactions with the given result.
func AddTransactions(bank, result string, n int) {
	if n <= 0 {
		return
	}
	transactionsTotal.WithLabelValues(bank, result).Add(float64(n))
}

// CategorizeBatch records one categorization call outcome ("ok" or "fallback").
func CategorizeBatch(outcome string) {
	categorizeBatches.WithLabelValues(outcome).Inc()
}

// HTTPTimer starts a latency timer for an endpoint.
func HTTPTimer(method, endpoint string) *prometheus.Timer {
	return prometheus.NewTimer(httpLatency.WithLabelValues(method, endpoint))
}

// HTTPRequest counts one served request.
func HTTPRequest(method, endpoint, status string) {
	httpReqTotal.WithLabelValues(method, endpoint, status).Inc()
}
