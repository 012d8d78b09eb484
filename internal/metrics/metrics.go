// Package metrics defines Prometheus metrics for chaintrail.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chaintrail_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chaintrail_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chaintrail_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	EntriesAppended = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chaintrail_entries_appended_total",
			Help: "Total ledger entries appended, by action",
		},
		[]string{"action"},
	)

	AppendRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chaintrail_append_retries_total",
			Help: "Total append attempts retried after a chain collision",
		},
	)

	VerifyRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chaintrail_verify_runs_total",
			Help: "Total integrity verification runs",
		},
	)

	IntegrityFindings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chaintrail_integrity_findings_total",
			Help: "Total integrity findings reported by verification, by kind",
		},
		[]string{"kind"},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chaintrail_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		EntriesAppended, AppendRetries,
		VerifyRuns, IntegrityFindings,
		WSConnections,
	)
}
