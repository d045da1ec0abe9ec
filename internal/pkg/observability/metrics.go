package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	analyticsDuration     *prometheus.HistogramVec
	analyticsCacheTotal   *prometheus.CounterVec
	analyticsUnknownTotal *prometheus.CounterVec
	jobRunsTotal          *prometheus.CounterVec
	dbConnections         *prometheus.GaugeVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workboard_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "workboard_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		analyticsDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "workboard_analytics_aggregate_seconds",
			Help:    "Time spent aggregating submissions into analytics reports.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}, []string{"source"})

		analyticsCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workboard_analytics_cache_total",
			Help: "Analytics cache lookups by layer and outcome.",
		}, []string{"layer", "outcome"})

		analyticsUnknownTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workboard_analytics_unknown_status_total",
			Help: "Records whose raw status has no explicit classification rule.",
		}, []string{"status"})

		jobRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workboard_job_runs_total",
			Help: "Background job executions by job and result.",
		}, []string{"job", "result"})

		dbConnections = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "workboard_db_connections",
			Help: "PostgreSQL pool connections by state.",
		}, []string{"state"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			analyticsDuration,
			analyticsCacheTotal,
			analyticsUnknownTotal,
			jobRunsTotal,
			dbConnections,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// AnalyticsDuration exposes the aggregation latency histogram, labelled by record source (store, client).
func AnalyticsDuration() *prometheus.HistogramVec {
	RegisterMetrics()
	return analyticsDuration
}

// AnalyticsCache exposes the cache outcome counter, labelled by layer (redis, memo) and outcome.
func AnalyticsCache() *prometheus.CounterVec {
	RegisterMetrics()
	return analyticsCacheTotal
}

// AnalyticsUnknownStatus exposes the counter of unclassified raw statuses.
func AnalyticsUnknownStatus() *prometheus.CounterVec {
	RegisterMetrics()
	return analyticsUnknownTotal
}

// JobRuns exposes the background job counter.
func JobRuns() *prometheus.CounterVec {
	RegisterMetrics()
	return jobRunsTotal
}

// DBConnections exposes the connection pool gauge.
func DBConnections() *prometheus.GaugeVec {
	RegisterMetrics()
	return dbConnections
}
