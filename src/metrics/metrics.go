// backend/src/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	proxyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kuyumcu",
			Subsystem: "proxy",
			Name:      "requests_total",
			Help:      "Total number of proxied requests by upstream and response status.",
		},
		[]string{"upstream", "status"},
	)

	proxyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kuyumcu",
			Subsystem: "proxy",
			Name:      "request_duration_seconds",
			Help:      "Time until the upstream response headers arrived.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		[]string{"upstream"},
	)

	reportRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kuyumcu",
			Subsystem: "report",
			Name:      "runs_total",
			Help:      "Daily report generation attempts by outcome.",
		},
		[]string{"outcome"},
	)

	reportDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "kuyumcu",
			Subsystem: "report",
			Name:      "run_duration_seconds",
			Help:      "Duration of daily report generation attempts.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)
)

func init() {
	Registry.MustRegister(
		proxyRequests,
		proxyDuration,
		reportRuns,
		reportDuration,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordProxyRequest counts a proxied request. A status of 0 means the upstream was unreachable.
func RecordProxyRequest(upstream string, status int, elapsed time.Duration) {
	label := strconv.Itoa(status)
	if status == 0 {
		label = "error"
	}
	proxyRequests.WithLabelValues(upstream, label).Inc()
	proxyDuration.WithLabelValues(upstream).Observe(elapsed.Seconds())
}

// RecordReportRun counts a report generation attempt.
func RecordReportRun(outcome string, elapsed time.Duration) {
	reportRuns.WithLabelValues(outcome).Inc()
	reportDuration.Observe(elapsed.Seconds())
}
