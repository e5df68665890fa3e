package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "matsmart"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	reconciliations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cooking",
			Name:      "reconciliations_total",
			Help:      "Cooking deductions reconciled, by outcome.",
		},
		[]string{"outcome"},
	)

	suggestionCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gemini",
			Name:      "calls_total",
			Help:      "Calls to the suggestion service, by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	storeRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "refreshes_total",
			Help:      "Repository cache refreshes, by table and outcome.",
		},
		[]string{"table", "outcome"},
	)
)

func init() {
	Registry.MustRegister(httpRequests, httpDuration, reconciliations, suggestionCalls, storeRefreshes)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordReconciliation(err error) {
	reconciliations.WithLabelValues(outcome(err)).Inc()
}

func RecordSuggestionCall(operation string, err error) {
	suggestionCalls.WithLabelValues(operation, outcome(err)).Inc()
}

func RecordRefresh(table string, err error) {
	storeRefreshes.WithLabelValues(table, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
