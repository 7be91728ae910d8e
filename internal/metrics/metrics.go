package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"luckylotto/internal/models"
)

// Draw outcomes.
const (
	OutcomeAccepted    = "accepted"
	OutcomeRejected    = "rejected"
	OutcomeRateLimited = "rate_limited"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luckylotto",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "luckylotto",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10), // 1ms to ~0.5s
		},
		[]string{"method", "path"},
	)

	draws = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luckylotto",
			Name:      "draws_total",
			Help:      "Number submissions by outcome.",
		},
		[]string{"outcome"},
	)

	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luckylotto",
			Name:      "transitions_total",
			Help:      "Session state transitions.",
		},
		[]string{"from", "to"},
	)

	sessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "luckylotto",
			Name:      "sessions_active",
			Help:      "Visitor sessions currently held in memory.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		draws,
		transitions,
		sessionsActive,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency. Routes are labelled by
// their pattern so path parameters don't blow up cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		if path == "/metrics" {
			return
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordDraw counts a submission outcome.
func RecordDraw(outcome string) {
	draws.WithLabelValues(outcome).Inc()
}

// RecordTransition counts a session state change.
func RecordTransition(from, to models.StateKind) {
	transitions.WithLabelValues(from.String(), to.String()).Inc()
}

// SetSessions reports the number of live sessions.
func SetSessions(n int) {
	sessionsActive.Set(float64(n))
}
