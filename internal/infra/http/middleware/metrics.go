package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	sponsorEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sponsor_events_total",
			Help: "Total number of sponsor events consumed",
		},
		[]string{"type"},
	)

	operationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sponsor_operation_errors_total",
			Help: "Total number of failed sponsor operations",
		},
		[]string{"code"},
	)

	openSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sponsor_sessions_open",
			Help: "Number of open UI sessions",
		},
	)

	sessionsReaped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sponsor_sessions_reaped_total",
			Help: "Total number of idle sessions discarded",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern usa o padrão do chi (/sponsors/{id}) para não explodir a
// cardinalidade com ids.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

func RecordSponsorEvent(eventType string) {
	sponsorEvents.WithLabelValues(eventType).Inc()
}

func RecordOperationError(code string) {
	operationErrors.WithLabelValues(code).Inc()
}

func SetOpenSessions(n int) {
	openSessions.Set(float64(n))
}

func RecordSessionsReaped(n int) {
	sessionsReaped.Add(float64(n))
}
