// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thinkscotty/ideagen/internal/auth"
)

const service = "ideagen"

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code", "service"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "service"},
	)

	// outcome is "ok" or an error kind such as "transport" or "unparseable_response".
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idea_generations_total",
			Help: "Total number of idea generation attempts",
		},
		[]string{"model", "outcome"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "idea_generation_duration_seconds",
			Help:    "Time spent in the remote model call and parsing",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"model"},
	)

	IdeasReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ideas_returned",
			Help:    "Number of ideas in a successful batch",
			Buckets: []float64{0, 5, 10, 15, 20, 25, 30},
		},
	)

	FavoriteOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "favorite_operations_total",
			Help: "Total number of favorites operations",
		},
		[]string{"operation", "backend", "status"},
	)

	AuthEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_events_total",
			Help: "Sign-in and sign-out events",
		},
		[]string{"kind"},
	)

	NatsMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_messages_published_total",
			Help: "Total number of NATS messages published",
		},
		[]string{"subject", "status"},
	)

	ApplicationInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "application_info",
			Help: "Application information",
		},
		[]string{"service", "version", "model"},
	)
)

// Init records build and model information once at startup.
func Init(version, model string) {
	ApplicationInfo.WithLabelValues(service, version, model).Set(1)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// SubscribeAuth counts identity changes published on n.
func SubscribeAuth(n *auth.Notifier) (cancel func()) {
	return n.Subscribe(func(ev auth.Event) {
		AuthEventsTotal.WithLabelValues(string(ev.Kind)).Inc()
	})
}

func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Middleware records request counts and latency, labelled by the mux pattern
// so path parameters do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		HttpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status), service).Inc()
		HttpRequestDuration.WithLabelValues(r.Method, path, service).Observe(time.Since(start).Seconds())
	})
}
