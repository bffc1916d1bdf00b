package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the service's Prometheus collectors.
type Metrics struct {
	// Request latency by verb, route pattern and status code
	RequestLatency *prometheus.HistogramVec

	// Schedules computed by method and by the worst resolution in them
	Computations *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:      "request_latency",
			Subsystem: "prayertimes",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"verb", "path", "code"}),

		Computations: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "computations_total",
			Subsystem: "prayertimes",
			Help:      "Schedules computed by method and resolution.",
		}, []string{"method", "resolution"}),
	}
}

// ObserveRequestLatency records one request.
func (m *Metrics) ObserveRequestLatency(verb, path string, code int, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(verb, path, strconv.Itoa(code)).Observe(d.Seconds())
	}
}

// IncrementComputation records one computed schedule.
func (m *Metrics) IncrementComputation(method, resolution string) {
	if m != nil {
		m.Computations.WithLabelValues(method, resolution).Inc()
	}
}

// LatencyHandler observes every request under its chi route pattern so that
// query strings and path values do not explode the label set.
func (m *Metrics) LatencyHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				path = rctx.RoutePattern()
			}
			code := ww.Status()
			if code == 0 {
				code = http.StatusOK
			}
			if err := recover(); err != nil {
				m.ObserveRequestLatency(r.Method, path, http.StatusInternalServerError, time.Since(start))
				panic(err)
			}
			m.ObserveRequestLatency(r.Method, path, code, time.Since(start))
		}()

		next.ServeHTTP(ww, r)
	})
}
