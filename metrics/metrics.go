// Package metrics exposes the gateway's Prometheus counters and the HTTP middleware that feeds them.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gateway"

// Registry owns the gateway's collectors. Each Registry has its own prometheus.Registry,
// so tests can create as many as they like.
type Registry struct {
	reg *prometheus.Registry

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	relayBytes    prometheus.Counter
	relayOutcomes *prometheus.CounterVec
}

// New creates a registry with the Go runtime and process collectors attached.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time until the handler returned, by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		relayBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_bytes_total",
			Help:      "Body bytes relayed from media origins.",
		}),
		relayOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_outcomes_total",
			Help:      "Relay requests by how they ended.",
		}, []string{"outcome"}),
	}

	r.reg.MustRegister(
		r.requests,
		r.duration,
		r.relayBytes,
		r.relayOutcomes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// statusRecorder remembers the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// Wrap adds counting middleware around a handler.
func (r *Registry) Wrap(name string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, req)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		r.requests.WithLabelValues(name, strconv.Itoa(status)).Inc()
		r.duration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	})
}

// ObserveRelay records how a relay request ended.
func (r *Registry) ObserveRelay(outcome string, bytes int64) {
	r.relayOutcomes.WithLabelValues(outcome).Inc()
	if bytes > 0 {
		r.relayBytes.Add(float64(bytes))
	}
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
