package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a Prometheus registry with the service's HTTP and presign collectors.
type Metrics struct {
	reg      *prometheus.Registry
	inflight prometheus.Gauge
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	issued   *prometheus.CounterVec
}

// New creates a Metrics instance with a fresh registry and registers collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	inflight := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "presign",
		Subsystem: "http",
		Name:      "inflight_requests",
		Help:      "Current number of inflight HTTP requests.",
	})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "presign",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests processed, partitioned by status code, method and route.",
	}, []string{"code", "method", "path"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "presign",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Histogram of latencies for HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"code", "method", "path"})
	issued := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "presign",
		Name:      "urls_issued_total",
		Help:      "Total number of presigned URLs issued, partitioned by HTTP method.",
	}, []string{"method"})

	reg.MustRegister(inflight, requests, latency, issued)

	return &Metrics{
		reg:      reg,
		inflight: inflight,
		requests: requests,
		latency:  latency,
		issued:   issued,
	}
}

// Handler returns an http.Handler that serves Prometheus metrics using the internal registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// InflightAdd moves the inflight gauge by delta.
func (m *Metrics) InflightAdd(delta int) {
	m.inflight.Add(float64(delta))
}

// RecordRequest counts a finished request and observes its latency.
func (m *Metrics) RecordRequest(method, path string, statusCode int, duration time.Duration, size int64) {
	code := strconv.Itoa(statusCode)
	m.requests.WithLabelValues(code, method, path).Inc()
	m.latency.WithLabelValues(code, method, path).Observe(duration.Seconds())
}

// RecordIssued counts one presigned URL for the given HTTP method.
func (m *Metrics) RecordIssued(method string) {
	m.issued.WithLabelValues(method).Inc()
}
