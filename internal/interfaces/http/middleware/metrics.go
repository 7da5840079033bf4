package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMetricsNamespace prefixes every exported metric
const DefaultMetricsNamespace = "storefront"

// HTTPMetrics collects RED metrics for the HTTP server and web vitals
// reported by browsers, and exposes them in the Prometheus text format.
type HTTPMetrics struct {
	registry     *prometheus.Registry
	inFlight     prometheus.Gauge
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	responseSize *prometheus.HistogramVec
	vitals       *prometheus.HistogramVec
}

// NewHTTPMetrics creates the collectors on a private registry together with
// the Go runtime and process collectors.
func NewHTTPMetrics(namespace string) *HTTPMetrics {
	if namespace == "" {
		namespace = DefaultMetricsNamespace
	}

	m := &HTTPMetrics{
		registry: prometheus.NewRegistry(),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 11), // 5ms to ~5s
		}, []string{"method", "route"}),
		responseSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "response_size_bytes",
			Help:      "Size of HTTP response bodies.",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8), // 256B to 4MB
		}, []string{"method", "route"}),
		vitals: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "web_vitals",
			Name:      "value",
			Help:      "Core web vitals reported by browsers. CLS is unitless, the rest are milliseconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 50, 100, 200, 500, 800, 1000, 1800, 2500, 4000, 10000},
		}, []string{"name", "rating"}),
	}

	m.registry.MustRegister(
		m.inFlight,
		m.requests,
		m.duration,
		m.responseSize,
		m.vitals,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry backing the collectors
func (m *HTTPMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the registered metrics
func (m *HTTPMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveVital records one web vital measurement
func (m *HTTPMetrics) ObserveVital(name, rating string, value float64) {
	if m == nil {
		return
	}
	if rating == "" {
		rating = "unknown"
	}
	m.vitals.WithLabelValues(name, rating).Observe(value)
}

// Middleware returns a gin middleware recording request metrics. Requests
// whose path starts with one of skipPrefixes are not recorded.
func (m *HTTPMetrics) Middleware(skipPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range skipPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		m.inFlight.Inc()
		start := time.Now()

		c.Next()

		m.inFlight.Dec()
		route := getRoutePattern(c)
		method := c.Request.Method

		m.requests.WithLabelValues(method, route, HTTPMetricsStatusGroup(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		if size := c.Writer.Size(); size > 0 {
			m.responseSize.WithLabelValues(method, route).Observe(float64(size))
		}
	}
}

// getRoutePattern returns the matched route pattern (e.g. "/product/:handle")
// instead of the raw path to keep label cardinality bounded.
func getRoutePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	// CMS pages and 404s all land here
	return "unmatched"
}

// HTTPMetricsStatusGroup groups status codes by class (2xx, 4xx, 5xx).
func HTTPMetricsStatusGroup(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "other"
	}
}
