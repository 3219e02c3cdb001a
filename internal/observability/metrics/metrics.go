package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics exposes application-level instruments.
type Metrics struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	storeFallback *prometheus.CounterVec
	storeFailures *prometheus.CounterVec
	uploads       *prometheus.CounterVec
}

// NewRegistry returns a registry preloaded with the Go and process collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// New registers the farmstand instruments on registry.
func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "farmstand_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status_code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "farmstand_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		storeFallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "farmstand_store_fallbacks_total",
			Help: "Collection loads served from the seed or working copy instead of the backend.",
		}, []string{"collection", "reason"}),
		storeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "farmstand_store_write_failures_total",
			Help: "Collection writes the backend rejected.",
		}, []string{"collection", "backend"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "farmstand_uploads_total",
			Help: "Upload attempts by outcome.",
		}, []string{"outcome"}),
	}

	for _, c := range []prometheus.Collector{m.httpRequests, m.httpDuration, m.storeFallback, m.storeFailures, m.uploads} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) RecordStoreFallback(collection, reason string) {
	if m == nil {
		return
	}
	m.storeFallback.WithLabelValues(collection, reason).Inc()
}

func (m *Metrics) RecordStoreWriteFailure(collection, backend string) {
	if m == nil {
		return
	}
	m.storeFailures.WithLabelValues(collection, backend).Inc()
}

func (m *Metrics) RecordUpload(outcome string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(strings.TrimSpace(outcome)).Inc()
}

// GinMiddleware records request counts and latency per matched route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.httpRequests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
