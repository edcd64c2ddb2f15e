package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"method", "route"})

	llmRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_requests_total",
		Help: "Total LLM backend calls by backend and outcome",
	}, []string{"backend", "outcome"})

	llmRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llm_request_duration_seconds",
		Help:    "LLM backend call duration in seconds",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"backend"})

	llmFailoversTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_failovers_total",
		Help: "Total cross-backend failovers",
	}, []string{"from", "to"})

	exportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exports_total",
		Help: "Total document exports by format",
	}, []string{"format"})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequestsTotal,
		httpRequestDuration,
		llmRequestsTotal,
		llmRequestDuration,
		llmFailoversTotal,
		exportsTotal,
	)
}

// Registry exposes the service registry, mainly for tests.
func Registry() *prometheus.Registry {
	return registry
}

// ObserveLLMCall records one backend call.
func ObserveLLMCall(backend, outcome string, elapsed time.Duration) {
	llmRequestsTotal.WithLabelValues(backend, outcome).Inc()
	llmRequestDuration.WithLabelValues(backend).Observe(elapsed.Seconds())
}

// IncLLMFailover records a switch from one backend to another.
func IncLLMFailover(from, to string) {
	llmFailoversTotal.WithLabelValues(from, to).Inc()
}

// IncExport records a rendered export.
func IncExport(format string) {
	exportsTotal.WithLabelValues(format).Inc()
}

// Middleware records request counts and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
