package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry.
// A nil *Metrics is valid and records nothing.
// ⭐ SSOT: 메트릭 정의는 여기서만
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	priceLookups *prometheus.CounterVec
	llmCalls     *prometheus.CounterVec
	llmDuration  *prometheus.HistogramVec
}

// Lookup outcomes
const (
	LookupHit   = "hit"
	LookupMiss  = "miss"
	LookupError = "error"
	LookupCache = "cache"
)

// New creates and registers all collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "analystlens",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "analystlens",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		priceLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "analystlens",
			Name:      "price_lookups_total",
			Help:      "Start/end price lookups by side and outcome.",
		}, []string{"side", "outcome"}),
		llmCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "analystlens",
			Name:      "llm_calls_total",
			Help:      "Completion calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		llmDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "analystlens",
			Name:      "llm_call_duration_seconds",
			Help:      "Completion latency by operation.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		}, []string{"operation"}),
	}

	reg.MustRegister(m.httpRequests, m.httpDuration, m.priceLookups, m.llmCalls, m.llmDuration)
	return m
}

// Registry exposes the registry (tests, extra collectors)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request. route is the mux template, not the raw path.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// PriceLookup records one start/end lookup outcome
func (m *Metrics) PriceLookup(side, outcome string) {
	if m == nil {
		return
	}
	m.priceLookups.WithLabelValues(side, outcome).Inc()
}

// LLMCall records one completion call
func (m *Metrics) LLMCall(operation string, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.llmCalls.WithLabelValues(operation, outcome).Inc()
	m.llmDuration.WithLabelValues(operation).Observe(d.Seconds())
}
