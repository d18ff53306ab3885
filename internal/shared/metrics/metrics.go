package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	analysisRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analysis_requests_total",
		Help: "Analyses served, by result source",
	}, []string{"source"})

	providerAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analysis_provider_attempts_total",
		Help: "Provider attempts, by provider and outcome",
	}, []string{"provider", "outcome"})

	cacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analysis_cache_lookups_total",
		Help: "Result cache lookups, by result",
	}, []string{"result"})

	httpPanicsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "http_panics_total",
		Help: "Handler panics recovered by the HTTP middleware",
	})

	rateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "http_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})

	analysisDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "analysis_duration_seconds",
		Help:    "Analysis duration in seconds, by result source",
		Buckets: []float64{0.01, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"source"})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		analysisRequestsTotal,
		providerAttemptsTotal,
		cacheLookupsTotal,
		httpPanicsTotal,
		rateLimitedTotal,
		analysisDuration,
	)
}

// ObserveAnalysis records one served analysis and its duration.
func ObserveAnalysis(source string, d time.Duration) {
	analysisRequestsTotal.WithLabelValues(source).Inc()
	analysisDuration.WithLabelValues(source).Observe(d.Seconds())
}

// IncProviderAttempt counts a provider attempt; outcome is "success" or "failure".
func IncProviderAttempt(provider, outcome string) {
	providerAttemptsTotal.WithLabelValues(provider, outcome).Inc()
}

// IncCacheLookup counts a cache lookup.
func IncCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(result).Inc()
}

// IncPanic counts a recovered handler panic.
func IncPanic() {
	httpPanicsTotal.Inc()
}

// IncRateLimited counts a request rejected with 429.
func IncRateLimited() {
	rateLimitedTotal.Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}

// Gatherer exposes the registry for tests and embedding.
func Gatherer() prometheus.Gatherer {
	return registry
}
