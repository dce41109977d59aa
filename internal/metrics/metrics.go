package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "iready_http_requests_total",
		Help: "Total HTTP requests by route and status class",
	}, []string{"route", "code"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "iready_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 2000},
	}, []string{"route"})
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "iready_rate_limited_total",
		Help: "Requests rejected by the per-client rate limiter",
	})
	MarkerComputationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "iready_marker_computations_total",
		Help: "Marker layouts recomputed because inputs changed",
	})
	MarkerCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "iready_marker_cache_hits_total",
		Help: "Marker requests served from the memoised layout",
	})
	GeocodeRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "iready_geocode_requests_total",
		Help: "Geocode lookups by resolving source (local, cache, nominatim, miss, error)",
	}, []string{"source"})
	NominatimDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "iready_nominatim_duration_ms",
		Help:    "Nominatim call duration in milliseconds",
		Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000},
	})
	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "iready_auth_logins_total",
		Help: "Login attempts by outcome",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDurationMs,
		RateLimitedTotal,
		MarkerComputationsTotal,
		MarkerCacheHitsTotal,
		GeocodeRequestsTotal,
		NominatimDurationMs,
		LoginsTotal,
	)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
