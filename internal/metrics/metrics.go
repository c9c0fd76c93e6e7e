// Package metrics содержит Prometheus-метрики сервиса Filmorate.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filmorate_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "filmorate_http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filmorate_http_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	// Лента событий
	FeedEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_feed_events_total",
			Help: "Total number of feed events recorded",
		},
		[]string{"event_type", "operation"},
	)

	// gRPC справочник
	DirectoryCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_directory_calls_total",
			Help: "Total number of directory existence checks",
		},
		[]string{"method", "result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "filmorate_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// RecordHTTPRequest учитывает завершенный HTTP-запрос.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordFeedEvent учитывает событие ленты.
func RecordFeedEvent(eventType, operation string) {
	FeedEventsTotal.WithLabelValues(eventType, operation).Inc()
}

// RecordDirectoryCall учитывает вызов gRPC справочника: result = ok|error|rejected.
func RecordDirectoryCall(method, result string) {
	DirectoryCallsTotal.WithLabelValues(method, result).Inc()
}
