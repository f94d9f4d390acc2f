package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voyage_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "voyage_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	CheckoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voyage_checkouts_total",
			Help: "Checkouts by outcome",
		},
		[]string{"outcome"}, // "paid", "empty", "error"
	)

	PaymentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "voyage_payments_processed_total",
			Help: "Payments created or topped up by checkout",
		},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voyage_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"}, // "success", "failure", "rate_limited"
	)

	CommentSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "voyage_comment_subscribers",
			Help: "Open websocket connections on tour comment feeds",
		},
	)
)

// RecordAPIRequest records one finished request. route is the matched route
// pattern, never the raw path.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordCheckout(outcome string, payments int) {
	CheckoutsTotal.WithLabelValues(outcome).Inc()
	PaymentsCreated.Add(float64(payments))
}

func RecordLogin(outcome string) {
	LoginAttempts.WithLabelValues(outcome).Inc()
}
