// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inkwell_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkwell_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// Tokens
	TokensIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkwell_tokens_issued_total",
			Help: "Single-use tokens issued by purpose",
		},
		[]string{"purpose"},
	)

	TokenValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkwell_token_validations_total",
			Help: "Token validations by purpose and outcome",
		},
		[]string{"purpose", "outcome"}, // ok, not_found, expired
	)

	TokensPurged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkwell_tokens_purged_total",
			Help: "Stale or consumed tokens deleted by the cleanup worker",
		},
		[]string{"purpose"},
	)

	// Sessions
	SessionsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkwell_sessions_issued_total",
			Help: "Sessions issued by account provider",
		},
		[]string{"provider"},
	)

	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkwell_auth_failures_total",
			Help: "Failed authentication attempts by reason",
		},
		[]string{"reason"},
	)

	// Mail
	MailSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkwell_mail_sent_total",
			Help: "Outgoing mail by result",
		},
		[]string{"result"}, // success, failure, rejected
	)

	MailBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inkwell_mail_breaker_state",
			Help: "Mail circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// Publish fan-out
	FanoutDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inkwell_fanout_duration_seconds",
			Help:    "Time taken to notify all followers of a published blog",
			Buckets: prometheus.DefBuckets,
		},
	)

	NotificationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inkwell_notifications_created_total",
			Help: "Notifications created by publish fan-out",
		},
	)

	FanoutFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inkwell_fanout_failures_total",
			Help: "Follower notifications that could not be stored",
		},
	)

	// WebSocket
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inkwell_ws_connections",
			Help: "Open WebSocket connections",
		},
	)
)

// RecordHTTPRequest records one finished request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	s := strconv.Itoa(status)
	HTTPRequestDuration.WithLabelValues(method, route, s).Observe(duration.Seconds())
	HTTPRequestsTotal.WithLabelValues(method, route, s).Inc()
}

// RecordFanout records one publish fan-out run.
func RecordFanout(created, failed int, duration time.Duration) {
	FanoutDuration.Observe(duration.Seconds())
	NotificationsCreated.Add(float64(created))
	FanoutFailures.Add(float64(failed))
}
