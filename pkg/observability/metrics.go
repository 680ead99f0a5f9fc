// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the schedbird gateway.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ProviderBuckets covers identity provider round trips from 25ms to 10s.
var ProviderBuckets = []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Auth decision outcomes used as the "outcome" label of AuthDecisionsTotal.
const (
	OutcomeSession        = "session"
	OutcomeCallback       = "callback"
	OutcomeRedirect       = "redirect"
	OutcomeInvalid        = "invalid_credential"
	OutcomeProviderFailed = "provider_failed"
	OutcomeStorageFailed  = "storage_failed"
	OutcomeRateLimited    = "rate_limited"
)

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedbird_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "schedbird_request_duration_seconds",
			Help:    "Request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// AuthDecisionsTotal counts gateway decisions by outcome.
	AuthDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedbird_auth_decisions_total",
			Help: "Gateway authentication decisions",
		},
		[]string{"outcome"},
	)

	// ProviderRequestsTotal counts calls to the identity provider.
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedbird_provider_requests_total",
			Help: "Identity provider requests",
		},
		[]string{"call", "outcome"},
	)

	// ProviderRequestDuration records identity provider latency in seconds.
	ProviderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "schedbird_provider_request_duration_seconds",
			Help:    "Identity provider latency",
			Buckets: ProviderBuckets,
		},
		[]string{"call"},
	)

	// TokensIssuedTotal counts session tokens issued.
	TokensIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "schedbird_session_tokens_issued_total",
			Help: "Session tokens issued",
		},
	)

	// UserUpsertsTotal counts user store writes by result (created, updated).
	UserUpsertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedbird_user_upserts_total",
			Help: "User upserts",
		},
		[]string{"result"},
	)

	// RateLimitRejectedTotal counts requests rejected by the rate limiter.
	RateLimitRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "schedbird_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		AuthDecisionsTotal,
		ProviderRequestsTotal,
		ProviderRequestDuration,
		TokensIssuedTotal,
		UserUpsertsTotal,
		RateLimitRejectedTotal,
	)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
