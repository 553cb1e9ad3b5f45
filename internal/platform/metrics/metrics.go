package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "auth_session"

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeInvalid = "invalid"
	OutcomeExpired = "expired"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Token lifecycle metrics
	TokensMintedTotal       *prometheus.CounterVec
	RefreshRedemptionsTotal *prometheus.CounterVec
	RevocationsTotal        prometheus.Counter

	// Authentication metrics
	LoginAttemptsTotal  *prometheus.CounterVec
	UsersCreatedTotal   *prometheus.CounterVec
	IdentitiesLinkTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics on registry.
// A nil registry gets a fresh one with the Go and process collectors.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		TokensMintedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_minted_total",
				Help:      "Total number of signed tokens minted, by kind",
			},
			[]string{"kind"},
		),
		RefreshRedemptionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "refresh_redemptions_total",
				Help:      "Refresh token redemption attempts, by outcome",
			},
			[]string{"outcome"},
		),
		RevocationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "refresh_revocations_total",
				Help:      "Refresh tokens revoked by logout",
			},
		),
		LoginAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_attempts_total",
				Help:      "Login attempts, by method and outcome",
			},
			[]string{"method", "outcome"},
		),
		UsersCreatedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "users_created_total",
				Help:      "Users created, by source (password or provider name)",
			},
			[]string{"source"},
		),
		IdentitiesLinkTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "identity_links_total",
				Help:      "Identity link attempts, by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.TokensMintedTotal,
		m.RefreshRedemptionsTotal,
		m.RevocationsTotal,
		m.LoginAttemptsTotal,
		m.UsersCreatedTotal,
		m.IdentitiesLinkTotal,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// The methods below are nil-safe so services can run without metrics in tests.

func (m *Metrics) TokenMinted(kind string) {
	if m == nil {
		return
	}
	m.TokensMintedTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) RefreshRedeemed(outcome string) {
	if m == nil {
		return
	}
	m.RefreshRedemptionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) TokenRevoked() {
	if m == nil {
		return
	}
	m.RevocationsTotal.Inc()
}

func (m *Metrics) LoginAttempt(method, outcome string) {
	if m == nil {
		return
	}
	m.LoginAttemptsTotal.WithLabelValues(method, outcome).Inc()
}

func (m *Metrics) UserCreated(source string) {
	if m == nil {
		return
	}
	m.UsersCreatedTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) IdentityLinked(provider, outcome string) {
	if m == nil {
		return
	}
	m.IdentitiesLinkTotal.WithLabelValues(provider, outcome).Inc()
}

// ObserveHTTP records one completed request. route should be the matched
// route pattern, not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}
