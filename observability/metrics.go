package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gate decision outcomes
const (
	OutcomeAllowed           = "allowed"
	OutcomeMissingCredential = "missing_credential"
	OutcomeInvalidCredential = "invalid_credential"
	OutcomeAccountNotFound   = "account_not_found"
	OutcomeRevoked           = "revoked"
	OutcomeError             = "error"
)

// Login outcomes
const (
	LoginSuccess            = "success"
	LoginInvalidCredentials = "invalid_credentials"
	LoginError              = "error"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	GateDecisions  *prometheus.CounterVec
	IdentityLookup prometheus.Histogram
	Logins         *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them on reg.
// Passing nil creates unregistered collectors, which is what most tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GateDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "event_admin_auth_gate_decisions_total",
			Help: "Authentication gate decisions by outcome",
		}, []string{"outcome"}),
		IdentityLookup: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "event_admin_identity_lookup_duration_seconds",
			Help:    "Latency of account lookups performed by the identity resolver",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "event_admin_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
	}
}

// RecordDecision counts one gate decision. Safe on a nil receiver.
func (m *Metrics) RecordDecision(outcome string) {
	if m == nil {
		return
	}
	m.GateDecisions.WithLabelValues(outcome).Inc()
}

// ObserveLookup records the duration of an identity lookup started at start
func (m *Metrics) ObserveLookup(start time.Time) {
	if m == nil {
		return
	}
	m.IdentityLookup.Observe(time.Since(start).Seconds())
}

// RecordLogin counts one login attempt
func (m *Metrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(outcome).Inc()
}
