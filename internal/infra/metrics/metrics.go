// Package metrics exposes auth-core outcomes as Prometheus metrics.
package metrics

import (
	"strconv"

	"orienteer/internal/domain/entity"
	"orienteer/internal/domain/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// AuthMetrics implements service.AuthRecorder.
type AuthMetrics struct {
	ResolutionsTotal      *prometheus.CounterVec
	OwnershipDenialsTotal *prometheus.CounterVec
	TokensIssuedTotal     *prometheus.CounterVec
}

// NewRegistry creates the process registry with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry
}

// NewAuthMetrics creates and registers the auth-core metrics.
func NewAuthMetrics(registry *prometheus.Registry) *AuthMetrics {
	m := &AuthMetrics{
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orienteer_auth_resolutions_total",
				Help: "Credential resolutions by scheme, outcome and failure reason",
			},
			[]string{"scheme", "outcome", "reason"},
		),
		OwnershipDenialsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orienteer_ownership_denials_total",
				Help: "Ownership guard failures by HTTP status",
			},
			[]string{"status"},
		),
		TokensIssuedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orienteer_oauth_tokens_issued_total",
				Help: "OAuth token pairs issued by grant type",
			},
			[]string{"grant"},
		),
	}

	registry.MustRegister(
		m.ResolutionsTotal,
		m.OwnershipDenialsTotal,
		m.TokensIssuedTotal,
	)

	return m
}

// NewAuthRecorder adapts AuthMetrics to the domain recorder interface for fx.
func NewAuthRecorder(m *AuthMetrics) service.AuthRecorder {
	return m
}

// RecordResolution counts one credential resolution.
func (m *AuthMetrics) RecordResolution(scheme entity.Scheme, reason entity.FailureReason) {
	outcome := "success"
	if reason != entity.ReasonNone {
		outcome = "failure"
	}

	m.ResolutionsTotal.WithLabelValues(scheme.String(), outcome, reason.String()).Inc()
}

// RecordOwnershipDenial counts one ownership-guard failure.
func (m *AuthMetrics) RecordOwnershipDenial(status int) {
	m.OwnershipDenialsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
}

// RecordTokenIssued counts one token issuance.
func (m *AuthMetrics) RecordTokenIssued(grant entity.GrantType) {
	m.TokensIssuedTotal.WithLabelValues(grant.String()).Inc()
}
