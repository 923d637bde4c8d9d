package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"orienteer/internal/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_Health(t *testing.T) {
	up := HealthCheck{Name: "postgres", Check: func(context.Context) error { return nil }}
	down := HealthCheck{Name: "redis", Check: func(context.Context) error { return errors.New("dial tcp: refused") }}

	tests := []struct {
		name   string
		checks []HealthCheck
		status int
		want   map[string]any
	}{
		{
			name:   "all up",
			checks: []HealthCheck{up},
			status: http.StatusOK,
			want:   map[string]any{"status": "ok", "checks": map[string]any{"postgres": "up"}},
		},
		{
			name:   "one down",
			checks: []HealthCheck{up, down},
			status: http.StatusServiceUnavailable,
			want:   map[string]any{"status": "degraded", "checks": map[string]any{"postgres": "up", "redis": "down"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSystemHandler(SystemHandlerParams{Checks: tt.checks, Registry: prometheus.NewRegistry(), Logger: discardLogger()})
			e := newTestEcho()
			e.GET("/health", h.Health)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.status, rec.Code)
			var got map[string]any
			decodeData(t, rec, &got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSystemHandler_Metrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "orienteer_test_total", Help: "test"})
	registry.MustRegister(counter)
	counter.Inc()

	h := NewSystemHandler(SystemHandlerParams{Registry: registry, Logger: discardLogger()})
	e := newTestEcho()
	e.GET("/metrics", h.Metrics)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "orienteer_test_total 1")
}
