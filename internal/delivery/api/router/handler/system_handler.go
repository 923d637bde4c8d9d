// Package handler contains the echo handlers of the HTTP API.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"orienteer/internal/delivery/api/response"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one backing service.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// SystemHandlerParams holds dependencies for SystemHandler, injected by Fx.
type SystemHandlerParams struct {
	fx.In

	Checks   []HealthCheck `group:"health_checks"`
	Registry *prometheus.Registry
	Logger   *slog.Logger
}

// SystemHandler serves the health and metrics endpoints.
type SystemHandler struct {
	checks  []HealthCheck
	metrics http.Handler
	logger  *slog.Logger
}

// NewSystemHandler is the constructor for SystemHandler
func NewSystemHandler(params SystemHandlerParams) *SystemHandler {
	return &SystemHandler{
		checks:  params.Checks,
		metrics: promhttp.HandlerFor(params.Registry, promhttp.HandlerOpts{}),
		logger:  params.Logger,
	}
}

// Health reports 200 when every check passes and 503 otherwise.
func (h *SystemHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			h.logger.Warn("Health check failed", slog.String("check", check.Name), slog.Any("error", err))
			results[check.Name] = "down"
			status = http.StatusServiceUnavailable

			continue
		}
		results[check.Name] = "up"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}

	return response.Success(c, status, map[string]any{
		"status": overall,
		"checks": results,
	})
}

// Metrics exposes the Prometheus registry.
func (h *SystemHandler) Metrics(c echo.Context) error {
	h.metrics.ServeHTTP(c.Response(), c.Request())

	return nil
}
