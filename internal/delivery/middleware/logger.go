package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"orienteer/config"

	"github.com/labstack/echo/v4"
	slogecho "github.com/samber/slog-echo"
)

// quietPaths are never access-logged unless they fail.
var quietPaths = []string{"/health", "/metrics"}

// NewAccessLogger builds the slog-echo access log middleware. Outside debug
// mode only failed requests are logged.
func NewAccessLogger(logger *slog.Logger, cfg *config.Config) echo.MiddlewareFunc {
	debug := cfg.Env.Debug

	return slogecho.NewWithConfig(logger, slogecho.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithUserAgent:    true,
		WithRequestID:    true,
		Filters: []slogecho.Filter{
			func(c echo.Context) bool {
				return shouldLog(debug, c.Request().URL.Path, c.Response().Status)
			},
		},
	})
}

func shouldLog(debug bool, path string, status int) bool {
	if status >= http.StatusBadRequest {
		return true
	}
	if !debug {
		return false
	}
	for _, p := range quietPaths {
		if strings.HasPrefix(path, p) {
			return false
		}
	}

	return true
}
