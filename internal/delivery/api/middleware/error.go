// Package middleware holds the echo middleware of the HTTP API.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"orienteer/internal/delivery/api/response"
	"orienteer/internal/delivery/api/validator"
	deliverycontext "orienteer/internal/delivery/context"
	domainerrors "orienteer/internal/domain/errors"
	"orienteer/internal/errors"

	"github.com/labstack/echo/v4"
)

// ErrorMiddleware converts handler errors into the JSON error envelope.
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError is installed as echo's HTTPErrorHandler.
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)

	var vErr *validator.ValidationError
	if errors.As(err, &vErr) {
		_ = response.ValidationFailed(c, vErr.Fields)

		return
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			logger.Error("Request failed",
				slog.String("code", appErr.ErrorCode()),
				slog.String("error", errors.Cause(err).Error()),
				slog.String("stack", stackOf(err)),
				slog.String("path", c.Request().URL.Path),
			)
		}
		var details any
		if d := appErr.Details(); d != "" {
			details = d
		}
		_ = response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), details)

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}

		_ = response.Error(c, httpErr.Code, "HTTP_ERROR", message, nil)

		return
	}

	logger.Error("Unhandled error",
		slog.Any("error", err),
		slog.String("stack", stackOf(err)),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	_ = response.InternalServerError(c,
		domainerrors.ErrInternalError.ErrorCode(),
		"Internal server error, please try again later")
}

func stackOf(err error) string {
	return fmt.Sprintf("%+v", err)
}
