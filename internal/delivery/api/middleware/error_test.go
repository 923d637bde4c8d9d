package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"orienteer/internal/delivery/api/validator"
	domainerrors "orienteer/internal/domain/errors"
	"orienteer/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestErrorMiddleware_HandleHTTPError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantDetails bool
	}{
		{
			name:       "app error keeps status and code",
			err:        errors.Wrap(domainerrors.ErrNotResourceOwner, "ensure owner"),
			wantStatus: http.StatusForbidden,
			wantCode:   "NOT_RESOURCE_OWNER",
		},
		{
			name:       "overridden guard status",
			err:        domainerrors.ErrResourceNotFound.WithStatus(http.StatusGone),
			wantStatus: http.StatusGone,
			wantCode:   "RESOURCE_NOT_FOUND",
		},
		{
			name:       "details dropped on 401",
			err:        domainerrors.ErrNoCredentials.WithDetails("missing header"),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "NO_CREDENTIALS",
		},
		{
			name:        "details kept on 400",
			err:         domainerrors.ErrOAuthInvalidScope.WithDetails("admin"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "invalid_scope",
			wantDetails: true,
		},
		{
			name:        "validation error lists fields",
			err:         &validator.ValidationError{Fields: []validator.FieldError{{Field: "Token", Rule: "required"}}},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "VALIDATION_FAILED",
			wantDetails: true,
		},
		{
			name:       "echo http error",
			err:        echo.NewHTTPError(http.StatusMethodNotAllowed),
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   "HTTP_ERROR",
		},
		{
			name:       "unknown error is hidden",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))).HandleHTTPError(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			if tt.wantDetails {
				assert.NotNil(t, body.Error.Details)
			} else {
				assert.Nil(t, body.Error.Details)
			}
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}
