package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	apimiddleware "orienteer/internal/delivery/api/middleware"
	"orienteer/internal/delivery/api/response"
	"orienteer/internal/delivery/api/validator"
	deliverycontext "orienteer/internal/delivery/context"
	"orienteer/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = apimiddleware.NewErrorMiddleware(discardLogger()).HandleHTTPError
	e.Validator = validator.New()

	return e
}

// withAuth stands in for the Authenticate middleware.
func withAuth(authCtx entity.AuthContext) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			deliverycontext.SetAuthContext(c, authCtx)

			return next(c)
		}
	}
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)

	return body.Error.Code
}
