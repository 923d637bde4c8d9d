package context

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"orienteer/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestAuthContextRoundTrip(t *testing.T) {
	authCtx := entity.BearerAuthenticated("42", "", nil)

	ctx := WithAuthContext(context.Background(), authCtx)
	assert.Equal(t, authCtx, GetAuthContext(ctx))
}

func TestGetAuthContext_Absent(t *testing.T) {
	got := GetAuthContext(context.Background())

	assert.False(t, got.IsAuthenticated)
	assert.Equal(t, entity.ReasonMissingAuthorizationHeader, got.FailureReason)
}

func TestSetAuthContext_Echo(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	authCtx := entity.BasicAuthenticated("42", "evt-1")
	SetAuthContext(c, authCtx)

	assert.Equal(t, authCtx, GetEchoAuthContext(c))
	assert.Equal(t, authCtx, GetAuthContext(c.Request().Context()))
}
