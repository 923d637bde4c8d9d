package context

import (
	"context"

	"orienteer/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// WithAuthContext returns a new context carrying the resolved authentication context.
func WithAuthContext(ctx context.Context, authCtx entity.AuthContext) context.Context {
	return context.WithValue(ctx, KeyAuthContext, authCtx)
}

// GetAuthContext extracts the authentication context from context.Context.
// A request that never passed the resolver is unauthenticated.
func GetAuthContext(ctx context.Context) entity.AuthContext {
	if authCtx, ok := ctx.Value(KeyAuthContext).(entity.AuthContext); ok {
		return authCtx
	}

	return entity.Unauthenticated(entity.ReasonMissingAuthorizationHeader)
}

// SetAuthContext stores the authentication context on both echo.Context and its request context.
func SetAuthContext(c echo.Context, authCtx entity.AuthContext) {
	c.Set(string(KeyAuthContext), authCtx)
	c.SetRequest(c.Request().WithContext(WithAuthContext(c.Request().Context(), authCtx)))
}

// GetEchoAuthContext extracts the authentication context from echo.Context.
func GetEchoAuthContext(c echo.Context) entity.AuthContext {
	if authCtx, ok := c.Get(string(KeyAuthContext)).(entity.AuthContext); ok {
		return authCtx
	}

	return GetAuthContext(c.Request().Context())
}
