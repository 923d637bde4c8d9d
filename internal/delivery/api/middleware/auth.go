package middleware

import (
	"log/slog"
	"slices"

	deliverycontext "orienteer/internal/delivery/context"
	"orienteer/internal/domain/entity"
	domainerrors "orienteer/internal/domain/errors"
	"orienteer/internal/usecase"

	"github.com/labstack/echo/v4"
	slogecho "github.com/samber/slog-echo"
	"go.uber.org/fx"
)

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	Resolver usecase.AuthResolver
	Logger   *slog.Logger
}

// AuthMiddleware attaches the resolved AuthContext to every request and
// guards the routes that need one.
type AuthMiddleware struct {
	resolver usecase.AuthResolver
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{
		resolver: params.Resolver,
		logger:   params.Logger,
	}
}

// Authenticate resolves the Authorization header and stores the result under
// deliverycontext.KeyAuthContext. It never rejects a request on its own.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		authCtx := m.resolver.Resolve(req.Context(), req.Header.Get(echo.HeaderAuthorization))
		deliverycontext.SetAuthContext(c, authCtx)

		slogecho.AddCustomAttributes(c, slog.String("auth_scheme", authCtx.Scheme.String()))
		if authCtx.IsAuthenticated {
			slogecho.AddCustomAttributes(c, slog.String("subject_id", authCtx.SubjectID))
		}

		return next(c)
	}
}

// RequireAuthenticated short-circuits unauthenticated requests with a generic 401.
// The failure reason stays in the logs.
func (m *AuthMiddleware) RequireAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authCtx := deliverycontext.GetEchoAuthContext(c)
		if !authCtx.IsAuthenticated {
			return domainerrors.NewAuthError(authCtx.FailureReason, "", nil)
		}

		return next(c)
	}
}

// RequireScheme rejects authenticated requests whose credentials use another scheme.
// It must be used after RequireAuthenticated.
func (m *AuthMiddleware) RequireScheme(schemes ...entity.Scheme) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authCtx := deliverycontext.GetEchoAuthContext(c)
			if !slices.Contains(schemes, authCtx.Scheme) {
				return domainerrors.ErrSchemeNotAllowed
			}

			return next(c)
		}
	}
}
