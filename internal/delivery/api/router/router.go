// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"orienteer/internal/delivery/api/middleware"
	"orienteer/internal/delivery/api/router/handler"
	"orienteer/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	SystemHandler  *handler.SystemHandler
	OAuthHandler   *handler.OAuthHandler
	EventHandler   *handler.EventHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	systemHandler  *handler.SystemHandler
	oauthHandler   *handler.OAuthHandler
	eventHandler   *handler.EventHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{
		systemHandler:  params.SystemHandler,
		oauthHandler:   params.OAuthHandler,
		eventHandler:   params.EventHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", r.systemHandler.Health)
	e.GET("/metrics", r.systemHandler.Metrics)

	// Token endpoints authenticate the client themselves; the Authorization
	// header there carries client credentials, not user credentials.
	oauthGroup := e.Group("/oauth")
	{
		oauthGroup.POST("/token", r.oauthHandler.Token)
		oauthGroup.POST("/revoke", r.oauthHandler.Revoke)
		oauthGroup.POST("/clients", r.oauthHandler.RegisterClient,
			r.authMiddleware.Authenticate,
			r.authMiddleware.RequireAuthenticated,
			r.authMiddleware.RequireScheme(entity.SchemeBearer),
		)
	}

	// The guard itself answers unauthenticated requests, so event routes only attach the context.
	eventsGroup := e.Group("/events")
	eventsGroup.Use(r.authMiddleware.Authenticate)
	{
		eventsGroup.GET("/:id/access", r.eventHandler.Access)

		passwordGroup := eventsGroup.Group("/:id/password")
		passwordGroup.Use(r.authMiddleware.RequireAuthenticated)
		passwordGroup.Use(r.authMiddleware.RequireScheme(entity.SchemeBearer))
		{
			passwordGroup.POST("", r.eventHandler.RotatePassword)
			passwordGroup.DELETE("", r.eventHandler.RevokePassword)
		}
	}
}
