// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"rutopia/config"
	"rutopia/internal/delivery/api/middleware"
	"rutopia/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AlertHandler       *handler.AlertHandler
	IdentityMiddleware *middleware.IdentityMiddleware
	Config             *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	alertHandler       *handler.AlertHandler
	identityMiddleware *middleware.IdentityMiddleware
	config             *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		alertHandler:       params.AlertHandler,
		identityMiddleware: params.IdentityMiddleware,
		config:             params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/health", handler.HealthCheck)

	// Reads are public; the caller is identified when credentials are presented.
	alertsGroup := e.Group("/api/v1/alerts")
	alertsGroup.Use(r.identityMiddleware.Identify)
	{
		alertsGroup.GET("", r.alertHandler.ListAlerts)
		alertsGroup.GET("/stats", r.alertHandler.Statistics)
		alertsGroup.GET("/nearby", r.alertHandler.NearbyAlerts)
		alertsGroup.GET("/:id", r.alertHandler.GetAlert)
	}

	// Writes need a user and are rate limited per client
	writeGuards := []echo.MiddlewareFunc{
		r.identityMiddleware.RequireUser,
		middleware.NewWriteRateLimiter(r.config),
	}
	{
		alertsGroup.POST("", r.alertHandler.CreateAlert, writeGuards...)
		alertsGroup.PUT("/:id", r.alertHandler.UpdateAlert, writeGuards...)
		alertsGroup.DELETE("/:id", r.alertHandler.DeactivateAlert, writeGuards...)
		alertsGroup.POST("/:id/reports", r.alertHandler.AppendReport, writeGuards...)
	}
}
