// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"insightlens/internal/delivery/http/middleware"
	"insightlens/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler       *handler.AuthHandler
	ExtractionHandler *handler.ExtractionHandler
	UserDataHandler   *handler.UserDataHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler       *handler.AuthHandler
	extractionHandler *handler.ExtractionHandler
	userDataHandler   *handler.UserDataHandler
	authMiddleware    *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:       params.AuthHandler,
		extractionHandler: params.ExtractionHandler,
		userDataHandler:   params.UserDataHandler,
		authMiddleware:    params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Analysis type discovery is public
	e.GET("/analysis/types", r.extractionHandler.ListAnalysisTypes)

	// OCR upload requires a session
	e.POST("/extract-text", r.extractionHandler.ExtractText, r.authMiddleware.Authenticate)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/forgot-password", r.authHandler.ForgotPassword)
		authGroup.POST("/reset-password", r.authHandler.ResetPassword)
		authGroup.GET("/me", r.authHandler.GetMe, r.authMiddleware.Authenticate)
		authGroup.POST("/refresh", r.authHandler.Refresh, r.authMiddleware.Authenticate)
	}

	// User routes that require authentication
	userGroup := e.Group("/user")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("/extractions", r.userDataHandler.ListExtractions)
		userGroup.GET("/extractions/:id", r.userDataHandler.GetExtraction)
		userGroup.DELETE("/extractions/:id", r.userDataHandler.DeleteExtraction)
		userGroup.POST("/extractions/:id/analyze", r.extractionHandler.Analyze)
		userGroup.GET("/stats", r.userDataHandler.GetStats)
	}
}
