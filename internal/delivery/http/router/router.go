// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"coldstore/internal/delivery/http/middleware"
	"coldstore/internal/delivery/http/router/handler"
	"coldstore/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler         *handler.UserHandler
	ColdRoomHandler     *handler.ColdRoomHandler
	VerificationHandler *handler.VerificationHandler
	SearchHandler       *handler.SearchHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler         *handler.UserHandler
	coldRoomHandler     *handler.ColdRoomHandler
	verificationHandler *handler.VerificationHandler
	searchHandler       *handler.SearchHandler
	authMiddleware      *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:         params.UserHandler,
		coldRoomHandler:     params.ColdRoomHandler,
		verificationHandler: params.VerificationHandler,
		searchHandler:       params.SearchHandler,
		authMiddleware:      params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.userHandler.Register)
		authGroup.POST("/login", r.userHandler.Login)
		authGroup.POST("/google", r.userHandler.GoogleLogin)
		authGroup.POST("/refresh", r.userHandler.RefreshToken)
		authGroup.POST("/logout", r.userHandler.Logout)
	}

	// User routes that require authentication
	userGroup := e.Group("/user")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("/profile", r.userHandler.GetProfile)
	}

	// Owner-scoped listing management. Authentication happens here; the
	// owner-role check on create and per-listing ownership live in the use case.
	coldRoomGroup := e.Group("/cold-rooms")
	coldRoomGroup.Use(r.authMiddleware.Authenticate)
	{
		coldRoomGroup.POST("", r.coldRoomHandler.Create)
		coldRoomGroup.GET("", r.coldRoomHandler.ListOwn)
		coldRoomGroup.GET("/:id", r.coldRoomHandler.Get)
		coldRoomGroup.PUT("/:id", r.coldRoomHandler.Update)
		coldRoomGroup.PATCH("/:id", r.coldRoomHandler.Update)
		coldRoomGroup.DELETE("/:id", r.coldRoomHandler.Delete)
		coldRoomGroup.POST("/:id/images", r.coldRoomHandler.AddImage)
		coldRoomGroup.GET("/:id/images", r.coldRoomHandler.ListImages)
	}

	// Administrator review workflow
	verificationGroup := e.Group("/verifications")
	verificationGroup.Use(r.authMiddleware.Authenticate)
	verificationGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin.String()))
	{
		verificationGroup.GET("", r.verificationHandler.List)
		verificationGroup.GET("/:id", r.verificationHandler.Get)
		verificationGroup.PUT("/:id", r.verificationHandler.Review)
		verificationGroup.PATCH("/:id", r.verificationHandler.Review)
	}

	// Public, unauthenticated reads
	e.GET("/cold-rooms-list", r.searchHandler.ListVerified)
	e.GET("/search", r.searchHandler.Search)
}
