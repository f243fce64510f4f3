// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"yumbook/config"
	"yumbook/internal/delivery/http/middleware"
	"yumbook/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	Config            *config.Config
	AuthHandler       *handler.AuthHandler
	UserHandler       *handler.UserHandler
	RecipeHandler     *handler.RecipeHandler
	EngagementHandler *handler.EngagementHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	cfg               *config.Config
	authHandler       *handler.AuthHandler
	userHandler       *handler.UserHandler
	recipeHandler     *handler.RecipeHandler
	engagementHandler *handler.EngagementHandler
	authMiddleware    *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		cfg:               params.Config,
		authHandler:       params.AuthHandler,
		userHandler:       params.UserHandler,
		recipeHandler:     params.RecipeHandler,
		engagementHandler: params.EngagementHandler,
		authMiddleware:    params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Uploaded images are served straight from the storage root.
	e.Static("/static", r.cfg.Storage.RootDir)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/logout", r.authHandler.Logout)
		authGroup.POST("/forgot-password", r.authHandler.ForgotPassword)
		authGroup.POST("/reset-password", r.authHandler.ResetPassword)
	}

	// User routes. Public profile lookup stays outside the auth group.
	userGroup := e.Group("/users")
	{
		userGroup.GET("/:username", r.userHandler.GetByUsername)
	}

	meGroup := e.Group("/users/me")
	meGroup.Use(r.authMiddleware.Authenticate)
	{
		meGroup.GET("", r.userHandler.Me)
		meGroup.PATCH("", r.userHandler.UpdateMe)
		meGroup.PUT("/password", r.userHandler.UpdatePassword)
		meGroup.POST("/avatar", r.userHandler.UploadAvatar)
		meGroup.PUT("/avatar", r.userHandler.UploadAvatar)
		meGroup.DELETE("/avatar", r.userHandler.DeleteAvatar)
		meGroup.GET("/activity", r.userHandler.Activity)
	}

	followGroup := e.Group("/users/follow")
	followGroup.Use(r.authMiddleware.Authenticate)
	{
		followGroup.POST("", r.userHandler.Follow)
		followGroup.DELETE("/:id", r.userHandler.Unfollow)
	}

	// Recipe routes. Reads are public, writes require authentication.
	recipeGroup := e.Group("/recipes")
	{
		recipeGroup.GET("", r.recipeHandler.List)
		recipeGroup.GET("/search", r.recipeHandler.Search)
		recipeGroup.GET("/trending", r.recipeHandler.Trending)
		recipeGroup.GET("/mine", r.recipeHandler.ListMine, r.authMiddleware.Authenticate)
		recipeGroup.GET("/:id", r.recipeHandler.Get)
		recipeGroup.GET("/:id/similar", r.recipeHandler.Similar)
		recipeGroup.GET("/:id/share-qr", r.recipeHandler.ShareQR)
		recipeGroup.GET("/:id/comments", r.engagementHandler.ListComments)

		recipeGroup.POST("", r.recipeHandler.Create, r.authMiddleware.Authenticate)
		recipeGroup.PATCH("/:id", r.recipeHandler.Update, r.authMiddleware.Authenticate)
		recipeGroup.DELETE("/:id", r.recipeHandler.Delete, r.authMiddleware.Authenticate)

		recipeGroup.POST("/:id/like", r.engagementHandler.Like, r.authMiddleware.Authenticate)
		recipeGroup.DELETE("/:id/like", r.engagementHandler.Unlike, r.authMiddleware.Authenticate)
		recipeGroup.POST("/:id/comments", r.engagementHandler.AddComment, r.authMiddleware.Authenticate)
	}
}
