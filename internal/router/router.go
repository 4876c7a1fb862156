package router

import (
	"github.com/anonto42/nano-feed/backend/internal/feed"
	"github.com/anonto42/nano-feed/backend/internal/handlers"
	"github.com/anonto42/nano-feed/backend/internal/middleware"
	"github.com/anonto42/nano-feed/backend/internal/repositories"
	"github.com/anonto42/nano-feed/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Deps carries everything the routes need.
type Deps struct {
	Posts     repositories.PostRepository
	Users     repositories.UserRepository
	Reactor   *feed.Reactor
	Verifier  firebase.TokenVerifier // nil disables Firebase sign-in
	JWTSecret string
	Logger    *zap.Logger
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, d Deps) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(d.Users, d.Verifier, d.JWTSecret, logger)
	authHandler.RegisterAuthRoutes(authGroup)
	logger.Debug("Auth routes configured.", zap.Bool("firebase", d.Verifier != nil))

	// --- Protected routes (require JWT authentication) ---
	var fallback echo.MiddlewareFunc
	if d.Verifier != nil {
		fallback = middleware.FirebaseAuthMiddleware(d.Verifier, d.Users)
	}
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(d.JWTSecret, fallback))

	handlers.NewUserHandler(d.Users).RegisterProfileRoutes(api)
	handlers.NewFeedHandler(d.Posts).RegisterFeedRoutes(api)
	handlers.NewPostHandler(d.Posts, d.Users).RegisterPostRoutes(api)
	handlers.NewLikeHandler(d.Reactor).RegisterLikeRoutes(api)

	logger.Debug("All routes configured.")
}
