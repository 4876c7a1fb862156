package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/nano-feed/backend/internal/feed"
	"github.com/anonto42/nano-feed/backend/internal/repositories"
	"github.com/anonto42/nano-feed/backend/internal/router"
	"github.com/anonto42/nano-feed/backend/pkg/config"
	"github.com/anonto42/nano-feed/backend/pkg/firebase"
	"github.com/anonto42/nano-feed/backend/pkg/logger"
	"github.com/anonto42/nano-feed/backend/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize the persistent store
	store, err := config.OpenStore(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("Failed to open store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			zl.Warn("Failed to close store", zap.Error(err))
		}
	}()

	posts := repositories.NewLocalPostRepository(store, zl)
	posts.Load(ctx)
	users := repositories.NewLocalUserRepository(store, zl)

	deps := router.Deps{
		Posts:     posts,
		Users:     users,
		Reactor:   feed.NewReactor(posts, zl),
		JWTSecret: cfg.JWTSecret,
		Logger:    zl,
	}

	// Initialize Firebase when credentials are configured
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			zl.Fatal("Failed to initialize Firebase", zap.Error(err))
		}
		deps.Verifier = firebaseApp
		zl.Info("Firebase sign-in enabled.")
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	config.SetupMiddleware(e, zl)

	// Setup routes and dependencies
	router.SetupRoutes(e, deps)

	go func() {
		zl.Info("Starting server", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("Server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("Graceful shutdown failed", zap.Error(err))
	}
}
