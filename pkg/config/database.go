package config

import (
	"context"
	"fmt"

	"github.com/anonto42/nano-feed/backend/internal/storage"
	"go.uber.org/zap"
)

// OpenStore initializes the Persistent Store selected by cfg.StoreDriver.
func OpenStore(ctx context.Context, cfg *Config, logger *zap.Logger) (storage.Store, error) {
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("Using in-memory store; data is lost on exit.")
		return storage.NewMemoryStore(), nil

	case "file":
		s, err := storage.NewFileStore(cfg.DataFile)
		if err != nil {
			return nil, err
		}
		logger.Info("Using file store.", zap.String("path", cfg.DataFile))
		return s, nil

	case "sqlite":
		s, err := storage.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite: %w", err)
		}
		logger.Info("Successfully opened SQLite!", zap.String("path", cfg.SQLitePath))
		return s, nil

	case "postgres":
		if cfg.PostgresConnStr == "" {
			return nil, fmt.Errorf("POSTGRES_CONN_STR environment variable not set")
		}
		s, err := storage.OpenPostgres(cfg.PostgresConnStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		logger.Info("Successfully connected to PostgreSQL!")
		return s, nil

	case "mongo":
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("MONGO_URI environment variable not set")
		}
		s, err := storage.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		logger.Info("Successfully connected to MongoDB!", zap.String("database", cfg.MongoDatabase))
		return s, nil

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (want memory, file, sqlite, postgres or mongo)", cfg.StoreDriver)
	}
}
