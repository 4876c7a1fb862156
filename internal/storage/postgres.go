package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVEntry is the GORM model behind PostgresStore.
type KVEntry struct {
	Key   string `gorm:"primaryKey;size:191"`
	Value string `gorm:"type:text;not null"`
}

func (KVEntry) TableName() string { return "kv_entries" }

// PostgresStore implements Store on PostgreSQL through GORM.
type PostgresStore struct {
	db *gorm.DB
}

// OpenPostgres connects with connStr, pings the server and migrates the table.
func OpenPostgres(connStr string) (*PostgresStore, error) {
	// The ping below is the only one, so a failed connection can be closed.
	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{DisableAutomaticPing: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	store, err := NewPostgresStore(db)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	return store, nil
}

// NewPostgresStore wraps an existing GORM handle.
func NewPostgresStore(db *gorm.DB) (*PostgresStore, error) {
	if err := db.AutoMigrate(&KVEntry{}); err != nil {
		return nil, fmt.Errorf("failed to auto migrate kv_entries: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry KVEntry
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	entry := KVEntry{Key: key, Value: value}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&entry).Error
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
