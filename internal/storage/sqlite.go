package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"resumeforge/internal/errors"
)

// SQLiteStore persists records in a SQLite database through GORM.
type SQLiteStore struct {
	db *gorm.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens the database and migrates the schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
				"Failed to create database directory", err).
				WithContext("path", dir)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to open SQLite database", err).
			WithContext("path", dbPath)
	}

	if err := db.AutoMigrate(&ResumeRecord{}); err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to migrate resume schema", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Create(ctx context.Context, record *ResumeRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to save resume record", err).
			WithContext("user_id", record.UserID)
	}
	return nil
}

func (s *SQLiteStore) ListByUser(ctx context.Context, userID string, limit int) ([]ResumeRecord, error) {
	var records []ResumeRecord

	query := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&records).Error; err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to list resume records", err).
			WithContext("user_id", userID)
	}
	return records, nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to access underlying database", err)
	}
	return sqlDB.Close()
}
