// Package storage persists generated resumes so callers can review their
// history. Two backends exist: SQLite through GORM for server deployments
// and a flat-file JSON store for environments without CGO or a database.
package storage

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"resumeforge/internal/config"
	"resumeforge/internal/errors"
	"resumeforge/internal/resume"
)

// ResumeRecord is one persisted generation result. Profile holds the
// normalized input snapshot so the record can be regenerated later.
type ResumeRecord struct {
	ID         string         `gorm:"primaryKey" json:"id"`
	UserID     string         `gorm:"index" json:"userId"`
	FullName   string         `json:"fullName"`
	JobTitle   string         `json:"jobTitle"`
	Profile    datatypes.JSON `json:"profile"`
	ResumeText string         `json:"resumeText"`
	AIProvider string         `json:"aiProvider"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// Store is the persistence contract used by the HTTP handlers.
type Store interface {
	// Create persists a record, assigning ID and CreatedAt when unset.
	Create(ctx context.Context, record *ResumeRecord) error
	// ListByUser returns a user's records, most recent first.
	ListByUser(ctx context.Context, userID string, limit int) ([]ResumeRecord, error)
	Close() error
}

// Open builds the backend selected by configuration.
func Open(cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	case "file":
		return NewFileStore(cfg.FileDir)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"Unknown storage driver: "+cfg.Driver, nil)
	}
}

// NewRecord builds an unsaved record from a generation outcome.
func NewRecord(userID string, data resume.ProfileData, resumeText, aiProvider string, profileJSON []byte) ResumeRecord {
	return ResumeRecord{
		UserID:     userID,
		FullName:   data.FullName,
		JobTitle:   data.JobTitle,
		Profile:    datatypes.JSON(profileJSON),
		ResumeText: resumeText,
		AIProvider: aiProvider,
	}
}
