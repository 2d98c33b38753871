package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"resumeforge/internal/errors"
)

// FileStore keeps each record as one JSON file under a directory. It is
// the fallback backend for CLI use and CGO-free builds; listing reads the
// whole directory, which is acceptable at per-user resume volumes.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to create resume directory", err).
			WithContext("path", dir)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Create(ctx context.Context, record *ResumeRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to encode resume record", err)
	}

	path := filepath.Join(s.dir, record.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to write resume record", err).
			WithContext("path", path)
	}
	return nil
}

func (s *FileStore) ListByUser(ctx context.Context, userID string, limit int) ([]ResumeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to read resume directory", err).
			WithContext("path", s.dir)
	}

	var records []ResumeRecord
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}

		var record ResumeRecord
		if err := json.Unmarshal(data, &record); err != nil {
			// Unparseable files are skipped, not fatal.
			continue
		}
		if record.UserID != userID {
			continue
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (s *FileStore) Close() error {
	return nil
}
