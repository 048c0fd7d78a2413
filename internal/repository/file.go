package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mr1hm/go-risk-zones/internal/models"
)

// FileRepository keeps the snapshot in a single JSON file. Writes go to a
// temp file in the same directory and are renamed over the original.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(path string) (*FileRepository, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating data dir: %w", err)
		}
	}
	return &FileRepository{path: path}, nil
}

func (r *FileRepository) Load(ctx context.Context) (*models.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, models.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", r.path, err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", r.path, err)
	}
	snap.Normalize()
	return &snap, nil
}

func (r *FileRepository) Save(ctx context.Context, snap *models.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding snapshot: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".zones-*.json")
	if err != nil {
		return fmt.Errorf("error creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("error syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("error replacing %s: %w", r.path, err)
	}
	return nil
}

func (r *FileRepository) Close() error {
	return nil
}
