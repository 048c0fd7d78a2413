package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mr1hm/go-risk-zones/internal/models"
)

// SnapshotRepository persists the whole zones+logs document. Save replaces
// whatever was stored before; there is no partial update and no version
// check. Load returns models.ErrSnapshotNotFound until the first Save.
type SnapshotRepository interface {
	Load(ctx context.Context) (*models.Snapshot, error)
	Save(ctx context.Context, snap *models.Snapshot) error
	Close() error
}

func Open(backend, filePath, dbPath string) (SnapshotRepository, error) {
	switch backend {
	case "file":
		return NewFileRepository(filePath)
	case "sqlite":
		if dbPath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
				return nil, fmt.Errorf("error creating data dir: %w", err)
			}
		}
		return NewSQLiteDB(dbPath)
	default:
		return nil, fmt.Errorf("unknown store backend: %q", backend)
	}
}
