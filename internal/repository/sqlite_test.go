package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mr1hm/go-risk-zones/internal/models"
)

func setupTestDB(t *testing.T) *SQLiteDB {
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	return db
}

func testSnapshot(zoneNames ...string) *models.Snapshot {
	snap := models.EmptySnapshot()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range zoneNames {
		snap.Zones = append(snap.Zones, models.Zone{
			ID:          "zone_" + string(rune('1'+i)),
			Name:        name,
			Coordinates: []models.Point{{Lat: 1, Lng: 1}, {Lat: 1, Lng: 2}, {Lat: 2, Lng: 2}},
			Severity:    models.SeverityHigh,
			CreatedAt:   now,
			CreatedBy:   "officer_001",
			IsActive:    true,
		})
		snap.Logs = append([]models.ZoneLog{{
			ID:        "log_" + string(rune('1'+i)),
			Action:    models.LogActionCreated,
			ZoneName:  name,
			Timestamp: now,
			Officer:   "officer_001",
		}}, snap.Logs...)
	}
	return snap
}

// repositories returns every backend so the contract tests run against all of them
func repositories(t *testing.T) map[string]SnapshotRepository {
	db := setupTestDB(t)
	file, err := NewFileRepository(filepath.Join(t.TempDir(), "data", "zones.json"))
	if err != nil {
		t.Fatalf("failed to create file repository: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return map[string]SnapshotRepository{
		"sqlite": db,
		"file":   file,
	}
}

func TestRepository_LoadBeforeSave(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Load(context.Background())
			if !errors.Is(err, models.ErrSnapshotNotFound) {
				t.Errorf("expected ErrSnapshotNotFound, got %v", err)
			}
		})
	}
}

func TestRepository_SaveAndLoad(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := repo.Save(ctx, testSnapshot("Market", "Station")); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			got, err := repo.Load(ctx)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(got.Zones) != 2 {
				t.Fatalf("expected 2 zones, got %d", len(got.Zones))
			}
			if got.Zones[0].Name != "Market" {
				t.Errorf("expected first zone 'Market', got '%s'", got.Zones[0].Name)
			}
			if len(got.Zones[1].Coordinates) != 3 {
				t.Errorf("expected 3 coordinates, got %d", len(got.Zones[1].Coordinates))
			}
			if got.Logs[0].ZoneName != "Station" {
				t.Errorf("expected newest log for 'Station', got '%s'", got.Logs[0].ZoneName)
			}
			if !got.Zones[0].CreatedAt.Equal(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)) {
				t.Errorf("unexpected created_at: %v", got.Zones[0].CreatedAt)
			}
		})
	}
}

func TestRepository_SaveReplacesWholeSnapshot(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := repo.Save(ctx, testSnapshot("Market", "Station", "Beach")); err != nil {
				t.Fatalf("first Save failed: %v", err)
			}
			if err := repo.Save(ctx, testSnapshot("Temple")); err != nil {
				t.Fatalf("second Save failed: %v", err)
			}

			got, err := repo.Load(ctx)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(got.Zones) != 1 || got.Zones[0].Name != "Temple" {
				t.Errorf("expected only 'Temple' after overwrite, got %+v", got.Zones)
			}
			if len(got.Logs) != 1 {
				t.Errorf("expected 1 log after overwrite, got %d", len(got.Logs))
			}
		})
	}
}

func TestRepository_EmptySnapshotRoundTrip(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := repo.Save(ctx, models.EmptySnapshot()); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			got, err := repo.Load(ctx)
			if err != nil {
				t.Fatalf("expected saved empty snapshot, got error %v", err)
			}
			if got.Zones == nil || got.Logs == nil {
				t.Error("expected non-nil empty collections")
			}
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, err := Open("postgres", "", ""); err == nil {
		t.Error("expected error for unknown backend, got nil")
	}
}

func TestOpen_CreatesDataDir(t *testing.T) {
	dir := t.TempDir()

	for _, backend := range []string{"file", "sqlite"} {
		repo, err := Open(backend,
			filepath.Join(dir, "file", "nested", "zones.json"),
			filepath.Join(dir, "db", "nested", "zones.db"))
		if err != nil {
			t.Fatalf("Open(%s) failed: %v", backend, err)
		}

		if err := repo.Save(context.Background(), models.EmptySnapshot()); err != nil {
			t.Errorf("%s: save into new data dir failed: %v", backend, err)
		}
		repo.Close()
	}
}
