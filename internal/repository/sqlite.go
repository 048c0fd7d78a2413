package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mr1hm/go-risk-zones/internal/models"
)

// SQLiteDB stores the snapshot as one JSON document in a single-row table.
type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// :memory: databases are per connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS zone_snapshots (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			body TEXT NOT NULL,
			zone_count INTEGER NOT NULL,
			log_count INTEGER NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Load(ctx context.Context) (*models.Snapshot, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM zone_snapshots WHERE id = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		return nil, fmt.Errorf("error decoding snapshot: %w", err)
	}
	snap.Normalize()
	return &snap, nil
}

func (s *SQLiteDB) Save(ctx context.Context, snap *models.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("error encoding snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO zone_snapshots (id, body, zone_count, log_count, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			body = excluded.body,
			zone_count = excluded.zone_count,
			log_count = excluded.log_count,
			updated_at = excluded.updated_at
	`, string(body), len(snap.Zones), len(snap.Logs), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("error saving snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
