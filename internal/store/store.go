// Package store keeps the canonical zones and audit log in memory and
// mirrors them to a remote snapshot store.
//
// Every write sends the complete {zones, logs} pair and only updates the
// in-memory copy once the remote accepted it. The remote has no version
// check, so two editors saving from stale copies overwrite each other;
// the last write wins.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mr1hm/go-risk-zones/internal/models"
)

var (
	ErrBlankName       = errors.New("zone name is required")
	ErrTooFewPoints    = errors.New("a zone needs at least 3 points")
	ErrInvalidSeverity = errors.New("invalid severity")
	ErrZoneNotFound    = errors.New("zone not found")
	ErrZoneInactive    = errors.New("zone is already inactive")
	ErrNotLoaded       = errors.New("zones have not been loaded")
)

// Remote is the flat-file snapshot store. Fetch returns
// models.ErrSnapshotNotFound when nothing has been saved yet.
type Remote interface {
	Fetch(ctx context.Context) (*models.Snapshot, error)
	Save(ctx context.Context, snap *models.Snapshot) (*models.SaveResult, error)
}

type ZoneInput struct {
	Name        string
	Description string
	Points      []models.Point
	Severity    models.Severity
}

type Options struct {
	Officer string
	IDs     IDGenerator
	Now     func() time.Time
	Logger  *slog.Logger
}

type Store struct {
	remote  Remote
	officer string
	ids     IDGenerator
	now     func() time.Time
	logger  *slog.Logger

	// writeMu serialises load/save round trips; mu guards the snapshot.
	writeMu sync.Mutex
	mu      sync.RWMutex
	snap    *models.Snapshot
	lastErr string
	loaded  bool
}

func New(remote Remote, opts Options) *Store {
	if opts.Officer == "" {
		opts.Officer = "officer_001"
	}
	if opts.IDs == nil {
		opts.IDs = SequentialIDs{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Store{
		remote:  remote,
		officer: opts.Officer,
		ids:     opts.IDs,
		now:     opts.Now,
		logger:  opts.Logger,
		snap:    models.EmptySnapshot(),
	}
}

// Load replaces the in-memory collections with the remote snapshot. A
// missing snapshot is a valid empty state. On any other failure the
// collections keep their previous contents and the error is also kept in
// LastError. Writes are refused until a Load has succeeded.
func (s *Store) Load(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap, err := s.remote.Fetch(ctx)
	if errors.Is(err, models.ErrSnapshotNotFound) {
		s.logger.Info("no saved zones, starting empty")
		s.replace(models.EmptySnapshot(), "")
		return nil
	}
	if err != nil {
		err = fmt.Errorf("error loading zones: %w", err)
		s.logger.Error("zone load failed", "error", err)
		s.setLastError(err.Error())
		return err
	}

	snap.Normalize()
	s.replace(snap, "")
	s.logger.Debug("zones loaded", "zones", len(snap.Zones), "logs", len(snap.Logs))
	return nil
}

func (s *Store) Create(ctx context.Context, in ZoneInput) (*models.Zone, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrBlankName
	}
	if len(in.Points) < models.MinPoints {
		return nil, ErrTooFewPoints
	}
	if !in.Severity.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeverity, in.Severity)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if !s.Loaded() {
		return nil, ErrNotLoaded
	}

	next := s.current().Clone()
	now := s.now()

	zone := models.Zone{
		ID:          s.ids.ZoneID(len(next.Zones)),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Coordinates: append([]models.Point(nil), in.Points...),
		Severity:    in.Severity,
		CreatedAt:   now,
		CreatedBy:   s.officer,
		IsActive:    true,
	}
	entry := models.ZoneLog{
		ID:        s.ids.LogID(len(next.Logs)),
		Action:    models.LogActionCreated,
		ZoneName:  zone.Name,
		Timestamp: now,
		Officer:   s.officer,
		Details:   fmt.Sprintf("Created %s severity zone with %d points", zone.Severity, len(zone.Coordinates)),
	}

	next.Zones = append(next.Zones, zone)
	next.Logs = prepend(next.Logs, entry)

	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}

	s.logger.Info("zone created", "zone_id", zone.ID, "name", zone.Name, "severity", zone.Severity)
	return &zone, nil
}

// Deactivate soft-deletes a zone. The zone stays in the collection with
// IsActive=false.
func (s *Store) Deactivate(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if !s.Loaded() {
		return ErrNotLoaded
	}

	next := s.current().Clone()
	idx := indexOf(next.Zones, id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrZoneNotFound, id)
	}
	zone := &next.Zones[idx]
	if !zone.IsActive {
		return fmt.Errorf("%w: %s", ErrZoneInactive, id)
	}
	zone.IsActive = false

	now := s.now()
	next.Logs = prepend(next.Logs, models.ZoneLog{
		ID:        s.ids.LogID(len(next.Logs)),
		Action:    models.LogActionDeleted,
		ZoneName:  zone.Name,
		Timestamp: now,
		Officer:   s.officer,
		Details:   "Deactivated zone " + zone.ID,
	})

	if err := s.persist(ctx, next); err != nil {
		return err
	}

	s.logger.Info("zone deactivated", "zone_id", id)
	return nil
}

// persist must be called with writeMu held.
func (s *Store) persist(ctx context.Context, next *models.Snapshot) error {
	res, err := s.remote.Save(ctx, next)
	if err == nil && res != nil && !res.Success {
		err = errors.New("store rejected snapshot")
	}
	if err != nil {
		err = fmt.Errorf("error saving zones: %w", err)
		s.logger.Error("zone save failed", "error", err)
		s.setLastError(err.Error())
		return err
	}

	s.replace(next, "")
	return nil
}

func (s *Store) current() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Store) replace(snap *models.Snapshot, lastErr string) {
	s.mu.Lock()
	s.snap = snap
	s.lastErr = lastErr
	s.loaded = true
	s.mu.Unlock()
}

func (s *Store) setLastError(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}

// Loaded reports whether the store holds a snapshot fetched from, or
// accepted by, the remote.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() *models.Snapshot {
	return s.current().Clone()
}

func (s *Store) Zones() []models.Zone {
	return s.Snapshot().Zones
}

func (s *Store) ActiveZones() []models.Zone {
	return s.Snapshot().ActiveZones()
}

func (s *Store) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, z := range s.snap.Zones {
		if z.IsActive {
			n++
		}
	}
	return n
}

func (s *Store) Zone(id string) (models.Zone, bool) {
	snap := s.Snapshot()
	if i := indexOf(snap.Zones, id); i >= 0 {
		return snap.Zones[i], true
	}
	return models.Zone{}, false
}

func (s *Store) Logs() []models.ZoneLog {
	return s.Snapshot().Logs
}

// RecentLogs returns up to n of the newest log entries.
func (s *Store) RecentLogs(n int) []models.ZoneLog {
	logs := s.Logs()
	if n >= 0 && len(logs) > n {
		logs = logs[:n]
	}
	return logs
}

func prepend(logs []models.ZoneLog, entry models.ZoneLog) []models.ZoneLog {
	out := make([]models.ZoneLog, 0, len(logs)+1)
	out = append(out, entry)
	return append(out, logs...)
}

func indexOf(zones []models.Zone, id string) int {
	for i := range zones {
		if zones[i].ID == id {
			return i
		}
	}
	return -1
}
