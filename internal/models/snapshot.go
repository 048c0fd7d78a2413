package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSnapshot  = errors.New("invalid snapshot")
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// Snapshot is the unit of persistence: the store only ever reads and
// writes the full zones+logs pair. Logs are ordered newest first.
type Snapshot struct {
	Zones []Zone    `json:"zones"`
	Logs  []ZoneLog `json:"logs"`
}

// SaveResult is the acknowledgment returned after a snapshot is written.
type SaveResult struct {
	Success bool `json:"success"`
	Zones   int  `json:"zones"`
	Logs    int  `json:"logs"`
}

func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Zones: []Zone{},
		Logs:  []ZoneLog{},
	}
}

func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Zones: make([]Zone, len(s.Zones)),
		Logs:  make([]ZoneLog, len(s.Logs)),
	}
	for i, z := range s.Zones {
		z.Coordinates = append([]Point(nil), z.Coordinates...)
		out.Zones[i] = z
	}
	copy(out.Logs, s.Logs)
	return out
}

// Normalize replaces nil collections with empty ones so the snapshot
// always encodes as {"zones":[],"logs":[]}.
func (s *Snapshot) Normalize() {
	if s.Zones == nil {
		s.Zones = []Zone{}
	}
	if s.Logs == nil {
		s.Logs = []ZoneLog{}
	}
}

func (s *Snapshot) Validate() error {
	for i, z := range s.Zones {
		if strings.TrimSpace(z.ID) == "" {
			return fmt.Errorf("%w: zone at index %d has no id", ErrInvalidSnapshot, i)
		}
		if len(z.Coordinates) < MinPoints {
			return fmt.Errorf("%w: zone %s has %d points, need at least %d",
				ErrInvalidSnapshot, z.ID, len(z.Coordinates), MinPoints)
		}
	}
	return nil
}

func (s *Snapshot) ActiveZones() []Zone {
	active := make([]Zone, 0, len(s.Zones))
	for _, z := range s.Zones {
		if z.IsActive {
			active = append(active, z)
		}
	}
	return active
}
