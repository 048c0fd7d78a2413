package store

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator assigns identifiers to new zones and log entries. The
// arguments are the current collection sizes.
type IDGenerator interface {
	ZoneID(zoneCount int) string
	LogID(logCount int) string
}

// SequentialIDs derives ids from collection size ("zone_1", "zone_2", ...).
// Two writers working from the same snapshot will produce the same id and
// the later save silently wins.
type SequentialIDs struct{}

func (SequentialIDs) ZoneID(n int) string { return fmt.Sprintf("zone_%d", n+1) }
func (SequentialIDs) LogID(n int) string  { return fmt.Sprintf("log_%d", n+1) }

// UUIDIDs uses random v4 UUIDs and ignores collection size.
type UUIDIDs struct{}

func (UUIDIDs) ZoneID(int) string { return "zone_" + uuid.NewString() }
func (UUIDIDs) LogID(int) string  { return "log_" + uuid.NewString() }

func IDGeneratorFor(scheme string) (IDGenerator, error) {
	switch scheme {
	case "", "sequential":
		return SequentialIDs{}, nil
	case "uuid":
		return UUIDIDs{}, nil
	default:
		return nil, fmt.Errorf("unknown id scheme: %q", scheme)
	}
}
