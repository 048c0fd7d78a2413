package activity

import (
	"sync"
	"sync/atomic"

	"github.com/mr1hm/go-risk-zones/internal/models"
)

const subscriberBuffer = 64

// Broadcaster fans new zone log entries out to live subscribers.
type Broadcaster struct {
	subscribers map[uint64]chan models.ZoneLog
	nextID      atomic.Uint64
	mu          sync.RWMutex
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]chan models.ZoneLog),
	}
}

func (b *Broadcaster) Subscribe() (uint64, <-chan models.ZoneLog) {
	id := b.nextID.Add(1)
	ch := make(chan models.ZoneLog, subscriberBuffer)

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()

	return id, ch
}

func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

func (b *Broadcaster) Publish(entries ...models.ZoneLog) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, e := range entries {
		for _, ch := range b.subscribers {
			select {
			case ch <- e:
			default:
				// slow subscriber, drop
			}
		}
	}
}

// PublishNew sends subscribers the audit entries next gained over prev,
// oldest first, and returns how many there were.
func (b *Broadcaster) PublishNew(prev, next []models.ZoneLog) int {
	fresh := NewEntries(prev, next)
	if len(fresh) > 0 {
		b.Publish(fresh...)
	}
	return len(fresh)
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes all subscriber channels so their streams end.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
}

// NewEntries returns the entries of next that are not in prev, oldest
// first so they can be published in the order they happened.
func NewEntries(prev, next []models.ZoneLog) []models.ZoneLog {
	seen := make(map[string]struct{}, len(prev))
	for _, e := range prev {
		seen[entryKey(e)] = struct{}{}
	}

	var fresh []models.ZoneLog
	for i := len(next) - 1; i >= 0; i-- {
		if _, ok := seen[entryKey(next[i])]; !ok {
			fresh = append(fresh, next[i])
		}
	}
	return fresh
}

// ids alone can repeat under the sequential scheme, so the timestamp and
// action are part of the key.
func entryKey(e models.ZoneLog) string {
	return e.ID + "|" + string(e.Action) + "|" + e.Timestamp.UTC().Format("2006-01-02T15:04:05.999999999")
}
