package cache

import (
	"context"
	"sync"
	"time"

	"storefront-api/internal/ports"
)

// MemoryLocker is the single-process fallback used when Redis is not
// configured.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]time.Time
	now   func() time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]time.Time), now: time.Now}
}

func (l *MemoryLocker) TryLock(_ context.Context, name string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if exp, held := l.locks[name]; held && now.Before(exp) {
		return false, nil
	}
	l.locks[name] = now.Add(ttl)
	return true, nil
}

func (l *MemoryLocker) Unlock(_ context.Context, name string) error {
	l.mu.Lock()
	delete(l.locks, name)
	l.mu.Unlock()
	return nil
}

// MemoryDeduper remembers event ids in process memory.
type MemoryDeduper struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	now    func() time.Time
	writes int
}

func NewMemoryDeduper() *MemoryDeduper {
	return &MemoryDeduper{seen: make(map[string]time.Time), now: time.Now}
}

func (d *MemoryDeduper) FirstSeen(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if exp, ok := d.seen[eventID]; ok && now.Before(exp) {
		return false, nil
	}
	d.seen[eventID] = now.Add(ttl)

	// prune expired ids every 256 writes
	d.writes++
	if d.writes%256 == 0 {
		for id, exp := range d.seen {
			if !now.Before(exp) {
				delete(d.seen, id)
			}
		}
	}
	return true, nil
}

// Forget drops an event id so a redelivery is processed again.
func (d *MemoryDeduper) Forget(_ context.Context, eventID string) error {
	d.mu.Lock()
	delete(d.seen, eventID)
	d.mu.Unlock()
	return nil
}

var (
	_ ports.SyncLocker   = (*MemoryLocker)(nil)
	_ ports.EventDeduper = (*MemoryDeduper)(nil)
)
