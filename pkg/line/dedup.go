package line

import (
	"context"
	"sync"
	"time"
)

// Deduplicator remembers webhook event ids for a while so redelivered events
// are handled once.
type Deduplicator struct {
	seen sync.Map
	ttl  time.Duration
	now  func() time.Time
}

func NewDeduplicator(ttl time.Duration) *Deduplicator {
	return &Deduplicator{ttl: ttl, now: time.Now}
}

// TryAcquire reports whether key has not been seen within the ttl and marks it.
// An empty key is always accepted.
func (d *Deduplicator) TryAcquire(key string) bool {
	if key == "" {
		return true
	}
	now := d.now()
	expiry := now.Add(d.ttl)
	if prev, loaded := d.seen.LoadOrStore(key, expiry); loaded {
		if now.Before(prev.(time.Time)) {
			return false
		}
		d.seen.Store(key, expiry)
	}
	return true
}

func (d *Deduplicator) sweep() {
	now := d.now()
	d.seen.Range(func(key, value interface{}) bool {
		if now.After(value.(time.Time)) {
			d.seen.Delete(key)
		}
		return true
	})
}

// Cleanup drops expired keys every interval until ctx is done.
func (d *Deduplicator) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.sweep()
		}
	}
}
