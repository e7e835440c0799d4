package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Keyed holds one token bucket per key (client IP, email address, ...)
type Keyed struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	idle    time.Duration
	entries map[string]*entry
	now     func() time.Time
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a limiter allowing events per interval for every key, with
// bursts of up to burst events. Keys unused for longer than idle are
// dropped by Cleanup.
func New(events int, interval time.Duration, burst int, idle time.Duration) *Keyed {
	if events <= 0 {
		events = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Keyed{
		limit:   rate.Every(interval / time.Duration(events)),
		burst:   burst,
		idle:    idle,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Allow reports whether an event for key may happen now
func (k *Keyed) Allow(key string) bool {
	if key == "" {
		key = "unknown"
	}
	now := k.now()

	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.entries[key] = e
	}
	e.lastSeen = now
	k.mu.Unlock()

	return e.limiter.AllowN(now, 1)
}

// Cleanup drops idle keys and returns how many were removed
func (k *Keyed) Cleanup() int {
	cutoff := k.now().Add(-k.idle)

	k.mu.Lock()
	defer k.mu.Unlock()

	removed := 0
	for key, e := range k.entries {
		if e.lastSeen.Before(cutoff) {
			delete(k.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
