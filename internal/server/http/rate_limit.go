package http

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig sizes the per-client token buckets.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	EntryTTL          time.Duration
	CleanupInterval   time.Duration
}

type rateLimitEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	mu              sync.Mutex
	limit           rate.Limit
	burst           int
	entries         map[string]*rateLimitEntry
	entryTTL        time.Duration
	cleanupInterval time.Duration
	lastCleanup     time.Time
	now             func() time.Time
}

// newRateLimiter returns nil, which admits everything, when the rate is
// not positive.
func newRateLimiter(cfg RateLimitConfig) *rateLimiter {
	if cfg.RequestsPerSecond <= 0 {
		return nil
	}
	ttl := cfg.EntryTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	cleanup := cfg.CleanupInterval
	if cleanup <= 0 {
		cleanup = 5 * time.Minute
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &rateLimiter{
		limit:           rate.Limit(cfg.RequestsPerSecond),
		burst:           burst,
		entries:         make(map[string]*rateLimitEntry),
		entryTTL:        ttl,
		cleanupInterval: cleanup,
		lastCleanup:     time.Now(),
		now:             time.Now,
	}
}

func (r *rateLimiter) allow(key string) bool {
	if r == nil || key == "" {
		return true
	}
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if now.Sub(r.lastCleanup) >= r.cleanupInterval {
		for k, entry := range r.entries {
			if now.Sub(entry.lastSeen) > r.entryTTL {
				delete(r.entries, k)
			}
		}
		r.lastCleanup = now
	}

	entry, ok := r.entries[key]
	if !ok {
		entry = &rateLimitEntry{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.entries[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}
