package ratelimit

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	failures int
	resetAt  time.Time
}

// MemoryLimiter keeps attempt counters in process memory. State is lost on
// restart, which is a deliberate simplification, not a durability guarantee.
// Expired entries are swept lazily from the call path once per cleanup
// interval, bounding growth from one-off failed usernames without a
// background goroutine.
type MemoryLimiter struct {
	mu          sync.Mutex
	entries     map[string]*entry
	lastCleanup time.Time

	threshold int
	window    time.Duration
	cleanup   time.Duration
	now       func() time.Time
}

type MemoryOption func(*MemoryLimiter)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(l *MemoryLimiter) { l.now = now }
}

func WithThreshold(n int) MemoryOption {
	return func(l *MemoryLimiter) { l.threshold = n }
}

func WithWindow(d time.Duration) MemoryOption {
	return func(l *MemoryLimiter) { l.window = d }
}

func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(l *MemoryLimiter) { l.cleanup = d }
}

func NewMemoryLimiter(opts ...MemoryOption) *MemoryLimiter {
	l := &MemoryLimiter{
		entries:   make(map[string]*entry),
		threshold: DefaultThreshold,
		window:    DefaultWindow,
		cleanup:   DefaultCleanupInterval,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.lastCleanup = l.now()
	return l
}

func (l *MemoryLimiter) IsLocked(_ context.Context, username string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweepLocked(now)

	e, ok := l.entries[Key(username)]
	if !ok || now.After(e.resetAt) {
		return false, nil
	}
	return e.failures >= l.threshold, nil
}

func (l *MemoryLimiter) RecordFailure(_ context.Context, username string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweepLocked(now)

	key := Key(username)
	e, ok := l.entries[key]
	if !ok || now.After(e.resetAt) {
		l.entries[key] = &entry{failures: 1, resetAt: now.Add(l.window)}
		return false, nil
	}

	e.failures++
	return e.failures >= l.threshold, nil
}

func (l *MemoryLimiter) Clear(_ context.Context, username string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, Key(username))
	return nil
}

// sweepLocked drops expired entries at most once per cleanup interval.
// Caller holds l.mu.
func (l *MemoryLimiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastCleanup) < l.cleanup {
		return
	}
	l.lastCleanup = now
	for key, e := range l.entries {
		if now.After(e.resetAt) {
			delete(l.entries, key)
		}
	}
}
