package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(clock *fakeClock) *MemoryLimiter {
	return NewMemoryLimiter(WithClock(clock.Now))
}

func TestLockAfterThreshold(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := newTestLimiter(clock)
	ctx := context.Background()

	for i := 0; i < DefaultThreshold-1; i++ {
		locked, err := l.RecordFailure(ctx, "alice")
		require.NoError(t, err)
		assert.False(t, locked, "locked after %d failures", i+1)
	}

	locked, err := l.RecordFailure(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, locked)

	locked, err = l.IsLocked(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, locked)
}

func TestWindowExpiryResetsCounter(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := newTestLimiter(clock)
	ctx := context.Background()

	for i := 0; i < DefaultThreshold; i++ {
		_, err := l.RecordFailure(ctx, "alice")
		require.NoError(t, err)
	}
	locked, err := l.IsLocked(ctx, "alice")
	require.NoError(t, err)
	require.True(t, locked)

	clock.Advance(DefaultWindow + time.Second)

	locked, err = l.IsLocked(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, locked)

	// The next failure starts a fresh window at count one.
	locked, err = l.RecordFailure(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestClearRemovesLock(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := newTestLimiter(clock)
	ctx := context.Background()

	for i := 0; i < DefaultThreshold; i++ {
		_, err := l.RecordFailure(ctx, "alice")
		require.NoError(t, err)
	}

	require.NoError(t, l.Clear(ctx, "alice"))

	locked, err := l.IsLocked(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestUsernamesIndependentAndNormalized(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := newTestLimiter(clock)
	ctx := context.Background()

	for i := 0; i < DefaultThreshold; i++ {
		_, err := l.RecordFailure(ctx, "Alice")
		require.NoError(t, err)
	}

	// Case variants share one counter.
	locked, err := l.IsLocked(ctx, "aLiCe")
	require.NoError(t, err)
	assert.True(t, locked)

	// Other users are unaffected.
	locked, err = l.IsLocked(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestSweepDropsExpiredEntries(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(
		WithClock(clock.Now),
		WithWindow(time.Minute),
		WithCleanupInterval(time.Minute),
	)
	ctx := context.Background()

	_, err := l.RecordFailure(ctx, "alice")
	require.NoError(t, err)
	_, err = l.RecordFailure(ctx, "bob")
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)

	// Any call past the cleanup interval triggers a sweep.
	_, err = l.IsLocked(ctx, "carol")
	require.NoError(t, err)

	l.mu.Lock()
	remaining := len(l.entries)
	l.mu.Unlock()
	assert.Zero(t, remaining)
}

func TestKeyNormalization(t *testing.T) {
	assert.Equal(t, "alice", Key("  Alice "))
	assert.Equal(t, Key("BOB"), Key("bob"))
}
