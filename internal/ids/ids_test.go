package ids

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func neverTaken(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func TestGenerateShape(t *testing.T) {
	alloc := NewAllocator(neverTaken)

	id, err := alloc.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, id, IDLength)
	for _, r := range id {
		assert.True(t, (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'), "unexpected character %q in id %q", r, id)
	}
}

func TestGenerateUnique(t *testing.T) {
	alloc := NewAllocator(neverTaken)
	seen := make(map[string]struct{})

	for i := 0; i < 50; i++ {
		id, err := alloc.Generate(context.Background())
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %q after %d allocations", id, i)
		seen[id] = struct{}{}
	}
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	calls := 0
	alloc := NewAllocator(func(ctx context.Context, id string) (bool, error) {
		calls++
		return calls < 3, nil
	})

	id, err := alloc.Generate(context.Background())
	require.NoError(t, err)
	assert.Len(t, id, IDLength)
	assert.Equal(t, 3, calls)
}

func TestGenerateExhausted(t *testing.T) {
	calls := 0
	alloc := NewAllocatorWithAttempts(func(ctx context.Context, id string) (bool, error) {
		calls++
		return true, nil
	}, 4)

	_, err := alloc.Generate(context.Background())
	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 4, calls)
}

func TestGeneratePropagatesCheckError(t *testing.T) {
	boom := errors.New("db down")
	alloc := NewAllocator(func(ctx context.Context, id string) (bool, error) {
		return false, boom
	})

	_, err := alloc.Generate(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestNewRowID(t *testing.T) {
	a := NewRowID()
	b := NewRowID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
