package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestLocalStoreRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Save(ctx, "uploads/abc123.txt", strings.NewReader("hello"), 5, "text/plain")
	require.NoError(t, err)

	exists, err := store.Exists(ctx, "uploads/abc123.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := store.Open(ctx, "uploads/abc123.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "hello", string(data))

	require.NoError(t, store.Delete(ctx, "uploads/abc123.txt"))

	exists, err = store.Exists(ctx, "uploads/abc123.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStoreOverwrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "k.txt", strings.NewReader("first"), 5, "text/plain"))
	require.NoError(t, store.Save(ctx, "k.txt", strings.NewReader("second"), 6, "text/plain"))

	rc, err := store.Open(ctx, "k.txt")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestLocalStoreOpenMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Open(context.Background(), "nope.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreDeleteMissingIsNoop(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Delete(context.Background(), "nope.txt"))
}

func TestLocalStoreRejectsInvalidKeys(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	keys := []string{"", "   ", ".", "/", "key\x00.txt"}
	for _, key := range keys {
		err := store.Save(ctx, key, strings.NewReader("x"), 1, "text/plain")
		assert.ErrorIs(t, err, ErrInvalidPath, "key %q", key)

		_, err = store.Open(ctx, key)
		assert.ErrorIs(t, err, ErrInvalidPath, "key %q", key)
	}
}

func TestLocalStoreNeutralizesTraversal(t *testing.T) {
	base := t.TempDir()
	store, err := NewLocalStore(filepath.Join(base, "data"))
	require.NoError(t, err)
	ctx := context.Background()

	// Keys with parent references are cleaned relative to the base, so the
	// write lands inside the store instead of a sibling directory.
	keys := []string{
		"../escape.txt",
		"a/../../escape.txt",
		"..\\escape.txt",
	}
	for _, key := range keys {
		require.NoError(t, store.Save(ctx, key, strings.NewReader("x"), 1, "text/plain"), "key %q", key)
	}

	_, err = os.Stat(filepath.Join(base, "escape.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(filepath.Join(base, "data", "escape.txt"))
	assert.NoError(t, err)
}

func TestLocalStoreNormalizesDotSegments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Dot segments that stay inside the base are cleaned, not rejected.
	require.NoError(t, store.Save(ctx, "a/./b/../c.txt", strings.NewReader("x"), 1, "text/plain"))

	exists, err := store.Exists(ctx, "a/c.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLocalStoreSaveCreatesNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), "x/y/z/file.bin", strings.NewReader("x"), 1, ""))

	_, err = os.Stat(filepath.Join(dir, "x", "y", "z", "file.bin"))
	assert.NoError(t, err)
}
