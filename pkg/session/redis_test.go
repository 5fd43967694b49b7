package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRedisStoreTest creates a miniredis instance and returns the store and
// cleanup function
func setupRedisStoreTest(t *testing.T) (*RedisStore, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	store, err := NewRedisStore("redis://"+mr.Addr(), time.Hour)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create Redis store: %v", err)
	}

	cleanup := func() {
		store.Close()
		mr.Close()
	}

	return store, mr, cleanup
}

func TestNewRedisStore_InvalidURL(t *testing.T) {
	_, err := NewRedisStore("invalid://url", time.Hour)
	require.Error(t, err)
}

func TestNewRedisStore_ConnectionFailure(t *testing.T) {
	_, err := NewRedisStore("redis://localhost:9999", time.Hour)
	require.Error(t, err)
}

func TestRedisStore_LoadUnknownID(t *testing.T) {
	store, _, cleanup := setupRedisStoreTest(t)
	defer cleanup()

	rec, err := store.Load(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Equal(t, Record{}, rec)
}

func TestRedisStore_SaveAndLoad(t *testing.T) {
	store, _, cleanup := setupRedisStoreTest(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "abc", Record{Token: "tok-1"}))

	rec, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", rec.Token)
}

func TestRedisStore_SaveReplacesWholeRecord(t *testing.T) {
	store, _, cleanup := setupRedisStoreTest(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "abc", Record{Token: "tok-1"}))
	require.NoError(t, store.Save(ctx, "abc", Record{}))

	rec, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, rec.Token, "logout-style save must clear the token")
}

func TestRedisStore_CorruptRecord(t *testing.T) {
	store, mr, cleanup := setupRedisStoreTest(t)
	defer cleanup()

	require.NoError(t, mr.Set("session:bad", "{not json"))

	_, err := store.Load(context.Background(), "bad")
	require.Error(t, err)

	// Corrupt data is deleted so the next load starts clean.
	rec, err := store.Load(context.Background(), "bad")
	require.NoError(t, err)
	assert.Equal(t, Record{}, rec)
}
