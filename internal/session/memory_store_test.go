package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCreateGet(t *testing.T) {
	store := NewMemoryStore(15 * time.Minute)
	ctx := context.Background()

	created, err := store.Create(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)
	assert.False(t, got.Verified)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestMemoryStoreDistinctIDs(t *testing.T) {
	store := NewMemoryStore(15 * time.Minute)
	ctx := context.Background()

	s1, err := store.Create(ctx, "a@x.com")
	require.NoError(t, err)
	s2, err := store.Create(ctx, "a@x.com")
	require.NoError(t, err)

	assert.NotEqual(t, s1.ID, s2.ID)
}

func TestMemoryStoreGetUnknown(t *testing.T) {
	store := NewMemoryStore(15 * time.Minute)

	_, err := store.Get(context.Background(), "nonexistent-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreMarkVerified(t *testing.T) {
	store := NewMemoryStore(15 * time.Minute)
	ctx := context.Background()

	s, err := store.Create(ctx, "a@x.com")
	require.NoError(t, err)

	require.NoError(t, store.MarkVerified(ctx, s.ID))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.Verified)

	// Idempotent: a second completion is a no-op, not an error.
	require.NoError(t, store.MarkVerified(ctx, s.ID))

	got, err = store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.Verified)
	assert.Equal(t, "a@x.com", got.Email)
}

func TestMemoryStoreMarkVerifiedUnknown(t *testing.T) {
	store := NewMemoryStore(15 * time.Minute)
	ctx := context.Background()

	existing, err := store.Create(ctx, "a@x.com")
	require.NoError(t, err)

	err = store.MarkVerified(ctx, "nonexistent-id")
	assert.ErrorIs(t, err, ErrNotFound)

	// No observable effect on the rest of the store.
	got, err := store.Get(ctx, existing.ID)
	require.NoError(t, err)
	assert.False(t, got.Verified)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ttl := 15 * time.Minute
	store := NewMemoryStore(ttl)
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }

	s, err := store.Create(ctx, "a@x.com")
	require.NoError(t, err)

	// Just inside the window: still pending.
	store.now = func() time.Time { return now.Add(ttl - time.Second) }
	_, err = store.Get(ctx, s.ID)
	require.NoError(t, err)

	// Past the window: expired, and dropped on observation.
	store.now = func() time.Time { return now.Add(ttl + time.Second) }
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrExpired)

	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpiredCannotBeVerified(t *testing.T) {
	ttl := time.Minute
	store := NewMemoryStore(ttl)
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }

	s, err := store.Create(ctx, "a@x.com")
	require.NoError(t, err)

	store.now = func() time.Time { return now.Add(2 * ttl) }
	assert.ErrorIs(t, store.MarkVerified(ctx, s.ID), ErrExpired)
}

func TestMemoryStoreVerifiedSurvivesTTL(t *testing.T) {
	ttl := time.Minute
	store := NewMemoryStore(ttl)
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }

	s, err := store.Create(ctx, "a@x.com")
	require.NoError(t, err)
	require.NoError(t, store.MarkVerified(ctx, s.ID))

	store.now = func() time.Time { return now.Add(2 * ttl) }
	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.Verified)
}

// Concurrent polls racing one completion must only ever observe pending
// then verified, never anything else.
func TestMemoryStoreConcurrentPollAndComplete(t *testing.T) {
	store := NewMemoryStore(15 * time.Minute)
	ctx := context.Background()

	s, err := store.Create(ctx, "a@x.com")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sawVerified := false
			for j := 0; j < 200; j++ {
				got, err := store.Get(ctx, s.ID)
				assert.NoError(t, err)
				assert.Equal(t, "a@x.com", got.Email)
				if sawVerified {
					assert.True(t, got.Verified, "verified must be monotonic")
				}
				sawVerified = got.Verified
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, store.MarkVerified(ctx, s.ID))
	}()

	wg.Wait()

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.Verified)
}
