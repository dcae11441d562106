package engagement

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisMarkerStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisMarkerStore(client, 24*time.Hour), mr
}

func markerStores(t *testing.T) map[string]MarkerStore {
	redisStore, _ := newRedisStore(t)
	return map[string]MarkerStore{
		"memory": NewMemoryMarkerStore(),
		"redis":  redisStore,
	}
}

func TestClaimBriefingOncePerDay(t *testing.T) {
	ctx := context.Background()
	for name, store := range markerStores(t) {
		t.Run(name, func(t *testing.T) {
			ok, err := store.ClaimBriefing(ctx, "dev-1", "2026-03-02")
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = store.ClaimBriefing(ctx, "dev-1", "2026-03-02")
			require.NoError(t, err)
			assert.False(t, ok)

			ok, err = store.ClaimBriefing(ctx, "dev-2", "2026-03-02")
			require.NoError(t, err)
			assert.True(t, ok, "devices are throttled independently")

			ok, err = store.ClaimBriefing(ctx, "dev-1", "2026-03-03")
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestClaimGhostAlertHonoursCooldown(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	for name, store := range markerStores(t) {
		t.Run(name, func(t *testing.T) {
			ok, err := store.ClaimGhostAlert(ctx, "dev-1", now, time.Hour)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = store.ClaimGhostAlert(ctx, "dev-1", now.Add(59*time.Minute), time.Hour)
			require.NoError(t, err)
			assert.False(t, ok)

			ok, err = store.ClaimGhostAlert(ctx, "dev-1", now.Add(61*time.Minute), time.Hour)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestRedisMarkersExpire(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	_, err := store.ClaimBriefing(ctx, "dev-1", "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", mr.HGet(markerKey("dev-1"), fieldBriefingDay))
	assert.Equal(t, 24*time.Hour, mr.TTL(markerKey("dev-1")))

	mr.FastForward(25 * time.Hour)
	ok, err := store.ClaimBriefing(ctx, "dev-1", "2026-03-02")
	require.NoError(t, err)
	assert.True(t, ok)
}
