package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelFront/internal/models"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStore(rdb, "travel:"), mr
}

func TestRedisStoreGetSetExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNoRecord)

	require.NoError(t, store.Set(ctx, "revoked_abc", []byte("1"), time.Minute))
	assert.True(t, mr.Exists("travel:revoked_abc"))

	got, err := store.Get(ctx, "revoked_abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	mr.FastForward(2 * time.Minute)
	_, err = store.Get(ctx, "revoked_abc")
	assert.ErrorIs(t, err, models.ErrNoRecord)
}

func TestRedisStoreConcurrentFirstToggles(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t)
	repo := &FavoritesRepository{Store: store}

	// five writers fit in the WATCH retry budget
	const writers = redisUpdateAttempts
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := repo.Modify(ctx, 42, func(entries []models.FavoriteEntry) []models.FavoriteEntry {
				return append(entries, models.FavoriteEntry{ID: id, Type: models.SearchTour})
			})
			assert.NoError(t, err)
		}(int64(i + 1))
	}
	wg.Wait()

	entries, err := repo.List(ctx, 42)
	require.NoError(t, err)
	assert.Len(t, entries, writers)
}

func TestRedisStoreUpdateErrorLeavesValue(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t)

	require.NoError(t, store.Set(ctx, "k", []byte("keep"), 0))
	err := store.Update(ctx, "k", func([]byte) ([]byte, error) { return nil, assert.AnError })
	assert.ErrorIs(t, err, assert.AnError)

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("keep"), got)
}
