package repositories

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelFront/internal/models"
)

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, store.Set(ctx, "b", []byte("2"), 0))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, models.ErrNoRecord)

	got, err = store.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "short", []byte("x"), time.Second))
	require.NoError(t, store.Set(ctx, "long", []byte("x"), time.Hour))

	assert.Equal(t, 1, store.Sweep(now.Add(time.Minute)))
	_, err := store.Get(ctx, "long")
	assert.NoError(t, err)
}

func TestMemoryStoreUpdateIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Update(ctx, "counter", func(current []byte) ([]byte, error) {
				return append(current, 'x'), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, "counter")
	require.NoError(t, err)
	assert.Len(t, got, 50)
}

func TestMemoryStoreUpdateError(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "k", []byte("keep"), 0))

	boom := errors.New("boom")
	err := store.Update(ctx, "k", func([]byte) ([]byte, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("keep"), got)
}

func TestSQLStoreRebind(t *testing.T) {
	pg := &SQLStore{Dialect: DialectPostgres}
	assert.Equal(t, "DELETE FROM kv_store WHERE k = $1 AND x = $2", pg.rebind("DELETE FROM kv_store WHERE k = ? AND x = ?"))

	my := &SQLStore{Dialect: DialectMySQL}
	assert.Equal(t, "SELECT v FROM kv_store WHERE k = ?", my.rebind("SELECT v FROM kv_store WHERE k = ?"))
	assert.Contains(t, my.upsertQuery(), "ON DUPLICATE KEY UPDATE")
	assert.Contains(t, pg.upsertQuery(), "ON CONFLICT (k)")
}
