package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"travelFront/internal/models"
)

// FavoritesRepository stores each user's favorites as one JSON array under
// models.FavoritesKey.
type FavoritesRepository struct {
	Store KVStore
	// OnCorrupt is called when a stored array cannot be decoded. The array
	// is then treated as empty.
	OnCorrupt func(key string, err error)
}

func (r *FavoritesRepository) List(ctx context.Context, userID int64) ([]models.FavoriteEntry, error) {
	key := models.FavoritesKey(userID)
	raw, err := r.Store.Get(ctx, key)
	if errors.Is(err, models.ErrNoRecord) {
		return []models.FavoriteEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return r.decode(key, raw), nil
}

// Modify replaces the user's favorites with fn's result atomically and
// returns what was stored.
func (r *FavoritesRepository) Modify(ctx context.Context, userID int64, fn func([]models.FavoriteEntry) []models.FavoriteEntry) ([]models.FavoriteEntry, error) {
	key := models.FavoritesKey(userID)
	var stored []models.FavoriteEntry
	err := r.Store.Update(ctx, key, func(current []byte) ([]byte, error) {
		entries := []models.FavoriteEntry{}
		if current != nil {
			entries = r.decode(key, current)
		}
		stored = fn(entries)
		if stored == nil {
			stored = []models.FavoriteEntry{}
		}
		return json.Marshal(stored)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return stored, nil
}

// Raw returns the stored bytes, mainly for diagnostics.
func (r *FavoritesRepository) Raw(ctx context.Context, userID int64) ([]byte, error) {
	return r.Store.Get(ctx, models.FavoritesKey(userID))
}

func (r *FavoritesRepository) decode(key string, raw []byte) []models.FavoriteEntry {
	var entries []models.FavoriteEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		if r.OnCorrupt != nil {
			r.OnCorrupt(key, err)
		}
		return []models.FavoriteEntry{}
	}
	if entries == nil {
		entries = []models.FavoriteEntry{}
	}
	return entries
}
