package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"travelFront/internal/models"
	"travelFront/internal/repositories"
)

const favoritesRefreshWorkers = 4

// FavoritesService toggles and lists a signed-in user's favorites. For
// anonymous users every operation is a no-op and nothing is favorited.
type FavoritesService struct {
	repo  *repositories.FavoritesRepository
	items ItemBackend
	log   Logger
	now   func() time.Time
}

// NewFavoritesService wires the service. items may be nil, in which case
// listings always show the stored snapshots.
func NewFavoritesService(repo *repositories.FavoritesRepository, items ItemBackend, logger Logger) *FavoritesService {
	s := &FavoritesService{repo: repo, items: items, log: loggerOrNop(logger), now: time.Now}
	repo.OnCorrupt = func(key string, err error) {
		s.log.Errorf("favorites: %s holds unreadable data, treating as empty: %v", key, err)
	}
	return s
}

func anonymous(user *models.User) bool {
	return user == nil || user.ID == 0
}

// Toggle removes the (id, type) entry when present and appends it with the
// given snapshot otherwise. It reports whether the item is now favorited.
func (s *FavoritesService) Toggle(ctx context.Context, user *models.User, id int64, t models.SearchType, data json.RawMessage) (bool, error) {
	if anonymous(user) {
		return false, nil
	}
	if !t.Valid() {
		return false, fmt.Errorf("favorites: unknown type %q", t)
	}

	var favorited bool
	_, err := s.repo.Modify(ctx, user.ID, func(entries []models.FavoriteEntry) []models.FavoriteEntry {
		kept := make([]models.FavoriteEntry, 0, len(entries)+1)
		for _, e := range entries {
			if !e.Matches(id, t) {
				kept = append(kept, e)
			}
		}
		if len(kept) < len(entries) {
			favorited = false
			return kept
		}
		favorited = true
		return append(kept, models.FavoriteEntry{ID: id, Type: t, Data: data})
	})
	if err != nil {
		s.log.Errorf("favorites: toggle %s %d for user %d: %v", t, id, user.ID, err)
		return false, err
	}
	return favorited, nil
}

// Remove drops the (id, type) entry if present.
func (s *FavoritesService) Remove(ctx context.Context, user *models.User, id int64, t models.SearchType) error {
	if anonymous(user) {
		return nil
	}
	_, err := s.repo.Modify(ctx, user.ID, func(entries []models.FavoriteEntry) []models.FavoriteEntry {
		kept := entries[:0]
		for _, e := range entries {
			if !e.Matches(id, t) {
				kept = append(kept, e)
			}
		}
		return kept
	})
	if err != nil {
		s.log.Errorf("favorites: remove %s %d for user %d: %v", t, id, user.ID, err)
	}
	return err
}

// IsFavorite never fails; unreadable storage means not favorited.
func (s *FavoritesService) IsFavorite(ctx context.Context, user *models.User, id int64, t models.SearchType) bool {
	if anonymous(user) {
		return false
	}
	entries, err := s.repo.List(ctx, user.ID)
	if err != nil {
		s.log.Errorf("favorites: read for user %d: %v", user.ID, err)
		return false
	}
	for _, e := range entries {
		if e.Matches(id, t) {
			return true
		}
	}
	return false
}

// List returns the user's favorites in the order they were added. With
// refresh the current item data is fetched; entries whose data cannot be
// fetched keep their snapshot and are marked stale. Stored snapshots are
// never rewritten.
func (s *FavoritesService) List(ctx context.Context, user *models.User, refresh bool) []models.FavoriteView {
	if anonymous(user) {
		return []models.FavoriteView{}
	}
	entries, err := s.repo.List(ctx, user.ID)
	if err != nil {
		s.log.Errorf("favorites: read for user %d: %v", user.ID, err)
		return []models.FavoriteView{}
	}

	views := make([]models.FavoriteView, len(entries))
	for i, e := range entries {
		views[i] = models.FavoriteView{ID: e.ID, Type: e.Type, Data: e.Data}
	}
	if !refresh || s.items == nil || len(views) == 0 {
		return views
	}

	today := s.now().Format("2006-01-02")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(favoritesRefreshWorkers)
	for i := range views {
		i := i
		g.Go(func() error {
			current, err := s.current(gctx, views[i].Type, views[i].ID, today)
			if err != nil {
				s.log.Infof("favorites: refresh %s %d: %v", views[i].Type, views[i].ID, err)
				views[i].Stale = true
				return nil
			}
			views[i].Data = current
			return nil
		})
	}
	_ = g.Wait()
	return views
}

func (s *FavoritesService) current(ctx context.Context, t models.SearchType, id int64, today string) (json.RawMessage, error) {
	item, err := s.items.Item(ctx, t, id)
	if err != nil {
		return nil, err
	}
	res, err := normalizeItem(t, item, today)
	if err != nil {
		return nil, err
	}
	if res.Tour != nil {
		return json.Marshal(res.Tour)
	}
	return json.Marshal(res.Ticket)
}
