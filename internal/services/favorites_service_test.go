package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"travelFront/internal/models"
	"travelFront/internal/repositories"
)

type fakeItemBackend struct {
	items map[int64]map[string]any
}

func (f *fakeItemBackend) Item(_ context.Context, _ models.SearchType, id int64) (map[string]any, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return item, nil
}

func newFavoritesFixture(items ItemBackend) (*FavoritesService, *repositories.FavoritesRepository, *repositories.MemoryStore) {
	store := repositories.NewMemoryStore()
	repo := &repositories.FavoritesRepository{Store: store}
	return NewFavoritesService(repo, items, nil), repo, store
}

func TestToggleTwiceRestoresStoredList(t *testing.T) {
	svc, repo, store := newFavoritesFixture(nil)
	ctx := context.Background()
	user := &models.User{ID: 7}

	initial, _ := json.Marshal([]models.FavoriteEntry{{ID: 1, Type: models.SearchAir, Data: json.RawMessage(`{"price":100}`)}})
	if err := store.Set(ctx, models.FavoritesKey(7), initial, 0); err != nil {
		t.Fatalf("seed: %v", err)
	}

	on, err := svc.Toggle(ctx, user, 2, models.SearchTour, json.RawMessage(`{"hotel_name":"Sea"}`))
	if err != nil || !on {
		t.Fatalf("expected item to be favorited, got %v %v", on, err)
	}
	if !svc.IsFavorite(ctx, user, 2, models.SearchTour) {
		t.Fatalf("expected IsFavorite after toggle")
	}
	if svc.IsFavorite(ctx, user, 2, models.SearchAir) {
		t.Fatalf("same id with another type must not match")
	}

	on, err = svc.Toggle(ctx, user, 2, models.SearchTour, nil)
	if err != nil || on {
		t.Fatalf("expected item to be removed, got %v %v", on, err)
	}

	raw, err := repo.Raw(ctx, 7)
	if err != nil {
		t.Fatalf("raw: %v", err)
	}
	if !bytes.Equal(raw, initial) {
		t.Fatalf("expected stored list to be restored\nwant %s\ngot  %s", initial, raw)
	}
}

func TestFavoritesAnonymousIsNoop(t *testing.T) {
	svc, _, store := newFavoritesFixture(nil)
	ctx := context.Background()

	for _, user := range []*models.User{nil, {ID: 0}} {
		on, err := svc.Toggle(ctx, user, 1, models.SearchAir, nil)
		if err != nil || on {
			t.Fatalf("anonymous toggle: %v %v", on, err)
		}
		if svc.IsFavorite(ctx, user, 1, models.SearchAir) {
			t.Fatalf("anonymous user has no favorites")
		}
		if got := svc.List(ctx, user, false); len(got) != 0 {
			t.Fatalf("expected empty list got %v", got)
		}
	}
	if _, err := store.Get(ctx, models.FavoritesKey(0)); !errors.Is(err, models.ErrNoRecord) {
		t.Fatalf("expected no record for anonymous key, got %v", err)
	}
}

func TestFavoritesCorruptDataReadsAsEmpty(t *testing.T) {
	svc, _, store := newFavoritesFixture(nil)
	ctx := context.Background()
	user := &models.User{ID: 3}
	if err := store.Set(ctx, models.FavoritesKey(3), []byte(`{not json`), 0); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if got := svc.List(ctx, user, false); len(got) != 0 {
		t.Fatalf("expected empty list got %v", got)
	}
	if svc.IsFavorite(ctx, user, 1, models.SearchAir) {
		t.Fatalf("corrupt storage must read as not favorited")
	}
	on, err := svc.Toggle(ctx, user, 1, models.SearchAir, nil)
	if err != nil || !on {
		t.Fatalf("toggle over corrupt data: %v %v", on, err)
	}
	if got := svc.List(ctx, user, false); len(got) != 1 {
		t.Fatalf("expected the corrupt list to be replaced, got %v", got)
	}
}

func TestFavoritesRefreshMarksStale(t *testing.T) {
	items := &fakeItemBackend{items: map[int64]map[string]any{
		1: {"id": float64(1), "hotel_name": "Sea View", "price_per_night": float64(6000)},
	}}
	svc, repo, _ := newFavoritesFixture(items)
	ctx := context.Background()
	user := &models.User{ID: 5}

	snapshot := json.RawMessage(`{"hotel_name":"Old"}`)
	svc.Toggle(ctx, user, 1, models.SearchTour, snapshot)
	svc.Toggle(ctx, user, 2, models.SearchTour, snapshot)
	before, _ := repo.Raw(ctx, 5)

	views := svc.List(ctx, user, true)
	if len(views) != 2 {
		t.Fatalf("expected 2 views got %d", len(views))
	}
	if views[0].Stale {
		t.Fatalf("first entry should be fresh")
	}
	var fresh models.Tour
	if err := json.Unmarshal(views[0].Data, &fresh); err != nil {
		t.Fatalf("decode fresh: %v", err)
	}
	if fresh.HotelName != "Sea View" || fresh.PricePerNight != 6000 {
		t.Fatalf("unexpected fresh data %+v", fresh)
	}
	if !views[1].Stale || string(views[1].Data) != string(snapshot) {
		t.Fatalf("second entry should keep its snapshot and be stale, got %+v", views[1])
	}

	after, _ := repo.Raw(ctx, 5)
	if !bytes.Equal(before, after) {
		t.Fatalf("refresh must not rewrite storage")
	}
}

func TestFavoritesRemove(t *testing.T) {
	svc, _, _ := newFavoritesFixture(nil)
	ctx := context.Background()
	user := &models.User{ID: 9}

	svc.Toggle(ctx, user, 1, models.SearchAir, nil)
	svc.Toggle(ctx, user, 1, models.SearchTrain, nil)
	if err := svc.Remove(ctx, user, 1, models.SearchAir); err != nil {
		t.Fatalf("remove: %v", err)
	}
	views := svc.List(ctx, user, false)
	if len(views) != 1 || views[0].Type != models.SearchTrain {
		t.Fatalf("unexpected list %+v", views)
	}
}
