package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"travelFront/internal/models"
)

// BackendSessionRepository keeps the backend cookies of a signed-in user,
// keyed by the id of the session token handed to the browser.
type BackendSessionRepository struct {
	Store KVStore
}

func backendSessionKey(tokenID string) string {
	return "backend_session_" + tokenID
}

func (r *BackendSessionRepository) Save(ctx context.Context, tokenID string, cookies []models.BackendCookie, ttl time.Duration) error {
	b, err := json.Marshal(cookies)
	if err != nil {
		return err
	}
	return r.Store.Set(ctx, backendSessionKey(tokenID), b, ttl)
}

func (r *BackendSessionRepository) Load(ctx context.Context, tokenID string) ([]models.BackendCookie, error) {
	raw, err := r.Store.Get(ctx, backendSessionKey(tokenID))
	if err != nil {
		return nil, err
	}
	var cookies []models.BackendCookie
	if err := json.Unmarshal(raw, &cookies); err != nil {
		return nil, fmt.Errorf("decode backend session: %w", err)
	}
	return cookies, nil
}

func (r *BackendSessionRepository) Delete(ctx context.Context, tokenID string) error {
	return r.Store.Delete(ctx, backendSessionKey(tokenID))
}
