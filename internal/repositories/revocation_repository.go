package repositories

import (
	"context"
	"errors"
	"time"

	"travelFront/internal/models"
)

// RevocationRepository remembers logged out session tokens until they
// would have expired anyway.
type RevocationRepository struct {
	Store KVStore
}

func revokedKey(tokenID string) string {
	return "revoked_" + tokenID
}

func (r *RevocationRepository) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.Store.Set(ctx, revokedKey(tokenID), []byte("1"), ttl)
}

func (r *RevocationRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, err := r.Store.Get(ctx, revokedKey(tokenID))
	if errors.Is(err, models.ErrNoRecord) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
