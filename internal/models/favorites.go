package models

import (
	"encoding/json"
	"fmt"
)

// FavoriteEntry is one favorited ticket or tour with the display data
// captured when it was favorited.
type FavoriteEntry struct {
	ID   int64           `json:"id"`
	Type SearchType      `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Matches reports whether the entry refers to the given item.
func (e FavoriteEntry) Matches(id int64, t SearchType) bool {
	return e.ID == id && e.Type == t
}

// FavoriteView is a favorite as listed to the user. Stale is set when the
// current item data could not be fetched and the stored snapshot is shown.
type FavoriteView struct {
	ID    int64           `json:"id"`
	Type  SearchType      `json:"type"`
	Data  json.RawMessage `json:"data,omitempty"`
	Stale bool            `json:"stale,omitempty"`
}

// FavoritesKey is the storage key holding a user's favorites.
func FavoritesKey(userID int64) string {
	return fmt.Sprintf("favorites_%d", userID)
}
