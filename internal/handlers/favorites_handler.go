package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"travelFront/internal/models"
	"travelFront/internal/services"
)

type FavoritesHandler struct {
	Service *services.FavoritesService
}

type toggleFavoriteRequest struct {
	ID   int64           `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func parseItemRef(rawID, rawType string) (int64, models.SearchType, bool) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return 0, "", false
	}
	t, ok := models.ParseSearchType(rawType)
	return id, t, ok
}

// List returns the favorites of the current user. Anonymous users get an
// empty list.
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	refresh := r.URL.Query().Get("refresh") == "1"
	views := h.Service.List(r.Context(), UserFrom(r.Context()), refresh)
	writeJSON(w, http.StatusOK, views)
}

func (h *FavoritesHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req toggleFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	t, ok := models.ParseSearchType(req.Type)
	if !ok || req.ID <= 0 {
		writeError(w, http.StatusBadRequest, "id and type are required")
		return
	}

	user := UserFrom(r.Context())
	favorited, err := h.Service.Toggle(r.Context(), user, req.ID, t, req.Data)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{
		"favorited":     favorited,
		"authenticated": user != nil && user.ID != 0,
	})
}

func (h *FavoritesHandler) Check(w http.ResponseWriter, r *http.Request) {
	id, t, ok := parseItemRef(r.URL.Query().Get("id"), r.URL.Query().Get("type"))
	if !ok {
		writeError(w, http.StatusBadRequest, "id and type are required")
		return
	}
	favorited := h.Service.IsFavorite(r.Context(), UserFrom(r.Context()), id, t)
	writeJSON(w, http.StatusOK, map[string]bool{"favorited": favorited})
}

func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, t, ok := parseItemRef(getParam(r, "id"), getParam(r, "type"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid favorite reference")
		return
	}
	if err := h.Service.Remove(r.Context(), UserFrom(r.Context()), id, t); err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
