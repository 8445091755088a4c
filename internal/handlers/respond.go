package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"travelFront/internal/backend"
	"travelFront/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// errorStatus maps service errors onto response codes. Upstream 4xx are
// passed through, other upstream failures become 502.
func errorStatus(err error) int {
	var verr *models.ValidationError
	var apiErr *backend.APIError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrFetchInFlight), errors.Is(err, models.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrUnauthenticated),
		errors.Is(err, models.ErrTokenRevoked):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	}
	return http.StatusBadGateway
}

// writeValidation reports an incomplete search with the alert to show.
func writeValidation(w http.ResponseWriter, err error) bool {
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"alert":  verr.Alert,
		"fields": verr.Fields,
	})
	return true
}
