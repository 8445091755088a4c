package handlers

import (
	"net/http"

	"travelFront/internal/models"
	"travelFront/internal/services"
)

// SuggestionHandler answers one-off typeahead lookups. Per-field ordering
// is handled by the websocket endpoint, which keeps a Typeahead per field.
type SuggestionHandler struct {
	Backend services.SuggestionBackend
	Log     services.Logger
}

func (h *SuggestionHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pageType, ok := models.ParseSearchType(q.Get("page_type"))
	if !ok {
		pageType = models.SearchAir
	}
	results, err := services.NewTypeahead(h.Backend, h.Log).Suggest(r.Context(), q.Get("query"), pageType)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"results": results})
}
