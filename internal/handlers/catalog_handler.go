package handlers

import (
	"net/http"

	"travelFront/internal/models"
	"travelFront/internal/services"
)

type CatalogHandler struct {
	Service *services.CatalogService
}

// HotTickets lists promoted tickets; ?type=train switches to trains.
func (h *CatalogHandler) HotTickets(w http.ResponseWriter, r *http.Request) {
	t, ok := models.ParseSearchType(r.URL.Query().Get("type"))
	if !ok || t == models.SearchTour {
		t = models.SearchAir
	}
	tickets, err := h.Service.HotTickets(r.Context(), t)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (h *CatalogHandler) PopularTours(w http.ResponseWriter, r *http.Request) {
	tours, err := h.Service.PopularTours(r.Context())
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tours)
}

func (h *CatalogHandler) TravelIdeas(w http.ResponseWriter, r *http.Request) {
	ideas, err := h.Service.TravelIdeas(r.Context())
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ideas)
}

// Carriers lists the airlines (?type=air) or railway companies
// (?type=train) for the results filters.
func (h *CatalogHandler) Carriers(w http.ResponseWriter, r *http.Request) {
	t, ok := models.ParseSearchType(r.URL.Query().Get("type"))
	if !ok || t == models.SearchTour {
		writeError(w, http.StatusBadRequest, "type must be air or train")
		return
	}
	carriers, err := h.Service.Carriers(r.Context(), t)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, carriers)
}
