package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"travelFront/internal/models"
	"travelFront/internal/search"
	"travelFront/internal/services"
)

type SearchHandler struct {
	Registry        *services.PagerRegistry
	TransitionDelay time.Duration
}

// httpNavigator records where a committed search should take the page.
// The page itself performs the scroll and the history change.
type httpNavigator struct {
	location string
	mode     search.HistoryMode
	scroll   bool
}

func (n *httpNavigator) ScrollToTop() { n.scroll = true }

func (n *httpNavigator) Navigate(_ context.Context, location string, mode search.HistoryMode) error {
	n.location = location
	n.mode = mode
	return nil
}

type createSessionRequest struct {
	// Query is the results page query string, with or without "?".
	Query string `json:"query"`
	// Origin is the page the user came from, e.g. /trains.
	Origin string `json:"origin"`
}

type sessionResponse struct {
	SessionID    string            `json:"session_id"`
	SearchType   models.SearchType `json:"search_type"`
	TypeInferred bool              `json:"type_inferred"`
	Location     string            `json:"location"`
	History      string            `json:"history,omitempty"`
	ScrollToTop  bool              `json:"scroll_to_top,omitempty"`
	Page         models.ResultPage `json:"page"`
	Error        string            `json:"error,omitempty"`
	Retry        bool              `json:"retry,omitempty"`
}

// Submit handles the search form of the air, train and tour tabs.
func (h *SearchHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	passengers, _ := strconv.Atoi(r.PostForm.Get("passengers"))
	nights, _ := strconv.Atoi(r.PostForm.Get("nights"))
	sub := search.Submission{
		SearchType: r.PostForm.Get("search_type"),
		From:       r.PostForm.Get("from"),
		To:         r.PostForm.Get("to"),
		Date:       r.PostForm.Get("date"),
		ReturnDate: r.PostForm.Get("return_date"),
		Passengers: passengers,
		Class:      r.PostForm.Get("class"),
		Nights:     nights,
	}

	c, err := sub.Criteria()
	if err != nil {
		if !writeValidation(w, err) {
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	nav := &httpNavigator{}
	location, err := search.NewSynchronizer(nav, 0).Commit(r.Context(), c, search.HistoryPush)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// CreateSession opens a results session from the page query and loads
// page 1.
func (h *SearchHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	q, err := url.ParseQuery(strings.TrimPrefix(req.Query, "?"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query")
		return
	}

	c := search.Parse(q, req.Origin)
	if err := search.Validate(c); err != nil {
		writeValidation(w, err)
		return
	}

	id, pager := h.Registry.Create()
	page, err := pager.Load(r.Context(), c)
	resp := sessionResponse{
		SessionID:    id,
		SearchType:   page.Criteria.Type,
		TypeInferred: page.Criteria.TypeInferred,
		Location:     page.Location,
		Page:         page,
	}
	h.respond(w, http.StatusCreated, resp, err)
}

func (h *SearchHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := getParam(r, "id")
	pager, err := h.Registry.Get(id)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	page := pager.Snapshot()
	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID:    id,
		SearchType:   page.Criteria.Type,
		TypeInferred: page.Criteria.TypeInferred,
		Location:     page.Location,
		Page:         page,
	})
}

// LoadMore appends the next page. When the last page said there is
// nothing more, the current list is returned without a backend request.
func (h *SearchHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	id := getParam(r, "id")
	pager, err := h.Registry.Get(id)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	page, err := pager.LoadMore(r.Context())
	if errors.Is(err, models.ErrNoMorePages) {
		err = nil
	}
	h.respond(w, http.StatusOK, sessionResponse{SessionID: id, SearchType: page.Criteria.Type, Location: page.Location, Page: page}, err)
}

func (h *SearchHandler) Retry(w http.ResponseWriter, r *http.Request) {
	id := getParam(r, "id")
	pager, err := h.Registry.Get(id)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	page, err := pager.Retry(r.Context())
	h.respond(w, http.StatusOK, sessionResponse{SessionID: id, SearchType: page.Criteria.Type, Location: page.Location, Page: page}, err)
}

type updateSessionRequest struct {
	// Edits are query parameters to change; an empty value clears one.
	Edits   map[string]string `json:"edits"`
	Replace bool              `json:"replace"`
}

// UpdateSession applies a criteria edit (a filter, the sort, a field of
// the search bar), commits it to the URL and reloads from page 1.
func (h *SearchHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	id := getParam(r, "id")
	pager, err := h.Registry.Get(id)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}

	var req updateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	edits := make(url.Values, len(req.Edits))
	for k, v := range req.Edits {
		edits.Set(k, v)
	}

	c := search.Apply(pager.Criteria(), edits)
	if err := search.Validate(c); err != nil {
		writeValidation(w, err)
		return
	}

	mode := search.HistoryPush
	if req.Replace {
		mode = search.HistoryReplace
	}
	nav := &httpNavigator{}
	location, err := search.NewSynchronizer(nav, h.TransitionDelay).Commit(r.Context(), c, mode)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	page, err := pager.Load(r.Context(), c)
	resp := sessionResponse{
		SessionID:    id,
		SearchType:   c.Type,
		TypeInferred: c.TypeInferred,
		Location:     location,
		History:      nav.mode.String(),
		ScrollToTop:  nav.scroll,
		Page:         page,
	}
	h.respond(w, http.StatusOK, resp, err)
}

// respond writes the session state. Fetch failures keep the state in the
// body and flag it as retryable.
func (h *SearchHandler) respond(w http.ResponseWriter, status int, resp sessionResponse, err error) {
	if err == nil {
		writeJSON(w, status, resp)
		return
	}
	if writeValidation(w, err) {
		return
	}
	resp.Error = err.Error()
	resp.Retry = !errors.Is(err, models.ErrFetchInFlight) && !errors.Is(err, models.ErrSuperseded)
	writeJSON(w, errorStatus(err), resp)
}
