package services

import (
	"context"
	"strings"
	"sync"

	"travelFront/internal/models"
)

// Typeahead serves location suggestions for one input field. Only the most
// recent query gets an answer: starting a new one cancels the previous
// request, and a response that arrives late is dropped with
// models.ErrSuperseded.
type Typeahead struct {
	backend SuggestionBackend
	log     Logger

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func NewTypeahead(backend SuggestionBackend, logger Logger) *Typeahead {
	return &Typeahead{backend: backend, log: loggerOrNop(logger)}
}

// Suggest returns suggestions for query. An empty query makes no request.
// Backend failures are logged and yield no suggestions.
func (t *Typeahead) Suggest(ctx context.Context, query string, pageType models.SearchType) ([]string, error) {
	query = strings.TrimSpace(query)

	t.mu.Lock()
	t.seq++
	seq := t.seq
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	if query == "" {
		t.mu.Unlock()
		return []string{}, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.mu.Unlock()
	defer cancel()

	if !pageType.Valid() {
		pageType = models.SearchAir
	}
	results, err := t.backend.Suggestions(ctx, query, pageType)

	t.mu.Lock()
	latest := seq == t.seq
	if latest {
		t.cancel = nil
	}
	t.mu.Unlock()

	if !latest {
		return nil, models.ErrSuperseded
	}
	if err != nil {
		t.log.Errorf("suggestions %q (%s): %v", query, pageType, err)
		return []string{}, nil
	}
	if results == nil {
		results = []string{}
	}
	return results, nil
}

// Close cancels any request in flight.
func (t *Typeahead) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}
