package search

import (
	"context"
	"net/url"
	"time"

	"travelFront/internal/models"
)

const DefaultTransitionDelay = 100 * time.Millisecond

type HistoryMode int

const (
	HistoryPush HistoryMode = iota
	HistoryReplace
)

func (m HistoryMode) String() string {
	if m == HistoryReplace {
		return "replace"
	}
	return "push"
}

// Navigator moves the page to a new results URL.
type Navigator interface {
	ScrollToTop()
	Navigate(ctx context.Context, location string, mode HistoryMode) error
}

// Synchronizer keeps criteria and the results page URL in step. The URL is
// the persisted form; criteria are rebuilt from it on every read.
type Synchronizer struct {
	nav   Navigator
	delay time.Duration
}

func NewSynchronizer(nav Navigator, delay time.Duration) *Synchronizer {
	if delay < 0 {
		delay = 0
	}
	return &Synchronizer{nav: nav, delay: delay}
}

// Read parses the current page query.
func (s *Synchronizer) Read(q url.Values, origin string) models.SearchCriteria {
	return Parse(q, origin)
}

// Commit writes c back to the URL: the full query is rebuilt, the page is
// scrolled up and, after the transition delay, the history entry is pushed
// or replaced. It returns the new location.
func (s *Synchronizer) Commit(ctx context.Context, c models.SearchCriteria, mode HistoryMode) (string, error) {
	location := Location(c)
	s.nav.ScrollToTop()

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	if err := s.nav.Navigate(ctx, location, mode); err != nil {
		return "", err
	}
	return location, nil
}

// Apply edits c with the given query parameters. An empty value clears the
// parameter. The search type stays explicit.
func Apply(c models.SearchCriteria, edits url.Values) models.SearchCriteria {
	q := Encode(c)
	for key, values := range edits {
		if len(values) == 0 || values[0] == "" {
			q.Del(key)
			continue
		}
		q[key] = values[:1]
	}
	if !q.Has(paramSearchType) && c.Type.Valid() {
		q.Set(paramSearchType, string(c.Type))
	}
	return Parse(q, "")
}
