package search

import (
	"net/url"
	"strings"

	"travelFront/internal/models"
)

const stationMarker = "вокзал"

// ResolveType picks the search type for a query. An explicit search_type
// wins, then a nights parameter implies a tour, then a station name in
// from/to or a /trains origin implies a train, a /tours origin implies a
// tour, and air is the fallback. The second result reports whether the
// type was inferred rather than given.
func ResolveType(q url.Values, origin string) (models.SearchType, bool) {
	if t, ok := models.ParseSearchType(q.Get(paramSearchType)); ok {
		return t, false
	}
	if strings.TrimSpace(q.Get(paramNights)) != "" {
		return models.SearchTour, true
	}
	if mentionsStation(q.Get(paramFrom)) || mentionsStation(q.Get(paramTo)) {
		return models.SearchTrain, true
	}
	switch originSection(origin) {
	case "/trains":
		return models.SearchTrain, true
	case "/tours":
		return models.SearchTour, true
	}
	return models.SearchAir, true
}

func mentionsStation(s string) bool {
	return strings.Contains(strings.ToLower(s), stationMarker)
}

// originSection reduces a path or absolute URL to its first path segment.
func originSection(origin string) string {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return ""
	}
	if u, err := url.Parse(origin); err == nil {
		origin = u.Path
	}
	origin = "/" + strings.Trim(origin, "/")
	if i := strings.Index(origin[1:], "/"); i >= 0 {
		origin = origin[:i+1]
	}
	return strings.ToLower(origin)
}
