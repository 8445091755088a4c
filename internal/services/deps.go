package services

import (
	"context"
	"net/url"

	"travelFront/internal/backend"
	"travelFront/internal/models"
)

// Logger provides minimal logging required by the services.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

func loggerOrNop(l Logger) Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}

// SearchBackend fetches raw result pages.
type SearchBackend interface {
	Search(ctx context.Context, t models.SearchType, q url.Values) ([]byte, error)
}

// ItemBackend fetches the current data of a single result.
type ItemBackend interface {
	Item(ctx context.Context, t models.SearchType, id int64) (map[string]any, error)
}

type SuggestionBackend interface {
	Suggestions(ctx context.Context, query string, pageType models.SearchType) ([]string, error)
}

type CatalogBackend interface {
	HotTickets(ctx context.Context, t models.SearchType) ([]map[string]any, error)
	PopularTours(ctx context.Context) ([]map[string]any, error)
	TravelIdeas(ctx context.Context) ([]map[string]any, error)
	Carriers(ctx context.Context, t models.SearchType) ([]map[string]any, error)
}

// AuthBackend opens cookie scoped sessions with the backend auth endpoints.
type AuthBackend interface {
	NewSession(cookies []models.BackendCookie) (*backend.Session, error)
}
