package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"travelFront/internal/models"
	"travelFront/internal/search"
)

// Search fetches one raw page from the search endpoint of t.
func (c *Client) Search(ctx context.Context, t models.SearchType, q url.Values) ([]byte, error) {
	return c.get(ctx, nil, search.Endpoint(t), q)
}

// Item fetches the current data of a single search result.
func (c *Client) Item(ctx context.Context, t models.SearchType, id int64) (map[string]any, error) {
	body, err := c.get(ctx, nil, search.Endpoint(t)+strconv.FormatInt(id, 10)+"/", nil)
	if err != nil {
		return nil, err
	}
	var item map[string]any
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, fmt.Errorf("backend: decode item: %w", err)
	}
	return item, nil
}

// Suggestions returns location names matching query. pageType is the
// search type of the form asking.
func (c *Client) Suggestions(ctx context.Context, query string, pageType models.SearchType) ([]string, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("page_type", string(pageType))

	body, err := c.get(ctx, nil, "/api/search/suggestions/", q)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Results []string `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("backend: decode suggestions: %w", err)
	}
	return payload.Results, nil
}
