package backend

import (
	"context"
	"encoding/json"
	"fmt"

	"travelFront/internal/models"
)

// HotTickets lists promoted air (or train) tickets.
func (c *Client) HotTickets(ctx context.Context, t models.SearchType) ([]map[string]any, error) {
	p := "/api/tickets/"
	if t == models.SearchTrain {
		p = "/api/train-tickets/"
	}
	return c.list(ctx, p)
}

func (c *Client) PopularTours(ctx context.Context) ([]map[string]any, error) {
	return c.list(ctx, "/api/popular-tours/")
}

func (c *Client) TravelIdeas(ctx context.Context) ([]map[string]any, error) {
	return c.list(ctx, "/api/travel-ideas/")
}

// Carriers lists airlines for air and railway companies for train.
func (c *Client) Carriers(ctx context.Context, t models.SearchType) ([]map[string]any, error) {
	p := "/api/airlines/"
	if t == models.SearchTrain {
		p = "/api/railway-companies/"
	}
	return c.list(ctx, p)
}

// list accepts a bare array or a paginated {"results": [...]} body.
func (c *Client) list(ctx context.Context, p string) ([]map[string]any, error) {
	body, err := c.get(ctx, nil, p, nil)
	if err != nil {
		return nil, err
	}

	var items []map[string]any
	if err := json.Unmarshal(body, &items); err == nil {
		return items, nil
	}
	var envelope struct {
		Results []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("backend: decode %s: %w", p, err)
	}
	return envelope.Results, nil
}
