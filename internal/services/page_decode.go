package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultPageThreshold is the page size the backend uses.
const DefaultPageThreshold = 10

// rawPage is one backend page before normalization.
type rawPage struct {
	Items   []map[string]any
	HasMore bool
}

// decodePage accepts a bare array, a {results, next, has_more} envelope or
// any other object whose values are items with a numeric id.
//
// An explicit has_more wins, then the presence of next. Guessing from the
// page size only happens when legacyGuess is on.
func decodePage(body []byte, threshold int, legacyGuess bool) (rawPage, error) {
	if threshold <= 0 {
		threshold = DefaultPageThreshold
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return rawPage{}, errors.New("empty response")
	}

	switch body[0] {
	case '[':
		var values []any
		if err := json.Unmarshal(body, &values); err != nil {
			return rawPage{}, fmt.Errorf("decode array: %w", err)
		}
		items := objects(values)
		return rawPage{Items: items, HasMore: legacyGuess && len(items) >= threshold}, nil
	case '{':
	default:
		return rawPage{}, fmt.Errorf("unexpected response shape %q", truncate(body, 32))
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return rawPage{}, fmt.Errorf("decode object: %w", err)
	}

	rawResults, ok := envelope["results"]
	if !ok {
		items, err := orderedItems(body)
		if err != nil {
			return rawPage{}, err
		}
		return rawPage{Items: items, HasMore: legacyGuess && len(items) >= threshold}, nil
	}

	var values []any
	if err := json.Unmarshal(rawResults, &values); err != nil {
		return rawPage{}, fmt.Errorf("decode results: %w", err)
	}
	page := rawPage{Items: objects(values)}

	if raw, ok := envelope["has_more"]; ok {
		var hasMore bool
		if err := json.Unmarshal(raw, &hasMore); err == nil {
			page.HasMore = hasMore
			return page, nil
		}
	}
	hasNext := false
	if raw, ok := envelope["next"]; ok {
		var next any
		if err := json.Unmarshal(raw, &next); err == nil {
			switch v := next.(type) {
			case string:
				hasNext = v != ""
			case nil:
			default:
				hasNext = true
			}
		}
	}
	page.HasMore = hasNext || (legacyGuess && len(page.Items) >= threshold)
	return page, nil
}

func objects(values []any) []map[string]any {
	items := make([]map[string]any, 0, len(values))
	for _, v := range values {
		if m, ok := v.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items
}

// orderedItems walks an object in document order and keeps the values that
// look like items.
func orderedItems(body []byte) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode object: %w", err)
	}
	var items []map[string]any
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("decode object key: %w", err)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decode object value: %w", err)
		}
		m, ok := value.(map[string]any)
		if !ok {
			continue
		}
		if _, numeric := m["id"].(float64); numeric {
			items = append(items, m)
		}
	}
	if items == nil {
		items = []map[string]any{}
	}
	return items, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
