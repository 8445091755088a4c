package services

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"travelFront/internal/models"
)

const (
	defaultTourImage = "/images/tour_prev.png"
	defaultTime      = "00:00"
	defaultDuration  = "0ч"
)

// decodeWeak fills out from a loosely typed backend object. Decimal fields
// arrive as strings, flags as 0/1, and both are accepted.
func decodeWeak(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// normalizeItem turns a raw backend item into a typed result, filling the
// display defaults for fields the backend left out. today is the
// YYYY-MM-DD fallback departure date.
func normalizeItem(t models.SearchType, item map[string]any, today string) (models.SearchResult, error) {
	item = namedObjects(item, "city", "transfer_city", "from_airport", "to_airport", "from_station", "to_station")
	if t == models.SearchTour {
		var tour models.Tour
		if err := decodeWeak(item, &tour); err != nil {
			return models.SearchResult{}, fmt.Errorf("decode tour: %w", err)
		}
		if tour.HotelName == "" {
			tour.HotelName = stringField(item, "name")
		}
		if tour.Image == "" {
			tour.Image = defaultTourImage
		}
		return models.SearchResult{Type: t, Tour: &tour}, nil
	}

	var ticket models.Ticket
	if err := decodeWeak(item, &ticket); err != nil {
		return models.SearchResult{}, fmt.Errorf("decode ticket: %w", err)
	}
	if ticket.DepartureTime == "" {
		ticket.DepartureTime = defaultTime
	}
	if ticket.ArrivalTime == "" {
		ticket.ArrivalTime = defaultTime
	}
	if ticket.Duration == "" {
		ticket.Duration = defaultDuration
	}
	if ticket.DepartureDate == "" {
		ticket.DepartureDate = stringField(item, "date")
	}
	if ticket.DepartureDate == "" {
		ticket.DepartureDate = today
	}
	return models.SearchResult{Type: t, Ticket: &ticket}, nil
}

func stringField(item map[string]any, key string) string {
	var s string
	if err := decodeWeak(item[key], &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// namedObjects rewrites plain string values of the given keys into
// {"name": value} objects. The input map is not modified.
func namedObjects(item map[string]any, keys ...string) map[string]any {
	var out map[string]any
	for _, key := range keys {
		name, ok := item[key].(string)
		if !ok {
			continue
		}
		if out == nil {
			out = make(map[string]any, len(item))
			for k, v := range item {
				out[k] = v
			}
		}
		out[key] = map[string]any{"name": name}
	}
	if out == nil {
		return item
	}
	return out
}
