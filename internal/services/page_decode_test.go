package services

import (
	"testing"

	"travelFront/internal/models"
)

func TestDecodePage(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		legacy  bool
		ids     []float64
		hasMore bool
	}{
		{"bare array", `[{"id":1},{"id":2}]`, false, []float64{1, 2}, false},
		{"has_more wins over next", `{"results":[{"id":1}],"has_more":false,"next":"/p2"}`, false, []float64{1}, false},
		{"next link", `{"results":[{"id":1}],"next":"http://x/?page=2"}`, false, []float64{1}, true},
		{"null next", `{"results":[{"id":1}],"next":null}`, false, []float64{1}, false},
		{"empty next", `{"results":[],"next":""}`, false, []float64{}, false},
		{"keyed object keeps document order", `{"b":{"id":5},"a":{"id":3},"meta":{"name":"x"},"n":4}`, false, []float64{5, 3}, false},
		{"non objects dropped", `[{"id":1},"junk",2]`, false, []float64{1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := decodePage([]byte(tt.body), 10, tt.legacy)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if page.HasMore != tt.hasMore {
				t.Fatalf("expected hasMore %v got %v", tt.hasMore, page.HasMore)
			}
			if len(page.Items) != len(tt.ids) {
				t.Fatalf("expected %d items got %d", len(tt.ids), len(page.Items))
			}
			for i, id := range tt.ids {
				if page.Items[i]["id"] != id {
					t.Fatalf("item %d: expected id %v got %v", i, id, page.Items[i]["id"])
				}
			}
		})
	}
}

func TestDecodePageLegacyThreshold(t *testing.T) {
	page, err := decodePage([]byte(`[{"id":1},{"id":2},{"id":3}]`), 3, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !page.HasMore {
		t.Fatalf("expected a full page to imply more in legacy mode")
	}

	page, err = decodePage([]byte(`{"results":[{"id":1},{"id":2}],"next":null}`), 3, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.HasMore {
		t.Fatalf("short page must be final")
	}
}

func TestDecodePageRejectsGarbage(t *testing.T) {
	for _, body := range []string{``, `   `, `"text"`, `<html>`, `{"results":`} {
		if _, err := decodePage([]byte(body), 10, false); err == nil {
			t.Fatalf("expected error for %q", body)
		}
	}
}

func TestNormalizeTicketDefaults(t *testing.T) {
	item := map[string]any{
		"id":            float64(12),
		"date":          "2025-08-01",
		"economy_price": "15400.00",
		"has_transfer":  float64(1),
		"transfer_city": "Стамбул",
		"from_airport":  map[string]any{"name": "Шереметьево", "code": "SVO"},
	}
	res, err := normalizeItem(models.SearchAir, item, "2025-07-01")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	tk := res.Ticket
	if tk == nil {
		t.Fatalf("expected ticket")
	}
	if tk.DepartureTime != "00:00" || tk.ArrivalTime != "00:00" {
		t.Fatalf("expected default times got %q %q", tk.DepartureTime, tk.ArrivalTime)
	}
	if tk.Duration != "0ч" {
		t.Fatalf("expected default duration got %q", tk.Duration)
	}
	if tk.DepartureDate != "2025-08-01" {
		t.Fatalf("expected date fallback got %q", tk.DepartureDate)
	}
	if tk.EconomyPrice != 15400 || !tk.HasTransfer {
		t.Fatalf("weak decoding failed: %+v", tk)
	}
	if tk.TransferCity == nil || tk.TransferCity.Name != "Стамбул" {
		t.Fatalf("expected transfer city object got %+v", tk.TransferCity)
	}
	if tk.FromAirport == nil || tk.FromAirport.Code != "SVO" {
		t.Fatalf("unexpected airport %+v", tk.FromAirport)
	}
	if _, ok := item["transfer_city"].(string); !ok {
		t.Fatalf("input item must not be modified")
	}
}

func TestNormalizeTicketTodayFallback(t *testing.T) {
	res, err := normalizeItem(models.SearchTrain, map[string]any{"id": float64(1)}, "2025-07-01")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if res.Ticket.DepartureDate != "2025-07-01" {
		t.Fatalf("expected today got %q", res.Ticket.DepartureDate)
	}
}

func TestNormalizeTourDefaults(t *testing.T) {
	res, err := normalizeItem(models.SearchTour, map[string]any{
		"id":              float64(4),
		"name":            "Морской бриз",
		"price_per_night": "5200",
		"city":            "Сочи",
	}, "2025-07-01")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	tour := res.Tour
	if tour.HotelName != "Морской бриз" {
		t.Fatalf("expected name fallback got %q", tour.HotelName)
	}
	if tour.Image != "/images/tour_prev.png" {
		t.Fatalf("expected placeholder image got %q", tour.Image)
	}
	if tour.PricePerNight != 5200 {
		t.Fatalf("expected price 5200 got %v", tour.PricePerNight)
	}
	if tour.City == nil || tour.City.Name != "Сочи" {
		t.Fatalf("unexpected city %+v", tour.City)
	}
	if res.ItemID() != 4 {
		t.Fatalf("expected id 4 got %d", res.ItemID())
	}
}
