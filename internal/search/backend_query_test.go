package search

import (
	"net/url"
	"reflect"
	"testing"

	"travelFront/internal/models"
)

func TestBackendQuery(t *testing.T) {
	tests := []struct {
		name     string
		criteria models.SearchCriteria
		page     int
		want     url.Values
	}{
		{
			name: "air with airport codes",
			criteria: models.SearchCriteria{
				Type: models.SearchAir, From: "Москва (SVO)", To: "Сочи (AER)", Date: "2025-07-01",
				ReturnDate: "2025-07-09", Passengers: 2, Class: models.ClassBusiness, Sort: models.SortCheapest,
				Filters: models.Filters{Direct: true, TransferDuration: 3, Airlines: []int{2, 9}, Food: true},
			},
			page: 2,
			want: url.Values{
				"from_airport": {"SVO"}, "to_airport": {"AER"}, "date": {"2025-07-01"}, "passengers": {"2"},
				"class": {"business"}, "return_date": {"2025-07-09"}, "direct": {"true"},
				"transfer_duration": {"3"}, "airlines": {"[2,9]"}, "sort": {"cheapest"}, "page": {"2"},
			},
		},
		{
			name: "air by city name",
			criteria: models.SearchCriteria{
				Type: models.SearchAir, From: "Москва, Россия", To: "Казань", Date: "2025-07-01",
				Class: models.ClassAll, Sort: models.SortRecommended,
			},
			page: 1,
			want: url.Values{
				"from_city": {"Москва"}, "to_city": {"Казань"}, "date": {"2025-07-01"},
				"passengers": {"1"}, "page": {"1"},
			},
		},
		{
			name: "lowercase code is not an airport",
			criteria: models.SearchCriteria{
				Type: models.SearchAir, From: "Москва (svo)", To: "Сочи", Date: "2025-07-01",
			},
			page: 1,
			want: url.Values{
				"from_city": {"Москва (svo)"}, "to_city": {"Сочи"}, "date": {"2025-07-01"},
				"passengers": {"1"}, "page": {"1"},
			},
		},
		{
			name: "train with station",
			criteria: models.SearchCriteria{
				Type: models.SearchTrain, From: "Москва (Казанский вокзал)", To: "Казань", Date: "2025-08-02",
				Class: models.ClassCoupe, Sort: models.SortByRating,
				Filters: models.Filters{Coupe: true, CoupePrice: 4000, Direct: true},
			},
			page: 1,
			want: url.Values{
				"from_station_name": {"Казанский вокзал"}, "to_city": {"Казань"}, "date": {"2025-08-02"},
				"passengers": {"1"}, "class": {"coupe"}, "coupe": {"true"}, "coupe_price": {"4000"},
				"page": {"1"},
			},
		},
		{
			name: "tour",
			criteria: models.SearchCriteria{
				Type: models.SearchTour, From: "Москва", To: "Анталья", Date: "2025-09-15",
				ReturnDate: "2025-09-20", Class: models.ClassEconomy, Sort: models.SortCloserToSea,
				Filters: models.Filters{Pets: true, Rating: 4.5, PricePerNight: 6000, Refundable: true},
			},
			page: 3,
			want: url.Values{
				"city": {"Анталья"}, "date": {"2025-09-15"}, "passengers": {"1"}, "nights": {"7"},
				"pets": {"true"}, "rating": {"4.5"}, "price_per_night": {"6000"}, "sort": {"closer-to-sea"},
				"page": {"3"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BackendQuery(tt.criteria, tt.page)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("unexpected query\nwant %v\ngot  %v", tt.want, got)
			}
		})
	}
}

func TestEndpoint(t *testing.T) {
	tests := map[models.SearchType]string{
		models.SearchAir:   "/api/search/air-tickets/",
		models.SearchTrain: "/api/search/train-tickets/",
		models.SearchTour:  "/api/search/tours/",
	}
	for st, want := range tests {
		if got := Endpoint(st); got != want {
			t.Fatalf("%s: expected %s got %s", st, want, got)
		}
	}
}
