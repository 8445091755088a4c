package models

import "strings"

// SearchType selects the search semantics and the backend endpoint.
type SearchType string

const (
	SearchAir   SearchType = "air"
	SearchTrain SearchType = "train"
	SearchTour  SearchType = "tour"
)

// Valid reports whether t is one of the supported search types.
func (t SearchType) Valid() bool {
	switch t {
	case SearchAir, SearchTrain, SearchTour:
		return true
	}
	return false
}

// ParseSearchType returns the search type for s, ignoring case and surrounding spaces.
func ParseSearchType(s string) (SearchType, bool) {
	t := SearchType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

// TravelClass is a canonical cabin or carriage class key.
type TravelClass string

const (
	ClassAll       TravelClass = "all"
	ClassEconomy   TravelClass = "economy"
	ClassBusiness  TravelClass = "business"
	ClassPlatzkart TravelClass = "platzkart"
	ClassCoupe     TravelClass = "coupe"
	ClassSV        TravelClass = "sv"
	ClassSitting   TravelClass = "sitting"
)

// ClassesFor lists the selectable classes for a search type. Tours have none.
func ClassesFor(t SearchType) []TravelClass {
	switch t {
	case SearchAir:
		return []TravelClass{ClassAll, ClassEconomy, ClassBusiness}
	case SearchTrain:
		return []TravelClass{ClassAll, ClassPlatzkart, ClassCoupe, ClassSitting, ClassSV}
	}
	return nil
}

// DefaultClass is the class preselected by the search form.
func DefaultClass(t SearchType) TravelClass {
	switch t {
	case SearchAir:
		return ClassEconomy
	case SearchTrain:
		return ClassAll
	}
	return ""
}

// SortKey orders the results list.
type SortKey string

const (
	SortRecommended    SortKey = "recommended"
	SortCheapest       SortKey = "cheapest"
	SortFastest        SortKey = "fastest"
	SortEarlyDeparture SortKey = "early-departure"
	SortEarlyArrival   SortKey = "early-arrival"
	SortByRating       SortKey = "by-rating"
	SortCloserToSea    SortKey = "closer-to-sea"
	SortCloserToCenter SortKey = "closer-to-center"
)

// SortsFor lists the sort keys that apply to a search type.
func SortsFor(t SearchType) []SortKey {
	if t == SearchTour {
		return []SortKey{SortRecommended, SortCheapest, SortByRating, SortCloserToSea, SortCloserToCenter}
	}
	return []SortKey{SortRecommended, SortCheapest, SortFastest, SortEarlyDeparture, SortEarlyArrival}
}

// Filters holds the per-type result constraints. A zero field means no constraint.
type Filters struct {
	Direct           bool `json:"direct,omitempty"`
	OneTransfer      bool `json:"one_transfer,omitempty"`
	TwoTransfers     bool `json:"two_transfers,omitempty"`
	NoReregistration bool `json:"no_reregistration,omitempty"`
	NoNightTransfers bool `json:"no_night_transfers,omitempty"`
	Refundable       bool `json:"refundable,omitempty"`

	Platzkart bool `json:"platzkart,omitempty"`
	Coupe     bool `json:"coupe,omitempty"`
	SV        bool `json:"sv,omitempty"`
	Sitting   bool `json:"sitting,omitempty"`

	Food    bool `json:"food,omitempty"`
	Pets    bool `json:"pets,omitempty"`
	NearSea bool `json:"near_sea,omitempty"`

	TransferDuration int     `json:"transfer_duration,omitempty"`
	Duration         int     `json:"duration,omitempty"`
	Rating           float64 `json:"rating,omitempty"`
	EconomyPrice     int     `json:"economy_price,omitempty"`
	CoupePrice       int     `json:"coupe_price,omitempty"`
	PricePerNight    int     `json:"price_per_night,omitempty"`

	Airlines  []int `json:"airlines,omitempty"`
	Companies []int `json:"companies,omitempty"`
}

const (
	DefaultPassengers = 1
	MaxPassengers     = 10
	DefaultNights     = 7
	MaxNights         = 30
)

// SearchCriteria is one search, filter and sort request. Fields that do not
// apply to Type are carried along untouched.
type SearchCriteria struct {
	Type         SearchType  `json:"search_type"`
	TypeInferred bool        `json:"type_inferred,omitempty"`
	From         string      `json:"from,omitempty"`
	To           string      `json:"to,omitempty"`
	Date         string      `json:"date,omitempty"`
	ReturnDate   string      `json:"return_date,omitempty"`
	Passengers   int         `json:"passengers,omitempty"`
	Class        TravelClass `json:"class,omitempty"`
	Nights       int         `json:"nights,omitempty"`
	Sort         SortKey     `json:"sort,omitempty"`
	Filters      Filters     `json:"filters"`
}

// EffectivePassengers clamps the passenger count to the range the form offers.
func (c SearchCriteria) EffectivePassengers() int {
	return clamp(c.Passengers, DefaultPassengers, 1, MaxPassengers)
}

// EffectiveNights clamps the nights count to the range the form offers.
func (c SearchCriteria) EffectiveNights() int {
	return clamp(c.Nights, DefaultNights, 1, MaxNights)
}

// EffectiveSort returns the sort key when it is valid for the search type.
func (c SearchCriteria) EffectiveSort() SortKey {
	for _, s := range SortsFor(c.Type) {
		if s == c.Sort {
			return s
		}
	}
	return SortRecommended
}

func clamp(v, def, lo, hi int) int {
	if v == 0 {
		return def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
