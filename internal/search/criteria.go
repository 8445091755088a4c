package search

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"travelFront/internal/models"
)

// Path is the unified results page.
const Path = "/search"

const (
	paramFrom       = "from"
	paramTo         = "to"
	paramDate       = "date"
	paramReturnDate = "return_date"
	paramPassengers = "passengers"
	paramClass      = "class"
	paramNights     = "nights"
	paramSearchType = "search_type"
	paramSort       = "sort"
	paramAirlines   = "airlines"
	paramCompanies  = "companies"
)

// flagParams maps the boolean filter parameters onto Filters fields.
var flagParams = []struct {
	name  string
	field func(*models.Filters) *bool
}{
	{"direct", func(f *models.Filters) *bool { return &f.Direct }},
	{"one_transfer", func(f *models.Filters) *bool { return &f.OneTransfer }},
	{"two_transfers", func(f *models.Filters) *bool { return &f.TwoTransfers }},
	{"no_reregistration", func(f *models.Filters) *bool { return &f.NoReregistration }},
	{"no_night_transfers", func(f *models.Filters) *bool { return &f.NoNightTransfers }},
	{"refundable", func(f *models.Filters) *bool { return &f.Refundable }},
	{"platzkart", func(f *models.Filters) *bool { return &f.Platzkart }},
	{"coupe", func(f *models.Filters) *bool { return &f.Coupe }},
	{"sv", func(f *models.Filters) *bool { return &f.SV }},
	{"sitting", func(f *models.Filters) *bool { return &f.Sitting }},
	{"food", func(f *models.Filters) *bool { return &f.Food }},
	{"pets", func(f *models.Filters) *bool { return &f.Pets }},
	{"near_sea", func(f *models.Filters) *bool { return &f.NearSea }},
}

var ceilingParams = []struct {
	name  string
	field func(*models.Filters) *int
}{
	{"transfer_duration", func(f *models.Filters) *int { return &f.TransferDuration }},
	{"duration", func(f *models.Filters) *int { return &f.Duration }},
	{"economy_price", func(f *models.Filters) *int { return &f.EconomyPrice }},
	{"coupe_price", func(f *models.Filters) *int { return &f.CoupePrice }},
	{"price_per_night", func(f *models.Filters) *int { return &f.PricePerNight }},
}

const paramRating = "rating"

// Parse reads search criteria from a query string. origin is the path of
// the page the search was started from and only matters when the query
// carries no explicit search_type. Unknown parameters are ignored and
// malformed numbers fall back to their defaults.
//
// Parse canonicalizes: encoding its result gives direct=true for direct=1,
// drops zero values such as passengers=0, writes localized class labels
// as keys (Эконом becomes economy) and carrier lists as JSON arrays
// (airlines=1,2 becomes [1,2]). Parsing that encoding again yields the
// same criteria.
func Parse(q url.Values, origin string) models.SearchCriteria {
	c := models.SearchCriteria{
		From:       strings.TrimSpace(q.Get(paramFrom)),
		To:         strings.TrimSpace(q.Get(paramTo)),
		Date:       strings.TrimSpace(q.Get(paramDate)),
		ReturnDate: strings.TrimSpace(q.Get(paramReturnDate)),
		Passengers: parsePositiveInt(q.Get(paramPassengers), 0),
		Nights:     parsePositiveInt(q.Get(paramNights), 0),
	}
	c.Type, c.TypeInferred = ResolveType(q, origin)

	if raw := strings.TrimSpace(q.Get(paramClass)); raw != "" {
		if class, ok := NormalizeClass(raw); ok {
			c.Class = class
		}
	}
	if raw := strings.TrimSpace(q.Get(paramSort)); raw != "" {
		if key, ok := parseSort(raw); ok {
			c.Sort = key
		}
	}

	for _, p := range flagParams {
		*p.field(&c.Filters) = parseFlag(q.Get(p.name))
	}
	for _, p := range ceilingParams {
		*p.field(&c.Filters) = parsePositiveInt(q.Get(p.name), 0)
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(q.Get(paramRating)), 64); err == nil && v > 0 {
		c.Filters.Rating = v
	}
	c.Filters.Airlines = parseIntList(q.Get(paramAirlines))
	c.Filters.Companies = parseIntList(q.Get(paramCompanies))

	return c
}

// Encode rebuilds the full query string for c. Only set fields are written,
// and search_type is always present so the result no longer depends on
// inference.
func Encode(c models.SearchCriteria) url.Values {
	q := url.Values{}
	if c.Type.Valid() {
		q.Set(paramSearchType, string(c.Type))
	}
	setString(q, paramFrom, c.From)
	setString(q, paramTo, c.To)
	setString(q, paramDate, c.Date)
	setString(q, paramReturnDate, c.ReturnDate)
	setInt(q, paramPassengers, c.Passengers)
	setString(q, paramClass, string(c.Class))
	setInt(q, paramNights, c.Nights)
	setString(q, paramSort, string(c.Sort))

	f := c.Filters
	for _, p := range flagParams {
		if *p.field(&f) {
			q.Set(p.name, "true")
		}
	}
	for _, p := range ceilingParams {
		setInt(q, p.name, *p.field(&f))
	}
	if f.Rating > 0 {
		q.Set(paramRating, strconv.FormatFloat(f.Rating, 'f', -1, 64))
	}
	setIntList(q, paramAirlines, f.Airlines)
	setIntList(q, paramCompanies, f.Companies)
	return q
}

// Location is the results page URL for c.
func Location(c models.SearchCriteria) string {
	return Path + "?" + Encode(c).Encode()
}

func setString(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setInt(q url.Values, key string, value int) {
	if value > 0 {
		q.Set(key, strconv.Itoa(value))
	}
}

func setIntList(q url.Values, key string, values []int) {
	if len(values) == 0 {
		return
	}
	b, err := json.Marshal(values)
	if err != nil {
		return
	}
	q.Set(key, string(b))
}

func parsePositiveInt(input string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func parseFlag(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "true", "1", "on", "yes":
		return true
	}
	return false
}

// parseIntList accepts a JSON array ("[1,2]") or a comma separated list.
func parseIntList(input string) []int {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	if strings.HasPrefix(input, "[") {
		var out []int
		if err := json.Unmarshal([]byte(input), &out); err != nil {
			return nil
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
	var out []int
	for _, part := range strings.Split(input, ",") {
		if v, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			out = append(out, v)
		}
	}
	return out
}

func parseSort(raw string) (models.SortKey, bool) {
	key := models.SortKey(strings.ToLower(raw))
	for _, t := range []models.SearchType{models.SearchAir, models.SearchTour} {
		for _, known := range models.SortsFor(t) {
			if key == known {
				return key, true
			}
		}
	}
	return "", false
}
