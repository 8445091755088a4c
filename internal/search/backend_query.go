package search

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"travelFront/internal/models"
)

var (
	airportCodePattern = regexp.MustCompile(`\(([A-Z]{3})\)`)
	stationPattern     = regexp.MustCompile(`\(([^)]+)\)`)
)

// Endpoint is the backend search path for t.
func Endpoint(t models.SearchType) string {
	switch t {
	case models.SearchTrain:
		return "/api/search/train-tickets/"
	case models.SearchTour:
		return "/api/search/tours/"
	}
	return "/api/search/air-tickets/"
}

// HasLocationCode reports whether s names an exact airport or station.
func HasLocationCode(s string) bool {
	return strings.Contains(s, "(")
}

// BackendQuery builds the backend search parameters for one page. Filters
// and sort are only sent when they narrow or reorder the results.
func BackendQuery(c models.SearchCriteria, page int) url.Values {
	if page < 1 {
		page = 1
	}
	q := url.Values{}

	switch c.Type {
	case models.SearchAir:
		setLocation(q, "from", c.From, airportCodePattern, "airport")
		setLocation(q, "to", c.To, airportCodePattern, "airport")
	case models.SearchTrain:
		setLocation(q, "from", c.From, stationPattern, "station_name")
		setLocation(q, "to", c.To, stationPattern, "station_name")
	case models.SearchTour:
		setString(q, "city", c.To)
	}

	setString(q, "date", c.Date)
	q.Set("passengers", strconv.Itoa(c.EffectivePassengers()))

	switch c.Type {
	case models.SearchAir, models.SearchTrain:
		if c.Class != "" && c.Class != models.ClassAll {
			q.Set("class", string(c.Class))
		}
		setString(q, "return_date", c.ReturnDate)
	case models.SearchTour:
		q.Set("nights", strconv.Itoa(c.EffectiveNights()))
	}

	setFilters(q, c.Type, c.Filters)
	if sort := c.EffectiveSort(); sort != models.SortRecommended {
		q.Set("sort", string(sort))
	}

	q.Set("page", strconv.Itoa(page))
	return q
}

// setLocation sends the bracketed code when present and the city name
// otherwise.
func setLocation(q url.Values, prefix, text string, code *regexp.Regexp, codeSuffix string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if m := code.FindStringSubmatch(text); m != nil {
		q.Set(prefix+"_"+codeSuffix, m[1])
		return
	}
	q.Set(prefix+"_city", cityName(text))
}

// cityName keeps the part before the first comma ("Москва, Россия").
func cityName(text string) string {
	if i := strings.Index(text, ","); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

func setFilters(q url.Values, t models.SearchType, f models.Filters) {
	setFlag := func(name string, on bool) {
		if on {
			q.Set(name, "true")
		}
	}

	switch t {
	case models.SearchAir:
		setFlag("direct", f.Direct)
		setFlag("one_transfer", f.OneTransfer)
		setFlag("two_transfers", f.TwoTransfers)
		setFlag("no_reregistration", f.NoReregistration)
		setFlag("no_night_transfers", f.NoNightTransfers)
		setFlag("refundable", f.Refundable)
		setInt(q, "transfer_duration", f.TransferDuration)
		setInt(q, "duration", f.Duration)
		setInt(q, "economy_price", f.EconomyPrice)
		setIntList(q, paramAirlines, f.Airlines)
	case models.SearchTrain:
		setFlag("platzkart", f.Platzkart)
		setFlag("coupe", f.Coupe)
		setFlag("sv", f.SV)
		setFlag("sitting", f.Sitting)
		setInt(q, "duration", f.Duration)
		setInt(q, "coupe_price", f.CoupePrice)
		setIntList(q, paramCompanies, f.Companies)
	case models.SearchTour:
		setFlag("food", f.Food)
		setFlag("pets", f.Pets)
		setFlag("near_sea", f.NearSea)
		if f.Rating > 0 {
			q.Set(paramRating, strconv.FormatFloat(f.Rating, 'f', -1, 64))
		}
		setInt(q, "price_per_night", f.PricePerNight)
	}
}
