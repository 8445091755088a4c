package search

import (
	"strings"

	"travelFront/internal/models"
)

// Validate checks that origin, destination and date are filled in. The
// returned *models.ValidationError carries the alert to show.
func Validate(c models.SearchCriteria) error {
	var missing []string
	if strings.TrimSpace(c.From) == "" {
		missing = append(missing, paramFrom)
	}
	if strings.TrimSpace(c.To) == "" {
		missing = append(missing, paramTo)
	}
	if strings.TrimSpace(c.Date) == "" {
		missing = append(missing, paramDate)
	}
	if len(missing) == 0 {
		return nil
	}

	alert := models.AlertFillRequired
	if c.Type == models.SearchTour && strings.TrimSpace(c.To) == "" {
		alert = models.AlertSpecifyDestination
	}
	return &models.ValidationError{Alert: alert, Fields: missing}
}

// Submission is the search form as posted from one of the type tabs.
type Submission struct {
	SearchType string `json:"search_type"`
	From       string `json:"from"`
	To         string `json:"to"`
	Date       string `json:"date"`
	ReturnDate string `json:"return_date"`
	Passengers int    `json:"passengers"`
	Class      string `json:"class"`
	Nights     int    `json:"nights"`
}

// Criteria turns the form into criteria with an explicit search type.
// Fields of other tabs are dropped. The criteria are validated.
func (s Submission) Criteria() (models.SearchCriteria, error) {
	t, ok := models.ParseSearchType(s.SearchType)
	if !ok {
		t = models.SearchAir
	}

	c := models.SearchCriteria{
		Type:       t,
		From:       strings.TrimSpace(s.From),
		To:         strings.TrimSpace(s.To),
		Date:       strings.TrimSpace(s.Date),
		Passengers: models.SearchCriteria{Passengers: s.Passengers}.EffectivePassengers(),
	}

	switch t {
	case models.SearchAir, models.SearchTrain:
		c.ReturnDate = strings.TrimSpace(s.ReturnDate)
		c.Class = models.DefaultClass(t)
		if class, ok := NormalizeClass(s.Class); ok && ClassAllowed(t, class) {
			c.Class = class
		}
	case models.SearchTour:
		c.Nights = models.SearchCriteria{Nights: s.Nights}.EffectiveNights()
	}

	if err := Validate(c); err != nil {
		return models.SearchCriteria{}, err
	}
	return c, nil
}
