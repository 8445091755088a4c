package search

import (
	"strings"

	"travelFront/internal/models"
)

// classLabels maps the labels older links carry in the class parameter
// (Russian, English and Chinese UI strings) onto canonical keys.
var classLabels = map[string]models.TravelClass{
	"эконом":       models.ClassEconomy,
	"economy":      models.ClassEconomy,
	"经济舱":          models.ClassEconomy,
	"бизнес":       models.ClassBusiness,
	"business":     models.ClassBusiness,
	"商务舱":          models.ClassBusiness,
	"все":          models.ClassAll,
	"all":          models.ClassAll,
	"全部":           models.ClassAll,
	"плацкарт":     models.ClassPlatzkart,
	"open sleeper": models.ClassPlatzkart,
	"开放式卧铺":        models.ClassPlatzkart,
	"купе":         models.ClassCoupe,
	"compartment":  models.ClassCoupe,
	"包厢":           models.ClassCoupe,
	"св":           models.ClassSV,
	"first class":  models.ClassSV,
	"头等舱":          models.ClassSV,
	"сидячий":      models.ClassSitting,
	"sitting":      models.ClassSitting,
	"座位":           models.ClassSitting,
	"platzkart":    models.ClassPlatzkart,
	"coupe":        models.ClassCoupe,
	"sv":           models.ClassSV,
}

// NormalizeClass turns a class key or a localized label into a class key.
func NormalizeClass(raw string) (models.TravelClass, bool) {
	class, ok := classLabels[strings.ToLower(strings.TrimSpace(raw))]
	return class, ok
}

// ClassAllowed reports whether class can be selected for t.
func ClassAllowed(t models.SearchType, class models.TravelClass) bool {
	for _, c := range models.ClassesFor(t) {
		if c == class {
			return true
		}
	}
	return false
}
