package services

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"travelFront/internal/models"
)

var (
	printerRU = message.NewPrinter(language.Russian)
	printerEN = message.NewPrinter(language.AmericanEnglish)
	printerZH = message.NewPrinter(language.SimplifiedChinese)
)

// spaceReplacer turns the locale's non-breaking group separators into plain
// spaces.
var spaceReplacer = strings.NewReplacer("\u00a0", " ", "\u202f", " ")

// ConvertPrice converts rubles into the currency of lang. Non-positive
// rates fall back to the defaults.
func ConvertPrice(rub float64, lang models.Language, rates models.ExchangeRates) float64 {
	switch lang {
	case models.LangEN:
		rate := rates.USD
		if rate <= 0 {
			rate = models.DefaultUSDRate
		}
		return rub / rate
	case models.LangZH:
		rate := rates.CNY
		if rate <= 0 {
			rate = models.DefaultCNYRate
		}
		return rub / rate
	}
	return rub
}

// FormatCurrency renders a ruble price in the currency of lang: "$10" for
// en, "¥100" for zh and "1 000 ₽" for ru. Amounts are rounded to cents.
func FormatCurrency(rub float64, lang models.Language, rates models.ExchangeRates) string {
	v := math.Round(ConvertPrice(rub, lang, rates)*100) / 100
	n := number.Decimal(v, number.MaxFractionDigits(2))

	switch lang {
	case models.LangEN:
		return "$" + printerEN.Sprint(n)
	case models.LangZH:
		return "¥" + printerZH.Sprint(n)
	}
	return spaceReplacer.Replace(printerRU.Sprint(n)) + " ₽"
}

var languageMatcher = language.NewMatcher([]language.Tag{
	language.Russian,
	language.English,
	language.Chinese,
})

// NegotiateLanguage picks the display language: a valid saved preference
// wins, then the Accept-Language header, then Russian.
func NegotiateLanguage(saved, acceptLanguage string) models.Language {
	if lang, ok := models.ParseLanguage(saved); ok {
		return lang
	}
	if strings.TrimSpace(acceptLanguage) == "" {
		return models.LangRU
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return models.LangRU
	}
	_, index, confidence := languageMatcher.Match(tags...)
	if confidence == language.No {
		return models.LangRU
	}
	return models.Languages[index]
}
