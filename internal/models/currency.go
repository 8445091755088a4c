package models

import (
	"strings"
	"time"
)

// ExchangeRates holds how many rubles one unit of each currency costs.
type ExchangeRates struct {
	USD         float64   `json:"USD"`
	CNY         float64   `json:"CNY"`
	LastUpdated time.Time `json:"lastUpdated"`
}

const (
	DefaultUSDRate = 82.65
	DefaultCNYRate = 11.35
)

// DefaultExchangeRates are used until the first successful fetch.
func DefaultExchangeRates() ExchangeRates {
	return ExchangeRates{USD: DefaultUSDRate, CNY: DefaultCNYRate}
}

// Language is the display language, which also fixes the display currency.
type Language string

const (
	LangRU Language = "ru"
	LangEN Language = "en"
	LangZH Language = "zh"
)

const LanguageKey = "language"

var Languages = []Language{LangRU, LangEN, LangZH}

// ParseLanguage accepts "ru", "en" and "zh" in any case.
func ParseLanguage(s string) (Language, bool) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Languages {
		if l == known {
			return l, true
		}
	}
	return LangRU, false
}
