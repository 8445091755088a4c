package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"travelFront/internal/models"
	"travelFront/internal/services"
)

const languageCookieMaxAge = 365 * 24 * 60 * 60

type CurrencyHandler struct {
	Rates *services.ExchangeRateService
}

// ExchangeRates proxies today's USD and CNY rates.
func (h *CurrencyHandler) ExchangeRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.Rates.Current(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Не удалось получить курсы валют",
			"details": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, rates)
}

// Format renders a ruble amount in the request's display language.
func (h *CurrencyHandler) Format(w http.ResponseWriter, r *http.Request) {
	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "amount must be a number")
		return
	}
	lang := requestLanguage(r)
	rates := h.Rates.Rates(r.Context())

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"amount":    amount,
		"language":  lang,
		"converted": services.ConvertPrice(amount, lang, rates),
		"formatted": services.FormatCurrency(amount, lang, rates),
	})
}

func requestLanguage(r *http.Request) models.Language {
	saved := ""
	if ck, err := r.Cookie(models.LanguageKey); err == nil {
		saved = ck.Value
	}
	return services.NegotiateLanguage(saved, r.Header.Get("Accept-Language"))
}

func (h *CurrencyHandler) GetLanguage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]models.Language{"language": requestLanguage(r)})
}

// SetLanguage saves the preference in the language cookie.
func (h *CurrencyHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lang, ok := models.ParseLanguage(req.Language)
	if !ok {
		writeError(w, http.StatusBadRequest, "unsupported language")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     models.LanguageKey,
		Value:    string(lang),
		Path:     "/",
		MaxAge:   languageCookieMaxAge,
		Expires:  time.Now().Add(languageCookieMaxAge * time.Second),
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]models.Language{"language": lang})
}
