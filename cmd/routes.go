package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, app.authenticate)
	apiMiddleware := standardMiddleware.Append(makeResponseJSON)
	authMiddleware := apiMiddleware.Append(app.requireAuth)
	limitedMiddleware := apiMiddleware.Append(app.limitRate)

	mux := pat.New()

	// Search
	mux.Post("/search/submit", standardMiddleware.ThenFunc(app.searchHandler.Submit))
	mux.Post("/api/search/sessions", apiMiddleware.ThenFunc(app.searchHandler.CreateSession))
	mux.Get("/api/search/sessions/:id", apiMiddleware.ThenFunc(app.searchHandler.GetSession))
	mux.Patch("/api/search/sessions/:id", apiMiddleware.ThenFunc(app.searchHandler.UpdateSession))
	mux.Post("/api/search/sessions/:id/more", apiMiddleware.ThenFunc(app.searchHandler.LoadMore))
	mux.Post("/api/search/sessions/:id/retry", apiMiddleware.ThenFunc(app.searchHandler.Retry))

	// Suggestions
	mux.Get("/api/suggestions", limitedMiddleware.ThenFunc(app.suggestionHandler.Suggest))
	mux.Get("/ws/suggestions", standardMiddleware.ThenFunc(app.SuggestionWebSocketHandler))

	// Currency and language
	mux.Get("/api/exchange-rates", apiMiddleware.ThenFunc(app.currencyHandler.ExchangeRates))
	mux.Get("/api/currency/format", apiMiddleware.ThenFunc(app.currencyHandler.Format))
	mux.Get("/api/language", apiMiddleware.ThenFunc(app.currencyHandler.GetLanguage))
	mux.Put("/api/language", apiMiddleware.ThenFunc(app.currencyHandler.SetLanguage))

	// Favorites
	mux.Get("/api/favorites", apiMiddleware.ThenFunc(app.favoritesHandler.List))
	mux.Post("/api/favorites/toggle", apiMiddleware.ThenFunc(app.favoritesHandler.Toggle))
	mux.Get("/api/favorites/check", apiMiddleware.ThenFunc(app.favoritesHandler.Check))
	mux.Del("/api/favorites/:type/:id", apiMiddleware.ThenFunc(app.favoritesHandler.Remove))

	// Auth
	mux.Post("/api/auth/login", apiMiddleware.ThenFunc(app.authHandler.Login))
	mux.Post("/api/auth/register", apiMiddleware.ThenFunc(app.authHandler.Register))
	mux.Post("/api/auth/logout", authMiddleware.ThenFunc(app.authHandler.Logout))
	mux.Get("/api/auth/profile", authMiddleware.ThenFunc(app.authHandler.Profile))

	// Catalog
	mux.Get("/api/tickets/hot", apiMiddleware.ThenFunc(app.catalogHandler.HotTickets))
	mux.Get("/api/tours/popular", apiMiddleware.ThenFunc(app.catalogHandler.PopularTours))
	mux.Get("/api/travel-ideas", apiMiddleware.ThenFunc(app.catalogHandler.TravelIdeas))
	mux.Get("/api/carriers", apiMiddleware.ThenFunc(app.catalogHandler.Carriers))

	return mux
}
