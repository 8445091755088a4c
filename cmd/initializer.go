package main

import (
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-sql-driver/mysql"
	"golang.org/x/time/rate"

	"travelFront/internal/backend"
	"travelFront/internal/config"
	"travelFront/internal/handlers"
	"travelFront/internal/repositories"
	"travelFront/internal/services"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	cfg      config.Config

	store    repositories.KVStore
	backend  *backend.Client
	registry *services.PagerRegistry
	rates    *services.ExchangeRateService
	auth     *services.AuthService
	limiter  *ipLimiter

	trustedProxies []*net.IPNet

	searchHandler     *handlers.SearchHandler
	favoritesHandler  *handlers.FavoritesHandler
	currencyHandler   *handlers.CurrencyHandler
	suggestionHandler *handlers.SuggestionHandler
	authHandler       *handlers.AuthHandler
	catalogHandler    *handlers.CatalogHandler
}

func initializeApp(cfg config.Config, store repositories.KVStore, errorLog, infoLog *log.Logger) (*application, error) {
	logger := stdLogger{info: infoLog, err: errorLog}

	trusted, err := parseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return nil, err
	}

	client, err := backend.NewClient(&http.Client{Timeout: cfg.Backend.Timeout}, cfg.Backend.BaseURL, cfg.Backend.Timeout)
	if err != nil {
		return nil, err
	}

	pagerCfg := services.PagerConfig{
		Threshold:     cfg.Search.PageThreshold,
		LegacyHasMore: cfg.Search.LegacyHasMore,
		CityFallback:  cfg.Search.CityFallback,
	}
	registry := services.NewPagerRegistry(func() *services.ResultPager {
		return services.NewResultPager(client, logger, pagerCfg)
	}, cfg.Search.SessionTTL)

	favoritesRepo := &repositories.FavoritesRepository{Store: store}
	ratesRepo := &repositories.RatesRepository{Store: store}

	favoritesService := services.NewFavoritesService(favoritesRepo, client, logger)
	ratesService := services.NewExchangeRateService(services.NewCBRClient(nil, cfg.Currency.URL), ratesRepo, logger, cfg.Location())
	authService := services.NewAuthService(client, store, []byte(cfg.Auth.Secret), cfg.Auth.TokenTTL, logger)
	catalogService := services.NewCatalogService(client, logger)

	return &application{
		errorLog: errorLog,
		infoLog:  infoLog,
		cfg:      cfg,

		store:    store,
		backend:  client,
		registry: registry,
		rates:    ratesService,
		auth:     authService,
		limiter:  newIPLimiter(rate.Limit(cfg.Suggestions.PerSecond), cfg.Suggestions.Burst),

		trustedProxies: trusted,

		searchHandler:     &handlers.SearchHandler{Registry: registry, TransitionDelay: cfg.Search.TransitionDelay},
		favoritesHandler:  &handlers.FavoritesHandler{Service: favoritesService},
		currencyHandler:   &handlers.CurrencyHandler{Rates: ratesService},
		suggestionHandler: &handlers.SuggestionHandler{Backend: client, Log: logger},
		authHandler:       &handlers.AuthHandler{Service: authService},
		catalogHandler:    &handlers.CatalogHandler{Service: catalogService},
	}, nil
}

// openDB connects to MySQL or PostgreSQL. MySQL DSNs are normalized so
// that the connection speaks utf8mb4.
func openDB(driver, dsn string) (*sql.DB, error) {
	if driver == repositories.DialectMySQL {
		mcfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", err)
		}
		if mcfg.Params == nil {
			mcfg.Params = map[string]string{}
		}
		if _, ok := mcfg.Params["charset"]; !ok {
			mcfg.Params["charset"] = "utf8mb4"
		}
		dsn = mcfg.FormatDSN()
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		db.Close()
		return nil, err
	}
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	log.Println("Successfully connected to database")
	return db, nil
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
