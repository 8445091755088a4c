package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"travelFront/internal/models"
	"travelFront/internal/repositories"
)

// RateFetcher loads the rates published for a day.
type RateFetcher interface {
	Fetch(ctx context.Context, day time.Time) (models.ExchangeRates, error)
}

// ExchangeRateService serves USD and CNY rates, fetching them at most once
// per calendar day. Concurrent refreshes share one upstream request.
type ExchangeRateService struct {
	fetcher RateFetcher
	repo    *repositories.RatesRepository
	log     Logger
	loc     *time.Location
	now     func() time.Time

	group singleflight.Group

	mu     sync.RWMutex
	cached models.ExchangeRates
	have   bool
	loaded bool
}

// NewExchangeRateService wires the service. loc decides where calendar
// days begin; nil means the local zone.
func NewExchangeRateService(fetcher RateFetcher, repo *repositories.RatesRepository, logger Logger, loc *time.Location) *ExchangeRateService {
	if loc == nil {
		loc = time.Local
	}
	return &ExchangeRateService{fetcher: fetcher, repo: repo, log: loggerOrNop(logger), loc: loc, now: time.Now}
}

// Current returns today's rates, fetching them when the cached ones are
// from another day. It fails when they cannot be fetched.
func (s *ExchangeRateService) Current(ctx context.Context) (models.ExchangeRates, error) {
	s.loadCache(ctx)

	s.mu.RLock()
	cached, have := s.cached, s.have
	s.mu.RUnlock()
	if have && s.sameDay(cached.LastUpdated, s.now()) {
		return cached, nil
	}
	return s.Refresh(ctx)
}

// Rates never fails: on error the last known or the default rates are
// returned.
func (s *ExchangeRateService) Rates(ctx context.Context) models.ExchangeRates {
	rates, err := s.Current(ctx)
	if err == nil {
		return rates
	}
	s.log.Errorf("exchange rates: %v", err)

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.have {
		return s.cached
	}
	return models.DefaultExchangeRates()
}

// Refresh fetches today's rates from upstream and caches them.
func (s *ExchangeRateService) Refresh(ctx context.Context) (models.ExchangeRates, error) {
	v, err, _ := s.group.Do("rates", func() (interface{}, error) {
		rates, err := s.fetcher.Fetch(ctx, s.now().In(s.loc))
		if err != nil {
			return models.ExchangeRates{}, fmt.Errorf("%w: %v", models.ErrRatesUnavailable, err)
		}
		if rates.USD <= 0 || rates.CNY <= 0 {
			return models.ExchangeRates{}, fmt.Errorf("%w: non-positive rate", models.ErrRatesUnavailable)
		}
		if rates.LastUpdated.IsZero() {
			rates.LastUpdated = s.now()
		}

		s.mu.Lock()
		s.cached, s.have = rates, true
		s.mu.Unlock()

		if s.repo != nil {
			if err := s.repo.Save(ctx, rates); err != nil {
				s.log.Errorf("exchange rates: save cache: %v", err)
			}
		}
		s.log.Infof("exchange rates refreshed: USD=%.4f CNY=%.4f", rates.USD, rates.CNY)
		return rates, nil
	})
	if err != nil {
		return models.ExchangeRates{}, err
	}
	return v.(models.ExchangeRates), nil
}

func (s *ExchangeRateService) loadCache(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded || s.repo == nil {
		s.loaded = true
		return
	}
	s.loaded = true

	rates, err := s.repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, models.ErrNoRecord) {
			s.log.Errorf("exchange rates: read cache: %v", err)
		}
		return
	}
	if rates.USD > 0 && rates.CNY > 0 {
		s.cached, s.have = rates, true
	}
}

func (s *ExchangeRateService) sameDay(a, b time.Time) bool {
	ay, am, ad := a.In(s.loc).Date()
	by, bm, bd := b.In(s.loc).Date()
	return ay == by && am == bm && ad == bd
}
