package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"travelFront/internal/models"
)

const ratesKey = "exchange_rates"

// RatesRepository caches the last successfully fetched exchange rates.
type RatesRepository struct {
	Store KVStore
}

func (r *RatesRepository) Load(ctx context.Context) (models.ExchangeRates, error) {
	raw, err := r.Store.Get(ctx, ratesKey)
	if err != nil {
		return models.ExchangeRates{}, err
	}
	var rates models.ExchangeRates
	if err := json.Unmarshal(raw, &rates); err != nil {
		return models.ExchangeRates{}, fmt.Errorf("decode cached rates: %w", err)
	}
	return rates, nil
}

func (r *RatesRepository) Save(ctx context.Context, rates models.ExchangeRates) error {
	b, err := json.Marshal(rates)
	if err != nil {
		return err
	}
	return r.Store.Set(ctx, ratesKey, b, 0)
}
