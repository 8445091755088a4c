package main

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

const ratesRefreshTimeout = time.Minute

// startRatesScheduler fetches exchange rates once at startup and then on
// the configured schedule, in the zone where the central bank day starts.
func startRatesScheduler(ctx context.Context, app *application) (*cron.Cron, error) {
	refresh := func() {
		runCtx, cancel := context.WithTimeout(ctx, ratesRefreshTimeout)
		defer cancel()

		rates, err := app.rates.Refresh(runCtx)
		if err != nil {
			app.errorLog.Printf("rates: refresh failed: %v", err)
			return
		}
		app.infoLog.Printf("rates: USD %.4f CNY %.4f", rates.USD, rates.CNY)
	}

	c := cron.New(cron.WithLocation(app.cfg.Location()))
	if _, err := c.AddFunc(app.cfg.Currency.Schedule, refresh); err != nil {
		return nil, err
	}
	c.Start()

	go refresh()
	return c, nil
}
