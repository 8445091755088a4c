package main

import (
	"context"
	"time"

	"travelFront/internal/repositories"
)

const sessionCleanerTimeout = 30 * time.Second

// expirySweeper is implemented by stores that keep expired entries around
// until they are swept.
type expirySweeper interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type memorySweeper struct {
	store *repositories.MemoryStore
}

func (m memorySweeper) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	return int64(m.store.Sweep(now)), nil
}

func sweeperFor(store repositories.KVStore) expirySweeper {
	switch s := store.(type) {
	case *repositories.MemoryStore:
		return memorySweeper{store: s}
	case *repositories.SQLStore:
		return s
	case *repositories.S3Store:
		return s
	}
	// redis expires keys on its own
	return nil
}

// startSessionCleaner drops idle search sessions, stale rate limiter
// entries and expired storage rows.
func startSessionCleaner(ctx context.Context, app *application, interval time.Duration) {
	sweeper := sweeperFor(app.store)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		run := func() {
			runCtx, cancel := context.WithTimeout(ctx, sessionCleanerTimeout)
			defer cancel()

			now := time.Now()
			if n := app.registry.Evict(now); n > 0 {
				app.infoLog.Printf("session cleaner: evicted %d search sessions", n)
			}
			app.limiter.sweep(now)

			if sweeper == nil {
				return
			}
			removed, err := sweeper.DeleteExpired(runCtx, now)
			if err != nil {
				app.errorLog.Printf("session cleaner: failed to delete expired entries: %v", err)
				return
			}
			if removed > 0 {
				app.infoLog.Printf("session cleaner: deleted %d expired entries", removed)
			}
		}

		run()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run()
			}
		}
	}()
}
