package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// TokenPurgeInterval is how often expired login tokens are deleted
const TokenPurgeInterval = time.Hour

// TokenStore deletes login tokens that expired before a cutoff
type TokenStore interface {
	DeleteExpiredLoginTokens(ctx context.Context, expiresAt time.Time) (int64, error)
}

// Sweeper is an extra cleanup run on every tick (e.g. rate limiter keys)
type Sweeper func() int

type TokenPurger struct {
	store    TokenStore
	interval time.Duration
	sweepers []Sweeper
	now      func() time.Time
	ticker   *time.Ticker
	done     chan bool
	stopOnce sync.Once
}

func NewTokenPurger(store TokenStore, interval time.Duration, sweepers ...Sweeper) *TokenPurger {
	if interval <= 0 {
		interval = TokenPurgeInterval
	}
	return &TokenPurger{
		store:    store,
		interval: interval,
		sweepers: sweepers,
		now:      time.Now,
		done:     make(chan bool),
	}
}

// Start begins the purge background job
func (p *TokenPurger) Start(ctx context.Context) {
	slog.Info("starting login token purger", "interval", p.interval)

	// Run immediately on start
	p.purge(ctx)

	p.ticker = time.NewTicker(p.interval)

	go func() {
		for {
			select {
			case <-p.ticker.C:
				p.purge(ctx)
			case <-ctx.Done():
				return
			case <-p.done:
				slog.Info("login token purger stopped")
				return
			}
		}
	}()
}

// Stop stops the background job
func (p *TokenPurger) Stop() {
	p.stopOnce.Do(func() {
		if p.ticker != nil {
			p.ticker.Stop()
		}
		close(p.done)
	})
}

// Run starts the job and blocks until ctx is cancelled
func (p *TokenPurger) Run(ctx context.Context) error {
	p.Start(ctx)
	<-ctx.Done()
	p.Stop()
	return nil
}

func (p *TokenPurger) purge(ctx context.Context) {
	deleted, err := p.store.DeleteExpiredLoginTokens(ctx, p.now().UTC())
	if err != nil {
		slog.Error("failed to purge expired login tokens", "error", err)
	} else if deleted > 0 {
		slog.Info("purged expired login tokens", "count", deleted)
	}

	for _, sweep := range p.sweepers {
		if n := sweep(); n > 0 {
			slog.Debug("swept idle entries", "count", n)
		}
	}
}
