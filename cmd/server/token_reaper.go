package main

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// tokenReaper is satisfied by the in-memory session store, which has no
// native expiry. Redis-backed sessions carry a key TTL and expire on their
// own, so no reaper runs for that driver.
type tokenReaper interface {
	PurgeExpired() int
}

// reapInterval wraps time.Ticker so tests can drive sweeps by hand.
type reapInterval interface {
	C() <-chan time.Time
	Stop()
}

type tickerInterval struct {
	ticker *time.Ticker
}

func (t tickerInterval) C() <-chan time.Time {
	return t.ticker.C
}

func (t tickerInterval) Stop() {
	t.ticker.Stop()
}

func startTokenReaper(ctx context.Context, logger *slog.Logger, sessions tokenReaper, interval time.Duration) func() {
	return startTokenReaperWithInterval(ctx, logger, sessions, interval, func(d time.Duration) reapInterval {
		return tickerInterval{ticker: time.NewTicker(d)}
	})
}

func startTokenReaperWithInterval(
	ctx context.Context,
	logger *slog.Logger,
	sessions tokenReaper,
	interval time.Duration,
	newInterval func(time.Duration) reapInterval,
) func() {
	if sessions == nil || interval <= 0 {
		return func() {}
	}
	reapCtx, cancel := context.WithCancel(ctx)
	ticker := newInterval(interval)
	done := make(chan struct{})
	go func() {
		defer func() {
			ticker.Stop()
			close(done)
		}()
		for {
			select {
			case <-reapCtx.Done():
				return
			case <-ticker.C():
				if purged := sessions.PurgeExpired(); purged > 0 && logger != nil {
					logger.Debug("reaped expired auth tokens", "count", purged)
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
