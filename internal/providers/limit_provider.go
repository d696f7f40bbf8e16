package providers

import (
	"context"
	"log/slog"
	"time"
)

// rateLimitedProvider wraps a PlayerProvider and enforces a minimum interval between calls.
type rateLimitedProvider struct {
	next     PlayerProvider
	interval time.Duration
	ticker   *time.Ticker
	logger   *slog.Logger
}

// NewRateLimitedProvider returns a PlayerProvider that limits calls to the given interval.
// Calls block until the interval elapses to avoid exceeding upstream quotas.
func NewRateLimitedProvider(next PlayerProvider, interval time.Duration, logger *slog.Logger) PlayerProvider {
	if interval <= 0 {
		interval = time.Second
	}
	return &rateLimitedProvider{
		next:     next,
		interval: interval,
		ticker:   time.NewTicker(interval),
		logger:   logger,
	}
}

func (p *rateLimitedProvider) FetchPlayers(ctx context.Context, q Query) (Page, error) {
	if p.next == nil {
		logWithProvider(ctx, p.logger, slog.LevelWarn, "rate-limited", "provider unavailable")
		return Page{}, ErrProviderUnavailable
	}
	select {
	case <-ctx.Done():
		logWithProvider(ctx, p.logger, slog.LevelWarn, "rate-limited", "rate-limited fetch canceled")
		return Page{}, ctx.Err()
	case <-p.ticker.C:
	}
	logWithProvider(ctx, p.logger, slog.LevelDebug, "rate-limited", "rate-limited provider fetch",
		slog.Int("page", q.Page),
		slog.String("search", q.Search),
	)
	return p.next.FetchPlayers(ctx, q)
}

// Close stops the underlying ticker.
func (p *rateLimitedProvider) Close() {
	p.ticker.Stop()
}
