package providers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/nba-roster-service/internal/logging"
	"github.com/preston-bernstein/nba-roster-service/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
	maxBackoff           = 5 * time.Second
)

// retryingProvider wraps a PlayerProvider with exponential backoff. Rate limit
// responses raise the next delay to at least the upstream Retry-After.
type retryingProvider struct {
	inner        PlayerProvider
	logger       *slog.Logger
	metrics      *metrics.Recorder
	providerName string
	maxAttempts  int
	baseDelay    time.Duration
	newBackOff   func() backoff.BackOff
}

// NewRetryingProvider wraps the given provider with retries. If maxAttempts/backoff are <= 0, defaults are used.
func NewRetryingProvider(inner PlayerProvider, logger *slog.Logger, recorder *metrics.Recorder, name string, maxAttempts int, base time.Duration) PlayerProvider {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if base <= 0 {
		base = defaultBackoff
	}
	if name == "" {
		name = "provider"
	}
	r := &retryingProvider{
		inner:        inner,
		logger:       logger,
		metrics:      recorder,
		providerName: name,
		maxAttempts:  maxAttempts,
		baseDelay:    base,
	}
	r.newBackOff = r.exponential
	return r
}

func (r *retryingProvider) exponential() backoff.BackOff {
	return backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(r.baseDelay),
		backoff.WithRandomizationFactor(0.5),
		backoff.WithMultiplier(2),
		backoff.WithMaxInterval(maxBackoff),
		backoff.WithMaxElapsedTime(0),
	)
}

func (r *retryingProvider) FetchPlayers(ctx context.Context, q Query) (Page, error) {
	if r.inner == nil {
		return Page{}, ErrProviderUnavailable
	}

	floor := &retryAfterFloor{BackOff: r.newBackOff()}
	policy := backoff.WithContext(backoff.WithMaxRetries(floor, uint64(r.maxAttempts-1)), ctx)

	attempt := 0
	page, err := backoff.RetryNotifyWithData(func() (Page, error) {
		attempt++
		start := time.Now()
		page, err := r.inner.FetchPlayers(ctx, q)
		r.metrics.RecordProviderAttempt(r.providerName, time.Since(start), err)
		if err == nil {
			return page, nil
		}
		if rl, ok := AsRateLimitError(err); ok {
			r.metrics.RecordRateLimit(r.providerName, rl.RetryAfter)
			floor.raise(rl.RetryAfter)
			return Page{}, err
		}
		if !retryable(err) {
			return Page{}, backoff.Permanent(err)
		}
		return Page{}, err
	}, policy, func(err error, next time.Duration) {
		r.logWarn(ctx, "provider fetch retry",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", r.maxAttempts),
			slog.Duration("next_delay", next),
			slog.Any("err", err),
		)
	})
	if err != nil {
		r.logWarn(ctx, "provider fetch failed", slog.Int("attempts", attempt), slog.Any("err", err))
		return Page{}, err
	}
	return page, nil
}

func (r *retryingProvider) logWarn(ctx context.Context, msg string, args ...any) {
	logWithProvider(ctx, logging.FromContext(ctx, r.logger), slog.LevelWarn, r.providerName, msg, args...)
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrProviderUnavailable) {
		return false
	}
	if st, ok := AsStatusError(err); ok {
		return st.Retryable()
	}
	return true
}

// retryAfterFloor raises the next delay of the wrapped policy to a one-shot
// minimum.
type retryAfterFloor struct {
	backoff.BackOff
	min time.Duration
}

func (f *retryAfterFloor) raise(d time.Duration) {
	if d > f.min {
		f.min = d
	}
}

func (f *retryAfterFloor) NextBackOff() time.Duration {
	next := f.BackOff.NextBackOff()
	if next == backoff.Stop {
		return next
	}
	if f.min > next {
		next = f.min
	}
	f.min = 0
	return next
}

func (f *retryAfterFloor) Reset() {
	f.min = 0
	f.BackOff.Reset()
}
