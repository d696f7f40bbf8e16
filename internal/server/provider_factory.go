package server

import (
	"log/slog"

	"github.com/preston-bernstein/nba-roster-service/internal/config"
	"github.com/preston-bernstein/nba-roster-service/internal/metrics"
	"github.com/preston-bernstein/nba-roster-service/internal/providers"
)

// providerFactory assembles the player source with shared wrappers
// (rate limit, retry, response cache).
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

// build returns the wrapped provider and a func releasing its resources.
func (f providerFactory) build(cfg config.Config) (providers.PlayerProvider, func()) {
	return f.wrap(cfg, selectProvider(cfg, f.logger))
}

func (f providerFactory) wrap(cfg config.Config, base providers.PlayerProvider) (providers.PlayerProvider, func()) {
	name := normalizeProviderName(cfg.Provider, base)
	release := func() {}

	next := base
	if cfg.Balldontlie.MinInterval > 0 && cfg.Provider == config.ProviderBalldontlie {
		limited := providers.NewRateLimitedProvider(base, cfg.Balldontlie.MinInterval, f.logger)
		if c, ok := limited.(interface{ Close() }); ok {
			release = c.Close
		}
		next = limited
	}
	retrying := providers.NewRetryingProvider(next, f.logger, f.metrics, name,
		cfg.Balldontlie.RetryAttempts, cfg.Balldontlie.RetryBackoff)
	return providers.NewCachingProvider(retrying, cfg.Balldontlie.CacheTTL), release
}
