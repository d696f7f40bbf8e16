package server

import (
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/nba-roster-service/internal/config"
	"github.com/preston-bernstein/nba-roster-service/internal/providers"
	"github.com/preston-bernstein/nba-roster-service/internal/providers/balldontlie"
	"github.com/preston-bernstein/nba-roster-service/internal/providers/fixture"
)

func selectProvider(cfg config.Config, logger *slog.Logger) providers.PlayerProvider {
	switch cfg.Provider {
	case config.ProviderFixture, "":
		return fixture.New()
	case config.ProviderBalldontlie:
		if cfg.Balldontlie.APIKey == "" && logger != nil {
			logger.Warn("balldontlie api key not set, upstream will reject requests")
		}
		return balldontlie.NewClient(balldontlie.Config{
			BaseURL:    cfg.Balldontlie.BaseURL,
			APIKey:     cfg.Balldontlie.APIKey,
			HTTPClient: &http.Client{Timeout: cfg.Balldontlie.Timeout},
		})
	default:
		if logger != nil {
			logger.Warn("unknown provider, falling back to fixture", slog.String("provider", cfg.Provider))
		}
		return fixture.New()
	}
}
