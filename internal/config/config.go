package config

import (
	"fmt"
	"time"
)

const (
	ProviderFixture     = "fixture"
	ProviderBalldontlie = "balldontlie"

	StorageMemory = "memory"
	StorageFile   = "file"
	StorageSQLite = "sqlite"

	defaultPerPage       = 10
	defaultTimeout       = 10 * time.Second
	defaultCacheTTL      = time.Hour
	defaultRetryAttempts = 3
	defaultRetryBackoff  = 200 * time.Millisecond
	defaultSessionTTL    = 24 * time.Hour
)

// Config holds runtime configuration for the server.
type Config struct {
	Port        string            `env:"PORT" envDefault:"4000"`
	Provider    string            `env:"PROVIDER" envDefault:"fixture"`
	Balldontlie BalldontlieConfig `envPrefix:"BALLDONTLIE_"`
	Storage     StorageConfig     `envPrefix:"STORAGE_"`
	Session     SessionConfig     `envPrefix:"SESSION_"`
	Metrics     MetricsConfig
	Log         LogConfig `envPrefix:"LOG_"`
	// AllowedOrigins lists extra origins allowed to open the notification
	// websocket. Same-origin is always allowed.
	AllowedOrigins []string `env:"WS_ALLOWED_ORIGINS" envSeparator:","`
}

// BalldontlieConfig controls how we talk to the balldontlie API.
type BalldontlieConfig struct {
	BaseURL       string        `env:"BASE_URL" envDefault:"https://api.balldontlie.io/v1"`
	APIKey        string        `env:"API_KEY"`
	PerPage       int           `env:"PER_PAGE" envDefault:"10"`
	Timeout       time.Duration `env:"TIMEOUT" envDefault:"10s"`
	MinInterval   time.Duration `env:"MIN_INTERVAL"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	RetryAttempts int           `env:"RETRY_ATTEMPTS" envDefault:"3"`
	RetryBackoff  time.Duration `env:"RETRY_BACKOFF" envDefault:"200ms"`
}

// StorageConfig selects the persistence provider.
type StorageConfig struct {
	Driver string `env:"DRIVER" envDefault:"file"`
	Path   string `env:"PATH" envDefault:"data/roster"`
}

// SessionConfig controls session token signing. An empty secret means a
// random one is generated per process.
type SessionConfig struct {
	Secret     string        `env:"SECRET"`
	TTL        time.Duration `env:"TTL" envDefault:"24h"`
	CookieName string        `env:"COOKIE" envDefault:"roster_session"`
}

// MetricsConfig controls telemetry export settings.
type MetricsConfig struct {
	Enabled      bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Port         string `env:"METRICS_PORT" envDefault:"9090"`
	OtlpEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"nba-roster-service"`
	OtlpInsecure bool   `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

// Load reads an optional .env file and then the environment.
func Load() (Config, error) {
	if err := LoadDotEnv(); err != nil {
		return Config{}, err
	}
	return FromEnv()
}

// FromEnv parses the environment only. Non-positive numbers and durations fall
// back to defaults; unknown provider or storage names are errors.
func FromEnv() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.applyFallbacks()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown provider and storage selections.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderFixture, ProviderBalldontlie:
	default:
		return fmt.Errorf("config: unknown provider %q", c.Provider)
	}
	switch c.Storage.Driver {
	case StorageMemory, StorageFile, StorageSQLite:
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver != StorageMemory && c.Storage.Path == "" {
		return fmt.Errorf("config: storage driver %q needs a path", c.Storage.Driver)
	}
	return nil
}

func (c *Config) applyFallbacks() {
	b := &c.Balldontlie
	if b.PerPage <= 0 {
		b.PerPage = defaultPerPage
	}
	if b.Timeout <= 0 {
		b.Timeout = defaultTimeout
	}
	if b.CacheTTL <= 0 {
		b.CacheTTL = defaultCacheTTL
	}
	if b.RetryAttempts <= 0 {
		b.RetryAttempts = defaultRetryAttempts
	}
	if b.RetryBackoff <= 0 {
		b.RetryBackoff = defaultRetryBackoff
	}
	if b.MinInterval < 0 {
		b.MinInterval = 0
	}
	if c.Session.TTL <= 0 {
		c.Session.TTL = defaultSessionTTL
	}
}
