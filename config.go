package breeze

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config holds client settings, typically loaded from the environment.
type Config struct {
	// URL of the organization's instance. ENV: BREEZE_URL
	URL string `env:"BREEZE_URL,required"`
	// APIKey from the Breeze extensions page. ENV: BREEZE_API_KEY
	APIKey string `env:"BREEZE_API_KEY,required"`
	// Timeout per attempt. ENV: BREEZE_TIMEOUT
	Timeout time.Duration `env:"BREEZE_TIMEOUT,default=60s"`
	// MaxAttempts per request. ENV: BREEZE_MAX_ATTEMPTS
	MaxAttempts int `env:"BREEZE_MAX_ATTEMPTS,default=5"`
	// RateLimitPerMinute caps outgoing requests; 0 is unlimited.
	// ENV: BREEZE_RATE_LIMIT_PER_MINUTE
	RateLimitPerMinute int `env:"BREEZE_RATE_LIMIT_PER_MINUTE,default=0"`
	// DetailConcurrency caps concurrent per-person fetches.
	// ENV: BREEZE_DETAIL_CONCURRENCY
	DetailConcurrency int `env:"BREEZE_DETAIL_CONCURRENCY,default=100"`
	// SchemaCacheTTL keeps field listings; 0 disables the cache.
	// ENV: BREEZE_SCHEMA_CACHE_TTL
	SchemaCacheTTL time.Duration `env:"BREEZE_SCHEMA_CACHE_TTL,default=0s"`
	// DryRun suppresses all requests. ENV: BREEZE_DRY_RUN
	DryRun bool `env:"BREEZE_DRY_RUN,default=false"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Options turns cfg into client options. Extra options are applied after
// and take precedence.
func (cfg Config) Options(extra ...Option) []Option {
	opts := []Option{
		WithTimeout(cfg.Timeout),
		WithMaxAttempts(cfg.MaxAttempts),
		WithRateLimit(cfg.RateLimitPerMinute),
		WithDetailConcurrency(cfg.DetailConcurrency),
		WithSchemaCacheTTL(cfg.SchemaCacheTTL),
		WithDryRun(cfg.DryRun),
	}
	return append(opts, extra...)
}

// NewFromConfig builds a client from cfg.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	return New(cfg.URL, cfg.APIKey, cfg.Options(opts...)...)
}

// NewFromEnv builds a client using envdecode to populate Config.
func NewFromEnv(opts ...Option) (*Client, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewFromConfig(cfg, opts...)
}

// LogValue hides the API key when a Config is logged.
func (cfg Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", cfg.URL),
		slog.Duration("timeout", cfg.Timeout),
		slog.Int("max_attempts", cfg.MaxAttempts),
		slog.Int("rate_limit_per_minute", cfg.RateLimitPerMinute),
		slog.Int("detail_concurrency", cfg.DetailConcurrency),
		slog.Duration("schema_cache_ttl", cfg.SchemaCacheTTL),
		slog.Bool("dry_run", cfg.DryRun),
	)
}
