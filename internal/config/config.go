// Package config handles application configuration from environment
// variables plus an optional YAML catalog of dashboard indicators.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// BCCh API credentials. Missing credentials are not a boot error;
	// the first fetch surfaces them as an auth failure instead.
	BCCHUser string `env:"BCCH_USER"`
	BCCHPass string `env:"BCCH_PASS"`

	// CacheDir selects the persistent cache backend. Empty means the
	// cache lives in memory and dies with the process.
	CacheDir string        `env:"CACHE_DIR"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"1h"`

	// CatalogPath points at the YAML indicator catalog. Empty or missing
	// falls back to the built-in set.
	CatalogPath string `env:"CATALOG_PATH"`

	// RefreshCron re-warms the catalog caches on a schedule. Empty
	// disables the job; refresh cadence is this binary's choice, the
	// core library does no scheduling of its own.
	RefreshCron string `env:"REFRESH_CRON"`
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if cfg.CacheTTL <= 0 {
		return Config{}, fmt.Errorf("config: CACHE_TTL must be positive, got %s", cfg.CacheTTL)
	}
	return cfg, nil
}

// HasCredentials reports whether both BCCh credentials are set.
func (c Config) HasCredentials() bool {
	return c.BCCHUser != "" && c.BCCHPass != ""
}
