// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrInsecureProduction is returned when production runs with development secrets.
var ErrInsecureProduction = errors.New("config: insecure production settings")

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host   string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port   string `env:"APP_PORT" envDefault:"8080"`
	Env    string `env:"APP_ENV" envDefault:"development"` // "development", "production", "testing"
	Origin string `env:"APP_ORIGIN"`                       // public origin for redirects; derived from the request when empty

	// PostgreSQL connection
	DBHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	DBPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	DBUser     string `env:"POSTGRES_USER" envDefault:"bumodocs"`
	DBPassword string `env:"POSTGRES_PASSWORD" envDefault:"changeme"`
	DBName     string `env:"POSTGRES_DB" envDefault:"bumodocs"`

	// Valkey (Redis-compatible cache)
	ValkeyHost     string `env:"VALKEY_HOST" envDefault:"localhost"`
	ValkeyPort     string `env:"VALKEY_PORT" envDefault:"6379"`
	ValkeyPassword string `env:"VALKEY_PASSWORD"`

	// Documentation content
	DocsDir    string `env:"DOCS_DIR" envDefault:"docs"`
	DocsWatch  bool   `env:"DOCS_WATCH" envDefault:"false"`
	SiteConfig string `env:"SITE_CONFIG"` // YAML override of the embedded site config

	// Caching and sessions
	PageCacheTTL time.Duration `env:"PAGE_CACHE_TTL" envDefault:"5m"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"720h"`

	// TabRateLimit caps tab clicks per client per minute.
	TabRateLimit int `env:"TAB_RATE_LIMIT" envDefault:"120"`
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is loaded first when present; variables already set win. Returns an error
// if critical values are missing in production mode.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("%w: POSTGRES_PASSWORD must be set in production", ErrInsecureProduction)
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}
