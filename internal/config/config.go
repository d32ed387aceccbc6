package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Draft store backends.
const (
	DraftStoreMemory   = "memory"
	DraftStorePostgres = "postgres"
	DraftStoreSQLite   = "sqlite"
)

const minSessionSecret = 32

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	BackendURL      string        `env:"BACKEND_URL"`
	LegacyAPIURL    string        `env:"REACT_APP_API_URL"`
	BackendTimeout  time.Duration `env:"BACKEND_TIMEOUT" envDefault:"0s"`
	SessionSecret   string        `env:"SESSION_SECRET"`
	CookieSecure    bool          `env:"COOKIE_SECURE" envDefault:"false"`
	DraftStore      string        `env:"DRAFT_STORE" envDefault:"memory"`
	DraftTTLMinutes int           `env:"DRAFT_TTL_MINUTES" envDefault:"30"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	SQLitePath      string        `env:"SQLITE_PATH" envDefault:"recharge-web.db"`
	RedirectDelayMS int           `env:"REDIRECT_DELAY_MS" envDefault:"500"`
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg, err := Parse()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse reads and normalizes the environment without validating it, so
// command-line overrides can be applied first.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize applies defaults and trims values.
func (c *Config) Normalize() {
	c.Port = fallback(c.Port, "3000")
	c.BackendURL = strings.TrimRight(fallback(c.BackendURL, c.LegacyAPIURL), "/")
	c.SessionSecret = strings.TrimSpace(c.SessionSecret)
	c.DraftStore = strings.ToLower(fallback(c.DraftStore, DraftStoreMemory))
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	c.SQLitePath = fallback(c.SQLitePath, "recharge-web.db")
	if c.DraftTTLMinutes <= 0 {
		c.DraftTTLMinutes = 30
	}
	if c.RedirectDelayMS < 0 {
		c.RedirectDelayMS = 0
	}
}

// Validate checks required settings. Flag overrides re-run it after Load.
func (c Config) Validate() error {
	if c.BackendURL == "" {
		return errors.New("BACKEND_URL is required")
	}
	if len(c.SessionSecret) < minSessionSecret {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters", minSessionSecret)
	}
	switch c.DraftStore {
	case DraftStoreMemory, DraftStoreSQLite:
	case DraftStorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when DRAFT_STORE=postgres")
		}
	default:
		return fmt.Errorf("unknown DRAFT_STORE %q", c.DraftStore)
	}
	return nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// DraftTTL is the lifetime of a checkout draft.
func (c Config) DraftTTL() time.Duration {
	return time.Duration(c.DraftTTLMinutes) * time.Minute
}

// RedirectDelay is how long the payment confirmation stays up before
// returning to the validate page.
func (c Config) RedirectDelay() time.Duration {
	return time.Duration(c.RedirectDelayMS) * time.Millisecond
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}
