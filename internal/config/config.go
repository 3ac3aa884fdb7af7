package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the safety service.
// Environment variables are parsed from the SAFETY_BACKEND_ prefix,
// e.g. SAFETY_BACKEND_HTTP_PORT, SAFETY_BACKEND_POSTGRES_DSN.
type Config struct {
	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Storage. DBDriver "auto" resolves to sqlite unless a Postgres DSN
	// is configured.
	DBDriver    string `envconfig:"DB_DRIVER" default:"auto"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"./data/safety.db"`

	// Guardian alert channel. Empty URL selects the no-op dispatcher.
	GuardianWebhookURL     string `envconfig:"GUARDIAN_WEBHOOK_URL" default:""`
	DispatchTimeoutSeconds int    `envconfig:"DISPATCH_TIMEOUT_SECONDS" default:"5"`
	DispatchRetryCount     int    `envconfig:"DISPATCH_RETRY_COUNT" default:"2"`

	// Session tokens minted on a granted login.
	JWTSecret            string `envconfig:"JWT_SECRET" default:""`
	TokenValidityMinutes int    `envconfig:"TOKEN_VALIDITY_MINUTES" default:"60"`

	// Health checking
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
}

// DispatchTimeout bounds a single guardian-notification attempt so a slow
// channel cannot stall status queries.
func (c *Config) DispatchTimeout() time.Duration {
	return time.Duration(c.DispatchTimeoutSeconds) * time.Second
}

// TokenValidity returns the session token lifetime.
func (c *Config) TokenValidity() time.Duration {
	return time.Duration(c.TokenValidityMinutes) * time.Minute
}

// ResolveDefaults validates DBDriver and derives it when set to "auto".
func (c *Config) ResolveDefaults() error {
	if c.DBDriver == "" || c.DBDriver == "auto" {
		if c.PostgresDSN != "" {
			c.DBDriver = "postgres"
		} else {
			c.DBDriver = "sqlite"
		}
	}
	switch c.DBDriver {
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("DB_DRIVER=postgres requires POSTGRES_DSN")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("DB_DRIVER=sqlite requires SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.DispatchTimeoutSeconds <= 0 {
		return fmt.Errorf("DISPATCH_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// New creates a Config by parsing SAFETY_BACKEND_-prefixed environment
// variables and resolving derived defaults.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("SAFETY_BACKEND", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("port", cfg.HTTPPort).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Bool("guardian_webhook_configured", cfg.GuardianWebhookURL != "").
		Int("dispatch_timeout_s", cfg.DispatchTimeoutSeconds).
		Msg("Configuration loaded")

	return &cfg, nil
}
