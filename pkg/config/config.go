// Package config loads service configuration from config.yaml with
// environment variable overrides. Secrets (passwords) must only come from
// environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for report-engine.
// Environment variables always override YAML values.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL, reporting credential)
	Database DatabaseConfig `yaml:"database"`

	// Migration configuration
	Migrations MigrationsConfig `yaml:"migrations"`
}

// DatabaseConfig holds the reporting database connection and pool settings.
// The credential configured here is expected to be restricted to SELECT on
// the report views (see migrations/000003_report_reader_role.up.sql); the
// service performs no privilege checks of its own.
type DatabaseConfig struct {
	Host                  string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port                  int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User                  string `yaml:"user" env:"PGUSER" env-default:"report_reader"`
	Password              string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database              string `yaml:"database" env:"PGDATABASE" env-default:"orders"`
	SSLMode               string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections        int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	MinConnections        int32  `yaml:"min_connections" env:"PGMIN_CONNECTIONS" env-default:"1"`
	MaxConnIdleMinutes    int    `yaml:"max_conn_idle_minutes" env:"PGMAX_CONN_IDLE_MINUTES" env-default:"30"`
	ConnectTimeoutSeconds int    `yaml:"connect_timeout_seconds" env:"PGCONNECT_TIMEOUT_SECONDS" env-default:"5"`
}

// MigrationsConfig controls startup migrations. Migrations need a schema
// owner credential, never the restricted reporting credential, so the owner
// URL is supplied separately and only via environment.
type MigrationsConfig struct {
	RunOnStart bool   `yaml:"run_on_start" env:"MIGRATIONS_RUN_ON_START" env-default:"false"`
	OwnerURL   string `yaml:"-" env:"MIGRATIONS_OWNER_URL"` // Secret - not in YAML
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if cfg.Migrations.RunOnStart && cfg.Migrations.OwnerURL == "" {
		return nil, fmt.Errorf("migrations.run_on_start requires MIGRATIONS_OWNER_URL")
	}

	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string for the reporting
// credential.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// MaxConnIdleTime returns the idle reclamation timeout as a duration.
func (c *DatabaseConfig) MaxConnIdleTime() time.Duration {
	return time.Duration(c.MaxConnIdleMinutes) * time.Minute
}

// ConnectTimeout returns the connect-attempt timeout as a duration.
func (c *DatabaseConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSeconds) * time.Second
}
