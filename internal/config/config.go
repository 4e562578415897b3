// Package config loads runtime settings from flags, the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds the server settings.
type Config struct {
	DBDriver       string  `long:"db-driver" env:"DB_DRIVER" default:"sqlite" choice:"sqlite" choice:"postgres" choice:"memory" description:"Storage backend"`
	DatabaseURL    string  `long:"database-url" env:"DATABASE_URL" default:"data/podcast.db" description:"SQLite file path or PostgreSQL connection string"`
	Port           string  `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	DefaultUser    string  `long:"default-user" env:"DEFAULT_USER" default:"defaultuser" description:"Implicit user that owns the channel"`
	RateLimit      float64 `long:"rate-limit" env:"RATE_LIMIT" default:"5" description:"Write requests per second per client"`
	RateBurst      int     `long:"rate-burst" env:"RATE_BURST" default:"10" description:"Write request burst per client"`
	LogLevel       string  `long:"log-level" env:"LOG_LEVEL" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"Log level"`
	LogFormat      string  `long:"log-format" env:"LOG_FORMAT" default:"text" choice:"text" choice:"json" description:"Log output format"`
	SkipMigrations bool    `long:"skip-migrations" env:"SKIP_MIGRATIONS" description:"Do not apply database migrations on start"`
}

// Load reads .env (if present) and parses args on top of the environment.
// When --help is given the returned error satisfies flags.WroteHelp.
func Load(args []string) (*Config, error) {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		if flags.WroteHelp(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	cfg.DefaultUser = strings.TrimSpace(cfg.DefaultUser)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values the flag parser cannot.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.DefaultUser == "" {
		return errors.New("default user is required")
	}
	if c.DBDriver != DriverMemory && c.DatabaseURL == "" {
		return fmt.Errorf("database url is required for driver %s", c.DBDriver)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("rate limit must be positive, got %v", c.RateLimit)
	}
	if c.RateBurst <= 0 {
		return fmt.Errorf("rate burst must be positive, got %d", c.RateBurst)
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Limit converts RateLimit for the rate limiter.
func (c *Config) Limit() rate.Limit {
	return rate.Limit(c.RateLimit)
}
