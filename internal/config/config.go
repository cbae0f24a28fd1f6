// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every tunable of the service. DatabaseURL is optional: when
// empty, credentials live in a volatile in-memory store instead of Postgres.
type Config struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	DatabaseURL     string        `envconfig:"DB_URL"`
	JWTSecret       string        `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`
	TokenTTL        time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	HistoryCapacity int           `envconfig:"HISTORY_CAPACITY" default:"50"`
	MigrationsDir   string        `envconfig:"MIGRATIONS_DIR" default:"sql/schema"`
}

// Load reads .env if present, then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %+v", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}
