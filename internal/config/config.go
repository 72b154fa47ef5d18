package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server holds process configuration loaded from the environment.
type Server struct {
	Addr           string        `env:"SP_ADDR" envDefault:":8080"`
	DatabasePath   string        `env:"SP_DB_PATH" envDefault:"data/stabilityparty.db"`
	WebhookTimeout time.Duration `env:"SP_WEBHOOK_TIMEOUT" envDefault:"5s"`
	Verbose        bool          `env:"SP_VERBOSE"`
}

// Config is the full runtime configuration: process settings from the
// environment plus gameplay balance numbers.
type Config struct {
	Server  Server  `json:"server"`
	Balance Balance `json:"balance"`
}

// FromEnv loads server configuration from environment variables and pairs it
// with default balance values.
func FromEnv() (Config, error) {
	cfg := Config{Balance: Default()}
	if err := env.Parse(&cfg.Server); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
