package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bruth/a11y/analytics"
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	NATSURL      string        `env:"NATS_URL" envDefault:"nats://127.0.0.1:4222"`
	EventStream  string        `env:"EVENT_STREAM" envDefault:"a11y"`
	RecordCodec  string        `env:"RECORD_CODEC" envDefault:"msgpack"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"5s"`
	DedupWindow  int           `env:"DEDUP_WINDOW" envDefault:"4096"`
	MetricsAddr  string        `env:"METRICS_ADDR" envDefault:":9464"`

	Analytics analytics.Config `envPrefix:"BRAILLE_ANALYTICS_"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	return Parse()
}

// Parse reads configuration from the process environment only.
func Parse() (*Config, error) {
	return ParseEnviron(env.ToMap(os.Environ()))
}

// ParseEnviron reads configuration from environ, a map of variable names to
// values. Variables missing from environ take their defaults.
func ParseEnviron(environ map[string]string) (*Config, error) {
	if environ == nil {
		environ = map[string]string{}
	}

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, err
	}

	cfg.Analytics.Backend = strings.ToLower(strings.TrimSpace(cfg.Analytics.Backend))

	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("config: POLL_INTERVAL must be positive, got %s", cfg.PollInterval)
	}
	if cfg.EventStream == "" {
		return nil, fmt.Errorf("config: EVENT_STREAM is required")
	}

	return cfg, nil
}
