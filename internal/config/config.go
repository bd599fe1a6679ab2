package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is the API server configuration, loaded from environment
// variables.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	RedisURL   string `env:"REDIS_URL" envDefault:"localhost:6379"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"gaiaterm.db"`

	LLMProvider  string `env:"LLM_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	ModelName    string `env:"MODEL_NAME" envDefault:"gemini-2.0-flash"`

	MailerAPIKey string `env:"MAILER_API_KEY"`
	ContactEmail string `env:"CONTACT_EMAIL"`

	GeoAPIURL string `env:"GEO_API_URL" envDefault:"http://ip-api.com/json"`

	// TurnRateLimit is the number of oracle turns allowed per client
	// IP per window.
	TurnRateLimit  int `env:"TURN_RATE_LIMIT" envDefault:"30"`
	TurnRateWindow int `env:"TURN_RATE_WINDOW_SECONDS" envDefault:"60"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps the configured level string to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
