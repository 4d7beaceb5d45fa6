package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	// Both token secrets are required: the issuer fails closed at startup
	// rather than ever signing with an empty key.
	AccessTokenSecret  string `env:"ACCESS_TOKEN_SECRET,required"  validate:"required,min=32"`
	RefreshTokenSecret string `env:"REFRESH_TOKEN_SECRET,required" validate:"required,min=32"`

	OtpTTLMin            int `env:"OTP_TTL_MIN" envDefault:"10" validate:"min=1,max=60"`
	OtpResendCooldownSec int `env:"OTP_RESEND_COOLDOWN_SEC" envDefault:"30" validate:"min=1,max=300"`
	OtpPurgeIntervalMin  int `env:"OTP_PURGE_INTERVAL_MIN" envDefault:"15" validate:"min=0,max=1440"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) OtpTTL() time.Duration {
	return time.Duration(c.OtpTTLMin) * time.Minute
}

func (c *Config) OtpResendCooldown() time.Duration {
	return time.Duration(c.OtpResendCooldownSec) * time.Second
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
