package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AppPort       string `env:"APP_PORT" envDefault:"8080"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`

	// How long a pending session stays completable.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"15m"`

	// Empty RedisAddr selects the in-memory store (single instance only).
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Empty DSN disables the verification audit trail.
	DatabaseDSN string `env:"DATABASE_DSN"`

	MSClientID     string `env:"MS_CLIENT_ID,required"`
	MSClientSecret string `env:"MS_CLIENT_SECRET"`
	MSTenantID     string `env:"MS_TENANT_ID" envDefault:"common"`
	MSRedirectURL  string `env:"MS_REDIRECT_URL,required"`

	// bcrypt hash gating session creation; empty leaves it open.
	OperatorKeyHash string `env:"OPERATOR_KEY_HASH"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
