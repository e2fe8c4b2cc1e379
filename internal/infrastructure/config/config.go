package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// AuthConfig is the operator-facing authentication policy. Loaded once at
// process start; the service layer receives a copy and never re-reads the
// environment.
type AuthConfig struct {
	// MaxAttempts consecutive failed logins lock the account.
	MaxAttempts int `env:"AUTH_MAX_ATTEMPTS, default=5"`
	// AdminAPILogin enables API login for the system administrator role.
	AdminAPILogin bool          `env:"AUTH_ADMIN_API_LOGIN, default=false"`
	JWTSecret     string        `env:"JWT_SECRET"`
	TokenTTL      time.Duration `env:"TOKEN_TTL, default=24h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=transferdesk"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Auth.MaxAttempts < 1 {
		return nil, fmt.Errorf("config: AUTH_MAX_ATTEMPTS must be positive, got %d", cfg.Auth.MaxAttempts)
	}
	return &cfg, nil
}
