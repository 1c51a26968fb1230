package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains client configuration parameters.
type Config struct {
	LogLevel int     `env:"LOG_LEVEL" envDefault:"0"`
	API      API     `envPrefix:"API_"`
	Auth     Auth    `envPrefix:"AUTH_"`
	State    State   `envPrefix:"STATE_"`
	Session  Session `envPrefix:"SESSION_"`
	Cart     Cart    `envPrefix:"CART_"`
	Stub     Stub    `envPrefix:"STUB_"`
}

// API contains commerce service connection parameters.
type API struct {
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:3000/api"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Auth contains identity-provider parameters. The bearer token is
// issued externally; the client only carries it.
type Auth struct {
	Token string `env:"TOKEN"`
}

// State contains local degraded-mode storage parameters.
type State struct {
	Path string `env:"PATH" envDefault:"skecho-state.db"`
}

// Session contains session gate parameters.
type Session struct {
	// DegradedTTL bounds how long a persisted completion flag is
	// trusted as a fallback after a failed live check.
	DegradedTTL time.Duration `env:"DEGRADED_TTL" envDefault:"24h"`
}

// Cart contains cart synchronizer parameters.
type Cart struct {
	// MirrorTTL bounds how long a fetched cart mirror is considered
	// fresh before Load refetches it.
	MirrorTTL time.Duration `env:"MIRROR_TTL" envDefault:"2m"`
}

// Stub contains parameters for the local development API server.
type Stub struct {
	Port      string `env:"PORT" envDefault:"3000"`
	JWTSecret string `env:"JWT_SECRET" envDefault:"devsecret"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
