package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// TokenTTL bounds the minted token's exp claim.
	TokenTTL time.Duration `env:"TOKEN_TTL, default=24h"`

	Cookie  CookieConfig
	Routes  RouteConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

// CookieConfig controls the mirrored auth cookie.
type CookieConfig struct {
	Name     string        `env:"AUTH_COOKIE_NAME,     default=auth_token"`
	Domain   string        `env:"AUTH_COOKIE_DOMAIN"`
	SameSite string        `env:"AUTH_COOKIE_SAMESITE, default=lax"`
	Secure   bool          `env:"AUTH_COOKIE_SECURE,   default=false"`
	MaxAge   time.Duration `env:"AUTH_COOKIE_MAX_AGE,  default=168h"`
}

// RouteConfig holds the classification prefix lists and redirect targets.
type RouteConfig struct {
	PublicAuthPrefixes []string `env:"PUBLIC_AUTH_PREFIXES, default=/auth/login,/auth/register"`
	ProtectedPrefixes  []string `env:"PROTECTED_PREFIXES,   default=/dashboard"`
	LoginPath          string   `env:"LOGIN_PATH,           default=/auth/login"`
	LandingPath        string   `env:"LANDING_PATH,         default=/dashboard"`
	ForbiddenPath      string   `env:"FORBIDDEN_PATH,       default=/forbidden"`
}

// SessionConfig selects and tunes the session storage backend.
type SessionConfig struct {
	// Backend is "memory" or "redis".
	Backend string        `env:"SESSION_BACKEND, default=memory"`
	TTL     time.Duration `env:"SESSION_TTL,     default=168h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=authgate"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
