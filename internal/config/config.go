// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")
	ErrMissingJWTSecret   = errors.New("JWT_SECRET is required")
)

type RateLimit struct {
	Limit  int
	Window time.Duration
}

type Config struct {
	Env      string
	Port     string
	LogLevel string

	DatabaseURL     string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	QueryTimeout    time.Duration

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	CookieDomain    string

	RedisURL        string
	GlobalRateLimit RateLimit
	AuthRateLimit   RateLimit

	SessionSweepInterval time.Duration
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads .env if present and then the process environment. Variables
// already set in the environment win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv without touching the filesystem.
func FromEnv(getenv func(string) string) (*Config, error) {
	p := parser{getenv: getenv}

	cfg := &Config{
		Env:      p.str("APP_ENV", EnvDevelopment),
		Port:     p.str("PORT", "5000"),
		LogLevel: p.str("LOG_LEVEL", "info"),

		DatabaseURL:     getenv("DATABASE_URL"),
		MaxOpenConns:    p.int("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    p.int("DB_MAX_IDLE_CONNS", 5),
		ConnMaxIdleTime: p.duration("DB_CONN_MAX_IDLE_TIME", 10*time.Second),
		QueryTimeout:    p.duration("DB_QUERY_TIMEOUT", 5*time.Second),

		JWTSecret:       getenv("JWT_SECRET"),
		AccessTokenTTL:  p.duration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: p.duration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		CookieDomain:    getenv("COOKIE_DOMAIN"),

		RedisURL: getenv("REDIS_URL"),
		GlobalRateLimit: RateLimit{
			Limit:  p.int("RATE_LIMIT_GLOBAL", 100),
			Window: p.duration("RATE_LIMIT_GLOBAL_WINDOW", 15*time.Minute),
		},
		AuthRateLimit: RateLimit{
			Limit:  p.int("RATE_LIMIT_AUTH", 5),
			Window: p.duration("RATE_LIMIT_AUTH_WINDOW", time.Minute),
		},

		SessionSweepInterval: p.duration("SESSION_SWEEP_INTERVAL", 0),
	}
	if p.err != nil {
		return nil, p.err
	}

	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}
	if cfg.SessionSweepInterval < 0 {
		return nil, errors.New("SESSION_SWEEP_INTERVAL must not be negative")
	}

	return cfg, nil
}

// parser keeps the first malformed value it sees.
type parser struct {
	getenv func(string) string
	err    error
}

func (p *parser) str(key, def string) string {
	if v := p.getenv(key); v != "" {
		return v
	}
	return def
}

func (p *parser) int(key string, def int) int {
	v := p.getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(fmt.Errorf("invalid int value for %s: %q", key, v))
		return def
	}
	return n
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := p.getenv(key)
	if v == "" {
		return def
	}
	d, err := parseDuration(v)
	if err != nil {
		p.fail(fmt.Errorf("invalid duration value for %s: %q", key, v))
		return def
	}
	return d
}

// parseDuration accepts Go durations plus whole days, e.g. "7d".
func parseDuration(v string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(v, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, err
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(v)
}

func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}
