package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"DATABASE_URL": "postgres://localhost/app",
		"JWT_SECRET":   "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, 10, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, 10*time.Second, cfg.ConnMaxIdleTime)
	assert.Equal(t, 5*time.Second, cfg.QueryTimeout)
	assert.Equal(t, RateLimit{Limit: 100, Window: 15 * time.Minute}, cfg.GlobalRateLimit)
	assert.Equal(t, RateLimit{Limit: 5, Window: time.Minute}, cfg.AuthRateLimit)
	assert.Zero(t, cfg.SessionSweepInterval)
	assert.Empty(t, cfg.RedisURL)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"APP_ENV":                "production",
		"PORT":                   "8080",
		"DATABASE_URL":           "postgres://db/app",
		"JWT_SECRET":             "s3cret",
		"ACCESS_TOKEN_TTL":       "5m",
		"REFRESH_TOKEN_TTL":      "24h",
		"COOKIE_DOMAIN":          "example.com",
		"REDIS_URL":              "redis://localhost:6379/0",
		"RATE_LIMIT_AUTH":        "10",
		"RATE_LIMIT_AUTH_WINDOW": "30s",
		"SESSION_SWEEP_INTERVAL": "1h",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, "example.com", cfg.CookieDomain)
	assert.Equal(t, RateLimit{Limit: 10, Window: 30 * time.Second}, cfg.AuthRateLimit)
	assert.Equal(t, time.Hour, cfg.SessionSweepInterval)
}

func TestFromEnv_DaySuffix(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"DATABASE_URL":      "postgres://db/app",
		"JWT_SECRET":        "s3cret",
		"REFRESH_TOKEN_TTL": "7d",
		"ACCESS_TOKEN_TTL":  "1d",
	}))
	require.NoError(t, err)

	assert.Equal(t, 168*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL)
}

func TestFromEnv_RequiredKeys(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{"JWT_SECRET": "s"}))
	assert.ErrorIs(t, err, ErrMissingDatabaseURL)

	_, err = FromEnv(envMap(map[string]string{"DATABASE_URL": "postgres://db/app"}))
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestFromEnv_Malformed(t *testing.T) {
	base := map[string]string{"DATABASE_URL": "postgres://db/app", "JWT_SECRET": "s"}

	for key, value := range map[string]string{
		"DB_MAX_OPEN_CONNS":      "ten",
		"ACCESS_TOKEN_TTL":       "15",
		"SESSION_SWEEP_INTERVAL": "-1m",
		"REFRESH_TOKEN_TTL":      "0s",
		"RATE_LIMIT_AUTH_WINDOW": "1.5d",
	} {
		t.Run(key, func(t *testing.T) {
			env := map[string]string{key: value}
			for k, v := range base {
				env[k] = v
			}
			_, err := FromEnv(envMap(env))
			assert.Error(t, err)
		})
	}
}
