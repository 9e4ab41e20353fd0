package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets every variable Load requires
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_USER", "events")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "eventplanner")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "")
	t.Setenv("SERVER_MAX_BODY_BYTES", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRY", "")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "")
	t.Setenv("TIMEZONE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, "events:secret@tcp(localhost:3306)/eventplanner?parseTime=true&charset=utf8mb4", cfg.DSN())
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://events.example.com ,")
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRY", "15m")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "20")
	t.Setenv("TIMEZONE", "Asia/Kolkata")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"http://localhost:3000", "https://events.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, 20, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "Asia/Kolkata", cfg.Location.String())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name          string
		key           string
		value         string
		errorContains string
	}{
		{name: "missing DB_HOST", key: "DB_HOST", value: "", errorContains: "DB_HOST is required"},
		{name: "invalid DB_PORT", key: "DB_PORT", value: "mysql", errorContains: "invalid DB_PORT"},
		{name: "missing JWT_SECRET", key: "JWT_SECRET", value: "", errorContains: "JWT_SECRET is required"},
		{name: "invalid SERVER_PORT", key: "SERVER_PORT", value: "http", errorContains: "invalid SERVER_PORT"},
		{name: "invalid body limit", key: "SERVER_MAX_BODY_BYTES", value: "-1", errorContains: "invalid SERVER_MAX_BODY_BYTES"},
		{name: "invalid expiry", key: "JWT_ACCESS_TOKEN_EXPIRY", value: "one day", errorContains: "invalid JWT_ACCESS_TOKEN_EXPIRY"},
		{name: "non-positive rate limit", key: "RATE_LIMIT_PER_MINUTE", value: "0", errorContains: "invalid RATE_LIMIT_PER_MINUTE"},
		{name: "unknown timezone", key: "TIMEZONE", value: "Mars/Olympus", errorContains: "invalid TIMEZONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()

			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestLoadTestConfig_Incomplete(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "")

	cfg, err := LoadTestConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.DSN())
}
