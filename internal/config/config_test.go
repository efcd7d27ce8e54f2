package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.False(t, cfg.RotateRefreshTokens)
	assert.Equal(t, "user_events", cfg.EventsTopic)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("ROTATE_REFRESH_TOKENS", "true")
	t.Setenv("KAFKA_BROKERS", "kafka:9092,kafka2:9092")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "5")

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.True(t, cfg.RotateRefreshTokens)
	assert.Equal(t, []string{"kafka:9092", "kafka2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
}

func TestValidate_ReportsProblems(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{name: "missing dsn", mutate: func(c *Config) { c.DatabaseURL = "" }, wantMsg: "DATABASE_URL"},
		{name: "missing access secret", mutate: func(c *Config) { c.JWTSecret = nil }, wantMsg: "JWT_SECRET"},
		{name: "missing refresh secret", mutate: func(c *Config) { c.RefreshTokenSecret = nil }, wantMsg: "REFRESH_TOKEN_SECRET"},
		{name: "shared secret", mutate: func(c *Config) { c.RefreshTokenSecret = c.JWTSecret }, wantMsg: "must differ"},
		{name: "access outlives refresh", mutate: func(c *Config) { c.AccessTokenTTL = 10 * 24 * time.Hour }, wantMsg: "must be shorter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			cfg := Load()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
