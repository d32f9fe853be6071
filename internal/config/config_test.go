package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setDBEnv(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "portal")
}

func TestLoad_Defaults(t *testing.T) {
	setDBEnv(t)
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("REFRESH_TOKEN_TTL", "")
	t.Setenv("RESET_TOKEN_TTL", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("REDIS_DB", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.ResetTokenTTL)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=pw dbname=portal sslmode=disable", cfg.DB.DSN)
}

func TestLoad_Overrides(t *testing.T) {
	setDBEnv(t)
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("INITIAL_DEKANAT_PHONE", "998900000001")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "998900000001", cfg.InitialDekanatPhone)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing db", func(t *testing.T) {
		t.Setenv("DB_HOST", "")
		t.Setenv("JWT_SECRET_KEY", "secret")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("missing secret", func(t *testing.T) {
		setDBEnv(t)
		t.Setenv("JWT_SECRET_KEY", "")
		_, err := Load()
		assert.ErrorContains(t, err, "JWT_SECRET_KEY")
	})
	t.Run("bad duration", func(t *testing.T) {
		setDBEnv(t)
		t.Setenv("JWT_SECRET_KEY", "secret")
		t.Setenv("REFRESH_TOKEN_TTL", "one day")
		_, err := Load()
		assert.ErrorContains(t, err, "REFRESH_TOKEN_TTL")
	})
}

func TestLoad_SMTP(t *testing.T) {
	setDBEnv(t)
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("SMTP_USERNAME", "dekanat@example.com")
	t.Setenv("SMTP_PASSWORD", "app-password")
	t.Setenv("SMTP_FROM", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, SMTPConfig{
		Host:     "smtp.example.com",
		Port:     "587",
		Username: "dekanat@example.com",
		Password: "app-password",
		From:     "dekanat@example.com",
	}, cfg.SMTP)
}
