package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 15, cfg.JWTExpirationMinutes)
	assert.Equal(t, 168, cfg.JWTRefreshExpirationHours)
	assert.Contains(t, cfg.Database.DSN, "tcp(localhost:3306)/telehealth")
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "clinic")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("JWT_EXPIRATION_MINUTES", "30")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30, cfg.JWTExpirationMinutes)
	assert.Equal(t, "smtp.example.com", cfg.Mailer.Host)
	assert.Contains(t, cfg.Database.DSN, "tcp(db.internal:3306)/clinic")
}

func TestLoadConfigRejectsBadNumbers(t *testing.T) {
	t.Setenv("JWT_EXPIRATION_MINUTES", "soon")

	_, err := LoadConfig()
	assert.Error(t, err)
}
