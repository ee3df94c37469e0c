package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestLoad_Defaults(t *testing.T) {
	// Pin the variables the assertions depend on so an ambient environment
	// cannot shadow the built-in defaults.
	for _, key := range []string{
		"DB_HOST", "DB_PORT", "DB_NAME", "SERVER_PORT",
		"JWT_EXPIRATION_HOURS", "LOG_LEVEL", "MAIL_WEBHOOK_URL", "MAIL_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_NAME", "comm_service")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("LOG_LEVEL", "info")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, "comm_service", cfg.DB.DBName)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 24, cfg.JWT.ExpirationHours)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Mail.WebhookURL)
	assert.Equal(t, 10*time.Second, cfg.Mail.Timeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_LOG_LEVEL", "silent")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")
	t.Setenv("DB_CONN_MAX_LIFETIME", "30m")
	t.Setenv("MAIL_WEBHOOK_URL", "https://mail.internal/send")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, logger.Silent, cfg.DB.LogLevel)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 2, cfg.JWT.ExpirationHours)
	assert.Equal(t, 30*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, "https://mail.internal/send", cfg.Mail.WebhookURL)
}

func TestGetDSN(t *testing.T) {
	cfg := DBConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "postgres",
		Password: "pw",
		DBName:   "comm_service",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=pw dbname=comm_service sslmode=disable",
		cfg.GetDSN())
}
