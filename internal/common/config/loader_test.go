// internal/common/config/loader_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":5002", cfg.Server.Address)
	assert.Equal(t, "http://customer-service:8000/customers", cfg.CustomerService.BaseURL)
	assert.Equal(t, 10000, cfg.CustomerService.Timeout)

	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.True(t, cfg.SMTP.UseTLS)

	assert.Equal(t, "db", cfg.Database.Postgres.Host)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "notifications", cfg.Database.Postgres.Database)
	assert.Equal(t, "postgres", cfg.Database.Postgres.User)
	assert.Equal(t, "postgres", cfg.Database.Postgres.Password)
	assert.Equal(t, 25, cfg.Database.Postgres.MaxConnections)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CUSTOMER_SERVICE_URL", "http://directory:9000/customers")
	t.Setenv("SMTP_HOST", "mail.internal")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_USER", "bot@internal")
	t.Setenv("SMTP_PASSWORD", "hunter2")
	t.Setenv("POSTGRES_USER", "notifier")
	t.Setenv("POSTGRES_PASSWORD", "s3cret")
	t.Setenv("POSTGRES_HOST", "pg.internal")
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("POSTGRES_DB", "audit")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://directory:9000/customers", cfg.CustomerService.BaseURL)
	assert.Equal(t, "mail.internal", cfg.SMTP.Host)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Equal(t, "bot@internal", cfg.SMTP.User)
	assert.Equal(t, "hunter2", cfg.SMTP.Password)
	assert.Equal(t, "notifier", cfg.Database.Postgres.User)
	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, "pg.internal", cfg.Database.Postgres.Host)
	assert.Equal(t, 5433, cfg.Database.Postgres.Port)
	assert.Equal(t, "audit", cfg.Database.Postgres.Database)
}

func TestLoad_FromFallsBackToSMTPUser(t *testing.T) {
	t.Setenv("SMTP_USER", "bot@internal")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "bot@internal", cfg.SMTP.From)
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "db",
		Port:     5432,
		Database: "notifications",
		User:     "postgres",
		Password: "postgres",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=db port=5432 user=postgres password=postgres dbname=notifications sslmode=disable",
		cfg.GetDSN(),
	)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 10*time.Second, GetDuration(10000))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
