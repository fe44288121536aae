package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	keys := []string{
		"SALESDESK_APP_NAME",
		"SALESDESK_APP_ENV",
		"SALESDESK_APP_PORT",
		"SALESDESK_DATABASE_HOST",
		"SALESDESK_DATABASE_PORT",
		"SALESDESK_DATABASE_USER",
		"SALESDESK_DATABASE_PASSWORD",
		"SALESDESK_DATABASE_DBNAME",
		"SALESDESK_DATABASE_MAX_IDLE_CONNS",
		"SALESDESK_DATABASE_MAX_OPEN_CONNS",
		"SALESDESK_CONVERSION_QUOTE_REFRESH_POLICY",
	}
	originalEnv := make(map[string]string, len(keys))
	for _, k := range keys {
		originalEnv[k] = os.Getenv(k)
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "salesdesk-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "salesdesk", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "keep", cfg.Conversion.QuoteRefreshPolicy)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		clearEnv()
		os.Setenv("SALESDESK_APP_NAME", "test-app")
		os.Setenv("SALESDESK_APP_PORT", "9000")
		os.Setenv("SALESDESK_DATABASE_HOST", "testdb.local")
		os.Setenv("SALESDESK_CONVERSION_QUOTE_REFRESH_POLICY", "update-amounts")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, "update-amounts", cfg.Conversion.QuoteRefreshPolicy)
	})

	t.Run("rejects an unknown quote refresh policy", func(t *testing.T) {
		clearEnv()
		os.Setenv("SALESDESK_CONVERSION_QUOTE_REFRESH_POLICY", "rebuild")

		cfg, err := Load()

		assert.Nil(t, cfg)
		assert.ErrorContains(t, err, "quote_refresh_policy")
	})

	t.Run("rejects idle conns above open conns", func(t *testing.T) {
		clearEnv()
		os.Setenv("SALESDESK_DATABASE_MAX_OPEN_CONNS", "5")
		os.Setenv("SALESDESK_DATABASE_MAX_IDLE_CONNS", "10")

		cfg, err := Load()

		assert.Nil(t, cfg)
		assert.Error(t, err)
	})
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "sales",
		Password: "p@ss/word",
		DBName:   "salesdesk",
		SSLMode:  "require",
	}

	dsn := cfg.DSN()

	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
