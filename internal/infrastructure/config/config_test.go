package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	envVars := map[string]string{
		"WMS_APP_NAME":                os.Getenv("WMS_APP_NAME"),
		"WMS_APP_ENV":                 os.Getenv("WMS_APP_ENV"),
		"WMS_APP_PORT":                os.Getenv("WMS_APP_PORT"),
		"WMS_DATABASE_HOST":           os.Getenv("WMS_DATABASE_HOST"),
		"WMS_DATABASE_PORT":           os.Getenv("WMS_DATABASE_PORT"),
		"WMS_DATABASE_USER":           os.Getenv("WMS_DATABASE_USER"),
		"WMS_DATABASE_PASSWORD":       os.Getenv("WMS_DATABASE_PASSWORD"),
		"WMS_DATABASE_DBNAME":         os.Getenv("WMS_DATABASE_DBNAME"),
		"WMS_DATABASE_SSLMODE":        os.Getenv("WMS_DATABASE_SSLMODE"),
		"WMS_DATABASE_MAX_OPEN_CONNS": os.Getenv("WMS_DATABASE_MAX_OPEN_CONNS"),
		"WMS_DATABASE_MAX_IDLE_CONNS": os.Getenv("WMS_DATABASE_MAX_IDLE_CONNS"),
	}
	restore := func() {
		for key, value := range envVars {
			if value == "" {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, value)
			}
		}
	}
	defer restore()

	t.Run("loads defaults when nothing is configured", func(t *testing.T) {
		for key := range envVars {
			os.Unsetenv(key)
		}

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "wms-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "wms", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, 3, cfg.Scheduler.MaxConcurrentJobs)
		assert.Equal(t, time.Minute, cfg.Reservation.SweepInterval)
		assert.Equal(t, 24*time.Hour, cfg.Reservation.DefaultExpiration)
		assert.Equal(t, time.Hour, cfg.Transfer.OverdueCheckInterval)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		os.Setenv("WMS_APP_NAME", "test-app")
		os.Setenv("WMS_APP_ENV", "testing")
		os.Setenv("WMS_APP_PORT", "9000")
		os.Setenv("WMS_DATABASE_HOST", "testdb.local")
		os.Setenv("WMS_DATABASE_PORT", "5433")
		os.Setenv("WMS_DATABASE_USER", "testuser")
		os.Setenv("WMS_DATABASE_PASSWORD", "testpass")
		os.Setenv("WMS_DATABASE_DBNAME", "testdb")
		os.Setenv("WMS_DATABASE_SSLMODE", "require")
		os.Setenv("WMS_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("WMS_DATABASE_MAX_IDLE_CONNS", "10")
		defer restore()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	})

	t.Run("rejects idle conns exceeding open conns", func(t *testing.T) {
		for key := range envVars {
			os.Unsetenv(key)
		}
		os.Setenv("WMS_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("WMS_DATABASE_MAX_IDLE_CONNS", "20")
		defer restore()

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects negative idle conns", func(t *testing.T) {
		for key := range envVars {
			os.Unsetenv(key)
		}
		os.Setenv("WMS_DATABASE_MAX_IDLE_CONNS", "-1")
		defer restore()

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be negative")
	})
}

func TestProductionValidation(t *testing.T) {
	envVars := map[string]string{
		"WMS_APP_ENV":            os.Getenv("WMS_APP_ENV"),
		"WMS_DATABASE_PASSWORD":  os.Getenv("WMS_DATABASE_PASSWORD"),
		"WMS_DATABASE_SSLMODE":   os.Getenv("WMS_DATABASE_SSLMODE"),
		"WMS_HTTP_CORS_ALLOW_ORIGINS": os.Getenv("WMS_HTTP_CORS_ALLOW_ORIGINS"),
	}
	restore := func() {
		for key, value := range envVars {
			if value == "" {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, value)
			}
		}
	}
	defer restore()

	t.Run("requires database password in production", func(t *testing.T) {
		for key := range envVars {
			os.Unsetenv(key)
		}
		os.Setenv("WMS_APP_ENV", "production")
		os.Setenv("WMS_DATABASE_SSLMODE", "require")
		defer restore()

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")
	})

	t.Run("rejects sslmode disable in production", func(t *testing.T) {
		for key := range envVars {
			os.Unsetenv(key)
		}
		os.Setenv("WMS_APP_ENV", "production")
		os.Setenv("WMS_DATABASE_PASSWORD", "secure-password")
		defer restore()

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})

	t.Run("accepts a valid production configuration", func(t *testing.T) {
		for key := range envVars {
			os.Unsetenv(key)
		}
		os.Setenv("WMS_APP_ENV", "production")
		os.Setenv("WMS_DATABASE_PASSWORD", "secure-password")
		os.Setenv("WMS_DATABASE_SSLMODE", "require")
		defer restore()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss:word/1",
		DBName:   "wms",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "/wms")
	assert.Contains(t, dsn, "sslmode=disable")
	// Special characters in credentials must be escaped
	assert.NotContains(t, dsn, "p@ss:word/1")
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", cfg.Addr())
}
