package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"OPSDASH_APP_NAME":                   os.Getenv("OPSDASH_APP_NAME"),
		"OPSDASH_APP_ENV":                    os.Getenv("OPSDASH_APP_ENV"),
		"OPSDASH_APP_PORT":                   os.Getenv("OPSDASH_APP_PORT"),
		"OPSDASH_JUMPSELLER_LOGIN":           os.Getenv("OPSDASH_JUMPSELLER_LOGIN"),
		"OPSDASH_JUMPSELLER_AUTH_TOKEN":      os.Getenv("OPSDASH_JUMPSELLER_AUTH_TOKEN"),
		"OPSDASH_JUMPSELLER_API_BASE_URL":    os.Getenv("OPSDASH_JUMPSELLER_API_BASE_URL"),
		"OPSDASH_JUMPSELLER_TIMEOUT_SECONDS": os.Getenv("OPSDASH_JUMPSELLER_TIMEOUT_SECONDS"),
		"OPSDASH_WEARECLOUD_BASE_URL":        os.Getenv("OPSDASH_WEARECLOUD_BASE_URL"),
		"OPSDASH_WEARECLOUD_API_KEY":         os.Getenv("OPSDASH_WEARECLOUD_API_KEY"),
		"OPSDASH_SYNC_PAGE_SIZE":             os.Getenv("OPSDASH_SYNC_PAGE_SIZE"),
		"OPSDASH_SYNC_UPDATE_TIMEOUT":        os.Getenv("OPSDASH_SYNC_UPDATE_TIMEOUT"),
		"OPSDASH_TELEMETRY_SAMPLING_RATIO":   os.Getenv("OPSDASH_TELEMETRY_SAMPLING_RATIO"),
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

		assert.Equal(t, "opsdash-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "https://api.jumpseller.com/v1", cfg.JumpSeller.APIBaseURL)
		assert.Equal(t, 30, cfg.JumpSeller.TimeoutSeconds)
		assert.Equal(t, 30, cfg.WeareCloud.TimeoutSeconds)
		assert.Equal(t, 50, cfg.Sync.PageSize)
		assert.Equal(t, "30s", cfg.Sync.UpdateTimeout.String())
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
	})

	t.Run("loads values from environment variables with OPSDASH prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("OPSDASH_APP_NAME", "test-app")
		os.Setenv("OPSDASH_APP_ENV", "testing")
		os.Setenv("OPSDASH_APP_PORT", "9000")
		os.Setenv("OPSDASH_JUMPSELLER_LOGIN", "store@example.com")
		os.Setenv("OPSDASH_JUMPSELLER_AUTH_TOKEN", "secret-token")
		os.Setenv("OPSDASH_WEARECLOUD_BASE_URL", "https://scraper.local")
		os.Setenv("OPSDASH_SYNC_PAGE_SIZE", "25")
		os.Setenv("OPSDASH_SYNC_UPDATE_TIMEOUT", "10s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "store@example.com", cfg.JumpSeller.Login)
		assert.Equal(t, "secret-token", cfg.JumpSeller.AuthToken)
		assert.Equal(t, "https://scraper.local", cfg.WeareCloud.BaseURL)
		assert.Equal(t, 25, cfg.Sync.PageSize)
		assert.Equal(t, "10s", cfg.Sync.UpdateTimeout.String())
	})

	t.Run("zero page size uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("OPSDASH_SYNC_PAGE_SIZE", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 50, cfg.Sync.PageSize)
	})

	t.Run("validates negative page size", func(t *testing.T) {
		clearEnv()
		os.Setenv("OPSDASH_SYNC_PAGE_SIZE", "-5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sync.page_size cannot be negative")
	})

	t.Run("validates sampling ratio bounds", func(t *testing.T) {
		clearEnv()
		os.Setenv("OPSDASH_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"OPSDASH_APP_ENV":                 os.Getenv("OPSDASH_APP_ENV"),
		"OPSDASH_JUMPSELLER_LOGIN":        os.Getenv("OPSDASH_JUMPSELLER_LOGIN"),
		"OPSDASH_JUMPSELLER_AUTH_TOKEN":   os.Getenv("OPSDASH_JUMPSELLER_AUTH_TOKEN"),
		"OPSDASH_WEARECLOUD_BASE_URL":     os.Getenv("OPSDASH_WEARECLOUD_BASE_URL"),
		"OPSDASH_HTTP_CORS_ALLOW_ORIGINS": os.Getenv("OPSDASH_HTTP_CORS_ALLOW_ORIGINS"),
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

	// Helper to set valid production base config
	setValidProductionBase := func() {
		os.Setenv("OPSDASH_APP_ENV", "production")
		os.Setenv("OPSDASH_JUMPSELLER_LOGIN", "store@example.com")
		os.Setenv("OPSDASH_JUMPSELLER_AUTH_TOKEN", "secret-token")
		os.Setenv("OPSDASH_WEARECLOUD_BASE_URL", "https://scraper.internal")
	}

	t.Run("requires jumpseller.login in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("OPSDASH_JUMPSELLER_LOGIN")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jumpseller.login is required in production")
	})

	t.Run("requires jumpseller.auth_token in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("OPSDASH_JUMPSELLER_AUTH_TOKEN")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jumpseller.auth_token is required in production")
	})

	t.Run("requires wearecloud.base_url in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("OPSDASH_WEARECLOUD_BASE_URL")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "wearecloud.base_url is required in production")
	})

	t.Run("rejects plain http feed url in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("OPSDASH_WEARECLOUD_BASE_URL", "http://scraper.internal")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must use https in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}
