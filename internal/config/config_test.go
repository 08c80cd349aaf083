package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(env(nil))

	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.Target.BaseURL)
	assert.False(t, cfg.Target.HasCredentials())
	assert.Equal(t, "chromium", cfg.Browser.Browser)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 30*time.Second, cfg.Browser.DefaultTimeout)
	assert.Equal(t, "screenshots", cfg.Browser.CaptureDir)
	assert.Equal(t, 1, cfg.Browser.Parallel)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoad_FromEnvironment(t *testing.T) {
	cfg, err := Load(env(map[string]string{
		"BASE_URL":           "http://localhost:8080",
		"VALID_LOGIN_NAME":   "registereduser",
		"VALID_PASSWORD":     "TestPassword123!",
		"BROWSER":            "firefox",
		"HEADLESS":           "false",
		"SLOW_MO_MS":         "250",
		"DEFAULT_TIMEOUT_MS": "5000",
		"CAPTURE_DIR":        "/tmp/captures",
		"PARALLEL":           "4",
		"LOG_LEVEL":          "DEBUG",
		"LOG_FORMAT":         "json",
		"PORT":               "9090",
	}))

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/", cfg.Target.BaseURL)
	assert.True(t, cfg.Target.HasCredentials())
	assert.Equal(t, "firefox", cfg.Browser.Browser)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 250*time.Millisecond, cfg.Browser.SlowMo)
	assert.Equal(t, 5*time.Second, cfg.Browser.DefaultTimeout)
	assert.Equal(t, "/tmp/captures", cfg.Browser.CaptureDir)
	assert.Equal(t, 4, cfg.Browser.Parallel)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown browser", map[string]string{"BROWSER": "netscape"}, "BROWSER"},
		{"bad headless", map[string]string{"HEADLESS": "maybe"}, "HEADLESS"},
		{"negative slow mo", map[string]string{"SLOW_MO_MS": "-1"}, "SLOW_MO_MS"},
		{"zero timeout", map[string]string{"DEFAULT_TIMEOUT_MS": "0"}, "DEFAULT_TIMEOUT_MS"},
		{"zero parallel", map[string]string{"PARALLEL": "0"}, "PARALLEL"},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}, "LOG_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(env(tt.env))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadPostgresConfig(t *testing.T) {
	full := map[string]string{
		"POSTGRES_USER":     "app",
		"POSTGRES_PASSWORD": "secret",
		"POSTGRES_DB":       "storefront",
		"POSTGRES_HOSTNAME": "db",
	}

	t.Run("complete", func(t *testing.T) {
		cfg, err := LoadPostgresConfig(env(full))

		require.NoError(t, err)
		assert.Equal(t, "host=db port=5432 user=app password=secret dbname=storefront sslmode=disable", cfg.ConnectionString())
		assert.True(t, PostgresConfigured(env(full)))
	})

	for _, missing := range []string{"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_HOSTNAME"} {
		t.Run("missing "+missing, func(t *testing.T) {
			values := map[string]string{}
			for k, v := range full {
				if k != missing {
					values[k] = v
				}
			}

			_, err := LoadPostgresConfig(env(values))

			require.Error(t, err)
			assert.Contains(t, err.Error(), missing)
		})
	}

	t.Run("unset", func(t *testing.T) {
		assert.False(t, PostgresConfigured(env(nil)))
	})
}
