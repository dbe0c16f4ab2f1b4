package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/userfinder/internal/models"
)

const testJSON = `{
	"users_url": "http://json-config.com/users",
	"request_timeout": "3s",
	"log_level": "debug",
	"display_format": "table"
}`

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	file, err := os.CreateTemp("", "config*.json")
	require.NoError(t, err)
	_, err = file.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	t.Cleanup(func() {
		err := os.Remove(file.Name())
		require.NoError(t, err)
	})
	return file.Name()
}

func TestDefaults(t *testing.T) {
	cfg, err := New(WithDisableDotEnv(true))
	require.NoError(t, err)

	assert.Equal(t, "https://jsonplaceholder.typicode.com/users", cfg.UsersURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "stderr", cfg.LogOutput)
	assert.Equal(t, models.FormatStandard, cfg.Format())
}

func TestConfigPriorityJSONOnly(t *testing.T) {
	jsonPath := writeTempJSON(t, testJSON)
	t.Setenv("CONFIG", jsonPath)

	cfg, err := New(WithDisableDotEnv(true))
	require.NoError(t, err)

	assert.Equal(t, "http://json-config.com/users", cfg.UsersURL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, models.FormatTable, cfg.Format())
	assert.Equal(t, jsonPath, cfg.ConfigFile)
}

func TestConfigPriorityJSONPlusEnv(t *testing.T) {
	jsonPath := writeTempJSON(t, testJSON)
	t.Setenv("CONFIG", jsonPath)
	t.Setenv("USERS_URL", "http://env.com/users")
	t.Setenv("REQUEST_TIMEOUT", "500ms")

	cfg, err := New(WithDisableDotEnv(true))
	require.NoError(t, err)

	assert.Equal(t, "http://env.com/users", cfg.UsersURL) // env overrides json
	assert.Equal(t, 500*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.LogLevel) // from JSON
}

func TestConfigFileOption(t *testing.T) {
	jsonPath := writeTempJSON(t, testJSON)

	cfg, err := New(WithDisableDotEnv(true), WithConfigFile(jsonPath))
	require.NoError(t, err)

	assert.Equal(t, "http://json-config.com/users", cfg.UsersURL)
}

func TestConfigEnvOnly(t *testing.T) {
	t.Setenv("USERS_URL", "http://envonly.com/users")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("DISPLAY_FORMAT", "Compact")

	cfg, err := New(WithDisableDotEnv(true))
	require.NoError(t, err)

	assert.Equal(t, "http://envonly.com/users", cfg.UsersURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, models.FormatCompact, cfg.Format())
}

func TestConfigLogLevelAliases(t *testing.T) {
	tests := map[string]string{
		"warning": "warn",
		"WARNING": "warn",
		"warn":    "warn",
		" Debug ": "debug",
	}
	for value, want := range tests {
		t.Run(value, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", value)

			cfg, err := New(WithDisableDotEnv(true))
			require.NoError(t, err)
			assert.Equal(t, want, cfg.LogLevel)
		})
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad log level", key: "LOG_LEVEL", value: "loud"},
		{name: "bad url", key: "USERS_URL", value: "not a url"},
		{name: "bad display format", key: "DISPLAY_FORMAT", value: "yaml"},
		{name: "negative timeout", key: "REQUEST_TIMEOUT", value: "-1s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := New(WithDisableDotEnv(true))
			assert.Error(t, err)
		})
	}
}

func TestConfigBrokenJSONFile(t *testing.T) {
	jsonPath := writeTempJSON(t, `{"users_url": `)
	t.Setenv("CONFIG", jsonPath)

	_, err := New(WithDisableDotEnv(true))
	assert.Error(t, err)
}

func TestConfigMissingJSONFile(t *testing.T) {
	t.Setenv("CONFIG", "/nonexistent/userfinder.json")

	_, err := New(WithDisableDotEnv(true))
	assert.Error(t, err)
}
