package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "APP_ENV", "LOG_LEVEL", "DATABASE_URL", "SQLITE_PATH", "CHAMPION_DATA", "WS_ORIGINS", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.Production())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "drafts.db", cfg.SQLitePath)
	assert.Empty(t, cfg.WSOrigins)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://draft@localhost/draft")
	t.Setenv("WS_ORIGINS", "localhost:5173, draft.example.com ,")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr())
	assert.True(t, cfg.Production())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "postgres://draft@localhost/draft", cfg.DatabaseURL)
	assert.Equal(t, []string{"localhost:5173", "draft.example.com"}, cfg.WSOrigins)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := []struct {
		key, value, msg string
	}{
		{"PORT", "eighty", "PORT"},
		{"PORT", "70000", "PORT"},
		{"APP_ENV", "staging", "APP_ENV"},
		{"LOG_LEVEL", "loud", "LOG_LEVEL"},
		{"SHUTDOWN_TIMEOUT", "soon", "SHUTDOWN_TIMEOUT"},
		{"SHUTDOWN_TIMEOUT", "-1s", "SHUTDOWN_TIMEOUT"},
	}
	for _, tc := range cases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}
