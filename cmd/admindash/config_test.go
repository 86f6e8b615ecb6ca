package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at an empty directory so no user config file is read.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ADMINDASH_CONFIG", "")
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, driverPgx, cfg.Database.Driver)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "/ui", cfg.UI.BasePath)
	assert.Equal(t, 10, cfg.UI.PageSize)
	assert.Equal(t, 5*time.Second, cfg.UI.RefreshInterval)
	assert.False(t, cfg.UI.ReadOnly)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "@monthly", cfg.Metrics.Schedule)
	assert.Equal(t, 30*24*time.Hour, cfg.Activity.Retention)
}

func TestLoad_Env(t *testing.T) {
	isolate(t)
	t.Setenv("ADMINDASH_HTTP_ADDR", ":9090")
	t.Setenv("ADMINDASH_DATABASE_DRIVER", "sql")
	t.Setenv("ADMINDASH_UI_READ_ONLY", "true")
	t.Setenv("ADMINDASH_UI_REFRESH_INTERVAL", "2s")
	t.Setenv("ADMINDASH_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, driverSQL, cfg.Database.Driver)
	assert.True(t, cfg.UI.ReadOnly)
	assert.Equal(t, 2*time.Second, cfg.UI.RefreshInterval)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "admindash.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[database]
url = "postgres://localhost/admindash"

[ui]
base_path = "/admin/"
page_size = 25

[log]
format = "json"
`), 0o600))
	t.Setenv("ADMINDASH_CONFIG", path)
	t.Setenv("ADMINDASH_UI_PAGE_SIZE", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/admindash", cfg.Database.URL)
	assert.Equal(t, "/admin", cfg.UI.BasePath)
	assert.Equal(t, 50, cfg.UI.PageSize, "env overrides the file")
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	t.Setenv("ADMINDASH_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"driver", "ADMINDASH_DATABASE_DRIVER", "mysql"},
		{"log level", "ADMINDASH_LOG_LEVEL", "loud"},
		{"log format", "ADMINDASH_LOG_FORMAT", "xml"},
		{"page size", "ADMINDASH_UI_PAGE_SIZE", "0"},
		{"relative base path", "ADMINDASH_UI_BASE_PATH", "admin"},
		{"api base path", "ADMINDASH_UI_BASE_PATH", "/api"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
