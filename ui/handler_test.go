package ui

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youssefsiam38/admindash"
	"github.com/youssefsiam38/admindash/driver/memory"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"defaults", *DefaultConfig(), true},
		{"page size too large", Config{PageSize: 500, RefreshInterval: time.Second}, false},
		{"refresh too fast", Config{PageSize: 10, RefreshInterval: time.Millisecond}, false},
		{"relative base path", Config{PageSize: 10, RefreshInterval: time.Second, BasePath: "admin"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}

	cfg := &Config{BasePath: "/admin/"}
	cfg.applyDefaults()
	assert.Equal(t, "/admin", cfg.BasePath)
	assert.Equal(t, DefaultPageSize, cfg.PageSize)
}

func TestHandlers(t *testing.T) {
	client, err := admindash.NewClient(memory.New(nil), &admindash.ClientConfig{DisableMaintenance: true})
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.Handle("/admin/", http.StripPrefix("/admin", UIHandler(client, &Config{BasePath: "/admin/"})))
	mux.Handle("/api/", http.StripPrefix("/api", APIHandler(client, nil)))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/users", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/admin/dashboard"`)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/settings/role", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"role":"admin"}}`, rec.Body.String())

	assert.Panics(t, func() { UIHandler(client, &Config{PageSize: -1}) })
}
