package api

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youssefsiam38/admindash"
	"github.com/youssefsiam38/admindash/driver/memory"
	"github.com/youssefsiam38/admindash/ui/service"
)

func newTestRouter(t *testing.T, cfg *Config) (http.Handler, *admindash.Client[memory.Tx]) {
	t.Helper()
	client, err := admindash.NewClient(memory.New(nil), &admindash.ClientConfig{
		DisableMaintenance: true,
		Now:                func() time.Time { return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	require.NoError(t, client.ResetData(context.Background()))
	return NewRouter(service.New(client, nil), cfg), client
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *APIError       `json:"error"`
	Meta  *Meta           `json:"meta"`
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestListUsers(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec, env := do(t, h, http.MethodGet, "/users?sort=id&dir=desc&page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 20, env.Meta.TotalCount)
	assert.Equal(t, 2, env.Meta.Page)
	assert.Equal(t, 2, env.Meta.TotalPages)
	assert.False(t, env.Meta.HasMore)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 10)
	assert.Equal(t, float64(10), rows[0]["id"])

	// Out of range pages clamp to the last page.
	_, env = do(t, h, http.MethodGet, "/products?page=99", "")
	assert.Equal(t, 3, env.Meta.Page)
}

func TestUserLifecycle(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec, env := do(t, h, http.MethodPost, "/users", `{"name":"Ada Byron","email":"ada@example.com","role":"Admin","status":"Active"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var user admindash.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, int64(21), user.ID)

	rec, env = do(t, h, http.MethodPut, "/users/21", `{"status":"Inactive"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "Inactive", user.Status)
	assert.Equal(t, "ada@example.com", user.Email)

	rec, _ = do(t, h, http.MethodDelete, "/users/21", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, env = do(t, h, http.MethodGet, "/users/21", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", env.Error.Code)

	rec, env = do(t, h, http.MethodGet, "/users/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_id", env.Error.Code)
}

func TestValidationErrors(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec, env := do(t, h, http.MethodPost, "/products", `{"name":"","category":"Toys","price":-1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_input", env.Error.Code)
	details, ok := env.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "category")
	assert.Contains(t, details, "price")
	assert.Contains(t, details, "stock")

	rec, env = do(t, h, http.MethodPost, "/users", `{"nickname":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_body", env.Error.Code)
}

func TestRoleGatesWrites(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec, _ := do(t, h, http.MethodPut, "/settings/role", `{"role":"Viewer"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := do(t, h, http.MethodDelete, "/products/1", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "permission_denied", env.Error.Code)

	rec, env = do(t, h, http.MethodPut, "/settings/role", `{"role":"root"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", env.Error.Code)

	_, env = do(t, h, http.MethodGet, "/settings/role", "")
	assert.JSONEq(t, `{"role":"viewer"}`, string(env.Data))
}

func TestReadOnly(t *testing.T) {
	h, _ := newTestRouter(t, &Config{ReadOnly: true})

	rec, env := do(t, h, http.MethodPost, "/settings/clear", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "read_only", env.Error.Code)

	rec, _ = do(t, h, http.MethodGet, "/dashboard", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResetAndClear(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec, env := do(t, h, http.MethodPost, "/settings/clear", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var settings service.SettingsView
	require.NoError(t, json.Unmarshal(env.Data, &settings))
	assert.Zero(t, settings.UserCount)

	_, env = do(t, h, http.MethodGet, "/users", "")
	assert.Zero(t, env.Meta.TotalCount)
	assert.Empty(t, env.Data)

	_, env = do(t, h, http.MethodPost, "/settings/reset", "")
	require.NoError(t, json.Unmarshal(env.Data, &settings))
	assert.Equal(t, 20, settings.UserCount)
	assert.Equal(t, 25, settings.ProductCount)
}

func TestExport(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec, _ := do(t, h, http.MethodGet, "/analytics/export?format=yaml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "analytics-export-1710498600000.yaml")
	assert.Contains(t, rec.Body.String(), "userGrowth:")

	rec, env := do(t, h, http.MethodGet, "/analytics/export?format=csv", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", env.Error.Code)
}

func TestChart(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec, _ := do(t, h, http.MethodGet, "/charts/revenue.png?theme=dark&ratio=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))

	rec, _ = do(t, h, http.MethodGet, "/charts/pie.png", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = do(t, h, http.MethodGet, "/charts/revenue", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEvents(t *testing.T) {
	h, client := newTestRouter(t, nil)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, ": connected", lines.Text())

	require.NoError(t, client.DeleteUser(ctx, 3))

	var data string
	for lines.Scan() {
		if d, ok := strings.CutPrefix(lines.Text(), "data: "); ok {
			data = d
			break
		}
	}
	assert.JSONEq(t, `{"kind":"deleted","entity":"user","entity_id":3}`, data)
}
