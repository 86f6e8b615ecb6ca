package api

import (
	"net/http"

	"github.com/youssefsiam38/admindash/ui/service"
)

// Config holds API router configuration.
type Config struct {
	// ReadOnly rejects every write endpoint with 403.
	ReadOnly bool

	// Logger for structured logging.
	Logger Logger
}

// Logger interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// router holds the API router state.
type router[TTx any] struct {
	svc    *service.Service[TTx]
	config *Config
}

// NewRouter creates a new API router.
func NewRouter[TTx any](svc *service.Service[TTx], cfg *Config) http.Handler {
	if cfg == nil {
		cfg = &Config{}
	}

	r := &router[TTx]{
		svc:    svc,
		config: cfg,
	}

	mux := http.NewServeMux()

	// Dashboard
	mux.HandleFunc("GET /dashboard", r.handleDashboard)
	mux.HandleFunc("GET /events", r.handleEvents)
	mux.HandleFunc("GET /activity", r.handleActivity)

	// Users
	mux.HandleFunc("GET /users", r.handleListUsers)
	mux.HandleFunc("GET /users/{id}", r.handleGetUser)
	mux.HandleFunc("POST /users", r.write(r.handleCreateUser))
	mux.HandleFunc("PUT /users/{id}", r.write(r.handleUpdateUser))
	mux.HandleFunc("DELETE /users/{id}", r.write(r.handleDeleteUser))

	// Products
	mux.HandleFunc("GET /products", r.handleListProducts)
	mux.HandleFunc("GET /products/{id}", r.handleGetProduct)
	mux.HandleFunc("POST /products", r.write(r.handleCreateProduct))
	mux.HandleFunc("PUT /products/{id}", r.write(r.handleUpdateProduct))
	mux.HandleFunc("DELETE /products/{id}", r.write(r.handleDeleteProduct))

	// Analytics
	mux.HandleFunc("GET /analytics", r.handleAnalytics)
	mux.HandleFunc("GET /analytics/export", r.handleExport)
	mux.HandleFunc("GET /charts/{name}", r.handleChart)

	// Settings
	mux.HandleFunc("GET /settings", r.handleSettings)
	mux.HandleFunc("GET /settings/role", r.handleGetRole)
	mux.HandleFunc("PUT /settings/role", r.write(r.handleSetRole))
	mux.HandleFunc("POST /settings/reset", r.write(r.handleReset))
	mux.HandleFunc("POST /settings/clear", r.write(r.handleClear))

	return withMiddleware(mux, cfg)
}

// write guards a mutating handler in read-only mode.
func (rt *router[TTx]) write(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rt.config.ReadOnly {
			writeError(w, http.StatusForbidden, "read_only", "the dashboard is in read-only mode")
			return
		}
		h(w, r)
	}
}

// withMiddleware wraps the handler with common middleware.
func withMiddleware(handler http.Handler, cfg *Config) http.Handler {
	// Add JSON content type
	handler = jsonMiddleware(handler)
	// Add error recovery
	handler = recoveryMiddleware(handler, cfg.Logger)
	return handler
}

// jsonMiddleware sets JSON content type for all responses. Handlers that
// stream other media types override it.
func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// recoveryMiddleware recovers from panics and returns 500.
func recoveryMiddleware(next http.Handler, logger Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if logger != nil {
					logger.Error("panic recovered", "error", err, "path", r.URL.Path)
				}
				http.Error(w, `{"error":{"code":"internal_error","message":"internal server error"}}`, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
