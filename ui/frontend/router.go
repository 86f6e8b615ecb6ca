package frontend

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/youssefsiam38/admindash"
	"github.com/youssefsiam38/admindash/datatable"
	"github.com/youssefsiam38/admindash/ui/service"
)

//go:embed templates/*
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Config holds frontend router configuration.
type Config struct {
	// BasePath is the URL prefix where the UI is mounted.
	// All navigation links will be prefixed with this path.
	BasePath string

	// ReadOnly hides and rejects write operations.
	ReadOnly bool

	// RefreshInterval for dashboard auto-refresh.
	RefreshInterval time.Duration

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

// router holds the frontend router state.
type router[TTx any] struct {
	svc      *service.Service[TTx]
	client   *admindash.Client[TTx]
	config   *Config
	renderer *renderer
}

// NewRouter creates a new frontend router.
func NewRouter[TTx any](svc *service.Service[TTx], cfg *Config) http.Handler {
	if cfg == nil {
		cfg = &Config{
			RefreshInterval: 5 * time.Second,
		}
	}

	// Parse base templates (layout, nav, shared fragments)
	// Page-specific templates are parsed dynamically by the renderer
	// to avoid conflicts between "content" blocks in different pages.
	baseTmpl := template.Must(template.New("").
		Funcs(templateFuncs()).
		ParseFS(templatesFS,
			"templates/base.html",
			"templates/fragments/*.html",
		))

	r := &router[TTx]{
		svc:      svc,
		client:   svc.Client(),
		config:   cfg,
		renderer: newRenderer(baseTmpl, templatesFS, cfg),
	}

	mux := http.NewServeMux()

	// Static assets
	staticSub, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Main pages
	mux.HandleFunc("GET /{$}", r.handleRedirectToDashboard)
	mux.HandleFunc("GET /dashboard", r.handleDashboard)
	mux.HandleFunc("GET /users", r.handleUsers)
	mux.HandleFunc("GET /products", r.handleProducts)
	mux.HandleFunc("GET /analytics", r.handleAnalytics)
	mux.HandleFunc("GET /analytics/export", r.handleExport)
	mux.HandleFunc("GET /settings", r.handleSettings)

	// Forms
	mux.HandleFunc("GET /users/new", r.write(r.handleUserForm))
	mux.HandleFunc("GET /users/{id}/edit", r.write(r.handleUserForm))
	mux.HandleFunc("POST /users", r.write(r.handleSaveUser))
	mux.HandleFunc("POST /users/{id}", r.write(r.handleSaveUser))
	mux.HandleFunc("POST /users/{id}/delete", r.write(r.handleDeleteUser))
	mux.HandleFunc("GET /products/new", r.write(r.handleProductForm))
	mux.HandleFunc("GET /products/{id}/edit", r.write(r.handleProductForm))
	mux.HandleFunc("POST /products", r.write(r.handleSaveProduct))
	mux.HandleFunc("POST /products/{id}", r.write(r.handleSaveProduct))
	mux.HandleFunc("POST /products/{id}/delete", r.write(r.handleDeleteProduct))

	// Settings actions
	mux.HandleFunc("POST /settings/role", r.write(r.handleSetRole))
	mux.HandleFunc("POST /settings/reset", r.write(r.handleReset))
	mux.HandleFunc("POST /settings/clear", r.write(r.handleClear))

	// Live updates and images
	mux.HandleFunc("GET /events", r.handleEvents)
	mux.HandleFunc("GET /charts/{name}", r.handleChart)

	// HTMX fragments
	mux.HandleFunc("GET /fragments/dashboard-stats", r.handleFragmentDashboardStats)
	mux.HandleFunc("GET /fragments/activity", r.handleFragmentActivity)

	return withFrontendMiddleware(mux, cfg)
}

// write guards a mutating or form handler in read-only mode.
func (rt *router[TTx]) write(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rt.config.ReadOnly {
			http.Error(w, "The dashboard is read-only", http.StatusForbidden)
			return
		}
		h(w, r)
	}
}

// withFrontendMiddleware wraps the handler with frontend-specific middleware.
func withFrontendMiddleware(handler http.Handler, cfg *Config) http.Handler {
	handler = frontendRecoveryMiddleware(handler, cfg.Logger)
	return handler
}

// frontendRecoveryMiddleware recovers from panics.
func frontendRecoveryMiddleware(next http.Handler, logger Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if logger != nil {
					logger.Error("panic recovered", "error", err, "path", r.URL.Path)
				}
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// templateFuncs returns custom template functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatTime":    formatTime,
		"formatTimeAgo": formatTimeAgo,
		"link":          link,
		"badge":         badge,
		"money":         service.FormatMoney,
		"wholeMoney":    service.FormatWholeMoney,
		"activityIcon":  activityIcon,
		"pageWindow":    pageWindow,
		"noData":        func() string { return datatable.NoDataText },
		"add":           add,
		"sub":           sub,
		"seq":           seq,
		"dict":          dictFunc,
	}
}

// dictFunc creates a map from key-value pairs for use in templates.
// Usage: {{template "foo" (dict "key1" val1 "key2" val2)}}
func dictFunc(values ...any) map[string]any {
	if len(values)%2 != 0 {
		return nil
	}
	dict := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			continue
		}
		dict[key] = values[i+1]
	}
	return dict
}
