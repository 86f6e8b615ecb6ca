package frontend

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/youssefsiam38/admindash"
	"github.com/youssefsiam38/admindash/ui/service"
)

// tableData is the view of the shared table fragment.
type tableData struct {
	BasePath string
	Path     string
	Noun     string
	ReadOnly bool
	*service.TableView
}

// CanEdit reports whether row edit controls are shown.
func (d tableData) CanEdit() bool { return !d.ReadOnly && d.Actions.Edit }

// CanDelete reports whether row delete controls are shown.
func (d tableData) CanDelete() bool { return !d.ReadOnly && d.Actions.Delete }

// ShowActions reports whether the actions column is shown.
func (d tableData) ShowActions() bool { return d.CanEdit() || d.CanDelete() }

// ColumnCount is the number of rendered columns including actions.
func (d tableData) ColumnCount() int {
	if d.ShowActions() {
		return len(d.Columns) + 1
	}
	return len(d.Columns)
}

// isFragmentRequest reports whether an HTMX request asks for a partial.
func isFragmentRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true" && r.Header.Get("HX-Boosted") != "true"
}

// parseID parses a record ID from the path, returning false for a new record.
func parseID(r *http.Request) (int64, bool, error) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false, errors.New("invalid id")
	}
	return id, true, nil
}

// logError logs an error if the logger is configured.
// It's used for optional data fetches that shouldn't break the page.
func (rt *router[TTx]) logError(msg string, err error) {
	if rt.config.Logger != nil {
		rt.config.Logger.Warn(msg, "error", err.Error())
	}
}

// writeError maps client errors to status codes.
func (rt *router[TTx]) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, admindash.ErrPermissionDenied):
		http.Error(w, "Your role cannot modify data", http.StatusForbidden)
	case errors.Is(err, admindash.ErrNotFound), errors.Is(err, service.ErrUnknownChart):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, admindash.ErrInvalidRole), errors.Is(err, admindash.ErrUnsupportedFormat):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		if rt.config.Logger != nil {
			rt.config.Logger.Error("request failed", "error", err)
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (rt *router[TTx]) redirect(w http.ResponseWriter, r *http.Request, path, flash string) {
	http.Redirect(w, r, rt.config.BasePath+path+"?flash="+flash, http.StatusSeeOther)
}

// Main page handlers

func (rt *router[TTx]) handleRedirectToDashboard(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, rt.config.BasePath+"/dashboard", http.StatusTemporaryRedirect)
}

func (rt *router[TTx]) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view, err := rt.svc.Dashboard(r.Context())
	if err != nil {
		rt.writeError(w, err)
		return
	}

	if err := rt.renderer.render(w, r, "dashboard.html", "Dashboard", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (rt *router[TTx]) handleUsers(w http.ResponseWriter, r *http.Request) {
	view, err := rt.svc.Users(r.Context(), service.ParseListParams(r.URL.Query()))
	if err != nil {
		rt.writeError(w, err)
		return
	}
	rt.renderTable(w, r, "Users", tableData{Path: "/users", Noun: "user", TableView: view})
}

func (rt *router[TTx]) handleProducts(w http.ResponseWriter, r *http.Request) {
	view, err := rt.svc.Products(r.Context(), service.ParseListParams(r.URL.Query()))
	if err != nil {
		rt.writeError(w, err)
		return
	}
	rt.renderTable(w, r, "Products", tableData{Path: "/products", Noun: "product", TableView: view})
}

// renderTable renders the table fragment for HTMX requests and the full
// records page otherwise.
func (rt *router[TTx]) renderTable(w http.ResponseWriter, r *http.Request, title string, data tableData) {
	data.BasePath = rt.config.BasePath
	data.ReadOnly = rt.config.ReadOnly

	var err error
	if isFragmentRequest(r) {
		err = rt.renderer.renderFragment(w, "fragments/table.html", data)
	} else {
		err = rt.renderer.render(w, r, "records.html", title, data)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (rt *router[TTx]) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	view, err := rt.svc.Analytics(r.Context())
	if err != nil {
		rt.writeError(w, err)
		return
	}

	if err := rt.renderer.render(w, r, "analytics.html", "Analytics", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (rt *router[TTx]) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := admindash.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		rt.writeError(w, err)
		return
	}

	var buf strings.Builder
	if err := rt.client.ExportAnalytics(r.Context(), &buf, format); err != nil {
		rt.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.Filename(rt.client.Now())+`"`)
	_, _ = w.Write([]byte(buf.String()))
}

func (rt *router[TTx]) handleChart(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(r.PathValue("name"), ".png")
	if !ok {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	opts := service.ChartOptions{Theme: q.Get("theme")}
	opts.Width, _ = strconv.ParseFloat(q.Get("width"), 64)
	opts.Height, _ = strconv.ParseFloat(q.Get("height"), 64)
	opts.PixelRatio, _ = strconv.ParseFloat(q.Get("ratio"), 64)

	png, err := rt.svc.ChartPNG(r.Context(), name, opts)
	if err != nil {
		rt.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(png)
}

// settingsData is the settings page view.
type settingsData struct {
	*service.SettingsView
	Roles  []admindash.Role
	Recent []*admindash.ActivityEvent
}

func (rt *router[TTx]) handleSettings(w http.ResponseWriter, r *http.Request) {
	view, err := rt.svc.Settings(r.Context())
	if err != nil {
		rt.writeError(w, err)
		return
	}

	data := settingsData{
		SettingsView: view,
		Roles:        []admindash.Role{admindash.RoleAdmin, admindash.RoleViewer},
	}
	if data.Recent, err = rt.client.RecentActivity(r.Context(), admindash.DefaultActivityLimit); err != nil {
		rt.logError("failed to load activity", err)
	}

	if err := rt.renderer.render(w, r, "settings.html", "Settings", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (rt *router[TTx]) handleSetRole(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	role, err := admindash.ParseRole(r.FormValue("role"))
	if err != nil {
		rt.writeError(w, err)
		return
	}
	if err := rt.client.SetRole(r.Context(), role); err != nil {
		rt.writeError(w, err)
		return
	}
	rt.redirect(w, r, "/settings", "role")
}

func (rt *router[TTx]) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := rt.client.ResetData(r.Context()); err != nil {
		rt.writeError(w, err)
		return
	}
	rt.redirect(w, r, "/settings", "reset")
}

func (rt *router[TTx]) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := rt.client.ClearAllData(r.Context()); err != nil {
		rt.writeError(w, err)
		return
	}
	rt.redirect(w, r, "/settings", "cleared")
}

// HTMX fragments

func (rt *router[TTx]) handleFragmentDashboardStats(w http.ResponseWriter, r *http.Request) {
	view, err := rt.svc.Dashboard(r.Context())
	if err != nil {
		rt.writeError(w, err)
		return
	}

	if err := rt.renderer.renderFragment(w, "fragments/dashboard-stats.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (rt *router[TTx]) handleFragmentActivity(w http.ResponseWriter, r *http.Request) {
	events, err := rt.client.RecentActivity(r.Context(), service.RecentActivityLimit)
	if err != nil {
		rt.writeError(w, err)
		return
	}

	if err := rt.renderer.renderFragment(w, "fragments/activity.html", events); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
