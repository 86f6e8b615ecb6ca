package frontend

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/youssefsiam38/admindash/datatable"
	"github.com/youssefsiam38/admindash/ui/service"
)

// renderer handles template rendering.
type renderer struct {
	baseTemplate *template.Template // Base template with nav, components
	templatesFS  fs.FS              // Embedded filesystem for page templates
	config       *Config
}

// newRenderer creates a new renderer.
func newRenderer(baseTemplate *template.Template, templatesFS fs.FS, cfg *Config) *renderer {
	return &renderer{
		baseTemplate: baseTemplate,
		templatesFS:  templatesFS,
		config:       cfg,
	}
}

// PageData contains common data for all pages.
type PageData struct {
	Title           string
	BasePath        string
	CurrentPath     string
	ReadOnly        bool
	RefreshInterval int // in seconds
	Flash           *FlashMessage
	Data            any
}

// FlashMessage represents a flash message.
type FlashMessage struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// flashMessages maps the flash query parameter set by redirects.
var flashMessages = map[string]FlashMessage{
	"created": {Type: "success", Message: "Record created."},
	"updated": {Type: "success", Message: "Record updated."},
	"deleted": {Type: "success", Message: "Record deleted."},
	"role":    {Type: "info", Message: "Role updated."},
	"reset":   {Type: "success", Message: "Data reset to defaults."},
	"cleared": {Type: "warning", Message: "All users and products were removed."},
}

// render renders a page inside the base layout.
// It clones the base template and parses the page-specific template into it,
// avoiding conflicts between "content" blocks in different pages.
func (r *renderer) render(w http.ResponseWriter, req *http.Request, name, title string, data any) error {
	return r.renderStatus(w, req, http.StatusOK, name, title, data)
}

func (r *renderer) renderStatus(w http.ResponseWriter, req *http.Request, status int, name, title string, data any) error {
	pageData := PageData{
		Title:           title,
		BasePath:        r.config.BasePath,
		CurrentPath:     req.URL.Path,
		ReadOnly:        r.config.ReadOnly,
		RefreshInterval: int(r.config.RefreshInterval.Seconds()),
		Data:            data,
	}
	if msg, ok := flashMessages[req.URL.Query().Get("flash")]; ok {
		pageData.Flash = &msg
	}

	// Clone the base template to avoid conflicts between page "content" blocks
	tmpl, err := r.baseTemplate.Clone()
	if err != nil {
		return fmt.Errorf("clone template: %w", err)
	}

	// Parse the page-specific template into the clone
	pageTemplatePath := "templates/" + name
	_, err = tmpl.ParseFS(r.templatesFS, pageTemplatePath)
	if err != nil {
		return fmt.Errorf("parse page template %s: %w", pageTemplatePath, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return tmpl.ExecuteTemplate(w, "base", pageData)
}

// renderFragment renders a template fragment (no layout).
// Fragment templates define their template name as the file path (e.g., "fragments/table.html").
func (r *renderer) renderFragment(w http.ResponseWriter, name string, data any) error {
	tmpl, err := r.baseTemplate.Clone()
	if err != nil {
		return fmt.Errorf("clone template: %w", err)
	}

	// Shared fragments are already part of the base set.
	if tmpl.Lookup(name) == nil {
		fragmentTemplatePath := "templates/" + name
		if _, err := tmpl.ParseFS(r.templatesFS, fragmentTemplatePath); err != nil {
			return fmt.Errorf("parse fragment template %s: %w", fragmentTemplatePath, err)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, name, data)
}

// Template helper functions

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	if d < time.Minute {
		return "just now"
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	}
	if d < 24*time.Hour {
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	days := int(d.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}

func add(a, b int) int {
	return a + b
}

func sub(a, b int) int {
	return a - b
}

func seq(start, end int) []int {
	if start > end {
		return nil
	}
	result := make([]int, end-start+1)
	for i := range result {
		result[i] = start + i
	}
	return result
}

// pageWindow returns at most five page numbers centered on the current page.
func pageWindow(p datatable.Paging) []int {
	first := max(p.CurrentPage-2, 1)
	last := min(first+4, p.TotalPages)
	first = max(last-4, 1)
	return seq(first, last)
}

// link joins a mount path, a route and an already encoded query.
func link(base, path, query string) template.URL {
	u := base + path
	if query != "" {
		u += "?" + query
	}
	return template.URL(u)
}

func badge(text string) template.HTML {
	return service.Badge(text, service.Tone(text))
}

func activityIcon(kind string) string {
	switch kind {
	case "created":
		return "＋"
	case "updated":
		return "✎"
	case "deleted":
		return "✕"
	default:
		return "•"
	}
}
