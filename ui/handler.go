package ui

import (
	"net/http"

	"github.com/youssefsiam38/admindash"
	"github.com/youssefsiam38/admindash/ui/api"
	"github.com/youssefsiam38/admindash/ui/frontend"
	"github.com/youssefsiam38/admindash/ui/service"
)

// prepare copies cfg, applies defaults and validates it.
// It panics on invalid configuration as this is a programmer error.
func prepare(cfg *Config) *Config {
	c := DefaultConfig()
	if cfg != nil {
		cp := *cfg
		c = &cp
		c.applyDefaults()
	}
	if err := c.validate(); err != nil {
		panic("ui: invalid configuration: " + err.Error())
	}
	return c
}

// UIHandler returns an http.Handler for the SSR frontend.
// This handler provides an interactive admin interface using HTMX + Tailwind.
//
// Usage:
//
//	http.Handle("/admin/", http.StripPrefix("/admin", ui.UIHandler(client, &ui.Config{BasePath: "/admin"})))
func UIHandler[TTx any](client *admindash.Client[TTx], cfg *Config) http.Handler {
	cfg = prepare(cfg)

	svc := service.New(client, &service.Config{PageSize: cfg.PageSize})
	return frontend.NewRouter(svc, &frontend.Config{
		BasePath:        cfg.BasePath,
		ReadOnly:        cfg.ReadOnly,
		RefreshInterval: cfg.RefreshInterval,
		Logger:          cfg.Logger,
	})
}

// APIHandler returns an http.Handler for the JSON API.
//
// Usage:
//
//	http.Handle("/api/", http.StripPrefix("/api", ui.APIHandler(client, nil)))
func APIHandler[TTx any](client *admindash.Client[TTx], cfg *Config) http.Handler {
	cfg = prepare(cfg)

	svc := service.New(client, &service.Config{PageSize: cfg.PageSize})
	return api.NewRouter(svc, &api.Config{
		ReadOnly: cfg.ReadOnly,
		Logger:   cfg.Logger,
	})
}
