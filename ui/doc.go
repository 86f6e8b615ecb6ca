// Package ui provides an embedded web UI and JSON API for the admin dashboard.
//
// The package provides two HTTP handlers:
//   - UIHandler: SSR frontend with HTMX + Tailwind
//   - APIHandler: REST API returning JSON envelopes
//
// # Quick Start
//
//	pool, _ := pgxpool.New(ctx, os.Getenv("DATABASE_URL"))
//	drv := pgxv5.New(pool)
//
//	client, _ := admindash.NewClient(drv, nil)
//	client.Start(ctx)
//	defer client.Stop(context.Background())
//
//	mux := http.NewServeMux()
//	mux.Handle("/admin/", http.StripPrefix("/admin", ui.UIHandler(client, &ui.Config{BasePath: "/admin"})))
//	mux.Handle("/api/", http.StripPrefix("/api", ui.APIHandler(client, nil)))
//
//	http.ListenAndServe(":8080", mux)
//
// # Configuration
//
// The handlers accept an optional Config struct for customization:
//
//	cfg := &ui.Config{
//	    BasePath:        "/admin",
//	    ReadOnly:        false,           // Hide forms and reject writes if true
//	    RefreshInterval: 5 * time.Second, // Dashboard auto-refresh
//	    PageSize:        10,              // Table rows per page
//	}
//
// Writes are further gated by the client's role: a viewer sees no row
// actions and every write fails with 403.
//
// # Adding Middleware
//
// Wrap handlers externally using standard Go patterns:
//
//	handler := authMiddleware(loggingMiddleware(ui.UIHandler(client, cfg)))
//	http.Handle("/admin/", http.StripPrefix("/admin", handler))
package ui
