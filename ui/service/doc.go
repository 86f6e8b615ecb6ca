// Package service provides the shared business logic for the admindash UI.
//
// The service layer is HTTP-agnostic and used by both the REST API and
// SSR frontend handlers. This ensures consistency and avoids duplication.
//
// # Usage
//
//	svc := service.New(client, &service.Config{PageSize: 10})
//
//	// Dashboard KPIs, trends and recent activity
//	dash, err := svc.Dashboard(ctx)
//
//	// One page of the users table, searched and sorted
//	users, err := svc.Users(ctx, service.ListParams{
//	    Search: "smith",
//	    Sort:   "name",
//	    Dir:    "desc",
//	    Page:   2,
//	})
//
// # Design
//
// The service layer:
//   - Reads through the admindash.Client, never the store directly
//   - Builds tables with datatable.Render and charts with chart.RenderPNG
//   - Returns DTOs (Data Transfer Objects) optimized for UI display
//   - Leaves writes to the client; handlers call it directly
package service
