// Package frontend provides SSR frontend handlers for the admin dashboard.
//
// The frontend uses HTMX for interactivity and Tailwind CSS for styling,
// both loaded via CDN for simplicity. Tables are server rendered through the
// datatable engine; HTMX requests to a table page receive only the table
// fragment, so search, sorting and paging swap the table in place.
//
// # Routes
//
// Main Pages:
//   - GET / - Redirect to dashboard
//   - GET /dashboard - KPI cards, charts and recent activity
//   - GET /users, GET /products - Tables (q, sort, dir, page)
//   - GET /analytics - Summary, charts and category breakdown
//   - GET /analytics/export?format=json|yaml - Download
//   - GET /settings - Role, data reset and activity
//
// Forms:
//   - GET /users/new, GET /users/{id}/edit - Create and edit forms
//   - POST /users, POST /users/{id} - Save
//   - POST /users/{id}/delete - Delete (HTMX returns the table)
//   - The same routes under /products
//   - POST /settings/role, /settings/reset, /settings/clear
//
// Live Updates:
//   - GET /events - SSE stream of data changes
//   - GET /charts/{name}.png?theme=dark - Chart images
//   - GET /fragments/* - Partial HTML fragments for HTMX updates
//
// Static Assets:
//   - GET /static/* - Embedded static files (JS, CSS)
package frontend
