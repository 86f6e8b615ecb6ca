// Package api provides REST API handlers for the admin dashboard.
//
// Every response is a JSON envelope with "data", "error" and, for tables,
// "meta" carrying the paging state. Tables accept the same q, sort, dir and
// page query parameters as the HTML frontend.
//
// # Endpoints
//
// Dashboard:
//   - GET /dashboard - KPI cards, monthly series and recent activity
//   - GET /activity?limit= - Recent activity feed
//   - GET /events - SSE stream of data changes
//
// Users and products:
//   - GET /users, GET /products - One table page
//   - GET /users/{id}, GET /products/{id} - A single record
//   - POST /users, POST /products - Create
//   - PUT /users/{id}, PUT /products/{id} - Partial update
//   - DELETE /users/{id}, DELETE /products/{id} - Delete
//
// Analytics:
//   - GET /analytics - Series, category distribution and summary
//   - GET /analytics/export?format=json|yaml - Download
//   - GET /charts/{name}.png?theme=&width=&height=&ratio= - Chart image
//
// Settings:
//   - GET /settings - Role and record counts
//   - GET /settings/role, PUT /settings/role - Current role
//   - POST /settings/reset - Restore the default data set
//   - POST /settings/clear - Remove all users and products
//
// Writes by a viewer fail with 403 permission_denied, invalid input with
// 400 invalid_input and a per-field "details" map.
package api
