// Package maintenance provides background services for a dashboard instance.
//
// This package includes:
//   - Snapshotter: records the revenue and user-growth metric points on a cron schedule
//   - Pruner: deletes activity feed entries past their retention
package maintenance
