// Package driver provides database driver abstractions for admindash.
//
// This package defines the interfaces that database drivers must implement
// to back the dashboard. It supports multiple database backends (pgx/v5,
// database/sql) through a generic driver pattern.
package driver

import (
	"context"

	"github.com/youssefsiam38/admindash/storage"
)

// Driver provides database operations for admindash.
// TTx is the native transaction type (e.g., pgx.Tx for pgx/v5, *sql.Tx for database/sql).
//
// Implementations should be created using the driver-specific New() functions:
//   - github.com/youssefsiam38/admindash/driver/pgxv5.New(pool)
//   - github.com/youssefsiam38/admindash/driver/databasesql.New(db, connString)
type Driver[TTx any] interface {
	// GetExecutor returns an executor for non-transactional operations.
	GetExecutor() Executor

	// UnwrapExecutor converts a native transaction to an ExecutorTx.
	// This allows callers to run dashboard writes inside their own transaction.
	UnwrapExecutor(tx TTx) ExecutorTx

	// UnwrapTx extracts the native transaction from an ExecutorTx.
	UnwrapTx(execTx ExecutorTx) TTx

	// Begin starts a new transaction and returns an ExecutorTx.
	Begin(ctx context.Context) (ExecutorTx, error)

	// PoolIsSet returns true if the driver has a database pool configured.
	PoolIsSet() bool

	// GetStore returns a Store implementation using this driver.
	GetStore() storage.Store

	// Migrate creates the dashboard tables if they do not exist.
	Migrate(ctx context.Context) error

	// SupportsListener returns true if this driver can open a Listener.
	SupportsListener() bool

	// GetListener returns a Listener for receiving PostgreSQL notifications.
	// The returned Listener must be closed when no longer needed.
	GetListener(ctx context.Context) (Listener, error)

	// GetNotifier returns a Notifier for sending PostgreSQL notifications.
	GetNotifier() Notifier
}

// Beginner is an interface for types that can begin transactions.
type Beginner interface {
	Begin(ctx context.Context) (ExecutorTx, error)
}
