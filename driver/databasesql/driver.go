// Package databasesql provides a database/sql driver implementation for admindash.
//
// It works with any *sql.DB opened on the lib/pq "postgres" driver.
// Notifications are received on a separate pq.Listener connection opened
// from the connection string.
package databasesql

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/youssefsiam38/admindash/driver"
	"github.com/youssefsiam38/admindash/driver/sqlstore"
	"github.com/youssefsiam38/admindash/storage"
)

// Driver implements driver.Driver using database/sql.
type Driver struct {
	db      *sql.DB
	connStr string
}

// New creates a new database/sql driver using the provided connection.
// The connStr is required for creating listener connections; with an
// empty connStr SupportsListener reports false.
func New(db *sql.DB, connStr string) *Driver {
	return &Driver{db: db, connStr: connStr}
}

// GetExecutor returns an executor for non-transactional operations.
func (d *Driver) GetExecutor() driver.Executor {
	return &Executor{db: d.db}
}

// UnwrapExecutor converts a *sql.Tx to an ExecutorTx.
func (d *Driver) UnwrapExecutor(tx *sql.Tx) driver.ExecutorTx {
	return &ExecutorTx{tx: tx, depth: new(atomic.Int64)}
}

// UnwrapTx extracts the *sql.Tx from an ExecutorTx.
func (d *Driver) UnwrapTx(execTx driver.ExecutorTx) *sql.Tx {
	return execTx.(*ExecutorTx).tx
}

// Begin starts a new transaction and returns an ExecutorTx.
func (d *Driver) Begin(ctx context.Context) (driver.ExecutorTx, error) {
	return d.GetExecutor().Begin(ctx)
}

// PoolIsSet returns true if the driver has a database handle configured.
func (d *Driver) PoolIsSet() bool {
	return d.db != nil
}

// GetStore returns a Store implementation using this driver.
func (d *Driver) GetStore() storage.Store {
	return NewStore(d)
}

// Migrate creates the dashboard tables if they do not exist.
func (d *Driver) Migrate(ctx context.Context) error {
	return sqlstore.Migrate(ctx, d.GetExecutor())
}

// SupportsListener reports whether a connection string was provided.
func (d *Driver) SupportsListener() bool {
	return d.connStr != ""
}

// GetListener opens a pq.Listener connection.
func (d *Driver) GetListener(ctx context.Context) (driver.Listener, error) {
	if !d.SupportsListener() {
		return nil, fmt.Errorf("databasesql: listener requires a connection string")
	}
	return NewListener(ctx, d.connStr)
}

// GetNotifier returns a Notifier for sending PostgreSQL notifications.
func (d *Driver) GetNotifier() driver.Notifier {
	return &Notifier{db: d.db}
}

// DB returns the underlying database connection.
func (d *Driver) DB() *sql.DB {
	return d.db
}

// Compile-time check
var _ driver.Driver[*sql.Tx] = (*Driver)(nil)

// Executor wraps *sql.DB for non-transactional operations.
type Executor struct {
	db *sql.DB
}

// Begin starts a new transaction.
func (e *Executor) Begin(ctx context.Context) (driver.ExecutorTx, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &ExecutorTx{tx: tx, depth: new(atomic.Int64)}, nil
}

// Exec executes a query that doesn't return rows.
func (e *Executor) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return rowsAffected(e.db.ExecContext(ctx, query, args...))
}

// Query executes a query that returns rows.
func (e *Executor) Query(ctx context.Context, query string, args ...any) (driver.Rows, error) {
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &rowsWrapper{rows}, nil
}

// QueryRow executes a query that returns at most one row.
func (e *Executor) QueryRow(ctx context.Context, query string, args ...any) driver.Row {
	return e.db.QueryRowContext(ctx, query, args...)
}

// ExecutorTx wraps *sql.Tx. Nested Begin calls create savepoints.
type ExecutorTx struct {
	tx        *sql.Tx
	savepoint string
	depth     *atomic.Int64
}

// Begin creates a savepoint within the transaction.
func (e *ExecutorTx) Begin(ctx context.Context) (driver.ExecutorTx, error) {
	name := fmt.Sprintf("admindash_sp_%d", e.depth.Add(1))
	if _, err := e.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return nil, err
	}
	return &ExecutorTx{tx: e.tx, savepoint: name, depth: e.depth}, nil
}

// Exec executes a query that doesn't return rows within the transaction.
func (e *ExecutorTx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return rowsAffected(e.tx.ExecContext(ctx, query, args...))
}

// Query executes a query that returns rows within the transaction.
func (e *ExecutorTx) Query(ctx context.Context, query string, args ...any) (driver.Rows, error) {
	rows, err := e.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &rowsWrapper{rows}, nil
}

// QueryRow executes a query that returns at most one row within the transaction.
func (e *ExecutorTx) QueryRow(ctx context.Context, query string, args ...any) driver.Row {
	return e.tx.QueryRowContext(ctx, query, args...)
}

// Commit commits the transaction, or releases the savepoint.
func (e *ExecutorTx) Commit(ctx context.Context) error {
	if e.savepoint != "" {
		_, err := e.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+e.savepoint)
		return err
	}
	return e.tx.Commit()
}

// Rollback rolls back the transaction, or to the savepoint.
func (e *ExecutorTx) Rollback(ctx context.Context) error {
	if e.savepoint != "" {
		_, err := e.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+e.savepoint)
		return err
	}
	return e.tx.Rollback()
}

func rowsAffected(result sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// rowsWrapper adapts *sql.Rows, whose Close returns an error, to driver.Rows.
type rowsWrapper struct {
	*sql.Rows
}

func (r *rowsWrapper) Close() {
	_ = r.Rows.Close()
}
