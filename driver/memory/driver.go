// Package memory provides a driver backed by storage.MemoryStore.
//
// It needs no database and is used by demos, tests and the CLI when no
// database URL is configured. It has no transactions and no LISTEN/NOTIFY:
// Begin returns driver.ErrNotSupported and change notifications are
// delivered to local subscribers only.
package memory

import (
	"context"

	"github.com/youssefsiam38/admindash/driver"
	"github.com/youssefsiam38/admindash/storage"
)

// Tx is the transaction type of the memory driver. It carries nothing.
type Tx struct{}

// Driver implements driver.Driver over an in-process store.
type Driver struct {
	store *storage.MemoryStore
}

var _ driver.Driver[Tx] = (*Driver)(nil)

// New creates a memory driver. A nil store gets a fresh MemoryStore.
func New(store *storage.MemoryStore) *Driver {
	if store == nil {
		store = storage.NewMemoryStore()
	}
	return &Driver{store: store}
}

// GetExecutor returns nil; the memory store does not run SQL.
func (d *Driver) GetExecutor() driver.Executor { return nil }

// UnwrapExecutor returns nil.
func (d *Driver) UnwrapExecutor(Tx) driver.ExecutorTx { return nil }

// UnwrapTx returns the zero Tx.
func (d *Driver) UnwrapTx(driver.ExecutorTx) Tx { return Tx{} }

// Begin always fails with driver.ErrNotSupported.
func (d *Driver) Begin(context.Context) (driver.ExecutorTx, error) {
	return nil, driver.ErrNotSupported
}

// PoolIsSet reports true; the store is always available.
func (d *Driver) PoolIsSet() bool { return true }

// GetStore returns the underlying MemoryStore.
func (d *Driver) GetStore() storage.Store { return d.store }

// Migrate is a no-op.
func (d *Driver) Migrate(context.Context) error { return nil }

// SupportsListener returns false.
func (d *Driver) SupportsListener() bool { return false }

// GetListener always fails with driver.ErrNotSupported.
func (d *Driver) GetListener(context.Context) (driver.Listener, error) {
	return nil, driver.ErrNotSupported
}

// GetNotifier returns nil.
func (d *Driver) GetNotifier() driver.Notifier { return nil }
