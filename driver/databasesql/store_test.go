package databasesql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youssefsiam38/admindash/driver"
	"github.com/youssefsiam38/admindash/internal/testutil"
	"github.com/youssefsiam38/admindash/storage"
	"github.com/youssefsiam38/admindash/storage/storetest"
)

func TestIntegration_DatabaseSQL_Store(t *testing.T) {
	db := testutil.NewTestDB(t)
	drv := New(db.OpenSQL(t), db.URL)
	require.NoError(t, drv.Migrate(context.Background()))

	storetest.Run(t, func(t *testing.T) storage.Store {
		require.NoError(t, db.CleanTables(context.Background()))
		return drv.GetStore()
	})
}

func TestIntegration_DatabaseSQL_Savepoints(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.CleanTables(ctx))

	drv := New(db.OpenSQL(t), db.URL)
	store := drv.GetStore()

	tx, err := drv.Begin(ctx)
	require.NoError(t, err)
	txCtx := driver.WithExecutor(ctx, tx)

	keep := &storage.Product{Name: "Keep", Category: "Office", Price: 1, Stock: 50, Status: "In Stock"}
	require.NoError(t, store.CreateProduct(txCtx, keep))

	inner, err := tx.Begin(ctx)
	require.NoError(t, err)
	innerCtx := driver.WithExecutor(ctx, inner)
	require.NoError(t, store.CreateProduct(innerCtx, &storage.Product{Name: "Drop", Category: "Office", Price: 1, Stock: 0, Status: "Out of Stock"}))
	require.NoError(t, inner.Rollback(ctx))

	require.NoError(t, tx.Commit(ctx))

	products, err := store.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Keep", products[0].Name)
}

func TestIntegration_DatabaseSQL_ListenNotify(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	drv := New(db.OpenSQL(t), db.URL)
	l, err := drv.GetListener(ctx)
	require.NoError(t, err)
	defer l.Close(ctx)

	require.NoError(t, l.Listen(ctx, driver.ChannelDataChanged))
	require.NoError(t, l.Listen(ctx, driver.ChannelDataChanged))
	require.NoError(t, drv.GetNotifier().Notify(ctx, driver.ChannelDataChanged, "hello"))

	n, err := l.WaitForNotification(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello", n.Payload)
}

func TestDriver_NoConnString(t *testing.T) {
	drv := New(nil, "")
	assert.False(t, drv.SupportsListener())
	assert.False(t, drv.PoolIsSet())
	_, err := drv.GetListener(context.Background())
	assert.Error(t, err)
}
