package storage_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youssefsiam38/admindash/storage"
	"github.com/youssefsiam38/admindash/storage/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(*testing.T) storage.Store { return storage.NewMemoryStore() })
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStore()

	p := &storage.Product{Name: "Mouse Pad", Category: "Office", Price: 9.5, Stock: 3, Status: "Low Stock"}
	require.NoError(t, s.CreateProduct(ctx, p))
	p.Name = "changed after insert"

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mouse Pad", got.Name)

	got.Name = "changed after read"
	again, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mouse Pad", again.Name)
}

func TestMemoryStore_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStore()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.CreateUser(ctx, &storage.User{Name: "u"})
		}()
	}
	wg.Wait()

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 50)
	for i, u := range users {
		assert.Equal(t, int64(i+1), u.ID)
	}
}
