// Package storetest holds a behavioral test suite shared by every
// storage.Store implementation.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youssefsiam38/admindash/storage"
)

// Run exercises store against the Store contract. newStore must return an
// empty store.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("Products", func(t *testing.T) { testProducts(t, newStore(t)) })
	t.Run("ReplaceAll", func(t *testing.T) { testReplaceAll(t, newStore(t)) })
	t.Run("Settings", func(t *testing.T) { testSettings(t, newStore(t)) })
	t.Run("Activity", func(t *testing.T) { testActivity(t, newStore(t)) })
	t.Run("Metrics", func(t *testing.T) { testMetrics(t, newStore(t)) })
	t.Run("Leader", func(t *testing.T) { testLeader(t, newStore(t)) })
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testUsers(t *testing.T, s storage.Store) {
	ctx := context.Background()

	a := &storage.User{Name: "Ann Lee", Email: "ann@example.com", Role: "Admin", Status: "Active", RegistrationDate: day(2023, 3, 4)}
	require.NoError(t, s.CreateUser(ctx, a))
	assert.Equal(t, int64(1), a.ID)

	b := &storage.User{Name: "Bob Ray", Email: "bob@example.com", Role: "Viewer", Status: "Pending", RegistrationDate: day(2023, 5, 6)}
	require.NoError(t, s.CreateUser(ctx, b))
	assert.Equal(t, int64(2), b.ID)

	got, err := s.GetUser(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", got.Email)
	assert.True(t, got.RegistrationDate.Equal(a.RegistrationDate), "registration date %v", got.RegistrationDate)

	b.Status = "Active"
	require.NoError(t, s.UpdateUser(ctx, b))
	got, err = s.GetUser(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Active", got.Status)

	all, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)

	require.NoError(t, s.DeleteUser(ctx, a.ID))
	_, err = s.GetUser(ctx, a.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.DeleteUser(ctx, a.ID), storage.ErrNotFound)
	assert.ErrorIs(t, s.UpdateUser(ctx, &storage.User{ID: 99, RegistrationDate: day(2023, 1, 1)}), storage.ErrNotFound)

	// IDs continue from the current maximum.
	c := &storage.User{Name: "Cy", Email: "cy@example.com", Role: "Editor", Status: "Active", RegistrationDate: day(2024, 1, 1)}
	require.NoError(t, s.CreateUser(ctx, c))
	assert.Equal(t, int64(3), c.ID)
}

func testProducts(t *testing.T, s storage.Store) {
	ctx := context.Background()

	p := &storage.Product{Name: "Smart Watch", Category: "Electronics", Description: "**water** resistant", Price: 199.99, Stock: 12, Status: "Low Stock"}
	require.NoError(t, s.CreateProduct(ctx, p))
	assert.Equal(t, int64(1), p.ID)

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, *p, *got)

	p.Stock = 0
	p.Status = "Out of Stock"
	require.NoError(t, s.UpdateProduct(ctx, p))
	got, err = s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)

	all, err := s.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, s.DeleteProduct(ctx, p.ID))
	_, err = s.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.UpdateProduct(ctx, p), storage.ErrNotFound)
}

func testReplaceAll(t *testing.T, s storage.Store) {
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &storage.User{Name: "Old", Email: "old@example.com", Role: "Admin", Status: "Active", RegistrationDate: day(2023, 1, 1)}))

	users := []*storage.User{
		{ID: 7, Name: "Seven", Email: "seven@example.com", Role: "Viewer", Status: "Active", RegistrationDate: day(2023, 7, 7)},
		{ID: 3, Name: "Three", Email: "three@example.com", Role: "Editor", Status: "Inactive", RegistrationDate: day(2023, 3, 3)},
	}
	products := []*storage.Product{
		{ID: 5, Name: "USB Hub", Category: "Computing", Price: 25, Stock: 40, Status: "In Stock"},
	}
	require.NoError(t, s.ReplaceAll(ctx, users, products))

	gotUsers, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, gotUsers, 2)
	assert.Equal(t, int64(3), gotUsers[0].ID)
	assert.Equal(t, int64(7), gotUsers[1].ID)

	gotProducts, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, gotProducts, 1)

	u := &storage.User{Name: "Next", Email: "next@example.com", Role: "Viewer", Status: "Active", RegistrationDate: day(2024, 2, 2)}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.Equal(t, int64(8), u.ID)

	require.NoError(t, s.ReplaceAll(ctx, nil, nil))
	gotUsers, err = s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, gotUsers)
	gotProducts, err = s.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, gotProducts)

	// A failed replace leaves the data untouched.
	require.NoError(t, s.ReplaceAll(ctx, users, nil))
	dup := []*storage.User{users[0], users[0]}
	assert.Error(t, s.ReplaceAll(ctx, dup, nil))
	gotUsers, err = s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, gotUsers, 2)
}

func testSettings(t *testing.T, s storage.Store) {
	ctx := context.Background()

	_, err := s.GetSetting(ctx, storage.SettingRole)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.SetSetting(ctx, storage.SettingRole, "viewer"))
	require.NoError(t, s.SetSetting(ctx, storage.SettingRole, "admin"))
	v, err := s.GetSetting(ctx, storage.SettingRole)
	require.NoError(t, err)
	assert.Equal(t, "admin", v)
}

func testActivity(t *testing.T, s storage.Store) {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	for i, kind := range []string{"created", "updated", "deleted"} {
		e := &storage.ActivityEvent{
			Kind:      kind,
			Entity:    "user",
			EntityID:  int64(i + 1),
			Summary:   kind + " a user",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, s.RecordActivity(ctx, e))
		assert.NotEqual(t, uuid.Nil, e.ID)
	}

	events, err := s.ListActivity(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "deleted", events[0].Kind)
	assert.Equal(t, "updated", events[1].Kind)

	n, err := s.PruneActivity(ctx, base.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	events, err = s.ListActivity(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "deleted", events[0].Kind)
}

func testMetrics(t *testing.T, s storage.Store) {
	ctx := context.Background()

	for i, period := range []string{"2024-03", "2024-01", "2024-02", "2024-04"} {
		require.NoError(t, s.UpsertMetric(ctx, &storage.MetricPoint{
			Metric: storage.MetricRevenue,
			Period: period,
			Value:  float64(1000 * (i + 1)),
		}))
	}
	require.NoError(t, s.UpsertMetric(ctx, &storage.MetricPoint{Metric: storage.MetricRevenue, Period: "2024-04", Value: 42}))
	require.NoError(t, s.UpsertMetric(ctx, &storage.MetricPoint{Metric: storage.MetricUserGrowth, Period: "2024-04", Value: 7}))

	points, err := s.ListMetrics(ctx, storage.MetricRevenue, 3)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, "2024-02", points[0].Period)
	assert.Equal(t, "2024-03", points[1].Period)
	assert.Equal(t, "2024-04", points[2].Period)
	assert.Equal(t, 42.0, points[2].Value)

	points, err = s.ListMetrics(ctx, "unknown", 3)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func testLeader(t *testing.T, s storage.Store) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	lease := func(id string, at time.Time) *storage.LeaderElectParams {
		return &storage.LeaderElectParams{LeaderID: id, TTL: time.Minute, Now: at}
	}

	ok, err := s.LeaderAttemptElect(ctx, lease("a", now))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.LeaderAttemptElect(ctx, lease("b", now.Add(30*time.Second)))
	require.NoError(t, err)
	assert.False(t, ok, "lease still held")

	ok, err = s.LeaderAttemptReelect(ctx, lease("b", now))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.LeaderAttemptReelect(ctx, lease("a", now.Add(30*time.Second)))
	require.NoError(t, err)
	assert.True(t, ok)

	// Renewed until now+90s.
	ok, err = s.LeaderAttemptElect(ctx, lease("b", now.Add(80*time.Second)))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.LeaderAttemptElect(ctx, lease("b", now.Add(2*time.Minute)))
	require.NoError(t, err)
	assert.True(t, ok, "expired lease is taken over")

	require.NoError(t, s.LeaderResign(ctx, "a"))
	ok, err = s.LeaderAttemptReelect(ctx, lease("b", now.Add(2*time.Minute)))
	require.NoError(t, err)
	assert.True(t, ok, "resigning a lease held by someone else is a no-op")

	require.NoError(t, s.LeaderResign(ctx, "b"))
	ok, err = s.LeaderAttemptElect(ctx, lease("a", now.Add(2*time.Minute)))
	require.NoError(t, err)
	assert.True(t, ok)
}
