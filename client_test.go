package admindash

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youssefsiam38/admindash/driver/memory"
	"github.com/youssefsiam38/admindash/hooks"
	"github.com/youssefsiam38/admindash/notifier"
	"github.com/youssefsiam38/admindash/storage"
)

var testNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func newTestClient(t *testing.T, cfg *ClientConfig) (*Client[memory.Tx], *storage.MemoryStore) {
	t.Helper()
	if cfg == nil {
		cfg = &ClientConfig{}
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return testNow }
	}
	cfg.DisableMaintenance = true

	store := storage.NewMemoryStore()
	c, err := NewClient(memory.New(store), cfg)
	require.NoError(t, err)
	return c, store
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient[memory.Tx](nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewClient(memory.New(nil), &ClientConfig{DefaultRole: "owner"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewClient(memory.New(nil), &ClientConfig{SnapshotSchedule: "every tuesday"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewClient(memory.New(nil), &ClientConfig{PruneInterval: -time.Second})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	c, err := NewClient(memory.New(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, c.config.DefaultRole)
	assert.NotNil(t, c.Logger())
}

func TestClient_Lifecycle(t *testing.T) {
	store := storage.NewMemoryStore()
	c, err := NewClient(memory.New(store), &ClientConfig{
		Now: func() time.Time { return testNow },
	})
	require.NoError(t, err)

	ctx := context.Background()
	assert.ErrorIs(t, c.Stop(ctx), ErrClientNotStarted)

	require.NoError(t, c.Start(ctx))
	assert.True(t, c.IsRunning())
	assert.ErrorIs(t, c.Start(ctx), ErrClientAlreadyStarted)

	// An empty store gets the current period filled on start.
	require.Eventually(t, func() bool {
		points, err := store.ListMetrics(ctx, storage.MetricRevenue, 0)
		return err == nil && len(points) == 1
	}, time.Second, 10*time.Millisecond)

	assert.True(t, c.IsLeader())

	require.NoError(t, c.Stop(ctx))
	assert.False(t, c.IsRunning())
	assert.False(t, c.IsLeader())

	// Restartable.
	require.NoError(t, c.Start(ctx))
	require.NoError(t, c.Stop(ctx))
}

func TestClient_StartKeepsSeededMetrics(t *testing.T) {
	store := storage.NewMemoryStore()
	c, err := NewClient(memory.New(store), &ClientConfig{
		Now: func() time.Time { return testNow },
	})
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, c.ResetData(ctx))

	require.NoError(t, c.Start(ctx))
	require.Eventually(t, c.IsLeader, time.Second, 10*time.Millisecond)
	require.NoError(t, c.Stop(ctx))

	growth, err := store.ListMetrics(ctx, storage.MetricUserGrowth, 0)
	require.NoError(t, err)
	require.Len(t, growth, len(fixtureUserGrowth))
	assert.Equal(t, "2024-03", growth[len(growth)-1].Period)
	assert.Equal(t, 608.0, growth[len(growth)-1].Value)

	revenue, err := store.ListMetrics(ctx, storage.MetricRevenue, 0)
	require.NoError(t, err)
	assert.Equal(t, 71280.0, revenue[len(revenue)-1].Value)

	analytics, err := c.Analytics(ctx)
	require.NoError(t, err)
	trend, ok := Trend(analytics.UserGrowth)
	require.True(t, ok)
	assert.Greater(t, trend, 0.0)
}

func TestClient_OneLeaderPerStore(t *testing.T) {
	store := storage.NewMemoryStore()
	newClient := func(id string) *Client[memory.Tx] {
		c, err := NewClient(memory.New(store), &ClientConfig{InstanceID: id, LeaderTTL: time.Minute})
		require.NoError(t, err)
		return c
	}
	a, b := newClient("a"), newClient("b")
	ctx := context.Background()

	require.NoError(t, a.Start(ctx))
	require.Eventually(t, a.IsLeader, time.Second, 10*time.Millisecond)
	require.NoError(t, b.Start(ctx))
	defer b.Stop(ctx)

	assert.Never(t, b.IsLeader, 100*time.Millisecond, 10*time.Millisecond)
	require.NoError(t, a.Stop(ctx))
	assert.False(t, a.IsLeader())
}

func TestClient_Subscribe(t *testing.T) {
	c, _ := newTestClient(t, nil)
	ctx := context.Background()

	var got []notifier.Change
	unsubscribe := c.Subscribe(func(ch notifier.Change) { got = append(got, ch) })

	u, err := c.CreateUser(ctx, UserInput{Name: "Ann Lee", Email: "ann@example.com", Role: UserRoleEditor, Status: UserStatusActive})
	require.NoError(t, err)
	require.NoError(t, c.DeleteUser(ctx, u.ID))

	unsubscribe()
	require.NoError(t, c.ClearAllData(ctx))

	assert.Equal(t, []notifier.Change{
		{Kind: hooks.KindCreated, Entity: hooks.EntityUser, EntityID: u.ID},
		{Kind: hooks.KindDeleted, Entity: hooks.EntityUser, EntityID: u.ID},
	}, got)
}

func TestClient_Hooks(t *testing.T) {
	c, store := newTestClient(t, nil)
	ctx := context.Background()

	veto := errors.New("frozen")
	var after []hooks.MutationEvent
	c.Hooks().OnBeforeMutation(func(_ context.Context, e *hooks.MutationEvent) error {
		if e.Entity == hooks.EntityProduct {
			return veto
		}
		return nil
	})
	c.Hooks().OnMutation(func(_ context.Context, e hooks.MutationEvent) error {
		after = append(after, e)
		return errors.New("after hooks do not fail the write")
	})

	_, err := c.CreateUser(ctx, UserInput{Name: "Ann Lee", Email: "ann@example.com", Role: UserRoleEditor, Status: UserStatusActive})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "added user Ann Lee", after[0].Summary)
	assert.Equal(t, string(RoleAdmin), after[0].Role)
	assert.Equal(t, testNow, after[0].At)

	price, stock := 10.0, 5
	_, err = c.CreateProduct(ctx, ProductInput{Name: "Tablet", Category: CategoryMobile, Price: &price, Stock: &stock})
	assert.ErrorIs(t, err, veto)

	products, err := store.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Len(t, after, 1)
}

func TestClient_LoggingHooks(t *testing.T) {
	logger := &recordingLogger{}
	c, _ := newTestClient(t, &ClientConfig{Logger: logger})

	require.NoError(t, c.ResetData(context.Background()))
	assert.Contains(t, logger.infos, "dashboard data changed: reset data to defaults")
}

type recordingLogger struct {
	infos []string
}

func (l *recordingLogger) Debug(string, ...any)     {}
func (l *recordingLogger) Info(msg string, _ ...any) { l.infos = append(l.infos, msg) }
func (l *recordingLogger) Warn(string, ...any)      {}
func (l *recordingLogger) Error(string, ...any)     {}
