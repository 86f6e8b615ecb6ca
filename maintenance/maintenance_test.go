package maintenance

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youssefsiam38/admindash/storage"
)

// pruneStore records PruneActivity calls.
type pruneStore struct {
	storage.Store
	mu      sync.Mutex
	cutoffs []time.Time
	deleted int64
	err     error
}

func (m *pruneStore) PruneActivity(ctx context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cutoffs = append(m.cutoffs, before)
	return m.deleted, m.err
}

func (m *pruneStore) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cutoffs)
}

func TestPruner_RunOnceUsesRetention(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	store := &pruneStore{deleted: 4}
	p := NewPruner(store, &PrunerConfig{Retention: 48 * time.Hour, Now: func() time.Time { return now }})

	n, err := p.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	require.Len(t, store.cutoffs, 1)
	assert.Equal(t, now.Add(-48*time.Hour), store.cutoffs[0])
}

func TestPruner_Defaults(t *testing.T) {
	p := NewPruner(&pruneStore{}, &PrunerConfig{})
	assert.Equal(t, DefaultPruneInterval, p.config.Interval)
	assert.Equal(t, DefaultActivityRetention, p.config.Retention)
	assert.Equal(t, 30*24*time.Hour, DefaultActivityRetention)
}

func TestPruner_StartStop(t *testing.T) {
	store := &pruneStore{deleted: 2}
	var pruned atomic.Int64
	p := NewPruner(store, &PrunerConfig{
		Interval: 20 * time.Millisecond,
		OnPruned: func(n int64) { pruned.Add(n) },
	})

	ctx := context.Background()
	require.NoError(t, p.Start(ctx))
	assert.True(t, p.IsRunning())
	assert.ErrorIs(t, p.Start(ctx), ErrAlreadyStarted)

	require.Eventually(t, func() bool { return store.calls() >= 3 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, p.Stop(ctx))
	assert.False(t, p.IsRunning())
	assert.GreaterOrEqual(t, pruned.Load(), int64(6))

	assert.ErrorIs(t, p.Stop(ctx), ErrNotStarted)

	// Restartable.
	require.NoError(t, p.Start(ctx))
	require.NoError(t, p.Stop(ctx))
}

func TestPruner_ReportsErrors(t *testing.T) {
	boom := errors.New("boom")
	errs := make(chan error, 1)
	p := NewPruner(&pruneStore{err: boom}, &PrunerConfig{
		Interval: time.Hour,
		OnError: func(err error) {
			select {
			case errs <- err:
			default:
			}
		},
	})

	ctx := context.Background()
	require.NoError(t, p.Start(ctx))
	defer p.Stop(ctx)

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, boom)
	case <-time.After(2 * time.Second):
		t.Fatal("OnError not called")
	}
}

func fixedCompute(value float64) ComputeFunc {
	return func(ctx context.Context, now time.Time) ([]*storage.MetricPoint, error) {
		return []*storage.MetricPoint{
			{Metric: storage.MetricRevenue, Period: storage.Period(now), Value: value},
			{Metric: storage.MetricUserGrowth, Period: storage.Period(now), Value: 3},
		}, nil
	}
}

func TestSnapshotter_RunOnce(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	s, err := NewSnapshotter(store, fixedCompute(1234), &SnapshotConfig{Now: func() time.Time { return now }})
	require.NoError(t, err)

	points, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Len(t, points, 2)

	revenue, err := store.ListMetrics(context.Background(), storage.MetricRevenue, 0)
	require.NoError(t, err)
	require.Len(t, revenue, 1)
	assert.Equal(t, "2024-02", revenue[0].Period)
	assert.Equal(t, 1234.0, revenue[0].Value)
}

func TestSnapshotter_InvalidSchedule(t *testing.T) {
	_, err := NewSnapshotter(storage.NewMemoryStore(), fixedCompute(1), &SnapshotConfig{Schedule: "every tuesday"})
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	s, err := NewSnapshotter(storage.NewMemoryStore(), fixedCompute(1), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSnapshotSchedule, s.config.Schedule)
}

func TestSnapshotter_RunsAtStart(t *testing.T) {
	store := storage.NewMemoryStore()
	done := make(chan []*storage.MetricPoint, 1)
	s, err := NewSnapshotter(store, fixedCompute(99), &SnapshotConfig{
		OnSnapshot: func(points []*storage.MetricPoint) { done <- points },
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	assert.ErrorIs(t, s.Start(ctx), ErrAlreadyStarted)

	select {
	case points := <-done:
		assert.Len(t, points, 2)
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot did not run at start")
	}

	require.NoError(t, s.Stop(ctx))
	assert.False(t, s.IsRunning())
	assert.ErrorIs(t, s.Stop(ctx), ErrNotStarted)
}

func TestSnapshotter_FillMissingKeepsStoredPeriods(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.UpsertMetric(ctx, &storage.MetricPoint{Metric: storage.MetricRevenue, Period: "2024-02", Value: 500}))
	require.NoError(t, store.UpsertMetric(ctx, &storage.MetricPoint{Metric: storage.MetricUserGrowth, Period: "2024-01", Value: 7}))

	now := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	s, err := NewSnapshotter(store, fixedCompute(1234), &SnapshotConfig{Now: func() time.Time { return now }})
	require.NoError(t, err)

	stored, err := s.FillMissing(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, storage.MetricUserGrowth, stored[0].Metric)

	revenue, err := store.ListMetrics(ctx, storage.MetricRevenue, 0)
	require.NoError(t, err)
	require.Len(t, revenue, 1)
	assert.Equal(t, 500.0, revenue[0].Value)

	growth, err := store.ListMetrics(ctx, storage.MetricUserGrowth, 0)
	require.NoError(t, err)
	require.Len(t, growth, 2)
	assert.Equal(t, "2024-02", growth[1].Period)
	assert.Equal(t, 3.0, growth[1].Value)

	// The scheduled run overwrites.
	_, err = s.RunOnce(ctx)
	require.NoError(t, err)
	revenue, err = store.ListMetrics(ctx, storage.MetricRevenue, 0)
	require.NoError(t, err)
	assert.Equal(t, 1234.0, revenue[0].Value)
}

func TestSnapshotter_ComputeError(t *testing.T) {
	boom := errors.New("boom")
	s, err := NewSnapshotter(storage.NewMemoryStore(), func(context.Context, time.Time) ([]*storage.MetricPoint, error) {
		return nil, boom
	}, nil)
	require.NoError(t, err)

	_, err = s.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
}
