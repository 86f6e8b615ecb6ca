package maintenance

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/youssefsiam38/admindash/storage"
)

// DefaultSnapshotSchedule runs at midnight on the first of every month.
const DefaultSnapshotSchedule = "@monthly"

// ComputeFunc returns the metric points to store for the period containing now.
type ComputeFunc func(ctx context.Context, now time.Time) ([]*storage.MetricPoint, error)

// SnapshotConfig holds configuration for the metric snapshotter.
type SnapshotConfig struct {
	// Schedule is a standard cron expression or descriptor.
	// Default: @monthly
	Schedule string

	// Location for the schedule. Default: time.Local
	Location *time.Location

	// OnSnapshot is called with the stored points after each run.
	OnSnapshot func(points []*storage.MetricPoint)

	// OnError is called when a snapshot fails.
	OnError func(err error)

	// Now overrides the clock. Default: time.Now
	Now func() time.Time
}

// DefaultSnapshotConfig returns the default snapshot configuration.
func DefaultSnapshotConfig() *SnapshotConfig {
	return &SnapshotConfig{Schedule: DefaultSnapshotSchedule}
}

// Snapshotter records metric points on a cron schedule. At start it only
// fills in periods that have no stored point yet, so imported or seeded
// history is kept until the next scheduled run.
type Snapshotter struct {
	store   storage.Store
	compute ComputeFunc
	config  *SnapshotConfig

	mu      sync.Mutex
	cron    *cron.Cron
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started atomic.Bool
}

// NewSnapshotter validates the schedule and returns a stopped Snapshotter.
func NewSnapshotter(store storage.Store, compute ComputeFunc, config *SnapshotConfig) (*Snapshotter, error) {
	if config == nil {
		config = DefaultSnapshotConfig()
	}
	cfg := *config
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSnapshotSchedule
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("%w: schedule %q: %v", ErrInvalidSchedule, cfg.Schedule, err)
	}

	return &Snapshotter{store: store, compute: compute, config: &cfg}, nil
}

// Start schedules the snapshot job and fills missing points in the background.
func (s *Snapshotter) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, s.cancel = context.WithCancel(ctx)
	s.cron = cron.New(cron.WithLocation(s.config.Location))
	if _, err := s.cron.AddFunc(s.config.Schedule, func() { s.snapshot(ctx, s.RunOnce) }); err != nil {
		s.cancel()
		s.started.Store(false)
		return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	s.cron.Start()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.snapshot(ctx, s.FillMissing)
	}()

	return nil
}

// Stop cancels the schedule and waits for a running snapshot to finish.
func (s *Snapshotter) Stop(ctx context.Context) error {
	if !s.started.Load() {
		return ErrNotStarted
	}

	s.mu.Lock()
	s.cancel()
	jobs := s.cron.Stop()
	s.mu.Unlock()

	initial := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(initial)
	}()

	for _, wait := range []<-chan struct{}{jobs.Done(), initial} {
		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.started.Store(false)
	return nil
}

func (s *Snapshotter) snapshot(ctx context.Context, run func(context.Context) ([]*storage.MetricPoint, error)) {
	points, err := run(ctx)
	if err != nil {
		if s.config.OnError != nil && ctx.Err() == nil {
			s.config.OnError(err)
		}
		return
	}
	if s.config.OnSnapshot != nil {
		s.config.OnSnapshot(points)
	}
}

// RunOnce computes and stores the metric points for the current period.
func (s *Snapshotter) RunOnce(ctx context.Context) ([]*storage.MetricPoint, error) {
	points, err := s.compute(ctx, s.config.Now())
	if err != nil {
		return nil, fmt.Errorf("compute metrics: %w", err)
	}
	for _, p := range points {
		if err := s.store.UpsertMetric(ctx, p); err != nil {
			return nil, err
		}
	}
	return points, nil
}

// FillMissing computes the points for the current period and stores those
// whose metric has no point for this period or a later one.
func (s *Snapshotter) FillMissing(ctx context.Context) ([]*storage.MetricPoint, error) {
	points, err := s.compute(ctx, s.config.Now())
	if err != nil {
		return nil, fmt.Errorf("compute metrics: %w", err)
	}
	stored := make([]*storage.MetricPoint, 0, len(points))
	for _, p := range points {
		latest, err := s.store.ListMetrics(ctx, p.Metric, 1)
		if err != nil {
			return nil, err
		}
		// periods are YYYY-MM and order as strings
		if len(latest) > 0 && latest[len(latest)-1].Period >= p.Period {
			continue
		}
		if err := s.store.UpsertMetric(ctx, p); err != nil {
			return nil, err
		}
		stored = append(stored, p)
	}
	return stored, nil
}

// IsRunning returns true if the snapshotter is running.
func (s *Snapshotter) IsRunning() bool {
	return s.started.Load()
}
