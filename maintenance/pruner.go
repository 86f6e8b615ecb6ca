package maintenance

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/youssefsiam38/admindash/storage"
)

// Default pruner configuration values
const (
	DefaultPruneInterval     = 1 * time.Hour
	DefaultActivityRetention = 30 * 24 * time.Hour
)

// PrunerConfig holds configuration for the activity pruner.
type PrunerConfig struct {
	// Interval is how often to prune.
	// Default: 1 hour
	Interval time.Duration

	// Retention is how long activity events are kept.
	// Default: 30 days
	Retention time.Duration

	// OnPruned is called with the number of deleted events when it is non-zero.
	OnPruned func(count int64)

	// OnError is called when pruning fails.
	OnError func(err error)

	// Now overrides the clock. Default: time.Now
	Now func() time.Time
}

// DefaultPrunerConfig returns the default pruner configuration.
func DefaultPrunerConfig() *PrunerConfig {
	return &PrunerConfig{
		Interval:  DefaultPruneInterval,
		Retention: DefaultActivityRetention,
	}
}

func (c *PrunerConfig) applyDefaults() {
	if c.Interval <= 0 {
		c.Interval = DefaultPruneInterval
	}
	if c.Retention <= 0 {
		c.Retention = DefaultActivityRetention
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// Pruner deletes activity events older than the retention period.
type Pruner struct {
	store  storage.Store
	config *PrunerConfig

	started atomic.Bool
	done    chan struct{}
	cancel  context.CancelFunc
}

// NewPruner creates a new activity pruner.
func NewPruner(store storage.Store, config *PrunerConfig) *Pruner {
	if config == nil {
		config = DefaultPrunerConfig()
	}
	cfg := *config
	cfg.applyDefaults()

	return &Pruner{
		store:  store,
		config: &cfg,
	}
}

// Start begins the prune loop. The first prune runs immediately.
func (p *Pruner) Start(ctx context.Context) error {
	if !p.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	p.done = make(chan struct{})
	ctx, p.cancel = context.WithCancel(ctx)
	go p.run(ctx)

	return nil
}

// Stop stops the prune loop.
func (p *Pruner) Stop(ctx context.Context) error {
	if !p.started.Load() {
		return ErrNotStarted
	}

	p.cancel()
	select {
	case <-p.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	p.started.Store(false)
	return nil
}

func (p *Pruner) run(ctx context.Context) {
	defer close(p.done)

	p.prune(ctx)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *Pruner) prune(ctx context.Context) {
	n, err := p.RunOnce(ctx)
	if err != nil {
		if p.config.OnError != nil && ctx.Err() == nil {
			p.config.OnError(err)
		}
		return
	}
	if n > 0 && p.config.OnPruned != nil {
		p.config.OnPruned(n)
	}
}

// RunOnce deletes expired events once and returns how many were removed.
func (p *Pruner) RunOnce(ctx context.Context) (int64, error) {
	return p.store.PruneActivity(ctx, p.config.Now().Add(-p.config.Retention))
}

// IsRunning returns true if the pruner is running.
func (p *Pruner) IsRunning() bool {
	return p.started.Load()
}
