// Package leadership elects one leader among the dashboard processes
// sharing a database.
//
// Only the leader runs the background maintenance (metric snapshots and
// activity pruning), so several instances behind a load balancer do not
// write the same snapshot or prune concurrently.
//
// The leader holds a TTL lease stored in PostgreSQL and must renew it
// before it expires, or another instance can take over.
package leadership

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/youssefsiam38/admindash/storage"
)

// Default configuration values
const (
	DefaultLeaderTTL       = 30 * time.Second
	DefaultElectionPeriod  = 10 * time.Second
	DefaultReelectionDelay = 5 * time.Second
)

// Config holds configuration for the leader election system.
type Config struct {
	// LeaderTTL is how long a leader's lease is valid.
	// Default: 30 seconds
	LeaderTTL time.Duration

	// ElectionPeriod is how often to attempt becoming leader when not leader.
	// Default: 10 seconds
	ElectionPeriod time.Duration

	// ReelectionDelay is how long to wait before renewing the lease.
	// Should be less than LeaderTTL.
	// Default: 5 seconds
	ReelectionDelay time.Duration

	// OnError is called when a lease query fails.
	OnError func(err error)

	// Now overrides the clock. Default: time.Now
	Now func() time.Time
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LeaderTTL:       DefaultLeaderTTL,
		ElectionPeriod:  DefaultElectionPeriod,
		ReelectionDelay: DefaultReelectionDelay,
	}
}

func (c *Config) applyDefaults() {
	if c.LeaderTTL <= 0 {
		c.LeaderTTL = DefaultLeaderTTL
	}
	if c.ElectionPeriod <= 0 {
		c.ElectionPeriod = DefaultElectionPeriod
	}
	if c.ReelectionDelay <= 0 {
		c.ReelectionDelay = DefaultReelectionDelay
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// Callbacks are called when leadership status changes.
type Callbacks struct {
	// OnBecameLeader is called when this instance becomes the leader.
	// It is called with the context that was passed to Start().
	OnBecameLeader func(ctx context.Context)

	// OnLostLeadership is called when this instance loses leadership.
	// This can happen due to:
	//   - Failed to renew lease (network issue, DB issue)
	//   - Explicit resignation via Resign()
	//   - Stop()
	OnLostLeadership func(ctx context.Context)
}

// Elector manages leader election for one dashboard process.
type Elector struct {
	store      storage.Store
	instanceID string
	config     *Config
	callbacks  Callbacks

	// mu protects isLeader
	mu       sync.RWMutex
	isLeader bool

	started atomic.Bool
	done    chan struct{}
	cancel  context.CancelFunc
}

// NewElector creates a new leader elector.
func NewElector(store storage.Store, instanceID string, config *Config, callbacks Callbacks) *Elector {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	cfg.applyDefaults()

	return &Elector{
		store:      store,
		instanceID: instanceID,
		config:     &cfg,
		callbacks:  callbacks,
	}
}

// InstanceID returns the identifier this elector campaigns with.
func (e *Elector) InstanceID() string {
	return e.instanceID
}

// Start begins the leader election process.
// It returns immediately and runs the election loop in a goroutine.
// Call Stop() to stop the election process.
func (e *Elector) Start(ctx context.Context) error {
	if !e.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	e.done = make(chan struct{})
	ctx, e.cancel = context.WithCancel(ctx)
	go e.runElectionLoop(ctx)

	return nil
}

// Stop stops the leader election process.
// If this instance is the leader, it resigns before returning.
func (e *Elector) Stop(ctx context.Context) error {
	if !e.started.Load() {
		return ErrNotStarted
	}

	e.cancel()
	<-e.done

	if err := e.Resign(ctx); err != nil && e.config.OnError != nil {
		e.config.OnError(err)
	}

	e.started.Store(false)
	return nil
}

// IsLeader returns true if this instance is currently the leader.
func (e *Elector) IsLeader() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.isLeader
}

// IsRunning returns true if the elector is running.
func (e *Elector) IsRunning() bool {
	return e.started.Load()
}

// Resign voluntarily gives up leadership. The lost-leadership callback runs
// even when releasing the lease fails; the lease then simply expires.
func (e *Elector) Resign(ctx context.Context) error {
	if !e.setLeader(false) {
		return nil
	}

	resignCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err := e.store.LeaderResign(resignCtx, e.instanceID)

	if e.callbacks.OnLostLeadership != nil {
		e.callbacks.OnLostLeadership(ctx)
	}
	return err
}

// setLeader stores the new status and reports whether it changed.
func (e *Elector) setLeader(leader bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	changed := e.isLeader != leader
	e.isLeader = leader
	return changed
}

func (e *Elector) runElectionLoop(ctx context.Context) {
	defer close(e.done)

	// Try to become leader immediately
	e.attemptElection(ctx)

	for {
		delay := e.config.ElectionPeriod
		if e.IsLeader() {
			delay = e.config.ReelectionDelay
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
			if e.IsLeader() {
				e.attemptReelection(ctx)
			} else {
				e.attemptElection(ctx)
			}
		}
	}
}

func (e *Elector) params() *storage.LeaderElectParams {
	return &storage.LeaderElectParams{
		LeaderID: e.instanceID,
		TTL:      e.config.LeaderTTL,
		Now:      e.config.Now(),
	}
}

func (e *Elector) attemptElection(ctx context.Context) {
	elected, err := e.store.LeaderAttemptElect(ctx, e.params())
	if err != nil {
		// retried on the next tick
		e.reportError(ctx, err)
		return
	}

	if elected && e.setLeader(true) && e.callbacks.OnBecameLeader != nil {
		e.callbacks.OnBecameLeader(ctx)
	}
}

func (e *Elector) attemptReelection(ctx context.Context) {
	reelected, err := e.store.LeaderAttemptReelect(ctx, e.params())
	if err != nil {
		e.reportError(ctx, err)
	}
	if err != nil || !reelected {
		if e.setLeader(false) && e.callbacks.OnLostLeadership != nil {
			e.callbacks.OnLostLeadership(ctx)
		}
	}
}

func (e *Elector) reportError(ctx context.Context, err error) {
	if e.config.OnError != nil && ctx.Err() == nil {
		e.config.OnError(err)
	}
}
