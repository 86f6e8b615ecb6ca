package admindash

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/youssefsiam38/admindash/driver"
	"github.com/youssefsiam38/admindash/hooks"
	"github.com/youssefsiam38/admindash/leadership"
	"github.com/youssefsiam38/admindash/maintenance"
	"github.com/youssefsiam38/admindash/notifier"
	"github.com/youssefsiam38/admindash/storage"
)

// Version is the current admindash version
const Version = "1.0.0"

// Client is the entry point to the dashboard data.
// It runs writes through role checks, hooks and change notifications and
// owns the background services: the change listener, and the metric
// snapshots and activity pruning that run on the elected leader only.
//
// TTx is the native transaction type from the driver (e.g., pgx.Tx, *sql.Tx).
type Client[TTx any] struct {
	driver driver.Driver[TTx]
	store  storage.Store
	config *ClientConfig
	hooks  *hooks.Registry

	// Background services
	notif       *notifier.Notifier
	elector     *leadership.Elector
	snapshotter *maintenance.Snapshotter
	pruner      *maintenance.Pruner

	started atomic.Bool
	cancel  context.CancelFunc
}

// NewClient creates a new dashboard client with the given driver and configuration.
// The transaction type TTx is inferred from the driver argument.
//
// Example:
//
//	drv := pgxv5.New(pool)
//	client, err := admindash.NewClient(drv, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := client.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Stop(ctx)
func NewClient[TTx any](drv driver.Driver[TTx], config *ClientConfig) (*Client[TTx], error) {
	if drv == nil {
		return nil, fmt.Errorf("%w: driver is required", ErrInvalidConfig)
	}
	if !drv.PoolIsSet() {
		return nil, fmt.Errorf("%w: driver pool is not set", ErrInvalidConfig)
	}

	var cfg ClientConfig
	if config != nil {
		cfg = *config
	}
	logging := cfg.Logger != nil
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	c := &Client[TTx]{
		driver: drv,
		store:  drv.GetStore(),
		config: &cfg,
		hooks:  hooks.NewRegistry(),
	}
	if logging {
		hooks.NewLoggingHooks(cfg.Logger).Register(c.hooks)
	}

	var getListener func(context.Context) (driver.Listener, error)
	if drv.SupportsListener() {
		getListener = drv.GetListener
	}
	c.notif = notifier.NewNotifier(getListener, drv.GetNotifier(), &notifier.Config{
		ReconnectDelay: cfg.ReconnectDelay,
		OnError:        c.backgroundError("change listener"),
		OnReconnect:    func() { cfg.Logger.Info("change listener reconnected") },
	})

	if !cfg.DisableMaintenance {
		snap, err := maintenance.NewSnapshotter(c.store, c.computeSnapshot, &maintenance.SnapshotConfig{
			Schedule: cfg.SnapshotSchedule,
			Location: cfg.SnapshotLocation,
			Now:      cfg.Now,
			OnError:  c.backgroundError("metric snapshot"),
			OnSnapshot: func(points []*storage.MetricPoint) {
				cfg.Logger.Debug("metric snapshot stored", "points", len(points))
			},
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		c.snapshotter = snap

		c.pruner = maintenance.NewPruner(c.store, &maintenance.PrunerConfig{
			Interval:  cfg.PruneInterval,
			Retention: cfg.ActivityRetention,
			Now:       cfg.Now,
			OnError:   c.backgroundError("activity pruning"),
			OnPruned: func(n int64) {
				cfg.Logger.Debug("pruned activity", "count", n)
			},
		})

		c.elector = leadership.NewElector(c.store, cfg.InstanceID, &leadership.Config{
			LeaderTTL:       cfg.LeaderTTL,
			ElectionPeriod:  cfg.LeaderTTL / 3,
			ReelectionDelay: cfg.LeaderTTL / 6,
			OnError:         c.backgroundError("leader election"),
			Now:             cfg.Now,
		}, leadership.Callbacks{
			OnBecameLeader:   c.startMaintenance,
			OnLostLeadership: c.stopMaintenance,
		})
	}

	return c, nil
}

// startMaintenance runs when this instance becomes the leader.
func (c *Client[TTx]) startMaintenance(ctx context.Context) {
	c.config.Logger.Info("elected leader, starting maintenance", "instance", c.config.InstanceID)
	if err := c.snapshotter.Start(ctx); err != nil {
		c.backgroundError("metric snapshot")(err)
	}
	if err := c.pruner.Start(ctx); err != nil {
		c.backgroundError("activity pruning")(err)
	}
}

// stopMaintenance runs when this instance stops being the leader.
func (c *Client[TTx]) stopMaintenance(ctx context.Context) {
	c.config.Logger.Info("lost leadership, stopping maintenance", "instance", c.config.InstanceID)
	if c.pruner.IsRunning() {
		if err := c.pruner.Stop(ctx); err != nil {
			c.backgroundError("activity pruning")(err)
		}
	}
	if c.snapshotter.IsRunning() {
		if err := c.snapshotter.Stop(ctx); err != nil {
			c.backgroundError("metric snapshot")(err)
		}
	}
}

func (c *Client[TTx]) backgroundError(service string) func(error) {
	return func(err error) {
		c.config.Logger.Error(service+" failed", "error", err)
		if c.config.OnError != nil {
			c.config.OnError(err)
		}
	}
}

// Start begins background operations: the change listener and the leader
// election that runs metric snapshots and activity pruning.
func (c *Client[TTx]) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return ErrClientAlreadyStarted
	}

	ctx, c.cancel = context.WithCancel(ctx)

	if err := c.notif.Start(ctx); err != nil {
		c.cancel()
		c.started.Store(false)
		return fmt.Errorf("failed to start notifier: %w", err)
	}

	if c.elector != nil {
		if err := c.elector.Start(ctx); err != nil {
			_ = c.notif.Stop(ctx) // best-effort cleanup
			c.cancel()
			c.started.Store(false)
			return fmt.Errorf("failed to start leader election: %w", err)
		}
	}

	c.config.Logger.Info("admindash client started", "listener", c.driver.SupportsListener())
	return nil
}

// Stop gracefully shuts down the background services.
func (c *Client[TTx]) Stop(ctx context.Context) error {
	if !c.started.Load() {
		return ErrClientNotStarted
	}

	if c.cancel != nil {
		c.cancel()
	}

	// Stop services in reverse order (best-effort, continue on errors).
	// The elector resigns, which stops the maintenance services.
	var errs []error
	if c.elector != nil && c.elector.IsRunning() {
		errs = append(errs, c.elector.Stop(ctx))
	}
	if c.notif.IsRunning() {
		errs = append(errs, c.notif.Stop(ctx))
	}

	c.started.Store(false)
	c.config.Logger.Info("admindash client stopped")
	return errors.Join(errs...)
}

// IsLeader reports whether this instance currently runs the maintenance
// services.
func (c *Client[TTx]) IsLeader() bool {
	return c.elector != nil && c.elector.IsLeader()
}

// IsRunning returns true if the client has been started.
func (c *Client[TTx]) IsRunning() bool {
	return c.started.Load()
}

// Store returns the underlying storage.
func (c *Client[TTx]) Store() storage.Store {
	return c.store
}

// Driver returns the database driver.
func (c *Client[TTx]) Driver() driver.Driver[TTx] {
	return c.driver
}

// Hooks returns the hook registry. Register hooks before serving traffic.
func (c *Client[TTx]) Hooks() *hooks.Registry {
	return c.hooks
}

// Logger returns the configured logger.
func (c *Client[TTx]) Logger() Logger {
	return c.config.Logger
}

// Now returns the current time from the configured clock.
func (c *Client[TTx]) Now() time.Time {
	return c.config.Now()
}

// WithTx returns a context whose writes run inside tx. The caller commits
// or rolls back; change notifications are sent when each write returns.
func (c *Client[TTx]) WithTx(ctx context.Context, tx TTx) context.Context {
	exec := c.driver.UnwrapExecutor(tx)
	if exec == nil {
		return ctx
	}
	return driver.WithExecutor(ctx, exec)
}

// Subscribe calls fn for every data change, including changes made by
// other processes sharing the database once the client is started.
// It returns a function that removes the subscription.
func (c *Client[TTx]) Subscribe(fn func(notifier.Change)) func() {
	return c.notif.Subscribe(notifier.EventDataChanged, func(ev *notifier.Event) {
		change, err := notifier.DecodeChange(ev.Payload)
		if err != nil {
			c.config.Logger.Debug("ignoring change notification", "error", err)
			return
		}
		fn(change)
	})
}

func (c *Client[TTx]) notify(ctx context.Context, change notifier.Change) {
	if err := c.notif.NotifyChange(driver.StripExecutor(ctx), change); err != nil {
		c.config.Logger.Warn("change notification failed", "error", err)
	}
}
