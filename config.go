package admindash

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/youssefsiam38/admindash/leadership"
	"github.com/youssefsiam38/admindash/maintenance"
)

// Default values applied by DefaultClientConfig and NewClient.
const (
	DefaultRole           = RoleAdmin
	DefaultReconnectDelay = 5 * time.Second
	DefaultActivityLimit  = 10
)

// ClientConfig holds configuration for the Client.
type ClientConfig struct {
	// Logger receives mutation and background-service logs (optional).
	// When set, LoggingHooks are registered on the client's hooks.
	Logger Logger

	// DefaultRole is the viewer role used until one is persisted.
	// Default: admin
	DefaultRole Role

	// SnapshotSchedule is the cron expression for metric snapshots.
	// Default: @monthly
	SnapshotSchedule string

	// SnapshotLocation is the time zone of SnapshotSchedule.
	// Default: time.Local
	SnapshotLocation *time.Location

	// ActivityRetention is how long activity events are kept.
	// Default: 30 days
	ActivityRetention time.Duration

	// PruneInterval is how often old activity is deleted.
	// Default: 1 hour
	PruneInterval time.Duration

	// ReconnectDelay is the wait before the change listener reconnects.
	// Default: 5 seconds
	ReconnectDelay time.Duration

	// DisableMaintenance turns off leader election, the snapshotter and
	// the pruner.
	DisableMaintenance bool

	// InstanceID identifies this process in leader election.
	// Default: a random UUID
	InstanceID string

	// LeaderTTL is the leader lease duration. Followers retry every third
	// of it and the leader renews every sixth.
	// Default: 30 seconds
	LeaderTTL time.Duration

	// OnError is called when background operations fail
	OnError func(err error)

	// Now overrides the clock (optional). Default: time.Now
	Now func() time.Time
}

// DefaultClientConfig returns the default client configuration.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		DefaultRole:       DefaultRole,
		SnapshotSchedule:  maintenance.DefaultSnapshotSchedule,
		SnapshotLocation:  time.Local,
		ActivityRetention: maintenance.DefaultActivityRetention,
		PruneInterval:     maintenance.DefaultPruneInterval,
		ReconnectDelay:    DefaultReconnectDelay,
		LeaderTTL:         leadership.DefaultLeaderTTL,
		Now:               time.Now,
	}
}

// applyDefaults fills zero values with defaults.
func (c *ClientConfig) applyDefaults() {
	if c.Logger == nil {
		c.Logger = nopLogger{}
	}
	if c.DefaultRole == "" {
		c.DefaultRole = DefaultRole
	}
	if c.SnapshotSchedule == "" {
		c.SnapshotSchedule = maintenance.DefaultSnapshotSchedule
	}
	if c.SnapshotLocation == nil {
		c.SnapshotLocation = time.Local
	}
	if c.ActivityRetention == 0 {
		c.ActivityRetention = maintenance.DefaultActivityRetention
	}
	if c.PruneInterval == 0 {
		c.PruneInterval = maintenance.DefaultPruneInterval
	}
	if c.ReconnectDelay == 0 {
		c.ReconnectDelay = DefaultReconnectDelay
	}
	if c.InstanceID == "" {
		c.InstanceID = uuid.NewString()
	}
	if c.LeaderTTL == 0 {
		c.LeaderTTL = leadership.DefaultLeaderTTL
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// validate checks the configuration after defaults are applied.
func (c *ClientConfig) validate() error {
	if _, err := ParseRole(string(c.DefaultRole)); err != nil {
		return fmt.Errorf("%w: DefaultRole: %v", ErrInvalidConfig, err)
	}
	if c.ActivityRetention < 0 {
		return fmt.Errorf("%w: ActivityRetention must be positive", ErrInvalidConfig)
	}
	if c.PruneInterval < 0 {
		return fmt.Errorf("%w: PruneInterval must be positive", ErrInvalidConfig)
	}
	if c.ReconnectDelay < 0 {
		return fmt.Errorf("%w: ReconnectDelay must be positive", ErrInvalidConfig)
	}
	if c.LeaderTTL < 0 {
		return fmt.Errorf("%w: LeaderTTL must be positive", ErrInvalidConfig)
	}
	return nil
}
