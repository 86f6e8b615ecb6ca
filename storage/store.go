package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Setting keys.
const (
	SettingRole = "role"
)

// Metric names.
const (
	MetricRevenue    = "revenue"
	MetricUserGrowth = "user_growth"
)

// PeriodLayout is the time layout of MetricPoint.Period.
const PeriodLayout = "2006-01"

// Store defines the persistence interface for the dashboard
type Store interface {
	// User operations
	ListUsers(ctx context.Context) ([]*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	// CreateUser assigns u.ID as one more than the current maximum.
	CreateUser(ctx context.Context, u *User) error
	UpdateUser(ctx context.Context, u *User) error
	DeleteUser(ctx context.Context, id int64) error

	// Product operations
	ListProducts(ctx context.Context) ([]*Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	CreateProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id int64) error

	// ReplaceAll atomically swaps both collections, keeping the given IDs.
	ReplaceAll(ctx context.Context, users []*User, products []*Product) error

	// Settings
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error

	// Activity feed
	RecordActivity(ctx context.Context, e *ActivityEvent) error
	// ListActivity returns the newest events first.
	ListActivity(ctx context.Context, limit int) ([]*ActivityEvent, error)
	PruneActivity(ctx context.Context, before time.Time) (int64, error)

	// Metric series
	UpsertMetric(ctx context.Context, p *MetricPoint) error
	// ListMetrics returns the latest limit periods of a metric, oldest first.
	ListMetrics(ctx context.Context, metric string, limit int) ([]*MetricPoint, error)

	// Leader lease
	// LeaderAttemptElect takes the lease if nobody holds it or it has expired.
	LeaderAttemptElect(ctx context.Context, params *LeaderElectParams) (bool, error)
	// LeaderAttemptReelect extends the lease if params.LeaderID still holds it.
	LeaderAttemptReelect(ctx context.Context, params *LeaderElectParams) (bool, error)
	LeaderResign(ctx context.Context, leaderID string) error
}

// LeaderElectParams describes a lease request.
type LeaderElectParams struct {
	LeaderID string
	TTL      time.Duration
	Now      time.Time
}

// User is a dashboard account
type User struct {
	ID               int64     `json:"id" yaml:"id"`
	Name             string    `json:"name" yaml:"name"`
	Email            string    `json:"email" yaml:"email"`
	Role             string    `json:"role" yaml:"role"`
	Status           string    `json:"status" yaml:"status"`
	RegistrationDate time.Time `json:"registration_date" yaml:"registration_date"`
}

// Product is a catalog entry
type Product struct {
	ID          int64   `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Category    string  `json:"category" yaml:"category"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Price       float64 `json:"price" yaml:"price"`
	Stock       int     `json:"stock" yaml:"stock"`
	Status      string  `json:"status" yaml:"status"`
}

// ActivityEvent is one entry of the recent activity feed
type ActivityEvent struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Entity    string    `json:"entity"`
	EntityID  int64     `json:"entity_id,omitempty"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// MetricPoint is the value of a metric for one calendar month
type MetricPoint struct {
	Metric    string    `json:"metric" yaml:"metric"`
	Period    string    `json:"period" yaml:"period"` // YYYY-MM
	Value     float64   `json:"value" yaml:"value"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// Period formats t as a MetricPoint period.
func Period(t time.Time) string {
	return t.Format(PeriodLayout)
}
