// Package sqlstore implements storage.Store on top of a driver.Executor.
//
// The SQL is written once for PostgreSQL and shared by every driver; a
// driver supplies its executor and a predicate recognizing its "no rows"
// error.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/youssefsiam38/admindash/driver"
	"github.com/youssefsiam38/admindash/storage"
)

// Store implements storage.Store using SQL through a driver.Executor.
type Store struct {
	exec     driver.Executor
	isNoRows func(error) bool
}

// New returns a Store running queries on exec. isNoRows reports whether an
// error returned by Row.Scan means the query matched nothing.
func New(exec driver.Executor, isNoRows func(error) bool) *Store {
	return &Store{exec: exec, isNoRows: isNoRows}
}

var _ storage.Store = (*Store)(nil)

// Migrate applies storage.Schema.
func Migrate(ctx context.Context, exec driver.Executor) error {
	if _, err := exec.Exec(ctx, storage.Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// getExecutor returns the executor from context if present, otherwise the default pool executor.
func (s *Store) getExecutor(ctx context.Context) driver.Executor {
	if exec := driver.ExecutorFromContext(ctx); exec != nil {
		return exec
	}
	return s.exec
}

func (s *Store) notFound(err error, what string, id any) error {
	if s.isNoRows(err) {
		return fmt.Errorf("%s %v: %w", what, id, storage.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s %v: %w", what, id, err)
}

const userColumns = `id, name, email, role, status, registration_date`

func scanUser(row driver.Row) (*storage.User, error) {
	u := &storage.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Status, &u.RegistrationDate); err != nil {
		return nil, err
	}
	return u, nil
}

// ListUsers returns all users ordered by id.
func (s *Store) ListUsers(ctx context.Context) ([]*storage.User, error) {
	rows, err := s.getExecutor(ctx).Query(ctx, `SELECT `+userColumns+` FROM admindash_users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*storage.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetUser retrieves a user by id.
func (s *Store) GetUser(ctx context.Context, id int64) (*storage.User, error) {
	u, err := scanUser(s.getExecutor(ctx).QueryRow(ctx,
		`SELECT `+userColumns+` FROM admindash_users WHERE id = $1`, id))
	if err != nil {
		return nil, s.notFound(err, "user", id)
	}
	return u, nil
}

// CreateUser inserts u with the next free id and stores it in u.ID.
func (s *Store) CreateUser(ctx context.Context, u *storage.User) error {
	query := `
		INSERT INTO admindash_users (id, name, email, role, status, registration_date)
		SELECT COALESCE(MAX(id), 0) + 1, $1::text, $2::text, $3::text, $4::text, $5::date
		FROM admindash_users
		RETURNING id
	`
	err := s.getExecutor(ctx).QueryRow(ctx, query, u.Name, u.Email, u.Role, u.Status, u.RegistrationDate).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateUser overwrites every column of the user with u.ID.
func (s *Store) UpdateUser(ctx context.Context, u *storage.User) error {
	query := `
		UPDATE admindash_users
		SET name = $2, email = $3, role = $4, status = $5, registration_date = $6
		WHERE id = $1
	`
	n, err := s.getExecutor(ctx).Exec(ctx, query, u.ID, u.Name, u.Email, u.Role, u.Status, u.RegistrationDate)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", u.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteUser removes a user by id.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	n, err := s.getExecutor(ctx).Exec(ctx, `DELETE FROM admindash_users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", id, storage.ErrNotFound)
	}
	return nil
}

const productColumns = `id, name, category, description, price, stock, status`

func scanProduct(row driver.Row) (*storage.Product, error) {
	p := &storage.Product{}
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.Price, &p.Stock, &p.Status); err != nil {
		return nil, err
	}
	return p, nil
}

// ListProducts returns all products ordered by id.
func (s *Store) ListProducts(ctx context.Context) ([]*storage.Product, error) {
	rows, err := s.getExecutor(ctx).Query(ctx, `SELECT `+productColumns+` FROM admindash_products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*storage.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProduct retrieves a product by id.
func (s *Store) GetProduct(ctx context.Context, id int64) (*storage.Product, error) {
	p, err := scanProduct(s.getExecutor(ctx).QueryRow(ctx,
		`SELECT `+productColumns+` FROM admindash_products WHERE id = $1`, id))
	if err != nil {
		return nil, s.notFound(err, "product", id)
	}
	return p, nil
}

// CreateProduct inserts p with the next free id and stores it in p.ID.
func (s *Store) CreateProduct(ctx context.Context, p *storage.Product) error {
	query := `
		INSERT INTO admindash_products (id, name, category, description, price, stock, status)
		SELECT COALESCE(MAX(id), 0) + 1, $1::text, $2::text, $3::text, $4::double precision, $5::integer, $6::text
		FROM admindash_products
		RETURNING id
	`
	err := s.getExecutor(ctx).QueryRow(ctx, query, p.Name, p.Category, p.Description, p.Price, p.Stock, p.Status).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// UpdateProduct overwrites every column of the product with p.ID.
func (s *Store) UpdateProduct(ctx context.Context, p *storage.Product) error {
	query := `
		UPDATE admindash_products
		SET name = $2, category = $3, description = $4, price = $5, stock = $6, status = $7
		WHERE id = $1
	`
	n, err := s.getExecutor(ctx).Exec(ctx, query, p.ID, p.Name, p.Category, p.Description, p.Price, p.Stock, p.Status)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("product %d: %w", p.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteProduct removes a product by id.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	n, err := s.getExecutor(ctx).Exec(ctx, `DELETE FROM admindash_products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("product %d: %w", id, storage.ErrNotFound)
	}
	return nil
}

// ReplaceAll deletes both collections and inserts users and products in a
// single transaction (a savepoint when ctx already carries one).
func (s *Store) ReplaceAll(ctx context.Context, users []*storage.User, products []*storage.Product) (err error) {
	tx, err := s.getExecutor(ctx).Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	items := []driver.BatchItem{
		{Query: `DELETE FROM admindash_users`},
		{Query: `DELETE FROM admindash_products`},
	}
	for _, u := range users {
		items = append(items, driver.BatchItem{
			Query: `INSERT INTO admindash_users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`,
			Args:  []any{u.ID, u.Name, u.Email, u.Role, u.Status, u.RegistrationDate},
		})
	}
	for _, p := range products {
		items = append(items, driver.BatchItem{
			Query: `INSERT INTO admindash_products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			Args:  []any{p.ID, p.Name, p.Category, p.Description, p.Price, p.Stock, p.Status},
		})
	}

	if err = execBatch(ctx, tx, items); err != nil {
		return fmt.Errorf("failed to replace data: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// execBatch uses native batching when the executor supports it.
func execBatch(ctx context.Context, exec driver.Executor, items []driver.BatchItem) error {
	if b, ok := exec.(driver.BatchExecutor); ok {
		_, err := b.SendBatch(ctx, items)
		return err
	}
	for _, item := range items {
		if _, err := exec.Exec(ctx, item.Query, item.Args...); err != nil {
			return err
		}
	}
	return nil
}

// GetSetting returns the value stored under key.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.getExecutor(ctx).QueryRow(ctx, `SELECT value FROM admindash_settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		return "", s.notFound(err, "setting", key)
	}
	return value, nil
}

// SetSetting stores value under key.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO admindash_settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := s.getExecutor(ctx).Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set setting %q: %w", key, err)
	}
	return nil
}

// RecordActivity inserts e, assigning an id and timestamp when unset.
func (s *Store) RecordActivity(ctx context.Context, e *storage.ActivityEvent) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO admindash_activity (id, kind, entity, entity_id, summary, created_at)
		VALUES ($1::uuid, $2, $3, $4, $5, $6)
	`
	_, err := s.getExecutor(ctx).Exec(ctx, query, e.ID.String(), e.Kind, e.Entity, e.EntityID, e.Summary, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// ListActivity returns up to limit events, newest first. limit <= 0 means all.
func (s *Store) ListActivity(ctx context.Context, limit int) ([]*storage.ActivityEvent, error) {
	query := `
		SELECT id::text, kind, entity, entity_id, summary, created_at
		FROM admindash_activity
		ORDER BY created_at DESC
		LIMIT NULLIF($1::integer, 0)
	`
	rows, err := s.getExecutor(ctx).Query(ctx, query, max(limit, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var events []*storage.ActivityEvent
	for rows.Next() {
		var (
			e  storage.ActivityEvent
			id string
		)
		if err := rows.Scan(&id, &e.Kind, &e.Entity, &e.EntityID, &e.Summary, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid activity id %q: %w", id, err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

// PruneActivity deletes events created before the cutoff.
func (s *Store) PruneActivity(ctx context.Context, before time.Time) (int64, error) {
	n, err := s.getExecutor(ctx).Exec(ctx, `DELETE FROM admindash_activity WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune activity: %w", err)
	}
	return n, nil
}

// UpsertMetric inserts or replaces the value of p.Metric for p.Period.
func (s *Store) UpsertMetric(ctx context.Context, p *storage.MetricPoint) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	query := `
		INSERT INTO admindash_metrics (metric, period, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (metric, period) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	if _, err := s.getExecutor(ctx).Exec(ctx, query, p.Metric, p.Period, p.Value, p.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert metric %s/%s: %w", p.Metric, p.Period, err)
	}
	return nil
}

// ListMetrics returns the latest limit periods of metric, oldest first.
func (s *Store) ListMetrics(ctx context.Context, metric string, limit int) ([]*storage.MetricPoint, error) {
	query := `
		SELECT metric, period, value, updated_at FROM (
			SELECT metric, period, value, updated_at
			FROM admindash_metrics
			WHERE metric = $1
			ORDER BY period DESC
			LIMIT NULLIF($2::integer, 0)
		) latest
		ORDER BY period ASC
	`
	rows, err := s.getExecutor(ctx).Query(ctx, query, metric, max(limit, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}
	defer rows.Close()

	var points []*storage.MetricPoint
	for rows.Next() {
		var p storage.MetricPoint
		if err := rows.Scan(&p.Metric, &p.Period, &p.Value, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan metric: %w", err)
		}
		points = append(points, &p)
	}
	return points, rows.Err()
}

// =============================================================================
// Leader lease
// =============================================================================

const leaseName = "default"

func leaseWindow(params *storage.LeaderElectParams) (time.Time, time.Time) {
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	return now, now.Add(params.TTL)
}

// LeaderAttemptElect inserts the lease or takes over an expired one.
func (s *Store) LeaderAttemptElect(ctx context.Context, params *storage.LeaderElectParams) (bool, error) {
	now, expiresAt := leaseWindow(params)
	query := `
		INSERT INTO admindash_leader (name, leader_id, elected_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE
		SET leader_id = EXCLUDED.leader_id, elected_at = EXCLUDED.elected_at, expires_at = EXCLUDED.expires_at
		WHERE admindash_leader.expires_at < EXCLUDED.elected_at
	`
	n, err := s.getExecutor(ctx).Exec(ctx, query, leaseName, params.LeaderID, now, expiresAt)
	if err != nil {
		return false, fmt.Errorf("failed to attempt election: %w", err)
	}
	return n > 0, nil
}

// LeaderAttemptReelect extends the lease held by params.LeaderID.
func (s *Store) LeaderAttemptReelect(ctx context.Context, params *storage.LeaderElectParams) (bool, error) {
	_, expiresAt := leaseWindow(params)
	query := `UPDATE admindash_leader SET expires_at = $3 WHERE name = $1 AND leader_id = $2`
	n, err := s.getExecutor(ctx).Exec(ctx, query, leaseName, params.LeaderID, expiresAt)
	if err != nil {
		return false, fmt.Errorf("failed to attempt reelection: %w", err)
	}
	return n > 0, nil
}

// LeaderResign releases the lease if leaderID holds it.
func (s *Store) LeaderResign(ctx context.Context, leaderID string) error {
	query := `DELETE FROM admindash_leader WHERE name = $1 AND leader_id = $2`
	if _, err := s.getExecutor(ctx).Exec(ctx, query, leaseName, leaderID); err != nil {
		return fmt.Errorf("failed to resign leadership: %w", err)
	}
	return nil
}

// IsNoRows reports whether err wraps target, for drivers whose no-rows
// error is a plain sentinel.
func IsNoRows(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}
