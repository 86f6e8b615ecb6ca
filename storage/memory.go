package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store in process memory. It is safe for
// concurrent use and is mostly useful for tests and demos.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[int64]*User
	products map[int64]*Product
	settings map[string]string
	activity []*ActivityEvent
	metrics  map[string]map[string]*MetricPoint

	leaderID      string
	leaderExpires time.Time

	now func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[int64]*User),
		products: make(map[int64]*Product),
		settings: make(map[string]string),
		metrics:  make(map[string]map[string]*MetricPoint),
		now:      time.Now,
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) ListUsers(_ context.Context) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*User, 0, len(s.users))
	for _, u := range s.users {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetUser(_ context.Context, id int64) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	c := *u
	return &c, nil
}

func (s *MemoryStore) CreateUser(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var next int64
	for id := range s.users {
		next = max(next, id)
	}
	u.ID = next + 1
	c := *u
	s.users[u.ID] = &c
	return nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return fmt.Errorf("user %d: %w", u.ID, ErrNotFound)
	}
	c := *u
	s.users[u.ID] = &c
	return nil
}

func (s *MemoryStore) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	delete(s.users, id)
	return nil
}

func (s *MemoryStore) ListProducts(_ context.Context) ([]*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Product, 0, len(s.products))
	for _, p := range s.products {
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id int64) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	c := *p
	return &c, nil
}

func (s *MemoryStore) CreateProduct(_ context.Context, p *Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var next int64
	for id := range s.products {
		next = max(next, id)
	}
	p.ID = next + 1
	c := *p
	s.products[p.ID] = &c
	return nil
}

func (s *MemoryStore) UpdateProduct(_ context.Context, p *Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return fmt.Errorf("product %d: %w", p.ID, ErrNotFound)
	}
	c := *p
	s.products[p.ID] = &c
	return nil
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryStore) ReplaceAll(_ context.Context, users []*User, products []*Product) error {
	nu := make(map[int64]*User, len(users))
	for _, u := range users {
		if _, dup := nu[u.ID]; dup {
			return fmt.Errorf("duplicate user id %d", u.ID)
		}
		c := *u
		nu[u.ID] = &c
	}
	np := make(map[int64]*Product, len(products))
	for _, p := range products {
		if _, dup := np[p.ID]; dup {
			return fmt.Errorf("duplicate product id %d", p.ID)
		}
		c := *p
		np[p.ID] = &c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = nu
	s.products = np
	return nil
}

func (s *MemoryStore) GetSetting(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.settings[key]
	if !ok {
		return "", fmt.Errorf("setting %q: %w", key, ErrNotFound)
	}
	return v, nil
}

func (s *MemoryStore) SetSetting(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
	return nil
}

func (s *MemoryStore) RecordActivity(_ context.Context, e *ActivityEvent) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	c := *e

	s.mu.Lock()
	defer s.mu.Unlock()
	s.activity = append(s.activity, &c)
	return nil
}

func (s *MemoryStore) ListActivity(_ context.Context, limit int) ([]*ActivityEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*ActivityEvent, 0, len(s.activity))
	for _, e := range s.activity {
		c := *e
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) PruneActivity(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.activity[:0]
	var n int64
	for _, e := range s.activity {
		if e.CreatedAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, e)
	}
	s.activity = kept
	return n, nil
}

func (s *MemoryStore) UpsertMetric(_ context.Context, p *MetricPoint) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = s.now()
	}
	c := *p

	s.mu.Lock()
	defer s.mu.Unlock()
	series, ok := s.metrics[p.Metric]
	if !ok {
		series = make(map[string]*MetricPoint)
		s.metrics[p.Metric] = series
	}
	series[p.Period] = &c
	return nil
}

func (s *MemoryStore) ListMetrics(_ context.Context, metric string, limit int) ([]*MetricPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	series := s.metrics[metric]
	out := make([]*MetricPoint, 0, len(series))
	for _, p := range series {
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (s *MemoryStore) LeaderAttemptElect(_ context.Context, params *LeaderElectParams) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.leaderID != "" && params.Now.Before(s.leaderExpires) {
		return false, nil
	}
	s.leaderID = params.LeaderID
	s.leaderExpires = params.Now.Add(params.TTL)
	return true, nil
}

func (s *MemoryStore) LeaderAttemptReelect(_ context.Context, params *LeaderElectParams) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.leaderID != params.LeaderID {
		return false, nil
	}
	s.leaderExpires = params.Now.Add(params.TTL)
	return true, nil
}

func (s *MemoryStore) LeaderResign(_ context.Context, leaderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.leaderID == leaderID {
		s.leaderID = ""
		s.leaderExpires = time.Time{}
	}
	return nil
}
