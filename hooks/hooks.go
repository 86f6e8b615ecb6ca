// Package hooks lets applications observe and veto dashboard mutations.
package hooks

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Mutation kinds.
const (
	KindCreated = "created"
	KindUpdated = "updated"
	KindDeleted = "deleted"
	KindReset   = "reset"
	KindCleared = "cleared"
)

// Entities a mutation applies to.
const (
	EntityUser     = "user"
	EntityProduct  = "product"
	EntityDataset  = "dataset"
	EntitySettings = "settings"
)

// MutationEvent describes one write to the dashboard data
type MutationEvent struct {
	Kind     string
	Entity   string
	EntityID int64 // zero for dataset-wide mutations
	Summary  string
	Role     string
	At       time.Time
}

// BeforeMutationHook is called before a write. Returning an error aborts it.
type BeforeMutationHook func(ctx context.Context, event *MutationEvent) error

// MutationHook is called after a write has been stored
type MutationHook func(ctx context.Context, event MutationEvent) error

// RoleChangeHook is called after the viewer role changed
type RoleChangeHook func(ctx context.Context, from, to string) error

// Registry holds all registered hooks
type Registry struct {
	mu             sync.RWMutex
	beforeMutation []BeforeMutationHook
	mutation       []MutationHook
	roleChange     []RoleChangeHook
}

// NewRegistry creates a new hook registry
func NewRegistry() *Registry {
	return &Registry{}
}

// OnBeforeMutation registers a hook to be called before every write
func (r *Registry) OnBeforeMutation(hook BeforeMutationHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beforeMutation = append(r.beforeMutation, hook)
}

// OnMutation registers a hook to be called after every write
func (r *Registry) OnMutation(hook MutationHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutation = append(r.mutation, hook)
}

// OnRoleChange registers a hook to be called when the role changes
func (r *Registry) OnRoleChange(hook RoleChangeHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roleChange = append(r.roleChange, hook)
}

// TriggerBeforeMutation calls the before-mutation hooks in order and stops
// at the first error.
func (r *Registry) TriggerBeforeMutation(ctx context.Context, event *MutationEvent) error {
	r.mu.RLock()
	hooks := make([]BeforeMutationHook, len(r.beforeMutation))
	copy(hooks, r.beforeMutation)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// TriggerMutation calls every mutation hook and returns their errors joined.
// A failing hook does not prevent the others from running.
func (r *Registry) TriggerMutation(ctx context.Context, event MutationEvent) error {
	r.mu.RLock()
	hooks := make([]MutationHook, len(r.mutation))
	copy(hooks, r.mutation)
	r.mu.RUnlock()

	var errs []error
	for _, hook := range hooks {
		if err := hook(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// TriggerRoleChange calls all registered role-change hooks
func (r *Registry) TriggerRoleChange(ctx context.Context, from, to string) error {
	r.mu.RLock()
	hooks := make([]RoleChangeHook, len(r.roleChange))
	copy(hooks, r.roleChange)
	r.mu.RUnlock()

	var errs []error
	for _, hook := range hooks {
		if err := hook(ctx, from, to); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
