package admindash

import (
	"context"
	"errors"
	"fmt"

	"github.com/youssefsiam38/admindash/driver"
	"github.com/youssefsiam38/admindash/hooks"
	"github.com/youssefsiam38/admindash/notifier"
	"github.com/youssefsiam38/admindash/storage"
)

// mutate runs one write: it checks the viewer role, runs the before hooks,
// applies the write and its activity event in a transaction, then runs the
// after hooks and announces the change. apply may fill in event.EntityID
// and event.Summary.
func (c *Client[TTx]) mutate(ctx context.Context, op string, event *hooks.MutationEvent, apply func(ctx context.Context) error) error {
	role, err := c.Role(ctx)
	if err != nil {
		return err
	}
	if !role.IsAdmin() {
		return newError(op, event.Entity, event.EntityID, ErrPermissionDenied)
	}
	event.Role = string(role)
	event.At = c.config.Now()

	if err := c.hooks.TriggerBeforeMutation(ctx, event); err != nil {
		return newError(op, event.Entity, event.EntityID, err)
	}

	err = c.inTx(ctx, func(ctx context.Context) error {
		if err := apply(ctx); err != nil {
			return err
		}
		return c.store.RecordActivity(ctx, &storage.ActivityEvent{
			Kind:      event.Kind,
			Entity:    event.Entity,
			EntityID:  event.EntityID,
			Summary:   event.Summary,
			CreatedAt: event.At,
		})
	})
	if err != nil {
		return newError(op, event.Entity, event.EntityID, err)
	}

	if err := c.hooks.TriggerMutation(ctx, *event); err != nil {
		c.config.Logger.Warn("mutation hook failed", "op", op, "error", err)
	}
	c.notify(ctx, notifier.Change{Kind: event.Kind, Entity: event.Entity, EntityID: event.EntityID})
	return nil
}

// inTx runs fn in a transaction unless ctx already carries one or the
// driver has no transactions.
func (c *Client[TTx]) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if driver.ExecutorFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := c.driver.Begin(ctx)
	if errors.Is(err, driver.ErrNotSupported) {
		return fn(ctx)
	}
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(driver.WithExecutor(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			c.config.Logger.Warn("rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
