package admindash

import (
	"context"

	"github.com/youssefsiam38/admindash/hooks"
)

// ResetData replaces all users and products with the fixture data set and
// restores the fixture metric history.
func (c *Client[TTx]) ResetData(ctx context.Context) error {
	f := NewFixture(c.config.Now())
	event := &hooks.MutationEvent{
		Kind:    hooks.KindReset,
		Entity:  hooks.EntityDataset,
		Summary: "reset data to defaults",
	}
	return c.mutate(ctx, "reset", event, func(ctx context.Context) error {
		if err := c.store.ReplaceAll(ctx, f.Users, f.Products); err != nil {
			return err
		}
		for _, p := range f.Metrics {
			if err := c.store.UpsertMetric(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

// ClearAllData deletes every user and product. Metric history is kept.
func (c *Client[TTx]) ClearAllData(ctx context.Context) error {
	event := &hooks.MutationEvent{
		Kind:    hooks.KindCleared,
		Entity:  hooks.EntityDataset,
		Summary: "cleared all data",
	}
	return c.mutate(ctx, "clear", event, func(ctx context.Context) error {
		return c.store.ReplaceAll(ctx, nil, nil)
	})
}
