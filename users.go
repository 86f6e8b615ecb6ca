package admindash

import (
	"context"
	"fmt"
	"time"

	"github.com/youssefsiam38/admindash/hooks"
)

// ListUsers returns all users ordered by ID.
func (c *Client[TTx]) ListUsers(ctx context.Context) ([]*User, error) {
	users, err := c.store.ListUsers(ctx)
	if err != nil {
		return nil, newError("list", hooks.EntityUser, 0, err)
	}
	return users, nil
}

// GetUser returns the user with the given ID or ErrNotFound.
func (c *Client[TTx]) GetUser(ctx context.Context, id int64) (*User, error) {
	u, err := c.store.GetUser(ctx, id)
	if err != nil {
		return nil, newError("get", hooks.EntityUser, id, err)
	}
	return u, nil
}

// CreateUser adds a user. Its ID is one more than the current maximum and
// its registration date is today.
func (c *Client[TTx]) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	u := &User{}
	in.apply(u)
	u.RegistrationDate = today(c.config.Now())
	if err := validateUser(u); err != nil {
		return nil, newError("create", hooks.EntityUser, 0, err)
	}

	event := &hooks.MutationEvent{Kind: hooks.KindCreated, Entity: hooks.EntityUser}
	err := c.mutate(ctx, "create", event, func(ctx context.Context) error {
		if err := c.store.CreateUser(ctx, u); err != nil {
			return err
		}
		event.EntityID = u.ID
		event.Summary = fmt.Sprintf("added user %s", u.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUser merges in into the stored user. Empty fields are left unchanged.
func (c *Client[TTx]) UpdateUser(ctx context.Context, id int64, in UserInput) (*User, error) {
	var u *User
	event := &hooks.MutationEvent{Kind: hooks.KindUpdated, Entity: hooks.EntityUser, EntityID: id}
	err := c.mutate(ctx, "update", event, func(ctx context.Context) error {
		var err error
		if u, err = c.store.GetUser(ctx, id); err != nil {
			return err
		}
		in.apply(u)
		if err := validateUser(u); err != nil {
			return err
		}
		event.Summary = fmt.Sprintf("updated user %s", u.Name)
		return c.store.UpdateUser(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteUser removes a user.
func (c *Client[TTx]) DeleteUser(ctx context.Context, id int64) error {
	event := &hooks.MutationEvent{Kind: hooks.KindDeleted, Entity: hooks.EntityUser, EntityID: id}
	return c.mutate(ctx, "delete", event, func(ctx context.Context) error {
		u, err := c.store.GetUser(ctx, id)
		if err != nil {
			return err
		}
		event.Summary = fmt.Sprintf("deleted user %s", u.Name)
		return c.store.DeleteUser(ctx, id)
	})
}

func today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
