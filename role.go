package admindash

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/youssefsiam38/admindash/datatable"
	"github.com/youssefsiam38/admindash/hooks"
	"github.com/youssefsiam38/admindash/notifier"
	"github.com/youssefsiam38/admindash/storage"
)

// Role is the viewer role of the dashboard.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// ParseRole parses "admin" or "viewer", ignoring case and surrounding space.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleViewer:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// IsAdmin reports whether r may modify data.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// Permissions returns the table action permissions of a role.
func Permissions(r Role) datatable.Permissions {
	return datatable.Permissions{CanEdit: r.IsAdmin(), CanDelete: r.IsAdmin()}
}

// Role returns the persisted viewer role, or the configured default when
// none has been stored.
func (c *Client[TTx]) Role(ctx context.Context) (Role, error) {
	v, err := c.store.GetSetting(ctx, storage.SettingRole)
	if errors.Is(err, storage.ErrNotFound) {
		return c.config.DefaultRole, nil
	}
	if err != nil {
		return "", newError("get role", hooks.EntitySettings, 0, err)
	}
	r, err := ParseRole(v)
	if err != nil {
		c.config.Logger.Warn("ignoring stored role", "value", v)
		return c.config.DefaultRole, nil
	}
	return r, nil
}

// SetRole persists the viewer role. Switching roles is always allowed.
func (c *Client[TTx]) SetRole(ctx context.Context, r Role) error {
	r, err := ParseRole(string(r))
	if err != nil {
		return newError("set role", hooks.EntitySettings, 0, err)
	}
	from, err := c.Role(ctx)
	if err != nil {
		return err
	}
	if err := c.store.SetSetting(ctx, storage.SettingRole, string(r)); err != nil {
		return newError("set role", hooks.EntitySettings, 0, err)
	}
	if from == r {
		return nil
	}

	if err := c.hooks.TriggerRoleChange(ctx, string(from), string(r)); err != nil {
		c.config.Logger.Warn("role change hook failed", "error", err)
	}
	c.notify(ctx, notifier.Change{Kind: hooks.KindUpdated, Entity: hooks.EntitySettings})
	return nil
}
