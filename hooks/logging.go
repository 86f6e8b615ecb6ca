package hooks

import "context"

// Logger is the subset of *slog.Logger used by LoggingHooks.
type Logger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
}

// LoggingHooks provides built-in logging hooks for observability
type LoggingHooks struct {
	logger Logger
}

// NewLoggingHooks creates logging hooks with the provided logger
func NewLoggingHooks(logger Logger) *LoggingHooks {
	return &LoggingHooks{logger: logger}
}

// Mutation logs a stored write
func (h *LoggingHooks) Mutation(ctx context.Context, event MutationEvent) error {
	args := []any{"kind", event.Kind, "entity", event.Entity}
	if event.EntityID != 0 {
		args = append(args, "id", event.EntityID)
	}
	if event.Role != "" {
		args = append(args, "role", event.Role)
	}
	h.logger.Info("dashboard data changed: "+event.Summary, args...)
	return nil
}

// RoleChange logs a role switch
func (h *LoggingHooks) RoleChange(ctx context.Context, from, to string) error {
	h.logger.Info("dashboard role changed", "from", from, "to", to)
	return nil
}

// Register adds the logging hooks to a registry
func (h *LoggingHooks) Register(r *Registry) {
	r.OnMutation(h.Mutation)
	r.OnRoleChange(h.RoleChange)
}
