package ui

import (
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultRefreshInterval = 5 * time.Second
	DefaultPageSize        = 10
	MaxPageSize            = 100
)

// Config holds UI package configuration.
type Config struct {
	// BasePath is the URL prefix where the UI is mounted.
	// For example, if mounted at "/admin/", set BasePath to "/admin".
	// All navigation links will be prefixed with this path.
	// Defaults to empty string (root mount).
	BasePath string

	// ReadOnly disables write operations (forms, deletes, role changes,
	// data reset). Useful for monitoring-only deployments.
	ReadOnly bool

	// Logger for structured logging.
	// If nil, logging is disabled.
	Logger Logger

	// RefreshInterval for dashboard auto-refresh.
	// Defaults to 5 seconds.
	RefreshInterval time.Duration

	// PageSize is the number of table rows per page.
	// Defaults to 10.
	PageSize int
}

// Logger interface for structured logging.
// Compatible with admindash.Logger and *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		RefreshInterval: DefaultRefreshInterval,
		PageSize:        DefaultPageSize,
	}
}

// applyDefaults fills in default values for zero-valued fields.
func (c *Config) applyDefaults() {
	if c.RefreshInterval == 0 {
		c.RefreshInterval = DefaultRefreshInterval
	}
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	c.BasePath = strings.TrimRight(c.BasePath, "/")
}

// validate checks the configuration for errors.
func (c *Config) validate() error {
	if c.PageSize < 1 || c.PageSize > MaxPageSize {
		return ErrInvalidConfig
	}
	if c.RefreshInterval < time.Second {
		return ErrInvalidConfig
	}
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		return ErrInvalidConfig
	}
	return nil
}
