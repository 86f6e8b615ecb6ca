package datatable

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every *ConfigurationError.
var ErrConfiguration = errors.New("datatable: invalid configuration")

// ConfigurationError reports an invalid page size or column descriptor.
// It is fatal to the render call.
type ConfigurationError struct {
	Field  string // offending setting, e.g. "PageSize" or "Columns[2].Key"
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrConfiguration, e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrConfiguration.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// validate checks page size and column keys.
func validate(columns []Column, pageSize int) error {
	if pageSize <= 0 {
		return &ConfigurationError{Field: "PageSize", Reason: fmt.Sprintf("must be positive, got %d", pageSize)}
	}
	for i, col := range columns {
		if col.Key == "" {
			return &ConfigurationError{Field: fmt.Sprintf("Columns[%d].Key", i), Reason: "is required"}
		}
	}
	return nil
}
