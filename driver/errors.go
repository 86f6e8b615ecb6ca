package driver

import "errors"

// ErrNotSupported is returned by drivers that cannot perform an operation,
// such as Begin on a driver without transactions.
var ErrNotSupported = errors.New("operation not supported by driver")
