package service

import "errors"

// Service package errors.
var (
	// ErrNotFound indicates a resource was not found.
	ErrNotFound = errors.New("service: not found")

	// ErrUnknownChart indicates a chart name that is not served.
	ErrUnknownChart = errors.New("service: unknown chart")
)
