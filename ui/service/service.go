package service

import (
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/youssefsiam38/admindash"
)

// DefaultPageSize is the number of table rows per page.
const DefaultPageSize = 10

// Config holds service configuration.
type Config struct {
	// PageSize is the number of table rows per page.
	// Defaults to 10.
	PageSize int
}

// Service provides admin UI operations.
// The TTx type parameter represents the native transaction type
// from the driver (e.g., pgx.Tx or *sql.Tx).
type Service[TTx any] struct {
	client   *admindash.Client[TTx]
	pageSize int
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// New creates a new Service on top of client.
func New[TTx any](client *admindash.Client[TTx], cfg *Config) *Service[TTx] {
	pageSize := DefaultPageSize
	if cfg != nil && cfg.PageSize > 0 {
		pageSize = cfg.PageSize
	}
	return &Service[TTx]{
		client:   client,
		pageSize: pageSize,
		markdown: goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Linkify)),
		policy:   bluemonday.UGCPolicy(),
	}
}

// Client returns the underlying client.
// This is useful for writes, which the service does not wrap.
func (s *Service[TTx]) Client() *admindash.Client[TTx] {
	return s.client
}

// PageSize returns the configured table page size.
func (s *Service[TTx]) PageSize() int {
	return s.pageSize
}
