package driver

import "context"

// Notification represents a PostgreSQL NOTIFY notification.
type Notification struct {
	// Channel is the notification channel name.
	Channel string

	// Payload is the notification payload (may be empty).
	Payload string
}

// Listener provides PostgreSQL LISTEN/NOTIFY functionality.
// pgx/v5 holds a dedicated pool connection; database/sql uses a
// lib/pq listener with its own connection.
type Listener interface {
	// Listen starts listening on the specified channel.
	// Multiple channels can be listened to simultaneously.
	// Returns an error if the listener is not connected.
	Listen(ctx context.Context, channel string) error

	// Unlisten stops listening on the specified channel.
	// Returns an error if the listener is not connected.
	Unlisten(ctx context.Context, channel string) error

	// UnlistenAll stops listening on all channels.
	// Returns an error if the listener is not connected.
	UnlistenAll(ctx context.Context) error

	// WaitForNotification waits for a notification on any subscribed channel.
	// The context can be used to cancel the wait.
	// Returns a Notification on success, or an error if:
	//   - The context is cancelled
	//   - The connection is lost
	//   - The listener is closed
	WaitForNotification(ctx context.Context) (*Notification, error)

	// Ping checks if the listener connection is healthy.
	Ping(ctx context.Context) error

	// Close closes the listener connection.
	// After closing, the listener cannot be used.
	Close(ctx context.Context) error

	// IsClosed returns true if the listener has been closed.
	IsClosed() bool
}

// Notifier provides the ability to send NOTIFY notifications.
// NOTIFY is plain SQL, so any pooled connection can send it.
type Notifier interface {
	// Notify sends a notification on the specified channel with an optional payload.
	// The notification is sent immediately (not queued for transaction commit).
	Notify(ctx context.Context, channel, payload string) error
}

// Notification channel names used by admindash.
const (
	// ChannelDataChanged is notified after every committed mutation.
	// Payload contains JSON: {"kind": "...", "entity": "...", "entity_id": N}
	ChannelDataChanged = "admindash_data_changed"
)
