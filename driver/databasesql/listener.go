package databasesql

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/youssefsiam38/admindash/driver"
)

// ErrListenerClosed is returned by a Listener after Close.
var ErrListenerClosed = errors.New("listener closed")

// Reconnect bounds passed to pq.NewListener.
const (
	minReconnectInterval = 100 * time.Millisecond
	maxReconnectInterval = 10 * time.Second
)

// Listener implements driver.Listener using a lib/pq listener connection.
// pq reconnects on its own and re-issues LISTEN for every channel.
type Listener struct {
	pq *pq.Listener

	mu     sync.Mutex
	closed bool
}

// NewListener opens a listener connection and waits until it is usable.
func NewListener(ctx context.Context, connStr string) (*Listener, error) {
	l := &Listener{
		pq: pq.NewListener(connStr, minReconnectInterval, maxReconnectInterval, nil),
	}
	if err := l.Ping(ctx); err != nil {
		_ = l.pq.Close()
		return nil, err
	}
	return l, nil
}

// Listen subscribes to channel. Subscribing twice is not an error.
func (l *Listener) Listen(ctx context.Context, channel string) error {
	if l.IsClosed() {
		return ErrListenerClosed
	}
	if err := l.pq.Listen(channel); err != nil && !errors.Is(err, pq.ErrChannelAlreadyOpen) {
		return err
	}
	return nil
}

// Unlisten unsubscribes from channel.
func (l *Listener) Unlisten(ctx context.Context, channel string) error {
	if l.IsClosed() {
		return ErrListenerClosed
	}
	if err := l.pq.Unlisten(channel); err != nil && !errors.Is(err, pq.ErrChannelNotOpen) {
		return err
	}
	return nil
}

// UnlistenAll unsubscribes from every channel.
func (l *Listener) UnlistenAll(ctx context.Context) error {
	if l.IsClosed() {
		return ErrListenerClosed
	}
	return l.pq.UnlistenAll()
}

// WaitForNotification blocks until a notification arrives or ctx is done.
// The nil notifications pq emits after a reconnect are skipped.
func (l *Listener) WaitForNotification(ctx context.Context) (*driver.Notification, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case n, ok := <-l.pq.NotificationChannel():
			if !ok {
				return nil, ErrListenerClosed
			}
			if n == nil {
				continue
			}
			return &driver.Notification{Channel: n.Channel, Payload: n.Extra}, nil
		}
	}
}

// Ping checks the listener connection.
func (l *Listener) Ping(ctx context.Context) error {
	if l.IsClosed() {
		return ErrListenerClosed
	}
	done := make(chan error, 1)
	go func() { done <- l.pq.Ping() }()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// Close closes the listener connection.
func (l *Listener) Close(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return l.pq.Close()
}

// IsClosed reports whether Close has been called.
func (l *Listener) IsClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// Notifier implements driver.Notifier using database/sql.
type Notifier struct {
	db *sql.DB
}

// Notify sends a notification on the specified channel.
func (n *Notifier) Notify(ctx context.Context, channel, payload string) error {
	_, err := n.db.ExecContext(ctx, "SELECT pg_notify($1, $2)", channel, payload)
	return err
}

var (
	_ driver.Listener = (*Listener)(nil)
	_ driver.Notifier = (*Notifier)(nil)
)
