package pgxv5

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/youssefsiam38/admindash/driver"
)

// ErrListenerClosed is returned by a Listener after Close.
var ErrListenerClosed = errors.New("listener closed")

// Listener implements driver.Listener on a dedicated pool connection.
type Listener struct {
	mu     sync.Mutex
	conn   *pgxpool.Conn
	closed bool
}

// NewListener wraps an acquired connection. Close releases it back to the pool.
func NewListener(conn *pgxpool.Conn) *Listener {
	return &Listener{conn: conn}
}

func (l *Listener) connection() (*pgxpool.Conn, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, ErrListenerClosed
	}
	return l.conn, nil
}

// Listen subscribes to channel.
func (l *Listener) Listen(ctx context.Context, channel string) error {
	conn, err := l.connection()
	if err != nil {
		return err
	}
	_, err = conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize())
	return err
}

// Unlisten unsubscribes from channel.
func (l *Listener) Unlisten(ctx context.Context, channel string) error {
	conn, err := l.connection()
	if err != nil {
		return err
	}
	_, err = conn.Exec(ctx, "UNLISTEN "+pgx.Identifier{channel}.Sanitize())
	return err
}

// UnlistenAll unsubscribes from every channel.
func (l *Listener) UnlistenAll(ctx context.Context) error {
	conn, err := l.connection()
	if err != nil {
		return err
	}
	_, err = conn.Exec(ctx, "UNLISTEN *")
	return err
}

// WaitForNotification blocks until a notification arrives or ctx is done.
func (l *Listener) WaitForNotification(ctx context.Context) (*driver.Notification, error) {
	conn, err := l.connection()
	if err != nil {
		return nil, err
	}
	n, err := conn.Conn().WaitForNotification(ctx)
	if err != nil {
		return nil, err
	}
	return &driver.Notification{Channel: n.Channel, Payload: n.Payload}, nil
}

// Ping checks the connection.
func (l *Listener) Ping(ctx context.Context) error {
	conn, err := l.connection()
	if err != nil {
		return err
	}
	return conn.Ping(ctx)
}

// Close releases the connection. A connection that was listening is
// destroyed rather than returned to the pool so its subscriptions die with it.
func (l *Listener) Close(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true

	raw := l.conn.Hijack()
	l.conn = nil
	return raw.Close(ctx)
}

// IsClosed reports whether Close has been called.
func (l *Listener) IsClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// Notifier implements driver.Notifier with pg_notify on the pool.
type Notifier struct {
	pool *pgxpool.Pool
}

// Notify sends payload on channel.
func (n *Notifier) Notify(ctx context.Context, channel, payload string) error {
	_, err := n.pool.Exec(ctx, "SELECT pg_notify($1, $2)", channel, payload)
	return err
}

var (
	_ driver.Listener = (*Listener)(nil)
	_ driver.Notifier = (*Notifier)(nil)
)
