// Package notifier provides a high-level interface for PostgreSQL LISTEN/NOTIFY.
//
// Every dashboard process listens on the data-changed channel so that
// browsers connected to any instance see mutations made through another.
// Without a listener (in-memory storage), notifications are delivered to
// local subscribers directly.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/youssefsiam38/admindash/driver"
)

// EventType represents the type of event.
type EventType string

// Event types that can be subscribed to.
const (
	EventDataChanged EventType = "data_changed"
)

// Change is the payload of EventDataChanged.
type Change struct {
	Kind     string `json:"kind"`
	Entity   string `json:"entity"`
	EntityID int64  `json:"entity_id,omitempty"`
}

// Encode returns the JSON payload for c.
func (c Change) Encode() string {
	b, _ := json.Marshal(c)
	return string(b)
}

// DecodeChange parses an EventDataChanged payload.
func DecodeChange(payload string) (Change, error) {
	var c Change
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return Change{}, fmt.Errorf("invalid change payload: %w", err)
	}
	return c, nil
}

// Event represents a notification event.
type Event struct {
	// Type is the event type.
	Type EventType

	// Payload is the event payload (a JSON-encoded Change for EventDataChanged).
	Payload string

	// ReceivedAt is when the event was received.
	ReceivedAt time.Time
}

// Handler is called when an event is received.
type Handler func(event *Event)

// Config holds configuration for the notifier.
type Config struct {
	// ReconnectDelay is how long to wait before reconnecting after a disconnect.
	// Default: 5 seconds
	ReconnectDelay time.Duration

	// OnError is called when an error occurs.
	OnError func(err error)

	// OnReconnect is called when the listener reconnects.
	OnReconnect func()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ReconnectDelay: 5 * time.Second,
	}
}

// channelToEventType maps PostgreSQL channel names to event types.
var channelToEventType = map[string]EventType{
	driver.ChannelDataChanged: EventDataChanged,
}

// eventTypeToChannel maps event types to PostgreSQL channel names.
var eventTypeToChannel = map[EventType]string{
	EventDataChanged: driver.ChannelDataChanged,
}

// Subscription represents an active subscription to events.
type Subscription struct {
	eventType EventType
	handler   Handler
	id        int64
}

// Notifier provides event notification capabilities.
type Notifier struct {
	getListener func(ctx context.Context) (driver.Listener, error)
	notifier    driver.Notifier
	config      *Config

	mu            sync.RWMutex
	subscriptions map[EventType][]*Subscription
	nextSubID     int64

	started atomic.Bool
	done    chan struct{}
	cancel  context.CancelFunc
}

// NewNotifier creates a new notifier.
// The getListener function returns a new listener instance for receiving notifications.
// The notifier is used for sending notifications.
// If getListener is nil, Notify delivers events to local subscribers.
func NewNotifier(
	getListener func(ctx context.Context) (driver.Listener, error),
	notifier driver.Notifier,
	config *Config,
) *Notifier {
	if config == nil {
		config = DefaultConfig()
	}

	return &Notifier{
		getListener:   getListener,
		notifier:      notifier,
		config:        config,
		subscriptions: make(map[EventType][]*Subscription),
		done:          make(chan struct{}),
	}
}

// Start begins listening for notifications.
// Without a listener this only marks the notifier as running.
func (n *Notifier) Start(ctx context.Context) error {
	if !n.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	n.done = make(chan struct{})
	ctx, n.cancel = context.WithCancel(ctx)
	go n.run(ctx)

	return nil
}

// Stop stops the notifier.
func (n *Notifier) Stop(ctx context.Context) error {
	if !n.started.Load() {
		return ErrNotStarted
	}

	n.cancel()
	<-n.done

	n.started.Store(false)
	return nil
}

// Subscribe registers a handler for the given event type.
// Returns a function to unsubscribe.
func (n *Notifier) Subscribe(eventType EventType, handler Handler) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	sub := &Subscription{
		eventType: eventType,
		handler:   handler,
		id:        n.nextSubID,
	}
	n.nextSubID++

	n.subscriptions[eventType] = append(n.subscriptions[eventType], sub)

	return func() {
		n.unsubscribe(eventType, sub.id)
	}
}

// unsubscribe removes a subscription.
func (n *Notifier) unsubscribe(eventType EventType, id int64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	subs := n.subscriptions[eventType]
	for i, sub := range subs {
		if sub.id == id {
			n.subscriptions[eventType] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
}

// Notify sends a notification. Without a listener the event is also
// dispatched to local subscribers, since it would never come back.
func (n *Notifier) Notify(ctx context.Context, eventType EventType, payload string) error {
	channel, ok := eventTypeToChannel[eventType]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEventType, eventType)
	}

	if n.getListener == nil {
		n.dispatch(&Event{Type: eventType, Payload: payload, ReceivedAt: time.Now()})
		if n.notifier == nil {
			return nil
		}
	}
	if n.notifier == nil {
		return ErrNotifyNotSupported
	}

	return n.notifier.Notify(ctx, channel, payload)
}

// NotifyChange sends EventDataChanged with c as payload.
func (n *Notifier) NotifyChange(ctx context.Context, c Change) error {
	return n.Notify(ctx, EventDataChanged, c.Encode())
}

// run is the main notification loop.
func (n *Notifier) run(ctx context.Context) {
	defer close(n.done)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			if err := n.listenLoop(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				if n.config.OnError != nil {
					n.config.OnError(err)
				}
				// Wait before reconnecting
				select {
				case <-ctx.Done():
					return
				case <-time.After(n.config.ReconnectDelay):
					if n.config.OnReconnect != nil {
						n.config.OnReconnect()
					}
				}
			}
		}
	}
}

// listenLoop creates a listener and processes notifications until an error occurs.
func (n *Notifier) listenLoop(ctx context.Context) error {
	if n.getListener == nil {
		// No listener support, just wait for context cancellation
		<-ctx.Done()
		return ctx.Err()
	}

	listener, err := n.getListener(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = listener.Close(ctx) }()

	// Subscribe to all channels
	for channel := range channelToEventType {
		if err := listener.Listen(ctx, channel); err != nil {
			return err
		}
	}

	// Process notifications
	for {
		notification, err := listener.WaitForNotification(ctx)
		if err != nil {
			return err
		}

		eventType, ok := channelToEventType[notification.Channel]
		if !ok {
			continue
		}

		event := &Event{
			Type:       eventType,
			Payload:    notification.Payload,
			ReceivedAt: time.Now(),
		}

		n.dispatch(event)
	}
}

// dispatch sends an event to all subscribed handlers.
func (n *Notifier) dispatch(event *Event) {
	n.mu.RLock()
	subs := make([]*Subscription, len(n.subscriptions[event.Type]))
	copy(subs, n.subscriptions[event.Type])
	n.mu.RUnlock()

	for _, sub := range subs {
		// Synchronous, in order. Handlers must not block.
		sub.handler(event)
	}
}

// IsRunning returns true if the notifier is running.
func (n *Notifier) IsRunning() bool {
	return n.started.Load()
}
