package notifier

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/youssefsiam38/admindash/driver"
)

// mockNotifier implements driver.Notifier for testing.
type mockNotifier struct {
	notifications []struct {
		channel string
		payload string
	}
	mu        sync.Mutex
	notifyErr error
}

func (m *mockNotifier) Notify(ctx context.Context, channel, payload string) error {
	if m.notifyErr != nil {
		return m.notifyErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, struct {
		channel string
		payload string
	}{channel, payload})
	return nil
}

// mockListener implements driver.Listener for testing.
type mockListener struct {
	notifications chan *driver.Notification
	closed        atomic.Bool
	listenErr     error
	closeErr      error
}

func newMockListener() *mockListener {
	return &mockListener{
		notifications: make(chan *driver.Notification, 10),
	}
}

func (m *mockListener) Listen(ctx context.Context, channel string) error {
	return m.listenErr
}

func (m *mockListener) Unlisten(ctx context.Context, channel string) error {
	return nil
}

func (m *mockListener) UnlistenAll(ctx context.Context) error {
	return nil
}

func (m *mockListener) WaitForNotification(ctx context.Context) (*driver.Notification, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case n := <-m.notifications:
		return n, nil
	}
}

func (m *mockListener) Ping(ctx context.Context) error {
	return nil
}

func (m *mockListener) Close(ctx context.Context) error {
	m.closed.Store(true)
	return m.closeErr
}

func (m *mockListener) IsClosed() bool {
	return m.closed.Load()
}

func TestNotifier_StartStop(t *testing.T) {
	n := NewNotifier(nil, nil, nil)

	ctx := context.Background()

	// Start should succeed
	if err := n.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if !n.IsRunning() {
		t.Error("Expected notifier to be running")
	}

	// Second start should fail
	if err := n.Start(ctx); err != ErrAlreadyStarted {
		t.Fatalf("Start() error = %v, want %v", err, ErrAlreadyStarted)
	}

	// Stop should succeed
	if err := n.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	if n.IsRunning() {
		t.Error("Expected notifier to not be running")
	}
}

func TestNotifier_StopNotStarted(t *testing.T) {
	n := NewNotifier(nil, nil, nil)

	if err := n.Stop(context.Background()); err != ErrNotStarted {
		t.Fatalf("Stop() error = %v, want %v", err, ErrNotStarted)
	}
}

func TestNotifier_Subscribe(t *testing.T) {
	listener := newMockListener()
	getListener := func(ctx context.Context) (driver.Listener, error) {
		return listener, nil
	}

	n := NewNotifier(getListener, nil, nil)

	var receivedEvents []*Event
	var mu sync.Mutex

	unsubscribe := n.Subscribe(EventDataChanged, func(event *Event) {
		mu.Lock()
		receivedEvents = append(receivedEvents, event)
		mu.Unlock()
	})

	ctx := context.Background()
	if err := n.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Give time for listener to start
	time.Sleep(50 * time.Millisecond)

	// Send a notification
	listener.notifications <- &driver.Notification{
		Channel: driver.ChannelDataChanged,
		Payload: `{"kind":"created","entity":"user","entity_id":1}`,
	}

	// Wait for delivery
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	if len(receivedEvents) != 1 {
		t.Errorf("Received %d events, want 1", len(receivedEvents))
	} else {
		if receivedEvents[0].Type != EventDataChanged {
			t.Errorf("Event type = %v, want %v", receivedEvents[0].Type, EventDataChanged)
		}
		change, err := DecodeChange(receivedEvents[0].Payload)
		if err != nil {
			t.Fatalf("DecodeChange() error = %v", err)
		}
		if change != (Change{Kind: "created", Entity: "user", EntityID: 1}) {
			t.Errorf("Change = %+v", change)
		}
	}
	mu.Unlock()

	// Unsubscribe
	unsubscribe()

	// Send another notification
	listener.notifications <- &driver.Notification{
		Channel: driver.ChannelDataChanged,
		Payload: `{"kind":"deleted","entity":"user","entity_id":1}`,
	}

	// Wait for potential delivery
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	if len(receivedEvents) != 1 {
		t.Errorf("Received %d events after unsubscribe, want 1", len(receivedEvents))
	}
	mu.Unlock()

	if err := n.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}

func TestNotifier_Notify(t *testing.T) {
	mock := &mockNotifier{}
	n := NewNotifier(nil, mock, nil)

	ctx := context.Background()

	if err := n.Notify(ctx, EventDataChanged, `{"kind":"created","entity":"user","entity_id":1}`); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	mock.mu.Lock()
	if len(mock.notifications) != 1 {
		t.Errorf("Sent %d notifications, want 1", len(mock.notifications))
	} else {
		if mock.notifications[0].channel != driver.ChannelDataChanged {
			t.Errorf("Channel = %v, want %v", mock.notifications[0].channel, driver.ChannelDataChanged)
		}
		if mock.notifications[0].payload != `{"kind":"created","entity":"user","entity_id":1}` {
			t.Errorf("Payload = %v", mock.notifications[0].payload)
		}
	}
	mock.mu.Unlock()
}

func TestNotifier_NotifyNotSupported(t *testing.T) {
	getListener := func(ctx context.Context) (driver.Listener, error) {
		return newMockListener(), nil
	}
	n := NewNotifier(getListener, nil, nil)

	err := n.Notify(context.Background(), EventDataChanged, "{}")
	if err != ErrNotifyNotSupported {
		t.Errorf("Notify() error = %v, want %v", err, ErrNotifyNotSupported)
	}
}

func TestNotifier_LocalDelivery(t *testing.T) {
	n := NewNotifier(nil, nil, nil)

	var got []Change
	n.Subscribe(EventDataChanged, func(event *Event) {
		c, err := DecodeChange(event.Payload)
		if err != nil {
			t.Errorf("DecodeChange() error = %v", err)
		}
		got = append(got, c)
	})

	want := Change{Kind: "reset", Entity: "dataset"}
	if err := n.NotifyChange(context.Background(), want); err != nil {
		t.Fatalf("NotifyChange() error = %v", err)
	}
	if len(got) != 1 || got[0] != want {
		t.Errorf("delivered %+v, want [%+v]", got, want)
	}
}

func TestNotifier_Restart(t *testing.T) {
	n := NewNotifier(nil, nil, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := n.Start(ctx); err != nil {
			t.Fatalf("Start() #%d error = %v", i, err)
		}
		if err := n.Stop(ctx); err != nil {
			t.Fatalf("Stop() #%d error = %v", i, err)
		}
	}
}

func TestNotifier_Reconnect(t *testing.T) {
	var attempts atomic.Int32
	listener := newMockListener()
	getListener := func(ctx context.Context) (driver.Listener, error) {
		if attempts.Add(1) == 1 {
			return nil, errors.New("connection refused")
		}
		return listener, nil
	}

	var errCount, reconnects atomic.Int32
	n := NewNotifier(getListener, nil, &Config{
		ReconnectDelay: 10 * time.Millisecond,
		OnError:        func(error) { errCount.Add(1) },
		OnReconnect:    func() { reconnects.Add(1) },
	})

	delivered := make(chan *Event, 1)
	n.Subscribe(EventDataChanged, func(event *Event) { delivered <- event })

	ctx := context.Background()
	if err := n.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer n.Stop(ctx)

	listener.notifications <- &driver.Notification{Channel: driver.ChannelDataChanged, Payload: "{}"}

	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("notification not delivered after reconnect")
	}
	if errCount.Load() != 1 {
		t.Errorf("OnError called %d times, want 1", errCount.Load())
	}
	if reconnects.Load() != 1 {
		t.Errorf("OnReconnect called %d times, want 1", reconnects.Load())
	}
}

func TestNotifier_IgnoresUnknownChannels(t *testing.T) {
	listener := newMockListener()
	n := NewNotifier(func(ctx context.Context) (driver.Listener, error) { return listener, nil }, nil, nil)

	var count atomic.Int32
	n.Subscribe(EventDataChanged, func(*Event) { count.Add(1) })

	ctx := context.Background()
	if err := n.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	listener.notifications <- &driver.Notification{Channel: "some_other_channel", Payload: "x"}
	listener.notifications <- &driver.Notification{Channel: driver.ChannelDataChanged, Payload: "{}"}
	time.Sleep(50 * time.Millisecond)

	if err := n.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if count.Load() != 1 {
		t.Errorf("handler called %d times, want 1", count.Load())
	}
	if !listener.IsClosed() {
		t.Error("expected listener to be closed after Stop")
	}
}

func TestNotifier_UnknownEventType(t *testing.T) {
	mock := &mockNotifier{}
	n := NewNotifier(nil, mock, nil)

	err := n.Notify(context.Background(), EventType("unknown"), "payload")
	if !errors.Is(err, ErrUnknownEventType) {
		t.Errorf("Notify() error = %v, want %v", err, ErrUnknownEventType)
	}
}

func TestNotifier_MultipleSubscribers(t *testing.T) {
	listener := newMockListener()
	getListener := func(ctx context.Context) (driver.Listener, error) {
		return listener, nil
	}

	n := NewNotifier(getListener, nil, nil)

	var count1, count2 atomic.Int32

	n.Subscribe(EventDataChanged, func(event *Event) {
		count1.Add(1)
	})

	n.Subscribe(EventDataChanged, func(event *Event) {
		count2.Add(1)
	})

	ctx := context.Background()
	if err := n.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Give time for listener to start
	time.Sleep(50 * time.Millisecond)

	// Send a notification
	listener.notifications <- &driver.Notification{
		Channel: driver.ChannelDataChanged,
		Payload: `{"kind":"created","entity":"user","entity_id":1}`,
	}

	// Wait for delivery
	time.Sleep(50 * time.Millisecond)

	if count1.Load() != 1 {
		t.Errorf("Handler 1 called %d times, want 1", count1.Load())
	}

	if count2.Load() != 1 {
		t.Errorf("Handler 2 called %d times, want 1", count2.Load())
	}

	if err := n.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.ReconnectDelay != 5*time.Second {
		t.Errorf("ReconnectDelay = %v, want 5s", config.ReconnectDelay)
	}
}
