package notify

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"signaldash/internal/bus"
)

// recordingToaster captures toasts for assertions.
type recordingToaster struct {
	mu     sync.Mutex
	toasts []string
}

func (r *recordingToaster) Toast(title, description string, action *ToastAction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, title)
}

func (r *recordingToaster) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.toasts)
}

// fakeDesktop is a controllable Desktop implementation.
type fakeDesktop struct {
	mu        sync.Mutex
	perm      Permission
	requests  int
	delivered []string
}

func (f *fakeDesktop) Permission() Permission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.perm
}

func (f *fakeDesktop) RequestPermission(ctx context.Context) (Permission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
	f.perm = PermissionGranted
	return f.perm, nil
}

func (f *fakeDesktop) Notify(title, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delivered = append(f.delivered, title)
	return nil
}

func (f *fakeDesktop) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *fakeDesktop) deliveredCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.delivered)
}

func signalEvent(symbol, sigType string, price, confidence float64) bus.Event {
	payload, _ := json.Marshal(bus.SignalUpdate{
		Symbol:     symbol,
		Type:       sigType,
		Price:      price,
		Confidence: confidence,
	})
	return bus.Event{
		Kind:       bus.KindSignalUpdate,
		Data:       payload,
		ReceivedAt: time.Now(),
	}
}

func startedCenter(t *testing.T, opts ...Option) (*Center, *bus.Bus) {
	t.Helper()
	b := bus.New(nil)
	c := NewCenter(b, opts...)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(c.Stop)
	return c, b
}

func mustUnread(t *testing.T, c *Center) int {
	t.Helper()
	n, err := c.UnreadCount()
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	return n
}

func mustList(t *testing.T, c *Center) []Notification {
	t.Helper()
	items, err := c.Notifications()
	if err != nil {
		t.Fatalf("Notifications failed: %v", err)
	}
	return items
}

func TestCenter_SignalUpdateCreatesNotification(t *testing.T) {
	toaster := &recordingToaster{}
	c, b := startedCenter(t, WithToaster(toaster))

	b.Dispatch(signalEvent("RELIANCE", "BUY", 2876.50, 87))

	items := mustList(t, c)
	if len(items) != 1 {
		t.Fatalf("notifications = %d, want 1", len(items))
	}

	n := items[0]
	if n.Kind != KindBuy {
		t.Errorf("Kind = %q, want BUY", n.Kind)
	}
	if n.Read {
		t.Error("new notification must be unread")
	}
	if n.Title != "New BUY Signal: RELIANCE" {
		t.Errorf("Title = %q", n.Title)
	}
	if n.Message != "RELIANCE triggered at ₹2876.50 with 87% confidence." {
		t.Errorf("Message = %q", n.Message)
	}
	if n.ID == "" {
		t.Error("ID must be set")
	}

	if got := mustUnread(t, c); got != 1 {
		t.Errorf("UnreadCount = %d, want 1", got)
	}
	if toaster.count() != 1 {
		t.Errorf("toasts = %d, want 1", toaster.count())
	}
}

func TestCenter_KindMapping(t *testing.T) {
	tests := []struct {
		sigType string
		want    Kind
	}{
		{"BUY", KindBuy},
		{"SELL", KindSell},
		{"HOLD", KindInfo},
		{"REBALANCE", KindInfo},
	}

	for _, tt := range tests {
		c, b := startedCenter(t)
		b.Dispatch(signalEvent("TCS", tt.sigType, 100, 50))

		items := mustList(t, c)
		if len(items) != 1 {
			t.Fatalf("%s: notifications = %d, want 1", tt.sigType, len(items))
		}
		if items[0].Kind != tt.want {
			t.Errorf("%s: Kind = %q, want %q", tt.sigType, items[0].Kind, tt.want)
		}
	}
}

func TestCenter_NewestFirst(t *testing.T) {
	c, b := startedCenter(t)

	b.Dispatch(signalEvent("TCS", "BUY", 100, 60))
	b.Dispatch(signalEvent("INFY", "SELL", 200, 70))

	items := mustList(t, c)
	if len(items) != 2 {
		t.Fatalf("notifications = %d, want 2", len(items))
	}
	if items[0].Title != "New SELL Signal: INFY" {
		t.Errorf("newest entry = %q, want the INFY signal", items[0].Title)
	}
	if items[1].Title != "New BUY Signal: TCS" {
		t.Errorf("oldest entry = %q, want the TCS signal", items[1].Title)
	}
}

func TestCenter_UniqueIDs(t *testing.T) {
	c, b := startedCenter(t)

	for i := 0; i < 50; i++ {
		b.Dispatch(signalEvent("TCS", "BUY", 100, 60))
	}

	seen := make(map[string]bool)
	for _, n := range mustList(t, c) {
		if seen[n.ID] {
			t.Fatalf("duplicate notification id %q", n.ID)
		}
		seen[n.ID] = true
	}
}

func TestCenter_MarkAsRead(t *testing.T) {
	c, b := startedCenter(t)
	b.Dispatch(signalEvent("TCS", "BUY", 100, 60))
	b.Dispatch(signalEvent("INFY", "SELL", 200, 70))

	items := mustList(t, c)
	if err := c.MarkAsRead(items[0].ID); err != nil {
		t.Fatalf("MarkAsRead failed: %v", err)
	}

	if got := mustUnread(t, c); got != 1 {
		t.Errorf("UnreadCount = %d, want 1", got)
	}

	// Unknown id is a no-op.
	if err := c.MarkAsRead("no-such-id"); err != nil {
		t.Fatalf("MarkAsRead(unknown) failed: %v", err)
	}
	if got := mustUnread(t, c); got != 1 {
		t.Errorf("UnreadCount after unknown id = %d, want 1", got)
	}
}

func TestCenter_MarkAllAsRead(t *testing.T) {
	c, b := startedCenter(t)
	for i := 0; i < 5; i++ {
		b.Dispatch(signalEvent("TCS", "BUY", 100, 60))
	}
	items := mustList(t, c)
	c.MarkAsRead(items[2].ID)

	if err := c.MarkAllAsRead(); err != nil {
		t.Fatalf("MarkAllAsRead failed: %v", err)
	}

	if got := mustUnread(t, c); got != 0 {
		t.Errorf("UnreadCount = %d, want 0", got)
	}
	if got := len(mustList(t, c)); got != 5 {
		t.Errorf("total = %d, want 5 (mark-all must not remove)", got)
	}
}

func TestCenter_Remove(t *testing.T) {
	c, b := startedCenter(t)
	b.Dispatch(signalEvent("TCS", "BUY", 100, 60))
	b.Dispatch(signalEvent("INFY", "SELL", 200, 70))

	items := mustList(t, c)
	if err := c.Remove(items[0].ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if got := len(mustList(t, c)); got != 1 {
		t.Errorf("total = %d, want 1", got)
	}
	if got := mustUnread(t, c); got != 1 {
		t.Errorf("UnreadCount = %d, want 1", got)
	}

	// Unknown id leaves the store unchanged.
	if err := c.Remove("no-such-id"); err != nil {
		t.Fatalf("Remove(unknown) failed: %v", err)
	}
	if got := len(mustList(t, c)); got != 1 {
		t.Errorf("total after unknown id = %d, want 1", got)
	}
}

func TestCenter_RoundTripLeavesNoTrace(t *testing.T) {
	c, b := startedCenter(t)
	b.Dispatch(signalEvent("TCS", "BUY", 100, 60))

	items := mustList(t, c)
	id := items[0].ID

	if err := c.MarkAsRead(id); err != nil {
		t.Fatalf("MarkAsRead failed: %v", err)
	}
	if err := c.Remove(id); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if got := len(mustList(t, c)); got != 0 {
		t.Errorf("total = %d, want 0", got)
	}
	if got := mustUnread(t, c); got != 0 {
		t.Errorf("UnreadCount = %d, want 0", got)
	}
}

func TestCenter_MalformedPayloadIgnored(t *testing.T) {
	c, b := startedCenter(t)

	b.Dispatch(bus.Event{
		Kind:       bus.KindSignalUpdate,
		Data:       json.RawMessage(`"not an object"`),
		ReceivedAt: time.Now(),
	})

	if got := len(mustList(t, c)); got != 0 {
		t.Errorf("total = %d, want 0", got)
	}
}

func TestCenter_NotStartedFailsLoudly(t *testing.T) {
	b := bus.New(nil)
	c := NewCenter(b)

	if _, err := c.Notifications(); err != ErrNotStarted {
		t.Errorf("Notifications = %v, want ErrNotStarted", err)
	}
	if _, err := c.UnreadCount(); err != ErrNotStarted {
		t.Errorf("UnreadCount = %v, want ErrNotStarted", err)
	}
	if err := c.MarkAsRead("x"); err != ErrNotStarted {
		t.Errorf("MarkAsRead = %v, want ErrNotStarted", err)
	}
	if err := c.MarkAllAsRead(); err != ErrNotStarted {
		t.Errorf("MarkAllAsRead = %v, want ErrNotStarted", err)
	}
	if err := c.Remove("x"); err != ErrNotStarted {
		t.Errorf("Remove = %v, want ErrNotStarted", err)
	}
}

func TestCenter_StopDetachesFromBus(t *testing.T) {
	b := bus.New(nil)
	c := NewCenter(b)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	b.Dispatch(signalEvent("TCS", "BUY", 100, 60))
	c.Stop()
	b.Dispatch(signalEvent("INFY", "SELL", 200, 70))

	if _, err := c.Notifications(); err != ErrNotStarted {
		t.Errorf("Notifications after Stop = %v, want ErrNotStarted", err)
	}
}

func TestCenter_PermissionRequestedOnce(t *testing.T) {
	desk := &fakeDesktop{perm: PermissionDefault}
	b := bus.New(nil)
	c := NewCenter(b, WithDesktop(desk))

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// The request runs asynchronously.
	deadline := time.Now().Add(time.Second)
	for desk.requestCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := desk.requestCount(); got != 1 {
		t.Fatalf("permission requests = %d, want 1", got)
	}

	// Restarting the same Center must not re-prompt.
	c.Stop()
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("re-Start failed: %v", err)
	}
	defer c.Stop()
	time.Sleep(50 * time.Millisecond)

	if got := desk.requestCount(); got != 1 {
		t.Errorf("permission requests after restart = %d, want 1", got)
	}
}

func TestCenter_DesktopDeliveryWhenGranted(t *testing.T) {
	desk := &fakeDesktop{perm: PermissionGranted}
	c, b := startedCenter(t, WithDesktop(desk))
	_ = c

	b.Dispatch(signalEvent("TCS", "BUY", 100, 60))

	deadline := time.Now().Add(time.Second)
	for desk.deliveredCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := desk.deliveredCount(); got != 1 {
		t.Errorf("desktop deliveries = %d, want 1", got)
	}
}

func TestCenter_DesktopSkippedWhenDenied(t *testing.T) {
	desk := &fakeDesktop{perm: PermissionDenied}
	toaster := &recordingToaster{}
	c, b := startedCenter(t, WithDesktop(desk), WithToaster(toaster))

	b.Dispatch(signalEvent("TCS", "BUY", 100, 60))
	time.Sleep(50 * time.Millisecond)

	if got := desk.deliveredCount(); got != 0 {
		t.Errorf("desktop deliveries = %d, want 0", got)
	}
	// The toast and the state mutation still happen.
	if toaster.count() != 1 {
		t.Errorf("toasts = %d, want 1", toaster.count())
	}
	if got := len(mustList(t, c)); got != 1 {
		t.Errorf("total = %d, want 1", got)
	}
}
