package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"signaldash/internal/bus"
)

// Errors
var (
	// ErrNotStarted is returned when a Center is used outside its active
	// lifecycle. That always indicates a programming defect in the caller,
	// so it must surface immediately instead of silently returning stale
	// state.
	ErrNotStarted = errors.New("notification center not started")
)

// Center is the notification inbox. It is constructed explicitly and
// passed to consumers; there is no package-level instance. All methods are
// safe for concurrent use.
type Center struct {
	events  *bus.Bus
	toaster Toaster
	desktop Desktop
	logger  *slog.Logger

	mu        sync.Mutex
	started   bool
	prompted  bool // permission requested once this process; never re-prompt
	unsub     func()
	items     []Notification // newest first
}

// Option configures a Center.
type Option func(*Center)

// WithToaster sets the transient alert surface.
func WithToaster(t Toaster) Option {
	return func(c *Center) { c.toaster = t }
}

// WithDesktop sets the desktop notification capability.
func WithDesktop(d Desktop) Option {
	return func(c *Center) { c.desktop = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Center) { c.logger = logger }
}

// NewCenter creates a Center consuming signal updates from events.
func NewCenter(events *bus.Bus, opts ...Option) *Center {
	c := &Center{
		events:  events,
		toaster: LogToaster{},
		desktop: UnsupportedDesktop{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start subscribes to signal updates and, at most once per process, asks
// for desktop-notification permission if it has never been prompted.
// Starting an already started Center is a no-op.
func (c *Center) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = true
	c.unsub = c.events.Subscribe(bus.KindSignalUpdate, c.onSignalUpdate)

	prompt := !c.prompted && c.desktop.Permission() == PermissionDefault
	if prompt {
		c.prompted = true
	}
	c.mu.Unlock()

	if prompt {
		go func() {
			state, err := c.desktop.RequestPermission(ctx)
			if err != nil {
				c.logger.Debug("desktop permission request failed", "error", err)
				return
			}
			c.logger.Info("desktop notification permission", "state", state)
		}()
	}

	return nil
}

// Stop unsubscribes from the bus. Operations on a stopped Center return
// ErrNotStarted.
func (c *Center) Stop() {
	c.mu.Lock()
	unsub := c.unsub
	c.unsub = nil
	c.started = false
	c.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// onSignalUpdate synthesizes a notification from one signal-update event.
func (c *Center) onSignalUpdate(ev bus.Event) {
	var upd bus.SignalUpdate
	if err := json.Unmarshal(ev.Data, &upd); err != nil {
		c.logger.Warn("ignoring malformed signal update", "error", err)
		return
	}
	if upd.Symbol == "" {
		c.logger.Warn("ignoring signal update without symbol")
		return
	}

	n := Notification{
		ID:        uuid.New().String(),
		Kind:      kindForSignal(upd.Type),
		Title:     fmt.Sprintf("New %s Signal: %s", upd.Type, upd.Symbol),
		Message:   fmt.Sprintf("%s triggered at ₹%.2f with %.0f%% confidence.", upd.Symbol, upd.Price, upd.Confidence),
		CreatedAt: time.Now(),
		Read:      false,
	}

	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return
	}
	c.items = append([]Notification{n}, c.items...)
	c.mu.Unlock()

	c.toaster.Toast(n.Title, n.Message, &ToastAction{
		Label:   "View",
		OnClick: func() { c.logger.Debug("toast action", "id", n.ID) },
	})

	// Desktop delivery can touch the network (Telegram adapter); it runs
	// off the dispatch goroutine and must never take the Center down.
	if c.desktop.Permission() == PermissionGranted {
		go c.deliverDesktop(n)
	}
}

func (c *Center) deliverDesktop(n Notification) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("desktop notifier panicked", "panic", r)
		}
	}()

	if err := c.desktop.Notify(n.Title, n.Message); err != nil {
		c.logger.Debug("desktop notification failed", "error", err)
	}
}

// Notifications returns a copy of the inbox, newest first.
func (c *Center) Notifications() ([]Notification, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return nil, ErrNotStarted
	}
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out, nil
}

// UnreadCount returns the number of unread notifications. It is derived
// from the list on every call, never cached.
func (c *Center) UnreadCount() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return 0, ErrNotStarted
	}
	count := 0
	for _, n := range c.items {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

// MarkAsRead marks one notification as read; unknown ids are a no-op.
func (c *Center) MarkAsRead(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return ErrNotStarted
	}
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Read = true
			break
		}
	}
	return nil
}

// MarkAllAsRead marks every notification as read.
func (c *Center) MarkAllAsRead() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return ErrNotStarted
	}
	for i := range c.items {
		c.items[i].Read = true
	}
	return nil
}

// Remove deletes one notification; unknown ids are a no-op.
func (c *Center) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return ErrNotStarted
	}
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	return nil
}
