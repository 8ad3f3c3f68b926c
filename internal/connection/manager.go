package connection

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"signaldash/internal/bus"
)

// Connection status payloads dispatched under bus.KindConnection.
var (
	connectedStatus    = json.RawMessage(`{"status":"connected"}`)
	disconnectedStatus = json.RawMessage(`{"status":"disconnected"}`)
)

// Manager owns the single persistent connection to the backend. It parses
// inbound frames, dispatches them on the Event Bus, and keeps the link
// alive with a fixed-delay reconnect loop that never gives up. Only an
// explicit Disconnect suppresses the retry, and only for that one drop.
type Manager struct {
	cfg    ManagerConfig
	events *bus.Bus
	logger *slog.Logger

	mu          sync.Mutex
	state       LinkState
	client      *Client
	intentional bool        // Disconnect() called; swallow the next reconnect
	pending     *time.Timer // scheduled reconnect, nil when none
}

// NewManager creates a Connection Manager publishing to events.
func NewManager(cfg ManagerConfig, events *bus.Bus, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		cfg:    cfg,
		events: events,
		logger: logger,
	}
}

// Connect opens the connection. It is idempotent: while a connection is
// open or in the process of opening, the call is a no-op. Control returns
// immediately; the handshake and read loop run on their own goroutine.
func (m *Manager) Connect() {
	m.mu.Lock()
	if m.state != StateDisconnected {
		m.mu.Unlock()
		return
	}
	m.state = StateConnecting
	c := NewClient(m.cfg.clientConfig(), m.logger)
	m.client = c
	m.mu.Unlock()

	m.logger.Info("connecting", "url", m.cfg.URL)
	go m.run(c)
}

// Disconnect closes the current connection, if any, and cancels any pending
// reconnect. The close path still emits the disconnected event; the
// intentional-close flag suppresses the reconnect that would normally
// follow it.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	c := m.client
	if m.pending != nil {
		m.pending.Stop()
		m.pending = nil
	}
	if c == nil {
		m.mu.Unlock()
		return
	}
	m.intentional = true
	m.mu.Unlock()

	c.Close()
}

// Send serializes v as JSON and transmits it. When not connected it logs a
// warning and returns ErrNotConnected; it never queues, blocks on the
// network beyond the write deadline, or panics.
func (m *Manager) Send(v any) error {
	m.mu.Lock()
	c := m.client
	connected := m.state == StateConnected
	m.mu.Unlock()

	if !connected || c == nil {
		m.logger.Warn("not connected, cannot send message")
		return ErrNotConnected
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Send(data)
}

// State returns the current link state.
func (m *Manager) State() LinkState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsConnected reports whether the link is currently up.
func (m *Manager) IsConnected() bool {
	return m.State() == StateConnected
}

// run dials one connection and pumps it until it drops.
func (m *Manager) run(c *Client) {
	if err := c.Connect(context.Background()); err != nil {
		m.logger.Warn("connect failed", "url", m.cfg.URL, "error", err)
		m.handleDown(c)
		return
	}

	m.mu.Lock()
	if m.client != c {
		// Disconnect() raced the handshake; this connection is orphaned.
		m.mu.Unlock()
		c.Close()
		return
	}
	m.state = StateConnected
	m.mu.Unlock()

	m.logger.Info("connected", "url", m.cfg.URL)
	m.events.Dispatch(bus.Event{
		Kind:       bus.KindConnection,
		Data:       connectedStatus,
		ReceivedAt: time.Now(),
	})

	for {
		select {
		case err := <-c.Errors():
			m.logger.Warn("connection error", "error", err)
			c.Close()
			m.handleDown(c)
			return

		case msg, ok := <-c.Messages():
			if !ok {
				m.handleDown(c)
				return
			}
			m.handleFrame(msg)
		}
	}
}

// handleFrame parses one inbound frame and dispatches it. Frames that fail
// to parse are logged and dropped; they never affect the connection.
func (m *Manager) handleFrame(msg TimestampedMessage) {
	var env frameEnvelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		m.logger.Warn("dropping unparseable frame", "error", err)
		return
	}

	if env.Type != "" {
		// The data field carries the kind-specific payload; frames that
		// put their payload at the top level (NEW_SIGNALS, pong) dispatch
		// the whole frame instead.
		payload := env.Data
		if len(payload) == 0 {
			payload = msg.Data
		}
		m.events.Dispatch(bus.Event{
			Kind:       bus.Kind(env.Type),
			Data:       payload,
			ReceivedAt: msg.ReceivedAt,
		})
	}

	// Reserved catch-all kind sees every frame with its full envelope.
	m.events.Dispatch(bus.Event{
		Kind:       bus.KindMessage,
		Data:       msg.Data,
		ReceivedAt: msg.ReceivedAt,
	})
}

// handleDown runs exactly once per connection: it emits the disconnected
// event and schedules one reconnect after the fixed delay, unless this
// drop came from an explicit Disconnect.
func (m *Manager) handleDown(c *Client) {
	m.mu.Lock()
	if m.client != c {
		m.mu.Unlock()
		return
	}
	m.client = nil
	m.state = StateDisconnected
	intentional := m.intentional
	m.intentional = false
	m.mu.Unlock()

	m.events.Dispatch(bus.Event{
		Kind:       bus.KindConnection,
		Data:       disconnectedStatus,
		ReceivedAt: time.Now(),
	})

	if intentional {
		m.logger.Info("disconnected by request")
		return
	}

	m.logger.Info("disconnected, reconnecting", "delay", m.cfg.ReconnectDelay)

	m.mu.Lock()
	m.pending = time.AfterFunc(m.cfg.ReconnectDelay, func() {
		m.mu.Lock()
		m.pending = nil
		m.mu.Unlock()
		m.Connect()
	})
	m.mu.Unlock()
}
