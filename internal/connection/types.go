package connection

import (
	"encoding/json"
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale (no ping)")
	ErrAlreadyClosed   = errors.New("already closed")
)

// LinkState is the current state of the managed connection.
type LinkState int32

const (
	StateDisconnected LinkState = iota
	StateConnecting
	StateConnected
)

func (s LinkState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	}
	return "unknown"
}

// TimestampedMessage wraps raw frame data with a receive timestamp.
type TimestampedMessage struct {
	Data       []byte    // Raw frame bytes from the WebSocket
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// frameEnvelope is the inbound wire shape: {"type": ..., "data": ...}.
// Fields beyond these two are kind-specific and left to subscribers.
type frameEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ClientConfig configures a WebSocket client.
type ClientConfig struct {
	URL          string        // WebSocket URL (e.g., ws://localhost:8000/ws)
	PingInterval time.Duration // Keepalive ping cadence
	PingTimeout  time.Duration // Max time without ping/pong before considering connection stale
	WriteTimeout time.Duration // Write deadline for sends
	BufferSize   int           // Message channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		PingInterval: 30 * time.Second,
		PingTimeout:  90 * time.Second,
		WriteTimeout: 5 * time.Second,
		BufferSize:   256,
	}
}

// ManagerConfig configures the Connection Manager.
type ManagerConfig struct {
	URL            string        // WebSocket URL
	ReconnectDelay time.Duration // Fixed wait between a drop and the retry
	PingInterval   time.Duration
	PingTimeout    time.Duration
	WriteTimeout   time.Duration
	BufferSize     int
}

// DefaultManagerConfig returns sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		ReconnectDelay: 3 * time.Second,
		PingInterval:   30 * time.Second,
		PingTimeout:    90 * time.Second,
		WriteTimeout:   5 * time.Second,
		BufferSize:     256,
	}
}

func (cfg ManagerConfig) clientConfig() ClientConfig {
	return ClientConfig{
		URL:          cfg.URL,
		PingInterval: cfg.PingInterval,
		PingTimeout:  cfg.PingTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BufferSize:   cfg.BufferSize,
	}
}
