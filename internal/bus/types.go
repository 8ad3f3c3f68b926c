package bus

import (
	"encoding/json"
	"time"
)

// Kind identifies a class of events on the bus. Inbound frames carry their
// kind in the "type" field; unknown values pass through untouched so new
// backend event types reach subscribers without a client update.
type Kind string

const (
	// KindConnection is reserved for link status transitions.
	KindConnection Kind = "connection"

	// KindMessage is reserved: every inbound frame is re-dispatched under
	// this kind regardless of its own type.
	KindMessage Kind = "message"

	// Kinds broadcast by the signals backend.
	KindSignalUpdate Kind = "SIGNAL_UPDATE"
	KindNewSignals   Kind = "NEW_SIGNALS"
	KindMarketStatus Kind = "MARKET_STATUS"
	KindPong         Kind = "pong"
)

// Event is one dispatched occurrence.
type Event struct {
	Kind       Kind
	Data       json.RawMessage // kind-specific payload (frame "data" field)
	ReceivedAt time.Time       // local timestamp when the frame arrived
}

// Handler receives dispatched events.
type Handler func(Event)

// ConnectionStatus is the payload for KindConnection events.
type ConnectionStatus struct {
	Status string `json:"status"` // "connected" or "disconnected"
}

const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
)

// SignalUpdate is the payload for KindSignalUpdate events.
type SignalUpdate struct {
	Symbol     string  `json:"symbol"`
	Type       string  `json:"type"` // "BUY", "SELL", or anything else
	Price      float64 `json:"price"`
	Confidence float64 `json:"confidence"`
	Timestamp  string  `json:"timestamp,omitempty"`
}

// NewSignals is the payload for KindNewSignals events, broadcast after a
// background scan saves a batch of fresh signals.
type NewSignals struct {
	Count int `json:"count"`
}
