package notify

import "time"

// Kind classifies a notification for display.
type Kind string

const (
	KindBuy  Kind = "BUY"
	KindSell Kind = "SELL"
	KindHold Kind = "HOLD"
	KindInfo Kind = "info"
)

// kindForSignal maps an upstream signal type to a notification kind.
// Anything that is not an explicit BUY or SELL renders as info.
func kindForSignal(signalType string) Kind {
	switch signalType {
	case "BUY":
		return KindBuy
	case "SELL":
		return KindSell
	default:
		return KindInfo
	}
}

// Notification is one entry in the inbox.
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	Read      bool      `json:"read"`
}
