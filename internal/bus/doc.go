// Package bus implements the Event Bus component.
//
// The Event Bus:
//   - Fans inbound socket events out to registered handlers by kind
//   - Invokes handlers synchronously, in registration order
//   - Isolates handler panics so one bad subscriber cannot starve the rest
//   - Reserves two kinds: "message" (every inbound frame) and
//     "connection" (link status transitions)
package bus
