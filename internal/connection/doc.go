// Package connection implements the Connection Manager component.
//
// The Connection Manager:
//   - Maintains a single persistent WebSocket connection to the backend
//   - Reconnects after every drop with a fixed delay, indefinitely
//   - Parses inbound frames and dispatches them on the Event Bus
//   - Suppresses the automatic reconnect after an explicit Disconnect
package connection
