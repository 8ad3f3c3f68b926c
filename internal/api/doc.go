// Package api provides the REST client for the signal backend.
//
// Endpoint groups:
//   - /api/stocks    quotes, candles, technical indicators
//   - /api/signals   generated trading signals
//   - /api/backtest  asynchronous backtest runs
//   - /api/market    session status and index quotes
//
// Most endpoints wrap their payload in a {"success": bool, "data": ...}
// envelope; the backtest group serves its payloads bare.
package api
