// Package model defines shared data types used across signaldash.
//
// Conventions:
//   - Prices: float64 rupees (the backend serves floats, not paise)
//   - Timestamps: time.Time, parsed from the backend's ISO 8601 strings
//   - IDs: string for symbols, uuid strings for notification IDs
package model
