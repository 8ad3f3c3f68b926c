// Package notify implements the Notification Center component.
//
// The Notification Center:
//   - Subscribes to signal-update events on the Event Bus
//   - Keeps an in-memory, newest-first list of notifications
//   - Derives the unread count from the list on every read
//   - Surfaces each new alert as a toast and, when permitted, a desktop
//     notification (best effort, never fatal)
package notify
