package notify

import "context"

// Permission is the desktop-notification permission state.
type Permission string

const (
	PermissionDefault Permission = "default" // not yet prompted
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Desktop is the platform notification capability. Implementations must be
// safe to call even when the platform cannot deliver; failures surface as
// errors, never panics.
type Desktop interface {
	// Permission returns the current permission state.
	Permission() Permission

	// RequestPermission prompts the user and resolves to the new state.
	RequestPermission(ctx context.Context) (Permission, error)

	// Notify raises a notification with the given title and body.
	Notify(title, body string) error
}

// UnsupportedDesktop is the no-op implementation for platforms without a
// notification surface. Permission reads as denied so the Center never
// prompts or attempts delivery.
type UnsupportedDesktop struct{}

func (UnsupportedDesktop) Permission() Permission { return PermissionDenied }

func (UnsupportedDesktop) RequestPermission(ctx context.Context) (Permission, error) {
	return PermissionDenied, nil
}

func (UnsupportedDesktop) Notify(title, body string) error { return nil }
