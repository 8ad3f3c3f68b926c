package notify

import "log/slog"

// ToastAction is an optional call-to-action attached to a toast.
type ToastAction struct {
	Label   string
	OnClick func()
}

// Toaster is the transient alert surface. Implementations are fire and
// forget; the Center never consumes a return value.
type Toaster interface {
	Toast(title, description string, action *ToastAction)
}

// LogToaster writes toasts to the log. It is the default surface for a
// headless instance.
type LogToaster struct {
	Logger *slog.Logger
}

func (t LogToaster) Toast(title, description string, action *ToastAction) {
	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("toast", "title", title, "description", description)
}
