package bus

import (
	"log/slog"
	"reflect"
	"sync"
)

// Stats provides counters about bus activity.
type Stats struct {
	Dispatched    int64
	HandlerPanics int64
	Subscriptions int
}

// registration pairs a handler with a stable identity so it can be removed
// later. Go functions are not comparable, so removal goes through the id
// rather than the handler value itself.
type registration struct {
	id uint64
	fn Handler
}

// Bus is a typed publish/subscribe event bus. The zero value is not usable;
// create one with New. All methods are safe for concurrent use, and
// Subscribe/unsubscribe may be called from inside a handler during dispatch.
type Bus struct {
	logger *slog.Logger

	mu       sync.Mutex
	handlers map[Kind][]registration
	nextID   uint64

	dispatched    int64
	handlerPanics int64
}

// New creates an empty Bus.
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		logger:   logger,
		handlers: make(map[Kind][]registration),
	}
}

// Subscribe registers fn to receive every event dispatched under kind,
// after any handlers already registered for that kind. The same function
// may be registered more than once; each registration is invoked.
//
// The returned function removes exactly this registration. It is idempotent
// and safe to call during a dispatch that includes the handler (the
// in-progress dispatch still completes, later dispatches skip it).
func (b *Bus) Subscribe(kind Kind, fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[kind] = append(b.handlers[kind], registration{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.unsubscribe(kind, id)
	}
}

// Unsubscribe removes the first registration of fn under kind; no-op when
// fn is not registered there. A handler registered more than once needs one
// call per registration. Function values are compared by code pointer, so
// distinct closures built from the same literal are indistinguishable; when
// that matters, remove via the capability returned by Subscribe instead.
func (b *Bus) Unsubscribe(kind Kind, fn Handler) {
	ptr := reflect.ValueOf(fn).Pointer()

	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[kind]
	for i, reg := range regs {
		if reflect.ValueOf(reg.fn).Pointer() == ptr {
			b.handlers[kind] = append(regs[:i:i], regs[i+1:]...)
			break
		}
	}
	if len(b.handlers[kind]) == 0 {
		delete(b.handlers, kind)
	}
}

// unsubscribe removes a single registration; no-op if already removed.
func (b *Bus) unsubscribe(kind Kind, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[kind]
	for i, reg := range regs {
		if reg.id == id {
			b.handlers[kind] = append(regs[:i:i], regs[i+1:]...)
			break
		}
	}
	if len(b.handlers[kind]) == 0 {
		delete(b.handlers, kind)
	}
}

// Dispatch invokes every handler currently registered for ev.Kind,
// synchronously on the calling goroutine, in registration order.
// Dispatching a kind with no subscribers is a no-op.
//
// Handlers run against a snapshot of the registry taken at dispatch start:
// a handler that unsubscribes itself (or a sibling) does not disturb the
// iteration in progress.
func (b *Bus) Dispatch(ev Event) {
	b.mu.Lock()
	regs := b.handlers[ev.Kind]
	snapshot := make([]registration, len(regs))
	copy(snapshot, regs)
	b.dispatched++
	b.mu.Unlock()

	for _, reg := range snapshot {
		b.invoke(reg, ev)
	}
}

// invoke runs one handler, containing any panic so later handlers in the
// same dispatch still run.
func (b *Bus) invoke(reg registration, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.mu.Lock()
			b.handlerPanics++
			b.mu.Unlock()
			b.logger.Error("event handler panicked",
				"kind", ev.Kind,
				"panic", r,
			)
		}
	}()
	reg.fn(ev)
}

// Stats returns current counters.
func (b *Bus) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := 0
	for _, regs := range b.handlers {
		subs += len(regs)
	}
	return Stats{
		Dispatched:    b.dispatched,
		HandlerPanics: b.handlerPanics,
		Subscriptions: subs,
	}
}
