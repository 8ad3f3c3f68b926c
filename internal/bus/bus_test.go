package bus

import (
	"encoding/json"
	"testing"
	"time"
)

func testEvent(kind Kind, payload string) Event {
	return Event{
		Kind:       kind,
		Data:       json.RawMessage(payload),
		ReceivedAt: time.Now(),
	}
}

func TestBus_SubscribeDispatch(t *testing.T) {
	b := New(nil)

	var got []Event
	b.Subscribe(KindSignalUpdate, func(ev Event) {
		got = append(got, ev)
	})

	ev := testEvent(KindSignalUpdate, `{"symbol":"TCS"}`)
	b.Dispatch(ev)

	if len(got) != 1 {
		t.Fatalf("handler invoked %d times, want 1", len(got))
	}
	if string(got[0].Data) != `{"symbol":"TCS"}` {
		t.Errorf("Data = %s, want original payload", got[0].Data)
	}
	if got[0].Kind != KindSignalUpdate {
		t.Errorf("Kind = %q, want %q", got[0].Kind, KindSignalUpdate)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	b := New(nil)

	calls := 0
	unsub := b.Subscribe(KindMessage, func(Event) { calls++ })

	b.Dispatch(testEvent(KindMessage, `{}`))
	unsub()
	b.Dispatch(testEvent(KindMessage, `{}`))

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}

	// Idempotent: a second call must not panic or remove anything else.
	unsub()
	unsub()
}

func TestBus_UnsubscribeByHandler(t *testing.T) {
	b := New(nil)

	calls := 0
	fn := func(Event) { calls++ }
	other := 0
	b.Subscribe(KindMessage, fn)
	b.Subscribe(KindMessage, func(Event) { other++ })

	b.Dispatch(testEvent(KindMessage, `{}`))
	b.Unsubscribe(KindMessage, fn)
	b.Dispatch(testEvent(KindMessage, `{}`))

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if other != 2 {
		t.Errorf("sibling calls = %d, want 2", other)
	}
}

func TestBus_UnsubscribeByHandlerAbsent(t *testing.T) {
	b := New(nil)

	calls := 0
	b.Subscribe(KindMessage, func(Event) { calls++ })

	// Neither an unregistered handler nor an unknown kind removes anything.
	b.Unsubscribe(KindMessage, func(Event) {})
	b.Unsubscribe(KindPong, func(Event) {})

	b.Dispatch(testEvent(KindMessage, `{}`))
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestBus_UnsubscribeByHandlerRemovesOneRegistration(t *testing.T) {
	b := New(nil)

	calls := 0
	fn := func(Event) { calls++ }
	b.Subscribe(KindMessage, fn)
	b.Subscribe(KindMessage, fn)

	b.Unsubscribe(KindMessage, fn)
	b.Dispatch(testEvent(KindMessage, `{}`))

	if calls != 1 {
		t.Errorf("calls = %d, want 1 (one of two registrations removed)", calls)
	}
}

func TestBus_DispatchNoSubscribers(t *testing.T) {
	b := New(nil)
	// Must not panic.
	b.Dispatch(testEvent(KindPong, `{}`))
}

func TestBus_RegistrationOrder(t *testing.T) {
	b := New(nil)

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		b.Subscribe(KindMessage, func(Event) { order = append(order, i) })
	}

	b.Dispatch(testEvent(KindMessage, `{}`))

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("invocation order = %v, want [1 2 3]", order)
	}
}

func TestBus_DuplicateHandlerInvokedTwice(t *testing.T) {
	b := New(nil)

	calls := 0
	fn := func(Event) { calls++ }
	b.Subscribe(KindMessage, fn)
	b.Subscribe(KindMessage, fn)

	b.Dispatch(testEvent(KindMessage, `{}`))

	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestBus_PanickingHandlerDoesNotStarveSiblings(t *testing.T) {
	b := New(nil)

	b.Subscribe(KindSignalUpdate, func(Event) { panic("boom") })

	laterCalled := false
	b.Subscribe(KindSignalUpdate, func(Event) { laterCalled = true })

	b.Dispatch(testEvent(KindSignalUpdate, `{}`))

	if !laterCalled {
		t.Error("later-registered handler not invoked after sibling panic")
	}
	if got := b.Stats().HandlerPanics; got != 1 {
		t.Errorf("HandlerPanics = %d, want 1", got)
	}
}

func TestBus_UnsubscribeSelfDuringDispatch(t *testing.T) {
	b := New(nil)

	calls := 0
	var unsub func()
	unsub = b.Subscribe(KindMessage, func(Event) {
		calls++
		unsub()
	})

	after := 0
	b.Subscribe(KindMessage, func(Event) { after++ })

	b.Dispatch(testEvent(KindMessage, `{}`))
	b.Dispatch(testEvent(KindMessage, `{}`))

	if calls != 1 {
		t.Errorf("self-unsubscribing handler calls = %d, want 1", calls)
	}
	if after != 2 {
		t.Errorf("sibling calls = %d, want 2", after)
	}
}

func TestBus_SubscribeDuringDispatchNotInvokedThisDispatch(t *testing.T) {
	b := New(nil)

	lateCalls := 0
	b.Subscribe(KindMessage, func(Event) {
		b.Subscribe(KindMessage, func(Event) { lateCalls++ })
	})

	b.Dispatch(testEvent(KindMessage, `{}`))
	if lateCalls != 0 {
		t.Errorf("handler added mid-dispatch invoked %d times in same dispatch, want 0", lateCalls)
	}

	b.Dispatch(testEvent(KindMessage, `{}`))
	if lateCalls != 1 {
		t.Errorf("handler added mid-dispatch invoked %d times in next dispatch, want 1", lateCalls)
	}
}

func TestBus_KindsIsolated(t *testing.T) {
	b := New(nil)

	signalCalls, connCalls := 0, 0
	b.Subscribe(KindSignalUpdate, func(Event) { signalCalls++ })
	b.Subscribe(KindConnection, func(Event) { connCalls++ })

	b.Dispatch(testEvent(KindSignalUpdate, `{}`))

	if signalCalls != 1 || connCalls != 0 {
		t.Errorf("signalCalls = %d, connCalls = %d, want 1 and 0", signalCalls, connCalls)
	}
}

func TestBus_Stats(t *testing.T) {
	b := New(nil)

	unsub := b.Subscribe(KindMessage, func(Event) {})
	b.Subscribe(KindPong, func(Event) {})

	b.Dispatch(testEvent(KindMessage, `{}`))
	b.Dispatch(testEvent(KindPong, `{}`))

	stats := b.Stats()
	if stats.Dispatched != 2 {
		t.Errorf("Dispatched = %d, want 2", stats.Dispatched)
	}
	if stats.Subscriptions != 2 {
		t.Errorf("Subscriptions = %d, want 2", stats.Subscriptions)
	}

	unsub()
	if got := b.Stats().Subscriptions; got != 1 {
		t.Errorf("Subscriptions after unsubscribe = %d, want 1", got)
	}
}
