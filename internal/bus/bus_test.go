package bus

import (
	"reflect"
	"testing"

	"devframe/internal/logging"
)

func newTestBus(t *testing.T) (*Bus, *logging.TestLogManager) {
	t.Helper()
	lm := logging.NewTestLogManager(100)
	t.Cleanup(func() { _ = lm.Close() })
	return New(lm.For("bus")), lm
}

func TestNotify_RegistrationOrder(t *testing.T) {
	b, _ := newTestBus(t)

	var got []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		b.Subscribe(func(reason string) { got = append(got, name+":"+reason) })
	}

	b.Notify("window.resize")

	want := []string{"a:window.resize", "b:window.resize", "c:window.resize"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestNotify_PanickingSubscriberIsolated(t *testing.T) {
	b, lm := newTestBus(t)

	var first, third int
	b.Subscribe(func(string) { first++ })
	b.Subscribe(func(string) { panic("boom") })
	b.Subscribe(func(string) { third++ })

	b.Notify("x")

	if first != 1 || third != 1 {
		t.Errorf("first = %d, third = %d, want 1 and 1", first, third)
	}

	var found bool
	for _, e := range lm.Drain() {
		if e.Message == "subscriber panic" && e.Level == "ERROR" && e.Fields["error"] == "boom" {
			found = true
		}
	}
	if !found {
		t.Error("expected a subscriber panic log entry")
	}
}

func TestSubscribe_NilIgnored(t *testing.T) {
	b, _ := newTestBus(t)
	b.Subscribe(nil)
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
	b.Notify("x")
}

func TestSubscribe_DuplicateDeliversTwice(t *testing.T) {
	b, _ := newTestBus(t)
	var n int
	h := func(string) { n++ }
	b.Subscribe(h)
	b.Subscribe(h)

	b.Notify("x")

	if n != 2 {
		t.Errorf("calls = %d, want 2", n)
	}
}

func TestNotify_ReentrantDepthFirst(t *testing.T) {
	b, _ := newTestBus(t)

	var got []string
	b.Subscribe(func(reason string) {
		got = append(got, "1:"+reason)
		if reason == "outer" {
			b.Notify("inner")
		}
	})
	b.Subscribe(func(reason string) { got = append(got, "2:"+reason) })

	b.Notify("outer")

	want := []string{"1:outer", "1:inner", "2:inner", "2:outer"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestNotify_SubscribeDuringNotifyWaitsForNextEvent(t *testing.T) {
	b, _ := newTestBus(t)

	var late int
	b.Subscribe(func(string) {
		b.Subscribe(func(string) { late++ })
	})

	b.Notify("first")
	if late != 0 {
		t.Errorf("late subscriber ran during the notify that added it")
	}

	b.Notify("second")
	if late != 1 {
		t.Errorf("late = %d, want 1", late)
	}
}

func TestObserver_RunsAfterSubscribers(t *testing.T) {
	b, _ := newTestBus(t)

	var got []string
	b.Subscribe(func(string) { got = append(got, "sub") })
	b.SetObserver(func(string) { got = append(got, "observer") })

	b.Notify("x")

	if !reflect.DeepEqual(got, []string{"sub", "observer"}) {
		t.Errorf("calls = %v", got)
	}
}

func TestObserver_PanicRecovered(t *testing.T) {
	b, _ := newTestBus(t)
	b.SetObserver(func(string) { panic("observer") })
	b.Notify("x")
}

func TestReset(t *testing.T) {
	b, _ := newTestBus(t)
	var n int
	b.Subscribe(func(string) { n++ })
	b.SetObserver(func(string) { n++ })

	b.Reset()
	b.Notify("x")

	if n != 0 || b.Len() != 0 {
		t.Errorf("after Reset: calls = %d, Len = %d", n, b.Len())
	}
}
