package events

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCollapsesTriggers(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var calls atomic.Int32
	var last atomic.Int32
	for i := 1; i <= 5; i++ {
		n := int32(i)
		d.Trigger(func() {
			calls.Add(1)
			last.Store(n)
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 invocation, got %d", got)
	}
	if got := last.Load(); got != 5 {
		t.Errorf("expected last trigger to win, got %d", got)
	}
}

func TestDebouncerFlush(t *testing.T) {
	d := NewDebouncer(time.Hour)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Flush()

	if got := calls.Load(); got != 1 {
		t.Errorf("expected flush to run pending fn, got %d calls", got)
	}

	// Flush with nothing pending is a no-op.
	d.Flush()
	if got := calls.Load(); got != 1 {
		t.Errorf("second flush should be a no-op, got %d calls", got)
	}
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("expected stop to cancel pending fn, got %d calls", got)
	}
}

func TestNotifierFanOut(t *testing.T) {
	n := NewNotifier()
	a := n.Subscribe()
	b := n.Subscribe()

	PublishChange(n, "p1")

	for name, ch := range map[string]<-chan Event{"a": a, "b": b} {
		select {
		case ev := <-ch:
			if ev.Type != EventDatabaseChanged || ev.ProjectID != "p1" {
				t.Errorf("subscriber %s got unexpected event: %+v", name, ev)
			}
		case <-time.After(time.Second):
			t.Errorf("subscriber %s did not receive event", name)
		}
	}
}

func TestPublishChangeNilPublisher(t *testing.T) {
	// Must not panic.
	PublishChange(nil, "p1")
}
