package reveal

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/matheus3301/knock/internal/bus"
	"github.com/matheus3301/knock/internal/model"
	"go.uber.org/zap"
)

type fakeMarker struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeMarker) MarkRead(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id)
	return f.err
}

// manualTimer captures the scheduled callback so tests can fire it.
type manualTimer struct {
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.stopped = true
	return true
}

type manualClock struct {
	timers []*manualTimer
}

func (c *manualClock) afterFunc(_ time.Duration, f func()) Timer {
	t := &manualTimer{fn: f}
	c.timers = append(c.timers, t)
	return t
}

func testMachine(t *testing.T) (*Machine, *fakeMarker, *manualClock) {
	t.Helper()
	marker := &fakeMarker{}
	clock := &manualClock{}
	m := NewMachine(marker, nil, zap.NewNop(), Options{})
	m.SetAfterFunc(clock.afterFunc)
	return m, marker, clock
}

func message(id string) model.ReceivedMessage {
	return model.ReceivedMessage{ID: id, Content: "coucou", AvatarID: "cat"}
}

func TestInitialState(t *testing.T) {
	m, _, _ := testMachine(t)
	if got := m.Current(); got.State != Hidden || got.Threshold != DefaultThreshold {
		t.Errorf("Current() = %+v, want Hidden with threshold 3", got)
	}
}

func TestThreeTapsReveal(t *testing.T) {
	m, marker, clock := testMachine(t)
	m.Activate(message("m1"), "cat")

	var states []State
	for range 4 {
		states = append(states, m.Tap().State)
	}
	want := []State{AwaitingTaps, AwaitingTaps, Revealed, Revealed}
	if diff := cmp.Diff(want, states); diff != "" {
		t.Errorf("states mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"m1"}, marker.calls); diff != "" {
		t.Errorf("MarkRead calls (-want +got):\n%s", diff)
	}
	if len(clock.timers) != 1 {
		t.Fatalf("timers = %d, want 1", len(clock.timers))
	}

	clock.timers[0].fn()
	got := m.Current()
	if got.State != Dismissed || got.Message != nil || got.AvatarID != "" {
		t.Errorf("after auto-dismiss = %+v", got)
	}
}

func TestTapIgnoredWhenHidden(t *testing.T) {
	m, marker, _ := testMachine(t)
	if got := m.Tap(); got.State != Hidden || got.Taps != 0 {
		t.Errorf("Tap() = %+v, want Hidden untouched", got)
	}
	if len(marker.calls) != 0 {
		t.Error("MarkRead called without an active message")
	}
}

func TestDismissFromAnimating(t *testing.T) {
	m, marker, _ := testMachine(t)
	m.Activate(message("m1"), "cat")

	got := m.Dismiss()
	if got.State != Dismissed || got.Message != nil {
		t.Errorf("Dismiss() = %+v", got)
	}
	if len(marker.calls) != 0 {
		t.Error("dismiss must not mark read")
	}
	// Taps after dismissal do nothing.
	if got := m.Tap(); got.State != Dismissed {
		t.Errorf("Tap() after dismiss = %s", got.State)
	}
}

func TestStaleTimerIgnored(t *testing.T) {
	m, _, clock := testMachine(t)
	m.Activate(message("m1"), "cat")
	for range 3 {
		m.Tap()
	}

	// A second message arrives before the first auto-dismiss fires.
	m.Activate(message("m2"), "fox")
	if !clock.timers[0].stopped {
		t.Error("pending timer not stopped on activation")
	}
	clock.timers[0].fn()

	got := m.Current()
	if got.State != Animating || got.Message == nil || got.Message.ID != "m2" {
		t.Errorf("stale timer affected new activation: %+v", got)
	}
}

func TestActivateResetsTaps(t *testing.T) {
	m, _, _ := testMachine(t)
	m.Activate(message("m1"), "cat")
	m.Tap()
	m.Tap()

	got := m.Activate(message("m2"), "fox")
	if got.Taps != 0 || got.State != Animating || got.AvatarID != "fox" {
		t.Errorf("Activate() = %+v", got)
	}
}

func TestCustomThreshold(t *testing.T) {
	marker := &fakeMarker{}
	m := NewMachine(marker, nil, zap.NewNop(), Options{Threshold: 1, DismissAfter: time.Hour})
	clock := &manualClock{}
	m.SetAfterFunc(clock.afterFunc)
	m.Activate(message("m1"), "cat")

	if got := m.Tap(); got.State != Revealed {
		t.Errorf("Tap() = %s, want Revealed", got.State)
	}
	m.Stop()
	if !clock.timers[0].stopped {
		t.Error("Stop did not cancel the pending timer")
	}
}

func TestMarkReadFailureStillReveals(t *testing.T) {
	m, marker, _ := testMachine(t)
	marker.err = errors.New("gone")
	m.Activate(message("m1"), "cat")
	var got Snapshot
	for range 3 {
		got = m.Tap()
	}
	if got.State != Revealed {
		t.Errorf("state = %s, want Revealed", got.State)
	}
}

func TestTransitionsEmitEvents(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("reveal.", 16)
	defer unsub()
	m := NewMachine(&fakeMarker{}, b, zap.NewNop(), Options{Threshold: 2})
	m.SetAfterFunc((&manualClock{}).afterFunc)

	m.Activate(message("m1"), "cat")
	m.Tap()
	m.Tap()
	m.Dismiss()

	var got []Change
	for len(ch) > 0 {
		got = append(got, (<-ch).Payload.(Change))
	}
	want := []Change{
		{From: Hidden, To: Animating, MessageID: "m1"},
		{From: Animating, To: AwaitingTaps, MessageID: "m1", Taps: 1},
		{From: AwaitingTaps, To: Revealed, MessageID: "m1", Taps: 2},
		{From: Revealed, To: Dismissed, MessageID: "m1", Taps: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestDismissWhenIdleIsNoop(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("reveal.", 4)
	defer unsub()
	m := NewMachine(&fakeMarker{}, b, zap.NewNop(), Options{})

	if got := m.Dismiss(); got.State != Hidden {
		t.Errorf("Dismiss() from Hidden = %q, want Hidden", got.State)
	}
	if n := len(ch); n != 0 {
		t.Errorf("events = %d, want 0", n)
	}
}
