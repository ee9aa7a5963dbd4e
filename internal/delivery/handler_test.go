package delivery

import (
	"context"
	"testing"
	"time"

	"github.com/matheus3301/knock/internal/bus"
	"github.com/matheus3301/knock/internal/model"
	"github.com/matheus3301/knock/internal/reveal"
	"github.com/matheus3301/knock/internal/scheduler"
	"github.com/matheus3301/knock/internal/store"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type harness struct {
	bus     *bus.Bus
	store   *store.Store
	reveal  *reveal.Machine
	handler *Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b := bus.New()
	logger := zap.NewNop()
	sched := scheduler.New(scheduler.NewLoopback(b, logger, time.Second), b, logger)
	st := store.New(store.OpenDisk(t.TempDir()), sched, b, logger)
	m := reveal.NewMachine(st, b, logger, reveal.Options{DismissAfter: time.Hour})
	t.Cleanup(m.Stop)
	return &harness{bus: b, store: st, reveal: m, handler: NewHandler(st, m, b, logger)}
}

func TestForegroundReveals(t *testing.T) {
	h := newHarness(t)

	intent := h.handler.OnForeground(validRaw())
	if intent == nil {
		t.Fatal("OnForeground() = nil, want reveal")
	}
	if intent.AvatarID != "cat" || intent.Message.ID != "m1" {
		t.Errorf("intent = %+v", intent)
	}
	if intent.Feedback != (Feedback{Sound: DefaultSound, Vibrate: true}) {
		t.Errorf("feedback = %+v", intent.Feedback)
	}
	if _, ok := h.store.Received("m1"); !ok {
		t.Error("message not recorded")
	}
	if got := h.reveal.Current(); got.State != reveal.Animating || got.AvatarID != "cat" {
		t.Errorf("reveal = %+v, want Animating with cat", got)
	}
}

func TestForegroundDiscreet(t *testing.T) {
	h := newHarness(t)
	settings := model.DefaultSettings()
	settings.Discreet = true
	if err := h.store.UpdateSettings(settings); err != nil {
		t.Fatal(err)
	}

	if intent := h.handler.OnForeground(validRaw()); intent != nil {
		t.Errorf("OnForeground() = %+v, want nil in discreet mode", intent)
	}
	if _, ok := h.store.Received("m1"); !ok {
		t.Error("message should still be recorded")
	}
	if got := h.reveal.Current(); got.State != reveal.Hidden {
		t.Errorf("reveal state = %s, want Hidden", got.State)
	}

	// Opening the notification reveals regardless.
	if intent := h.handler.OnTap(validRaw()); intent == nil {
		t.Error("OnTap() = nil, want reveal")
	}
	if n := len(h.store.ReceivedMessages()); n != 1 {
		t.Errorf("received = %d, want 1", n)
	}
}

func TestInvalidPayloadDropped(t *testing.T) {
	h := newHarness(t)
	dropped, unsub := h.bus.Subscribe(bus.KindMessageDropped, 1)
	defer unsub()

	raw := validRaw()
	raw["content"] = ""
	if intent := h.handler.OnTap(raw); intent != nil {
		t.Errorf("OnTap() = %+v, want nil", intent)
	}
	if n := len(h.store.ReceivedMessages()); n != 0 {
		t.Errorf("received = %d, want 0", n)
	}
	if got := h.reveal.Current(); got.State != reveal.Hidden {
		t.Errorf("reveal state = %s, want Hidden", got.State)
	}
	select {
	case <-dropped:
	default:
		t.Error("expected message.dropped event")
	}
}

func TestFeedbackFollowsSettings(t *testing.T) {
	h := newHarness(t)
	settings := model.DefaultSettings()
	settings.Sound = false
	settings.Vibration = false
	_ = h.store.UpdateSettings(settings)

	raw := validRaw()
	raw["soundFile"] = "knock.caf"
	intent := h.handler.OnTap(raw)
	if intent == nil {
		t.Fatal("OnTap() = nil")
	}
	if intent.Feedback != (Feedback{}) {
		t.Errorf("feedback = %+v, want silent", intent.Feedback)
	}

	settings.Sound = true
	_ = h.store.UpdateSettings(settings)
	raw["messageId"] = "m2"
	if got := h.handler.OnTap(raw).Feedback.Sound; got != "knock.caf" {
		t.Errorf("sound = %q, want knock.caf", got)
	}
}

func TestDispatcherSerializesSources(t *testing.T) {
	h := newHarness(t)
	d := NewDispatcher(h.handler, h.store, h.bus, zap.NewNop())
	ctx := context.Background()
	d.Start(ctx)
	defer d.Stop()

	intent, err := d.Dispatch(ctx, ModeTap, validRaw())
	if err != nil {
		t.Fatal(err)
	}
	if intent == nil || intent.Message.ID != "m1" {
		t.Fatalf("Dispatch() = %+v", intent)
	}

	received, unsub := h.bus.Subscribe(bus.KindMessageReceived, 1)
	defer unsub()
	raw := validRaw()
	raw["messageId"] = "m2"
	h.bus.Emit(bus.KindPushForeground, raw)

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("push.foreground not handled")
	}
	if _, ok := h.store.Received("m2"); !ok {
		t.Error("m2 not recorded")
	}
}

func TestDispatcherMarksFiredTriggerDelivered(t *testing.T) {
	h := newHarness(t)
	c := model.NewContact("Alice", "+33612345678", "cat")
	_ = h.store.AddContact(c)
	msg := model.NewScheduledMessage(c.ID, "coucou", time.Now().Add(time.Hour), "cat", "")
	if _, err := h.store.Schedule(context.Background(), msg); err != nil {
		t.Fatal(err)
	}

	d := NewDispatcher(h.handler, h.store, h.bus, zap.NewNop())
	d.Start(context.Background())
	defer d.Stop()

	received, unsub := h.bus.Subscribe(bus.KindMessageReceived, 1)
	defer unsub()
	n := scheduler.BuildNotification(msg, c)
	raw := make(map[string]any, len(n.UserInfo))
	for k, v := range n.UserInfo {
		raw[k] = v
	}
	h.bus.Emit(bus.KindTriggerFired, raw)

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("trigger.fired not handled")
	}
	if got := h.store.ScheduledMessages(); len(got) != 1 || !got[0].Delivered {
		t.Errorf("scheduled = %+v, want delivered", got)
	}
}

func TestDispatchAfterStop(t *testing.T) {
	h := newHarness(t)
	d := NewDispatcher(h.handler, h.store, h.bus, zap.NewNop())
	d.Start(context.Background())
	d.Stop()

	if _, err := d.Dispatch(context.Background(), ModeTap, validRaw()); err != ErrStopped {
		t.Errorf("err = %v, want ErrStopped", err)
	}
}
