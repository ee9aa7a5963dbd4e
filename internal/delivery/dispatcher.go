package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/matheus3301/knock/internal/bus"
	"github.com/matheus3301/knock/internal/model"
	"go.uber.org/zap"
)

// ErrStopped is returned by Dispatch once the dispatcher has shut down.
var ErrStopped = errors.New("dispatcher stopped")

// Mode says how a notification reached the user.
type Mode string

const (
	ModeForeground Mode = "foreground"
	ModeTap        Mode = "tap"
)

// ParseMode maps a wire string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeForeground, ModeTap:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown delivery mode %q", s)
}

// DeliveryMarker flags a scheduled message whose trigger fired.
type DeliveryMarker interface {
	MarkDelivered(messageID string) bool
}

type request struct {
	mode  Mode
	raw   map[string]any
	reply chan *RevealIntent
}

// Dispatcher serializes every inbound notification through one goroutine.
// It consumes trigger.fired and push.* events from the bus as well as
// direct Dispatch calls.
type Dispatcher struct {
	handler *Handler
	marker  DeliveryMarker
	bus     *bus.Bus
	logger  *zap.Logger

	reqs   chan request
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDispatcher creates a dispatcher around h.
func NewDispatcher(h *Handler, marker DeliveryMarker, b *bus.Bus, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handler: h,
		marker:  marker,
		bus:     b,
		logger:  logger,
		reqs:    make(chan request),
		done:    make(chan struct{}),
	}
}

// Start subscribes to delivery events on the bus.
func (d *Dispatcher) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)
	fired, unsubFired := d.bus.Subscribe(bus.KindTriggerFired, 256)
	pushed, unsubPush := d.bus.Subscribe("push.", 256)

	go func() {
		defer close(d.done)
		defer unsubFired()
		defer unsubPush()
		for {
			select {
			case evt := <-fired:
				d.handleEvent(evt)
			case evt := <-pushed:
				d.handleEvent(evt)
			case req := <-d.reqs:
				req.reply <- d.handle(req.mode, req.raw)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the dispatcher and waits for its goroutine to exit.
func (d *Dispatcher) Stop() {
	if d.cancel != nil {
		d.cancel()
		<-d.done
		d.cancel = nil
	}
}

// Dispatch hands raw to the dispatcher goroutine and waits for the outcome.
// A nil intent means nothing should be revealed.
func (d *Dispatcher) Dispatch(ctx context.Context, mode Mode, raw map[string]any) (*RevealIntent, error) {
	req := request{mode: mode, raw: raw, reply: make(chan *RevealIntent, 1)}
	select {
	case d.reqs <- req:
	case <-d.done:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case intent := <-req.reply:
		return intent, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *Dispatcher) handleEvent(evt bus.Event) {
	raw, ok := evt.Payload.(map[string]any)
	if !ok {
		d.logger.Warn("ignoring event with unexpected payload", zap.String("kind", evt.Kind))
		return
	}
	switch evt.Kind {
	case bus.KindTriggerFired:
		if id, ok := raw[model.PayloadMessageID].(string); ok {
			d.marker.MarkDelivered(id)
		}
		d.handle(ModeForeground, raw)
	case bus.KindPushForeground:
		d.handle(ModeForeground, raw)
	case bus.KindPushTap:
		d.handle(ModeTap, raw)
	}
}

func (d *Dispatcher) handle(mode Mode, raw map[string]any) *RevealIntent {
	if mode == ModeTap {
		return d.handler.OnTap(raw)
	}
	return d.handler.OnForeground(raw)
}
