package delivery

import (
	"time"

	"github.com/matheus3301/knock/internal/bus"
	"github.com/matheus3301/knock/internal/model"
	"github.com/matheus3301/knock/internal/reveal"
	"go.uber.org/zap"
)

// DefaultSound is played when the payload names no sound file.
const DefaultSound = "default"

// MessageStore is the part of the store the handler writes to.
type MessageStore interface {
	AddReceived(msg model.ReceivedMessage) error
	Received(id string) (model.ReceivedMessage, bool)
	Settings() model.Settings
}

// Revealer starts the avatar reveal of a message.
type Revealer interface {
	Activate(msg model.ReceivedMessage, avatarID string) reveal.Snapshot
}

// Feedback is the sensory cue accompanying a reveal.
type Feedback struct {
	Sound   string // empty when sound is disabled
	Vibrate bool
}

// RevealIntent asks the presentation layer to show the avatar reveal.
type RevealIntent struct {
	Message  model.ReceivedMessage
	AvatarID string
	Feedback Feedback
}

// Handler records inbound notifications and decides whether to reveal them.
type Handler struct {
	store    MessageStore
	revealer Revealer
	bus      *bus.Bus
	logger   *zap.Logger
	now      func() time.Time
}

// NewHandler creates a delivery handler.
func NewHandler(store MessageStore, revealer Revealer, b *bus.Bus, logger *zap.Logger) *Handler {
	return &Handler{
		store:    store,
		revealer: revealer,
		bus:      b,
		logger:   logger,
		now:      time.Now,
	}
}

// OnForeground handles a notification arriving while the app is open.
// In discreet mode the message is recorded without a reveal.
func (h *Handler) OnForeground(raw map[string]any) *RevealIntent {
	p, msg, settings, ok := h.receive(raw)
	if !ok {
		return nil
	}
	if settings.Discreet {
		h.logger.Info("discreet mode, reveal suppressed", zap.String("msg_id", msg.ID))
		return nil
	}
	return h.reveal(p, msg, settings)
}

// OnTap handles the user opening a notification. It always reveals.
func (h *Handler) OnTap(raw map[string]any) *RevealIntent {
	p, msg, settings, ok := h.receive(raw)
	if !ok {
		return nil
	}
	return h.reveal(p, msg, settings)
}

func (h *Handler) receive(raw map[string]any) (Payload, model.ReceivedMessage, model.Settings, bool) {
	p, err := ParsePayload(raw)
	if err != nil {
		h.logger.Warn("dropping notification", zap.Error(err))
		h.bus.Emit(bus.KindMessageDropped, err.Error())
		return Payload{}, model.ReceivedMessage{}, model.Settings{}, false
	}

	msg := p.Received(h.now())
	if err := h.store.AddReceived(msg); err != nil {
		h.logger.Warn("dropping notification", zap.Error(err), zap.String("msg_id", msg.ID))
		h.bus.Emit(bus.KindMessageDropped, err.Error())
		return Payload{}, model.ReceivedMessage{}, model.Settings{}, false
	}
	// A re-delivered id keeps its original record.
	if stored, ok := h.store.Received(msg.ID); ok {
		msg = stored
	}
	return p, msg, h.store.Settings(), true
}

func (h *Handler) reveal(p Payload, msg model.ReceivedMessage, settings model.Settings) *RevealIntent {
	h.revealer.Activate(msg, msg.AvatarID)

	fb := Feedback{Vibrate: settings.Vibration}
	if settings.Sound {
		fb.Sound = p.SoundFile
		if fb.Sound == "" {
			fb.Sound = DefaultSound
		}
	}
	return &RevealIntent{Message: msg, AvatarID: msg.AvatarID, Feedback: fb}
}
