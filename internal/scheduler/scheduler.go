package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/matheus3301/knock/internal/bus"
	"github.com/matheus3301/knock/internal/model"
	"go.uber.org/zap"
)

// Notification presentation.
const (
	NotificationTitle    = "Toc toc, tu as un message"
	NotificationCategory = "MESSAGE_CATEGORY"
	DefaultSound         = "default"
)

// Handle identifies a registered trigger.
type Handle struct {
	MessageID string    `json:"messageId"`
	FireAt    time.Time `json:"fireAt"`
}

// Scheduler registers one delivery trigger per scheduled message.
type Scheduler struct {
	transport Transport
	bus       *bus.Bus
	logger    *zap.Logger
}

// New creates a scheduler on top of transport.
func New(t Transport, b *bus.Bus, logger *zap.Logger) *Scheduler {
	return &Scheduler{transport: t, bus: b, logger: logger}
}

// BuildNotification renders the notification for msg addressed from contact.
// Repeat policies are not expanded: every notification is a one-shot trigger.
func BuildNotification(msg model.ScheduledMessage, contact model.Contact) Notification {
	id := msg.ID.String()
	return Notification{
		ID:         id,
		Title:      NotificationTitle,
		Subtitle:   "De " + contact.Name,
		Body:       msg.Content,
		Badge:      1,
		Category:   NotificationCategory,
		Actions:    MessageActions(),
		Sound:      DefaultSound,
		Attachment: msg.AvatarID,
		FireAt:     FireTimeOf(msg.DeliverAt),
		Repeats:    false,
		UserInfo: map[string]string{
			model.PayloadMessageID: id,
			model.PayloadContactID: contact.ID.String(),
			model.PayloadContent:   msg.Content,
			model.PayloadAvatarID:  msg.AvatarID,
		},
	}
}

// RegisterTrigger schedules delivery of msg at its calendar minute.
func (s *Scheduler) RegisterTrigger(ctx context.Context, msg model.ScheduledMessage, contact model.Contact) (Handle, error) {
	n := BuildNotification(msg, contact)
	if msg.Repeat != model.RepeatNone && msg.Repeat != "" {
		s.logger.Info("repeat policy recorded, registering first occurrence only",
			zap.String("msg_id", n.ID), zap.String("repeat", string(msg.Repeat)))
	}

	if err := s.transport.Add(ctx, n); err != nil {
		s.logger.Error("trigger registration failed", zap.Error(err), zap.String("msg_id", n.ID))
		s.bus.Emit(bus.KindTriggerFailed, map[string]string{"msg_id": n.ID, "error": err.Error()})
		return Handle{}, fmt.Errorf("register trigger %s: %w", n.ID, err)
	}

	h := Handle{MessageID: n.ID, FireAt: n.FireAt.Time()}
	s.logger.Info("trigger registered", zap.String("msg_id", n.ID), zap.Time("fire_at", h.FireAt))
	s.bus.Emit(bus.KindTriggerRegistered, h)
	return h, nil
}

// CancelTrigger removes the trigger for messageID. Unknown ids are a no-op.
func (s *Scheduler) CancelTrigger(messageID string) {
	if !s.isPending(messageID) {
		return
	}
	s.transport.Remove(messageID)
	s.logger.Info("trigger cancelled", zap.String("msg_id", messageID))
	s.bus.Emit(bus.KindTriggerCancelled, messageID)
}

// Active returns the handles of all triggers still pending at the transport.
func (s *Scheduler) Active(ctx context.Context) ([]Handle, error) {
	pending, err := s.transport.Pending(ctx)
	if err != nil {
		return nil, fmt.Errorf("pending triggers: %w", err)
	}
	handles := make([]Handle, 0, len(pending))
	for _, n := range pending {
		handles = append(handles, Handle{MessageID: n.ID, FireAt: n.FireAt.Time()})
	}
	return handles, nil
}

// Authorization reports the transport's notification permission.
func (s *Scheduler) Authorization(ctx context.Context) (Authorization, error) {
	return s.transport.Authorization(ctx)
}

func (s *Scheduler) isPending(messageID string) bool {
	pending, err := s.transport.Pending(context.Background())
	if err != nil {
		// Can't tell; removing an unknown id is harmless.
		return true
	}
	for _, n := range pending {
		if n.ID == messageID {
			return true
		}
	}
	return false
}

// Badge returns the app badge count.
func (s *Scheduler) Badge(ctx context.Context) (int, error) {
	return s.transport.Badge(ctx)
}

// ResetBadge clears the app badge once the user has seen their messages.
func (s *Scheduler) ResetBadge(ctx context.Context) {
	if err := s.transport.SetBadge(ctx, 0); err != nil {
		s.logger.Warn("badge reset failed", zap.Error(err))
	}
}
