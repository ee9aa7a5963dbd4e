package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/knock/internal/bus"
	"github.com/matheus3301/knock/internal/model"
	"github.com/matheus3301/knock/internal/scheduler"
	"go.uber.org/zap"
)

// Persistence keys, one per collection.
const (
	KeyContacts  = "contacts"
	KeyScheduled = "scheduledMessages"
	KeyReceived  = "receivedMessages"
	KeySettings  = "userSettings"
)

var (
	ErrContactNotFound = errors.New("contact not found")
	ErrNotFound        = errors.New("not found")
	ErrTriggerFailed   = errors.New("trigger registration failed")
)

// Triggers registers and cancels delivery triggers for scheduled messages.
type Triggers interface {
	RegisterTrigger(ctx context.Context, msg model.ScheduledMessage, contact model.Contact) (scheduler.Handle, error)
	CancelTrigger(messageID string)
}

// Store owns contacts, scheduled messages, received messages and settings.
// Collections live in memory; every mutation rewrites the affected key in kv.
type Store struct {
	// schedMu is held across a scheduled-message mutation and the matching
	// trigger registration or cancellation. Lock order: schedMu, then mu.
	schedMu  sync.Mutex
	mu       sync.Mutex
	kv       KV
	triggers Triggers
	bus      *bus.Bus
	logger   *zap.Logger
	now      func() time.Time

	contacts  []model.Contact
	scheduled []model.ScheduledMessage
	received  []model.ReceivedMessage
	settings  model.Settings
	selected  uuid.UUID
}

// New creates an empty store. Call Load to read persisted state.
func New(kv KV, triggers Triggers, b *bus.Bus, logger *zap.Logger) *Store {
	return &Store{
		kv:       kv,
		triggers: triggers,
		bus:      b,
		logger:   logger,
		now:      time.Now,
		settings: model.DefaultSettings(),
	}
}

// SetClock replaces the time source used for past-date checks.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// --- Contacts ---

// AddContact appends c. A contact whose id already exists is ignored.
func (s *Store) AddContact(c model.Contact) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.contactIndex(c.ID) >= 0 {
		return nil
	}
	s.contacts = append(s.contacts, c)
	s.persist(KeyContacts, s.contacts)
	return nil
}

// Contact returns the contact with id.
func (s *Store) Contact(id uuid.UUID) (model.Contact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.contactIndex(id)
	if i < 0 {
		return model.Contact{}, false
	}
	return s.contacts[i], true
}

// Contacts returns all contacts in insertion order.
func (s *Store) Contacts() []model.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.contacts)
}

// SetValidated records whether the contact accepted the invitation.
func (s *Store) SetValidated(id uuid.UUID, validated bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.contactIndex(id)
	if i < 0 {
		return ErrContactNotFound
	}
	if s.contacts[i].Validated == validated {
		return nil
	}
	s.contacts[i].Validated = validated
	s.persist(KeyContacts, s.contacts)
	return nil
}

// DeleteContact removes the contact and cancels its undelivered messages.
func (s *Store) DeleteContact(id uuid.UUID) error {
	s.schedMu.Lock()
	defer s.schedMu.Unlock()
	s.mu.Lock()
	i := s.contactIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrContactNotFound
	}
	s.contacts = slices.Delete(s.contacts, i, i+1)

	var cancelled []string
	s.scheduled = slices.DeleteFunc(s.scheduled, func(m model.ScheduledMessage) bool {
		if m.ContactID != id {
			return false
		}
		if !m.Delivered {
			cancelled = append(cancelled, m.ID.String())
		}
		return true
	})
	if s.selected == id {
		s.selected = uuid.Nil
	}
	s.persist(KeyContacts, s.contacts)
	s.persist(KeyScheduled, s.scheduled)
	s.mu.Unlock()

	for _, msgID := range cancelled {
		s.triggers.CancelTrigger(msgID)
	}
	return nil
}

// --- Scheduled messages ---

// Schedule records msg and registers exactly one delivery trigger for it.
// When registration fails the record is kept and the returned error wraps
// ErrTriggerFailed.
func (s *Store) Schedule(ctx context.Context, msg model.ScheduledMessage) (scheduler.Handle, error) {
	if err := msg.Validate(); err != nil {
		return scheduler.Handle{}, err
	}

	s.schedMu.Lock()
	defer s.schedMu.Unlock()
	s.mu.Lock()
	if err := msg.ValidateSchedule(s.now()); err != nil {
		s.mu.Unlock()
		return scheduler.Handle{}, err
	}
	for _, existing := range s.scheduled {
		if existing.ID == msg.ID {
			s.mu.Unlock()
			return handleOf(existing), nil
		}
	}
	ci := s.contactIndex(msg.ContactID)
	if ci < 0 {
		s.mu.Unlock()
		return scheduler.Handle{}, fmt.Errorf("%w: %s", ErrContactNotFound, msg.ContactID)
	}
	contact := s.contacts[ci]
	s.scheduled = append(s.scheduled, msg)
	s.persist(KeyScheduled, s.scheduled)
	s.mu.Unlock()

	h, err := s.triggers.RegisterTrigger(ctx, msg, contact)
	if err != nil {
		return scheduler.Handle{}, fmt.Errorf("%w: %w", ErrTriggerFailed, err)
	}
	return h, nil
}

// Cancel removes an undelivered or delivered scheduled message and its trigger.
func (s *Store) Cancel(id uuid.UUID) error {
	s.schedMu.Lock()
	defer s.schedMu.Unlock()
	s.mu.Lock()
	i := slices.IndexFunc(s.scheduled, func(m model.ScheduledMessage) bool { return m.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.scheduled = slices.Delete(s.scheduled, i, i+1)
	s.persist(KeyScheduled, s.scheduled)
	s.mu.Unlock()

	s.triggers.CancelTrigger(id.String())
	return nil
}

// ScheduledMessages returns all scheduled messages in insertion order.
func (s *Store) ScheduledMessages() []model.ScheduledMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.scheduled)
}

// MarkDelivered flags the scheduled message whose trigger fired.
// Returns false when no undelivered message has that id.
func (s *Store) MarkDelivered(messageID string) bool {
	id, err := uuid.Parse(messageID)
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.scheduled {
		if s.scheduled[i].ID == id && !s.scheduled[i].Delivered {
			s.scheduled[i].Delivered = true
			s.persist(KeyScheduled, s.scheduled)
			return true
		}
	}
	return false
}

// --- Received messages ---

// AddReceived appends a delivered message. Re-delivery of a known id is ignored.
func (s *Store) AddReceived(msg model.ReceivedMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.receivedIndex(msg.ID) >= 0 {
		return nil
	}
	s.received = append(s.received, msg)
	s.persist(KeyReceived, s.received)
	s.bus.Emit(bus.KindMessageReceived, msg)
	return nil
}

// Received returns the received message with id.
func (s *Store) Received(id string) (model.ReceivedMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.receivedIndex(id)
	if i < 0 {
		return model.ReceivedMessage{}, false
	}
	return s.received[i], true
}

// ReceivedMessages returns all received messages in arrival order.
func (s *Store) ReceivedMessages() []model.ReceivedMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.received)
}

// MarkRead flags the received message as read. Marking twice is a no-op.
func (s *Store) MarkRead(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.receivedIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	if s.received[i].Read {
		return nil
	}
	s.received[i].Read = true
	s.persist(KeyReceived, s.received)
	s.bus.Emit(bus.KindMessageRead, id)
	return nil
}

// DeleteReceived removes a received message.
func (s *Store) DeleteReceived(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.receivedIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	s.received = slices.Delete(s.received, i, i+1)
	s.persist(KeyReceived, s.received)
	return nil
}

// --- Settings ---

// Settings returns a copy of the current settings.
func (s *Store) Settings() model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSettings(s.settings)
}

// UpdateSettings replaces the settings after validation.
func (s *Store) UpdateSettings(next model.Settings) error {
	if err := next.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = cloneSettings(next)
	s.persist(KeySettings, s.settings)
	return nil
}

// --- Composer pre-selection ---

// SelectContact pre-selects a contact for the next composer session.
func (s *Store) SelectContact(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.contactIndex(id) < 0 {
		return ErrContactNotFound
	}
	s.selected = id
	return nil
}

// TakeSelectedContact returns and clears the pre-selected contact.
func (s *Store) TakeSelectedContact() (model.Contact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.selected
	s.selected = uuid.Nil
	if id == uuid.Nil {
		return model.Contact{}, false
	}
	i := s.contactIndex(id)
	if i < 0 {
		return model.Contact{}, false
	}
	return s.contacts[i], true
}

// --- Lifecycle ---

// Load replaces the in-memory state with what kv holds. Missing keys keep
// their empty defaults; undecodable entries are dropped and logged.
func (s *Store) Load() error {
	blobs := make(map[string][]byte, 4)
	for _, key := range []string{KeyContacts, KeyScheduled, KeyReceived, KeySettings} {
		data, err := s.kv.Get(key)
		if errors.Is(err, ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("load %s: %w", key, err)
		}
		blobs[key] = data
	}

	snap, err := DecodeSnapshot(blobs)
	if err != nil {
		s.logger.Warn("dropped persisted entries", zap.Error(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = snap.Contacts
	s.scheduled = snap.Scheduled
	s.received = snap.Received
	s.settings = snap.Settings
	s.selected = uuid.Nil
	s.logger.Info("store loaded",
		zap.Int("contacts", len(s.contacts)),
		zap.Int("scheduled", len(s.scheduled)),
		zap.Int("received", len(s.received)),
	)
	return nil
}

// Rearm registers triggers for undelivered messages still in the future.
// Returns the number registered.
func (s *Store) Rearm(ctx context.Context) int {
	type pending struct {
		msg     model.ScheduledMessage
		contact model.Contact
	}
	s.schedMu.Lock()
	defer s.schedMu.Unlock()
	s.mu.Lock()
	now := s.now()
	var todo []pending
	for _, m := range s.scheduled {
		if m.Delivered {
			continue
		}
		if !m.DeliverAt.After(now) {
			s.logger.Warn("scheduled message past due, not re-armed",
				zap.String("msg_id", m.ID.String()), zap.Time("deliver_at", m.DeliverAt))
			continue
		}
		ci := s.contactIndex(m.ContactID)
		if ci < 0 {
			s.logger.Warn("scheduled message has no contact", zap.String("msg_id", m.ID.String()))
			continue
		}
		todo = append(todo, pending{msg: m, contact: s.contacts[ci]})
	}
	s.mu.Unlock()

	n := 0
	for _, p := range todo {
		if _, err := s.triggers.RegisterTrigger(ctx, p.msg, p.contact); err != nil {
			continue
		}
		n++
	}
	return n
}

// Reset clears every collection, restores default settings and cancels
// all outstanding triggers.
func (s *Store) Reset() {
	s.schedMu.Lock()
	defer s.schedMu.Unlock()
	s.mu.Lock()
	var cancelled []string
	for _, m := range s.scheduled {
		if !m.Delivered {
			cancelled = append(cancelled, m.ID.String())
		}
	}
	s.contacts = nil
	s.scheduled = nil
	s.received = nil
	s.settings = model.DefaultSettings()
	s.selected = uuid.Nil
	s.persist(KeyContacts, s.contacts)
	s.persist(KeyScheduled, s.scheduled)
	s.persist(KeyReceived, s.received)
	s.persist(KeySettings, s.settings)
	s.mu.Unlock()

	for _, id := range cancelled {
		s.triggers.CancelTrigger(id)
	}
}

// Snapshot returns a copy of the full state.
func (s *Store) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.Snapshot{
		Contacts:  slices.Clone(s.contacts),
		Scheduled: slices.Clone(s.scheduled),
		Received:  slices.Clone(s.received),
		Settings:  cloneSettings(s.settings),
	}
}

// persist writes v under key. Must be called with s.mu held.
// Failures are logged; memory stays authoritative.
func (s *Store) persist(key string, v any) {
	data, err := json.Marshal(emptyIfNil(v))
	if err == nil {
		err = s.kv.Put(key, data)
	}
	if err != nil {
		s.logger.Error("persist failed", zap.String("key", key), zap.Error(err))
		return
	}
	s.bus.Emit(bus.KindStoreChanged, key)
}

func (s *Store) contactIndex(id uuid.UUID) int {
	return slices.IndexFunc(s.contacts, func(c model.Contact) bool { return c.ID == id })
}

func (s *Store) receivedIndex(id string) int {
	return slices.IndexFunc(s.received, func(m model.ReceivedMessage) bool { return m.ID == id })
}

func handleOf(m model.ScheduledMessage) scheduler.Handle {
	return scheduler.Handle{MessageID: m.ID.String(), FireAt: scheduler.FireTimeOf(m.DeliverAt).Time()}
}

func cloneSettings(in model.Settings) model.Settings {
	out := in
	if in.NotificationHour != nil {
		h := *in.NotificationHour
		out.NotificationHour = &h
	}
	return out
}

// emptyIfNil keeps nil collections encoded as [] rather than null.
func emptyIfNil(v any) any {
	switch c := v.(type) {
	case []model.Contact:
		if c == nil {
			return []model.Contact{}
		}
	case []model.ScheduledMessage:
		if c == nil {
			return []model.ScheduledMessage{}
		}
	case []model.ReceivedMessage:
		if c == nil {
			return []model.ReceivedMessage{}
		}
	}
	return v
}
