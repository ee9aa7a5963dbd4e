package model

import (
	"time"

	"github.com/google/uuid"
)

// RepeatPolicy declares how often a scheduled message should recur.
// Only the first occurrence is ever registered with the transport.
type RepeatPolicy string

const (
	RepeatNone    RepeatPolicy = "none"
	RepeatDaily   RepeatPolicy = "daily"
	RepeatWeekly  RepeatPolicy = "weekly"
	RepeatMonthly RepeatPolicy = "monthly"
	RepeatYearly  RepeatPolicy = "yearly"
)

// Theme is the user's preferred appearance.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// Contact is a person messages can be scheduled for.
type Contact struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	AvatarID  string    `json:"avatarId"`
	Validated bool      `json:"isValidated"` // mutually accepted
	CreatedAt time.Time `json:"createdAt"`
}

// ScheduledMessage is a message composed for later delivery to a contact.
type ScheduledMessage struct {
	ID        uuid.UUID    `json:"id"`
	ContactID uuid.UUID    `json:"contactId"`
	Content   string       `json:"content"`
	DeliverAt time.Time    `json:"scheduledDate"`
	AvatarID  string       `json:"avatarId"`
	Repeat    RepeatPolicy `json:"repeatMode"`
	Delivered bool         `json:"isDelivered"`
	CreatedAt time.Time    `json:"createdAt"`
}

// ReceivedMessage is a delivered message waiting to be revealed or read.
// ID is the delivery payload's message id.
type ReceivedMessage struct {
	ID            string    `json:"id"`
	FromContactID uuid.UUID `json:"fromContactId"`
	Content       string    `json:"content"`
	AvatarID      string    `json:"avatarId"`
	ReceivedAt    time.Time `json:"receivedAt"`
	Read          bool      `json:"isRead"`
}

// Settings holds the user's preferences.
type Settings struct {
	Sound            bool  `json:"enableSound"`
	Vibration        bool  `json:"enableVibration"`
	Discreet         bool  `json:"discretMode"`
	NotificationHour *int  `json:"notificationHour,omitempty"`
	Theme            Theme `json:"theme"`
}

// Snapshot is the full persisted state.
type Snapshot struct {
	Contacts  []Contact
	Scheduled []ScheduledMessage
	Received  []ReceivedMessage
	Settings  Settings
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Sound:     true,
		Vibration: true,
		Theme:     ThemeAuto,
	}
}

// NewContact builds a contact with a fresh id. The phone is stored as given;
// callers normalize it first with NormalizePhone.
func NewContact(name, phone, avatarID string) Contact {
	return Contact{
		ID:        uuid.New(),
		Name:      name,
		Phone:     phone,
		AvatarID:  avatarID,
		CreatedAt: time.Now(),
	}
}

// NewScheduledMessage builds a message for contactID with a fresh id.
func NewScheduledMessage(contactID uuid.UUID, content string, deliverAt time.Time, avatarID string, repeat RepeatPolicy) ScheduledMessage {
	if repeat == "" {
		repeat = RepeatNone
	}
	return ScheduledMessage{
		ID:        uuid.New(),
		ContactID: contactID,
		Content:   content,
		DeliverAt: deliverAt,
		AvatarID:  avatarID,
		Repeat:    repeat,
		CreatedAt: time.Now(),
	}
}
