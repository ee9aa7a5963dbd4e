package api

import (
	"encoding/json"
	"time"

	"github.com/matheus3301/knock/internal/model"
	"github.com/matheus3301/knock/internal/scheduler"
)

// Empty is the request and response of calls that carry nothing.
type Empty struct{}

type IDRequest struct {
	ID string `json:"id"`
}

type StatusResponse struct {
	Profile         string `json:"profile"`
	UptimeMS        int64  `json:"uptimeMs"`
	Authorization   string `json:"authorization"`
	Contacts        int    `json:"contacts"`
	Scheduled       int    `json:"scheduled"`
	Received        int    `json:"received"`
	Unread          int    `json:"unread"`
	PendingTriggers int    `json:"pendingTriggers"`
	Badge           int    `json:"badge"`
	Reveal          string `json:"reveal"`
}

type AddContactRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	AvatarID string `json:"avatarId"`
}

type ValidateContactRequest struct {
	ID        string `json:"id"`
	Validated bool   `json:"isValidated"`
}

type ContactsResponse struct {
	Contacts []model.Contact `json:"contacts"`
}

type SelectedContactResponse struct {
	Contact *model.Contact `json:"contact,omitempty"`
}

type ScheduleRequest struct {
	ContactID string             `json:"contactId"`
	Content   string             `json:"content"`
	DeliverAt time.Time          `json:"scheduledDate"`
	AvatarID  string             `json:"avatarId"`
	Repeat    model.RepeatPolicy `json:"repeatMode,omitempty"`
}

type ScheduleResponse struct {
	Message model.ScheduledMessage `json:"message"`
	Trigger *scheduler.Handle      `json:"trigger,omitempty"`
	Warning string                 `json:"warning,omitempty"`
}

type ScheduledResponse struct {
	Messages []model.ScheduledMessage `json:"messages"`
}

type DeliverRequest struct {
	Mode    string         `json:"mode"`
	Payload map[string]any `json:"payload"`
}

type ReceivedResponse struct {
	Messages []model.ReceivedMessage `json:"messages"`
}

// RevealView is the reveal state as seen by clients, with the feedback cue
// when it results from a delivery.
type RevealView struct {
	State     string                 `json:"state"`
	Message   *model.ReceivedMessage `json:"message,omitempty"`
	AvatarID  string                 `json:"avatarId,omitempty"`
	Taps      int                    `json:"taps"`
	Threshold int                    `json:"threshold"`
	Sound     string                 `json:"sound,omitempty"`
	Vibrate   bool                   `json:"vibrate,omitempty"`
}

type DeliverResponse struct {
	Revealed bool        `json:"revealed"`
	Reveal   *RevealView `json:"reveal,omitempty"`
}

type OpenLinkRequest struct {
	URL string `json:"url"`
}

type OpenLinkResponse struct {
	Destination string      `json:"destination,omitempty"`
	MessageID   string      `json:"messageId,omitempty"`
	ContactID   string      `json:"contactId,omitempty"`
	Reveal      *RevealView `json:"reveal,omitempty"`
}

type SettingsResponse struct {
	Settings model.Settings `json:"settings"`
	Warning  string         `json:"warning,omitempty"`
}

type WatchRequest struct {
	Prefix string `json:"prefix,omitempty"`
}

// EventEnvelope wraps a bus event on the WatchEvents stream.
type EventEnvelope struct {
	EventID    string          `json:"eventId"`
	Profile    string          `json:"profile"`
	Kind       string          `json:"kind"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}
