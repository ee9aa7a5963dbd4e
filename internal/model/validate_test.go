package model

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestContactValidate(t *testing.T) {
	tests := []struct {
		name    string
		contact Contact
		wantErr error
	}{
		{"valid", NewContact("Alice", "+33612345678", "cat_happy"), nil},
		{"blank name", NewContact("   ", "+33612345678", "cat_happy"), ErrEmptyName},
		{"short phone", NewContact("Alice", "+336123", "cat_happy"), ErrInvalidPhone},
		{"phone with separators", NewContact("Bob", "06 12-34.56 78", "dog_cute"), nil},
		{"empty avatar", NewContact("Alice", "+33612345678", ""), ErrEmptyAvatar},
		{"nil id", Contact{Name: "Alice", Phone: "+33612345678", AvatarID: "cat_happy"}, ErrEmptyID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.contact.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestScheduledMessageValidateSchedule(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	contactID := uuid.New()

	tests := []struct {
		name    string
		msg     ScheduledMessage
		wantErr error
	}{
		{"future", NewScheduledMessage(contactID, "hello", now.Add(time.Hour), "cat_happy", RepeatNone), nil},
		{"now is not future", NewScheduledMessage(contactID, "hello", now, "cat_happy", RepeatNone), ErrPastDelivery},
		{"past", NewScheduledMessage(contactID, "hello", now.Add(-time.Minute), "cat_happy", RepeatNone), ErrPastDelivery},
		{"blank content", NewScheduledMessage(contactID, " \n", now.Add(time.Hour), "cat_happy", RepeatNone), ErrEmptyContent},
		{"empty avatar", NewScheduledMessage(contactID, "hello", now.Add(time.Hour), "", RepeatNone), ErrEmptyAvatar},
		{"no contact", NewScheduledMessage(uuid.Nil, "hello", now.Add(time.Hour), "cat_happy", RepeatNone), ErrMissingContact},
		{"bad repeat", NewScheduledMessage(contactID, "hello", now.Add(time.Hour), "cat_happy", "hourly"), ErrUnknownRepeat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.ValidateSchedule(now)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSchedule() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewScheduledMessageDefaultsRepeat(t *testing.T) {
	m := NewScheduledMessage(uuid.New(), "hi", time.Now().Add(time.Hour), "cat_happy", "")
	if m.Repeat != RepeatNone {
		t.Errorf("Repeat = %q, want none", m.Repeat)
	}
}

func TestSettingsValidate(t *testing.T) {
	hour := 24
	s := DefaultSettings()
	s.NotificationHour = &hour
	if err := s.Validate(); !errors.Is(err, ErrInvalidHour) {
		t.Errorf("Validate() = %v, want ErrInvalidHour", err)
	}

	s = DefaultSettings()
	s.Theme = "sepia"
	if err := s.Validate(); !errors.Is(err, ErrUnknownTheme) {
		t.Errorf("Validate() = %v, want ErrUnknownTheme", err)
	}

	d := DefaultSettings()
	if err := d.Validate(); err != nil {
		t.Errorf("default settings invalid: %v", err)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in, cc, want string
	}{
		{"06 12 34 56 78", "33", "+33612345678"},
		{"+1 (555) 123-4567", "33", "+15551234567"},
		{"5551234567", "33", "+5551234567"},
		{"0612345678", "", "+0612345678"},
		{"abc", "33", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizePhone(tt.in, tt.cc); got != tt.want {
				t.Errorf("NormalizePhone(%q, %q) = %q, want %q", tt.in, tt.cc, got, tt.want)
			}
		})
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(ErrPastDelivery) {
		t.Error("ErrPastDelivery should be a validation error")
	}
	if IsValidation(errors.New("disk full")) {
		t.Error("arbitrary error should not be a validation error")
	}
}
