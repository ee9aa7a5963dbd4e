package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MinPhoneDigits is the minimum number of digits in a normalized phone number.
const MinPhoneDigits = 10

// Validation errors.
var (
	ErrEmptyName      = errors.New("name is required")
	ErrInvalidPhone   = errors.New("phone number needs at least 10 digits")
	ErrEmptyAvatar    = errors.New("avatar id is required")
	ErrEmptyContent   = errors.New("message content cannot be empty")
	ErrEmptyID        = errors.New("id is required")
	ErrPastDelivery   = errors.New("delivery time must be in the future")
	ErrUnknownRepeat  = errors.New("unknown repeat policy")
	ErrUnknownTheme   = errors.New("unknown theme")
	ErrInvalidHour    = errors.New("notification hour must be between 0 and 23")
	ErrMissingContact = errors.New("contact id is required")
)

// IsValidation reports whether err is one of the validation errors above.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrEmptyName, ErrInvalidPhone, ErrEmptyAvatar, ErrEmptyContent, ErrEmptyID,
		ErrPastDelivery, ErrUnknownRepeat, ErrUnknownTheme, ErrInvalidHour, ErrMissingContact,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Validate checks the contact's invariants.
func (c *Contact) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyID
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if CountDigits(c.Phone) < MinPhoneDigits {
		return ErrInvalidPhone
	}
	if strings.TrimSpace(c.AvatarID) == "" {
		return ErrEmptyAvatar
	}
	return nil
}

// Validate checks the message's structural invariants. The delivery time is
// checked separately by ValidateSchedule since stored messages may be past due.
func (m *ScheduledMessage) Validate() error {
	if m.ContactID == uuid.Nil {
		return ErrMissingContact
	}
	if strings.TrimSpace(m.Content) == "" {
		return ErrEmptyContent
	}
	if strings.TrimSpace(m.AvatarID) == "" {
		return ErrEmptyAvatar
	}
	if _, err := ParseRepeatPolicy(string(m.Repeat)); err != nil {
		return err
	}
	return nil
}

// ValidateSchedule checks a message about to be scheduled at now.
func (m *ScheduledMessage) ValidateSchedule(now time.Time) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if !m.DeliverAt.After(now) {
		return ErrPastDelivery
	}
	return nil
}

// Validate checks the received message's invariants.
func (m *ReceivedMessage) Validate() error {
	if m.ID == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(m.Content) == "" {
		return ErrEmptyContent
	}
	if strings.TrimSpace(m.AvatarID) == "" {
		return ErrEmptyAvatar
	}
	return nil
}

// Validate checks the settings.
func (s *Settings) Validate() error {
	if s.NotificationHour != nil && (*s.NotificationHour < 0 || *s.NotificationHour > 23) {
		return ErrInvalidHour
	}
	if _, err := ParseTheme(string(s.Theme)); err != nil {
		return err
	}
	return nil
}

// ParseRepeatPolicy maps a string to a RepeatPolicy. Empty means none.
func ParseRepeatPolicy(s string) (RepeatPolicy, error) {
	switch RepeatPolicy(strings.ToLower(s)) {
	case "", RepeatNone:
		return RepeatNone, nil
	case RepeatDaily:
		return RepeatDaily, nil
	case RepeatWeekly:
		return RepeatWeekly, nil
	case RepeatMonthly:
		return RepeatMonthly, nil
	case RepeatYearly:
		return RepeatYearly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRepeat, s)
}

// ParseTheme maps a string to a Theme. Empty means auto.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(s)) {
	case "", ThemeAuto:
		return ThemeAuto, nil
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
}

// CountDigits returns the number of ASCII digits in s.
func CountDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// NormalizePhone strips everything but digits and '+', and rewrites a national
// number (leading 0) into international form using countryCode.
func NormalizePhone(raw, countryCode string) string {
	var sb strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '+' {
			sb.WriteRune(r)
		}
	}
	cleaned := sb.String()
	switch {
	case cleaned == "":
		return ""
	case strings.HasPrefix(cleaned, "+"):
		return cleaned
	case strings.HasPrefix(cleaned, "0") && countryCode != "":
		return "+" + countryCode + cleaned[1:]
	default:
		return "+" + cleaned
	}
}
