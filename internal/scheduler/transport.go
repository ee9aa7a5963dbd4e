package scheduler

import (
	"context"
	"errors"
	"time"
)

// ErrNotAuthorized is returned by a transport the user denied notifications to.
var ErrNotAuthorized = errors.New("notifications not authorized")

// Authorization is the user's notification permission as reported by the transport.
type Authorization string

const (
	AuthNotDetermined Authorization = "not_determined"
	AuthAuthorized    Authorization = "authorized"
	AuthDenied        Authorization = "denied"
)

// FireTime is a calendar trigger matched to the minute.
type FireTime struct {
	Year     int
	Month    time.Month
	Day      int
	Hour     int
	Minute   int
	Location *time.Location
}

// FireTimeOf truncates t to its calendar minute.
func FireTimeOf(t time.Time) FireTime {
	return FireTime{
		Year:     t.Year(),
		Month:    t.Month(),
		Day:      t.Day(),
		Hour:     t.Hour(),
		Minute:   t.Minute(),
		Location: t.Location(),
	}
}

// Time returns the instant the trigger matches.
func (f FireTime) Time() time.Time {
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	return time.Date(f.Year, f.Month, f.Day, f.Hour, f.Minute, 0, 0, loc)
}

// Action is a button offered on a delivered notification.
type Action struct {
	ID         string
	Title      string
	Foreground bool // opens the app when chosen
}

// Message notification actions. Choosing VIEW opens the reveal; DISMISS
// leaves the message unread for later.
const (
	ActionView    = "VIEW_ACTION"
	ActionDismiss = "DISMISS_ACTION"
)

// MessageActions are attached to every notification in NotificationCategory.
func MessageActions() []Action {
	return []Action{
		{ID: ActionView, Title: "Voir le message", Foreground: true},
		{ID: ActionDismiss, Title: "Plus tard"},
	}
}

// Notification is a single delivery request handed to the transport.
type Notification struct {
	ID         string
	Title      string
	Subtitle   string
	Body       string
	Badge      int
	Category   string
	Actions    []Action
	Sound      string
	Attachment string
	FireAt     FireTime
	Repeats    bool
	UserInfo   map[string]string
}

// Transport is the notification service triggers are registered with.
// Implementations must not block the caller.
type Transport interface {
	Add(ctx context.Context, n Notification) error
	Remove(ids ...string)
	Pending(ctx context.Context) ([]Notification, error)
	Authorization(ctx context.Context) (Authorization, error)
	// Badge reports the app badge count; SetBadge replaces it.
	Badge(ctx context.Context) (int, error)
	SetBadge(ctx context.Context, n int) error
}
