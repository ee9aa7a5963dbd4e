package delivery

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/knock/internal/model"
)

// ErrMalformedPayload is returned for a payload missing a required field.
var ErrMalformedPayload = errors.New("malformed payload")

// Payload is the validated content of an inbound notification.
type Payload struct {
	MessageID string
	ContactID uuid.UUID
	Content   string
	AvatarID  string
	SoundFile string
}

// ParsePayload validates the raw notification user info.
func ParsePayload(raw map[string]any) (Payload, error) {
	var p Payload
	var err error
	if p.MessageID, err = requireString(raw, model.PayloadMessageID); err != nil {
		return Payload{}, err
	}
	if p.Content, err = requireString(raw, model.PayloadContent); err != nil {
		return Payload{}, err
	}
	if p.AvatarID, err = requireString(raw, model.PayloadAvatarID); err != nil {
		return Payload{}, err
	}
	contactID, err := requireString(raw, model.PayloadContactID)
	if err != nil {
		return Payload{}, err
	}
	if p.ContactID, err = uuid.Parse(contactID); err != nil {
		return Payload{}, fmt.Errorf("%w: %s: %w", ErrMalformedPayload, model.PayloadContactID, err)
	}
	if v, ok := raw[model.PayloadSoundFile]; ok {
		s, ok := v.(string)
		if !ok {
			return Payload{}, fmt.Errorf("%w: %s is %T, want string", ErrMalformedPayload, model.PayloadSoundFile, v)
		}
		p.SoundFile = s
	}
	return p, nil
}

// Received converts the payload into the stored message.
func (p Payload) Received(at time.Time) model.ReceivedMessage {
	return model.ReceivedMessage{
		ID:            p.MessageID,
		FromContactID: p.ContactID,
		Content:       p.Content,
		AvatarID:      p.AvatarID,
		ReceivedAt:    at,
	}
}

func requireString(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok {
		return "", fmt.Errorf("%w: missing %s", ErrMalformedPayload, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T, want string", ErrMalformedPayload, key, v)
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: empty %s", ErrMalformedPayload, key)
	}
	return s, nil
}
