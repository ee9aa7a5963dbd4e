package deeplink

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/matheus3301/knock/internal/model"
	"github.com/matheus3301/knock/internal/reveal"
	"github.com/matheus3301/knock/internal/store"
	"go.uber.org/zap"
)

type fakeStore struct {
	received map[string]model.ReceivedMessage
	contacts map[uuid.UUID]bool
	selected uuid.UUID
}

func (f *fakeStore) Received(id string) (model.ReceivedMessage, bool) {
	m, ok := f.received[id]
	return m, ok
}

func (f *fakeStore) SelectContact(id uuid.UUID) error {
	if !f.contacts[id] {
		return store.ErrContactNotFound
	}
	f.selected = id
	return nil
}

type fakeRevealer struct {
	activated []string
}

func (f *fakeRevealer) Activate(msg model.ReceivedMessage, avatarID string) reveal.Snapshot {
	f.activated = append(f.activated, msg.ID+"/"+avatarID)
	return reveal.Snapshot{State: reveal.Animating}
}

func TestRoute(t *testing.T) {
	known := uuid.MustParse("6f1c7a3e-2b8d-4d7e-9a51-0c3f2e8b1d44")
	unknown := uuid.New()

	tests := []struct {
		url       string
		want      Target
		activated []string
		selected  uuid.UUID
	}{
		{url: "knockavatar://message/m1", want: Target{Destination: MessageDetail, MessageID: "m1"}, activated: []string{"m1/fox"}},
		{url: "knockavatar://message/nope", want: Target{}},
		{url: "knockavatar://message", want: Target{}},
		{url: "knockavatar://compose/" + known.String(), want: Target{Destination: Composer, ContactID: known.String()}, selected: known},
		{url: "knockavatar://compose/" + unknown.String(), want: Target{Destination: Composer, ContactID: unknown.String()}},
		{url: "knockavatar://compose", want: Target{}},
		{url: "knockavatar://settings", want: Target{Destination: Settings}},
		{url: "knockavatar:///settings", want: Target{Destination: Settings}},
		{url: "knockavatar://bogus/xyz", want: Target{}},
		{url: "https://message/m1", want: Target{}},
		{url: "::not a url", want: Target{}},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			fs := &fakeStore{
				received: map[string]model.ReceivedMessage{"m1": {ID: "m1", Content: "coucou", AvatarID: "fox"}},
				contacts: map[uuid.UUID]bool{known: true},
			}
			fr := &fakeRevealer{}
			r := NewRouter("", fs, fr, zap.NewNop())

			if diff := cmp.Diff(tt.want, r.Route(tt.url)); diff != "" {
				t.Errorf("Route() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.activated, fr.activated); diff != "" {
				t.Errorf("activations (-want +got):\n%s", diff)
			}
			if fs.selected != tt.selected {
				t.Errorf("selected = %s, want %s", fs.selected, tt.selected)
			}
		})
	}
}

func TestRouteCustomScheme(t *testing.T) {
	r := NewRouter("knock", &fakeStore{}, &fakeRevealer{}, zap.NewNop())
	if got := r.Route("knock://settings"); got.Destination != Settings {
		t.Errorf("Route() = %+v, want settings", got)
	}
	if got := r.Route("knockavatar://settings"); got.Destination != None {
		t.Errorf("Route() = %+v, want no-op for foreign scheme", got)
	}
}
