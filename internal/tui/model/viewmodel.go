package model

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/knock/internal/api"
	knock "github.com/matheus3301/knock/internal/model"
)

// Backend is the subset of the daemon client the TUI drives.
type Backend interface {
	Status(ctx context.Context) (api.StatusResponse, error)
	Settings(ctx context.Context) (knock.Settings, error)
	ListContacts(ctx context.Context) ([]knock.Contact, error)
	ListReceived(ctx context.Context) ([]knock.ReceivedMessage, error)
	MarkRead(ctx context.Context, id string) error
	DeleteReceived(ctx context.Context, id string) error
	RevealState(ctx context.Context) (api.RevealView, error)
	RevealTap(ctx context.Context) (api.RevealView, error)
	RevealDismiss(ctx context.Context) (api.RevealView, error)
	OpenLink(ctx context.Context, url string) (api.OpenLinkResponse, error)
}

// ViewModel caches daemon state between redraws.
type ViewModel struct {
	mu sync.RWMutex

	backend  Backend
	status   api.StatusResponse
	settings knock.Settings
	contacts map[uuid.UUID]knock.Contact
	inbox    []knock.ReceivedMessage
	reveal   api.RevealView
	Flash    Flash
}

// NewViewModel creates a view model backed by b.
func NewViewModel(b Backend) *ViewModel {
	return &ViewModel{
		backend:  b,
		contacts: make(map[uuid.UUID]knock.Contact),
	}
}

// LoadStatus fetches the daemon status and settings.
func (vm *ViewModel) LoadStatus(ctx context.Context) error {
	st, err := vm.backend.Status(ctx)
	if err != nil {
		return err
	}
	settings, err := vm.backend.Settings(ctx)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.status = st
	vm.settings = settings
	vm.mu.Unlock()
	return nil
}

// LoadInbox fetches received messages and the contacts used to name senders.
func (vm *ViewModel) LoadInbox(ctx context.Context) error {
	contacts, err := vm.backend.ListContacts(ctx)
	if err != nil {
		return err
	}
	inbox, err := vm.backend.ListReceived(ctx)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]knock.Contact, len(contacts))
	for _, c := range contacts {
		byID[c.ID] = c
	}
	vm.mu.Lock()
	vm.contacts = byID
	vm.inbox = inbox
	vm.mu.Unlock()
	return nil
}

// LoadReveal fetches the reveal state.
func (vm *ViewModel) LoadReveal(ctx context.Context) error {
	v, err := vm.backend.RevealState(ctx)
	if err != nil {
		return err
	}
	vm.setReveal(v)
	return nil
}

// Tap registers one tap on the avatar.
func (vm *ViewModel) Tap(ctx context.Context) error {
	v, err := vm.backend.RevealTap(ctx)
	if err != nil {
		return err
	}
	vm.setReveal(v)
	return nil
}

// Dismiss closes the reveal.
func (vm *ViewModel) Dismiss(ctx context.Context) error {
	v, err := vm.backend.RevealDismiss(ctx)
	if err != nil {
		return err
	}
	vm.setReveal(v)
	return nil
}

// Open routes a deep link and reports where it landed.
func (vm *ViewModel) Open(ctx context.Context, url string) (api.OpenLinkResponse, error) {
	resp, err := vm.backend.OpenLink(ctx, url)
	if err != nil {
		return resp, err
	}
	if resp.Reveal != nil {
		vm.setReveal(*resp.Reveal)
	}
	return resp, nil
}

// MarkRead marks id read and updates the cached copy.
func (vm *ViewModel) MarkRead(ctx context.Context, id string) error {
	if err := vm.backend.MarkRead(ctx, id); err != nil {
		return err
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()
	for i := range vm.inbox {
		if vm.inbox[i].ID == id {
			vm.inbox[i].Read = true
		}
	}
	return nil
}

// Delete removes id from the inbox.
func (vm *ViewModel) Delete(ctx context.Context, id string) error {
	if err := vm.backend.DeleteReceived(ctx, id); err != nil {
		return err
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.inbox = slices.DeleteFunc(vm.inbox, func(m knock.ReceivedMessage) bool { return m.ID == id })
	return nil
}

func (vm *ViewModel) setReveal(v api.RevealView) {
	vm.mu.Lock()
	vm.reveal = v
	vm.mu.Unlock()
}

// Status returns the last fetched status.
func (vm *ViewModel) Status() api.StatusResponse {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.status
}

// Settings returns the last fetched settings.
func (vm *ViewModel) Settings() knock.Settings {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.settings
}

// Inbox returns a copy of the cached received messages.
func (vm *ViewModel) Inbox() []knock.ReceivedMessage {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return slices.Clone(vm.inbox)
}

// Unread counts unread messages in the cached inbox.
func (vm *ViewModel) Unread() int {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	n := 0
	for _, m := range vm.inbox {
		if !m.Read {
			n++
		}
	}
	return n
}

// Reveal returns the last known reveal view.
func (vm *ViewModel) Reveal() api.RevealView {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.reveal
}

// SenderName resolves a contact id to a display name.
func (vm *ViewModel) SenderName(id uuid.UUID) string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	if c, ok := vm.contacts[id]; ok {
		return c.Name
	}
	if id == uuid.Nil {
		return "unknown"
	}
	return id.String()[:8]
}

// FlashErr is a shorthand for showing err for a few seconds.
func (vm *ViewModel) FlashErr(prefix string, err error) {
	vm.Flash.Error(prefix+": "+err.Error(), 5*time.Second)
}
