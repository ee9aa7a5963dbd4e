package reveal

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/matheus3301/knock/internal/bus"
	"github.com/matheus3301/knock/internal/model"
	"go.uber.org/zap"
)

// State is a phase of the avatar reveal.
type State string

const (
	Hidden       State = "HIDDEN"
	Animating    State = "ANIMATING"
	AwaitingTaps State = "AWAITING_TAPS"
	Revealed     State = "REVEALED"
	Dismissed    State = "DISMISSED"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultThreshold    = 3
	DefaultDismissAfter = 3 * time.Second
)

// validTransitions defines allowed state transitions. Every state may fall
// back to Hidden when a new message is activated.
var validTransitions = map[State][]State{
	Hidden:       {Animating},
	Animating:    {AwaitingTaps, Revealed, Dismissed, Hidden},
	AwaitingTaps: {AwaitingTaps, Revealed, Dismissed, Hidden},
	Revealed:     {Dismissed, Hidden},
	Dismissed:    {Hidden},
}

// ReadMarker flags a received message as read.
type ReadMarker interface {
	MarkRead(id string) error
}

// Timer is the handle of a pending auto-dismiss.
type Timer interface {
	Stop() bool
}

// Options tunes the reveal.
type Options struct {
	Threshold    int
	DismissAfter time.Duration
}

// Snapshot is a point-in-time copy of the machine.
type Snapshot struct {
	State     State
	Message   *model.ReceivedMessage
	AvatarID  string
	Taps      int
	Threshold int
}

// Change is the payload for reveal.state_changed events.
type Change struct {
	From      State  `json:"from"`
	To        State  `json:"to"`
	MessageID string `json:"messageId,omitempty"`
	Taps      int    `json:"taps"`
}

// Machine drives the tap-to-reveal presentation of one message at a time.
type Machine struct {
	mu       sync.Mutex
	current  State
	msg      *model.ReceivedMessage
	avatarID string
	taps     int
	epoch    uint64
	timer    Timer

	threshold    int
	dismissAfter time.Duration
	afterFunc    func(time.Duration, func()) Timer

	marker ReadMarker
	bus    *bus.Bus
	logger *zap.Logger
}

// NewMachine creates a machine in the Hidden state.
func NewMachine(marker ReadMarker, b *bus.Bus, logger *zap.Logger, opts Options) *Machine {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.DismissAfter <= 0 {
		opts.DismissAfter = DefaultDismissAfter
	}
	return &Machine{
		current:      Hidden,
		threshold:    opts.Threshold,
		dismissAfter: opts.DismissAfter,
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
		marker: marker,
		bus:    b,
		logger: logger,
	}
}

// SetAfterFunc replaces the timer factory used for auto-dismiss.
func (m *Machine) SetAfterFunc(f func(time.Duration, func()) Timer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.afterFunc = f
}

// Current returns a snapshot of the machine.
func (m *Machine) Current() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// Activate starts the reveal of msg, abandoning whatever was on screen.
func (m *Machine) Activate(msg model.ReceivedMessage, avatarID string) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.invalidate()
	if m.current != Hidden {
		m.transition(Hidden)
	}
	m.msg = &msg
	m.avatarID = avatarID
	m.taps = 0
	m.transition(Animating)
	return m.snapshot()
}

// Tap registers a tap on the avatar. Taps outside Animating and
// AwaitingTaps are ignored.
func (m *Machine) Tap() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != Animating && m.current != AwaitingTaps {
		return m.snapshot()
	}
	m.taps++
	if m.taps < m.threshold {
		m.transition(AwaitingTaps)
		return m.snapshot()
	}

	m.transition(Revealed)
	if err := m.marker.MarkRead(m.msg.ID); err != nil {
		m.logger.Warn("mark read failed", zap.String("msg_id", m.msg.ID), zap.Error(err))
	} else {
		m.msg.Read = true
	}
	epoch := m.epoch
	m.timer = m.afterFunc(m.dismissAfter, func() { m.autoDismiss(epoch) })
	return m.snapshot()
}

// Dismiss closes the reveal from Animating, AwaitingTaps or Revealed.
// In Hidden there is nothing on screen, so the call leaves the machine
// Hidden and publishes nothing; Dismissed is likewise unchanged.
func (m *Machine) Dismiss() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dismiss()
	return m.snapshot()
}

// Stop cancels any pending auto-dismiss.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidate()
}

func (m *Machine) autoDismiss(epoch uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if epoch != m.epoch {
		return
	}
	m.timer = nil
	m.dismiss()
}

func (m *Machine) dismiss() {
	if m.current == Hidden || m.current == Dismissed {
		return
	}
	m.invalidate()
	m.transition(Dismissed)
	m.msg = nil
	m.avatarID = ""
	m.taps = 0
}

// invalidate stops the pending timer and makes any in-flight callback stale.
func (m *Machine) invalidate() {
	m.epoch++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Machine) transition(to State) {
	if !slices.Contains(validTransitions[m.current], to) {
		m.logger.Error("invalid reveal transition", zap.Error(fmt.Errorf("invalid transition from %s to %s", m.current, to)))
		return
	}
	from := m.current
	m.current = to
	change := Change{From: from, To: to, Taps: m.taps}
	if m.msg != nil {
		change.MessageID = m.msg.ID
	}
	m.bus.Emit(bus.KindRevealChanged, change)
}

func (m *Machine) snapshot() Snapshot {
	s := Snapshot{
		State:     m.current,
		AvatarID:  m.avatarID,
		Taps:      m.taps,
		Threshold: m.threshold,
	}
	if m.msg != nil {
		msg := *m.msg
		s.Message = &msg
	}
	return s
}
