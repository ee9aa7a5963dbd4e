package bus

import "time"

// Event kinds. Subscribers filter on the prefix before the dot.
const (
	KindTriggerRegistered = "trigger.registered"
	KindTriggerFailed     = "trigger.failed"
	KindTriggerCancelled  = "trigger.cancelled"
	KindTriggerFired      = "trigger.fired"

	KindPushForeground = "push.foreground"
	KindPushTap        = "push.tap"

	KindMessageReceived = "message.received"
	KindMessageRead     = "message.read"
	KindMessageDropped  = "message.dropped"

	KindRevealChanged = "reveal.state_changed"

	KindStoreChanged = "store.changed"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
