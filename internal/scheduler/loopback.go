package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/matheus3301/knock/internal/bus"
	"go.uber.org/zap"
)

// Loopback is an in-process notification service. Pending notifications live
// in memory and are fired onto the bus as trigger.fired once due.
type Loopback struct {
	mu       sync.Mutex
	pending  map[string]Notification
	auth     Authorization
	badge    int
	interval time.Duration
	now      func() time.Time

	bus    *bus.Bus
	logger *zap.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

// NewLoopback creates a loopback transport polling every interval.
func NewLoopback(b *bus.Bus, logger *zap.Logger, interval time.Duration) *Loopback {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Loopback{
		pending:  make(map[string]Notification),
		auth:     AuthAuthorized,
		interval: interval,
		now:      time.Now,
		bus:      b,
		logger:   logger,
	}
}

// SetClock replaces the time source used to decide what is due.
func (l *Loopback) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// SetAuthorization changes the reported permission.
func (l *Loopback) SetAuthorization(a Authorization) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.auth = a
}

// Add implements Transport. A notification with an existing id replaces it.
func (l *Loopback) Add(_ context.Context, n Notification) error {
	if n.ID == "" {
		return errors.New("notification id is required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.auth == AuthDenied {
		return ErrNotAuthorized
	}
	l.pending[n.ID] = n
	return nil
}

// Remove implements Transport.
func (l *Loopback) Remove(ids ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		delete(l.pending, id)
	}
}

// Pending implements Transport, ordered by fire time.
func (l *Loopback) Pending(_ context.Context) ([]Notification, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Notification, 0, len(l.pending))
	for _, n := range l.pending {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].FireAt.Time(), out[j].FireAt.Time()
		if ti.Equal(tj) {
			return out[i].ID < out[j].ID
		}
		return ti.Before(tj)
	})
	return out, nil
}

// Authorization implements Transport.
func (l *Loopback) Authorization(_ context.Context) (Authorization, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.auth, nil
}

// Badge implements Transport.
func (l *Loopback) Badge(_ context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.badge, nil
}

// SetBadge implements Transport.
func (l *Loopback) SetBadge(_ context.Context, n int) error {
	if n < 0 {
		return errors.New("badge count cannot be negative")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.badge = n
	return nil
}

// Start begins polling for due notifications.
func (l *Loopback) Start(ctx context.Context) {
	ctx, l.cancel = context.WithCancel(ctx)
	l.done = make(chan struct{})
	go l.loop(ctx)
}

// Stop stops the polling loop and waits for it to exit.
func (l *Loopback) Stop() {
	if l.cancel != nil {
		l.cancel()
		<-l.done
		l.cancel = nil
	}
}

func (l *Loopback) loop(ctx context.Context) {
	defer close(l.done)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.FireDue()
		case <-ctx.Done():
			return
		}
	}
}

// FireDue publishes every notification whose fire time has passed, removes
// it from the pending set and adds its badge to the app badge. Returns the
// number fired.
func (l *Loopback) FireDue() int {
	l.mu.Lock()
	now := l.now()
	var due []Notification
	for id, n := range l.pending {
		if !n.FireAt.Time().After(now) {
			due = append(due, n)
			delete(l.pending, id)
			l.badge += n.Badge
		}
	}
	l.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].FireAt.Time().Before(due[j].FireAt.Time()) })
	for _, n := range due {
		userInfo := make(map[string]any, len(n.UserInfo))
		for k, v := range n.UserInfo {
			userInfo[k] = v
		}
		l.logger.Info("trigger fired", zap.String("msg_id", n.ID))
		l.bus.Emit(bus.KindTriggerFired, userInfo)
	}
	return len(due)
}
