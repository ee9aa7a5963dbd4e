package deeplink

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/matheus3301/knock/internal/model"
	"github.com/matheus3301/knock/internal/reveal"
	"go.uber.org/zap"
)

// DefaultScheme is the URL scheme the app answers to.
const DefaultScheme = "knockavatar"

// Destination is the screen a link navigates to.
type Destination string

const (
	None          Destination = ""
	MessageDetail Destination = "message_detail"
	Composer      Destination = "composer"
	Settings      Destination = "settings"
)

// Target is the outcome of routing a link.
type Target struct {
	Destination Destination
	MessageID   string
	ContactID   string
}

// Store is what the router reads and pre-selects from.
type Store interface {
	Received(id string) (model.ReceivedMessage, bool)
	SelectContact(id uuid.UUID) error
}

// Revealer starts the avatar reveal of a message.
type Revealer interface {
	Activate(msg model.ReceivedMessage, avatarID string) reveal.Snapshot
}

// Router maps scheme://kind/identifier links to navigation targets.
type Router struct {
	scheme   string
	store    Store
	revealer Revealer
	logger   *zap.Logger
}

// NewRouter creates a router for scheme. An empty scheme means DefaultScheme.
func NewRouter(scheme string, store Store, revealer Revealer, logger *zap.Logger) *Router {
	if scheme == "" {
		scheme = DefaultScheme
	}
	return &Router{scheme: scheme, store: store, revealer: revealer, logger: logger}
}

// Route resolves link. Unrecognized or unresolvable links yield a zero Target.
func (r *Router) Route(link string) Target {
	u, err := url.Parse(link)
	if err != nil || !strings.EqualFold(u.Scheme, r.scheme) {
		r.logger.Debug("ignoring link", zap.String("url", link))
		return Target{}
	}

	// knockavatar://message/ID parses with the kind as host; tolerate
	// knockavatar:message/ID and knockavatar:///message/ID too.
	segments := splitPath(u.Opaque + u.Path)
	kind := u.Host
	if kind == "" && len(segments) > 0 {
		kind, segments = segments[0], segments[1:]
	}
	var id string
	if len(segments) > 0 {
		id = segments[0]
	}

	switch strings.ToLower(kind) {
	case "message":
		return r.message(id)
	case "compose":
		return r.compose(id)
	case "settings":
		return Target{Destination: Settings}
	}
	r.logger.Debug("unknown link kind", zap.String("kind", kind))
	return Target{}
}

func (r *Router) message(id string) Target {
	if id == "" {
		return Target{}
	}
	msg, ok := r.store.Received(id)
	if !ok {
		r.logger.Info("link to unknown message", zap.String("msg_id", id))
		return Target{}
	}
	r.revealer.Activate(msg, msg.AvatarID)
	return Target{Destination: MessageDetail, MessageID: id}
}

func (r *Router) compose(id string) Target {
	if id == "" {
		return Target{}
	}
	t := Target{Destination: Composer, ContactID: id}
	cid, err := uuid.Parse(id)
	if err != nil {
		return t
	}
	if err := r.store.SelectContact(cid); err != nil {
		r.logger.Info("compose link for unknown contact", zap.String("contact_id", id))
	}
	return t
}

func splitPath(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			if unescaped, err := url.PathUnescape(s); err == nil {
				s = unescaped
			}
			out = append(out, s)
		}
	}
	return out
}
