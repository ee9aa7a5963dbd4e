package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/knock/internal/bus"
	"github.com/matheus3301/knock/internal/config"
	"github.com/matheus3301/knock/internal/deeplink"
	"github.com/matheus3301/knock/internal/delivery"
	"github.com/matheus3301/knock/internal/reveal"
	"github.com/matheus3301/knock/internal/scheduler"
	"github.com/matheus3301/knock/internal/store"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Service implements KnockServer on top of the daemon's components.
type Service struct {
	profile   string
	startedAt time.Time

	cfg        *config.Config
	store      *store.Store
	scheduler  *scheduler.Scheduler
	dispatcher *delivery.Dispatcher
	reveal     *reveal.Machine
	router     *deeplink.Router
	bus        *bus.Bus
	logger     *zap.Logger
}

var _ KnockServer = (*Service)(nil)

// NewService creates the control API service.
func NewService(
	profile string,
	cfg *config.Config,
	st *store.Store,
	sched *scheduler.Scheduler,
	dispatcher *delivery.Dispatcher,
	machine *reveal.Machine,
	router *deeplink.Router,
	b *bus.Bus,
	logger *zap.Logger,
) *Service {
	return &Service{
		profile:    profile,
		startedAt:  time.Now(),
		cfg:        cfg,
		store:      st,
		scheduler:  sched,
		dispatcher: dispatcher,
		reveal:     machine,
		router:     router,
		bus:        b,
		logger:     logger,
	}
}

func (s *Service) GetStatus(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	snap := s.store.Snapshot()
	resp := StatusResponse{
		Profile:   s.profile,
		UptimeMS:  time.Since(s.startedAt).Milliseconds(),
		Contacts:  len(snap.Contacts),
		Scheduled: len(snap.Scheduled),
		Received:  len(snap.Received),
		Reveal:    string(s.reveal.Current().State),
	}
	for _, m := range snap.Received {
		if !m.Read {
			resp.Unread++
		}
	}
	if auth, err := s.scheduler.Authorization(ctx); err == nil {
		resp.Authorization = string(auth)
	}
	if active, err := s.scheduler.Active(ctx); err == nil {
		resp.PendingTriggers = len(active)
	}
	if badge, err := s.scheduler.Badge(ctx); err == nil {
		resp.Badge = badge
	}
	return reply(resp)
}

func (s *Service) Reset(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	s.store.Reset()
	s.reveal.Dismiss()
	s.scheduler.ResetBadge(ctx)
	s.logger.Info("all data cleared")
	return reply(Empty{})
}

func (s *Service) WatchEvents(in *structpb.Struct, stream grpc.ServerStream) error {
	var req WatchRequest
	if err := decodeRequest(in, &req); err != nil {
		return err
	}
	ch, unsub := s.bus.Subscribe(req.Prefix, 256)
	defer unsub()

	for {
		select {
		case evt := <-ch:
			env := EventEnvelope{
				EventID:    uuid.New().String(),
				Profile:    s.profile,
				Kind:       evt.Kind,
				OccurredAt: evt.Timestamp,
			}
			if evt.Payload != nil {
				payload, err := json.Marshal(evt.Payload)
				if err != nil {
					s.logger.Warn("unencodable event payload", zap.String("kind", evt.Kind), zap.Error(err))
				} else {
					env.Payload = payload
				}
			}
			msg, err := Encode(env)
			if err != nil {
				return toStatus(err)
			}
			if err := stream.SendMsg(msg); err != nil {
				return err
			}
		case <-stream.Context().Done():
			return nil
		}
	}
}
