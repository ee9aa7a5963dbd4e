package api

import (
	"context"
	"errors"

	"github.com/matheus3301/knock/internal/model"
	"github.com/matheus3301/knock/internal/store"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *Service) ScheduleMessage(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ScheduleRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	contactID, err := parseUUID(req.ContactID)
	if err != nil {
		return nil, err
	}
	repeat, err := model.ParseRepeatPolicy(string(req.Repeat))
	if err != nil {
		return nil, toStatus(err)
	}

	msg := model.NewScheduledMessage(contactID, req.Content, req.DeliverAt, req.AvatarID, repeat)
	h, err := s.store.Schedule(ctx, msg)
	switch {
	case errors.Is(err, store.ErrTriggerFailed):
		// The message is kept; the user is told delivery may not happen.
		s.logger.Warn("message scheduled without trigger", zap.String("msg_id", msg.ID.String()), zap.Error(err))
		return reply(ScheduleResponse{Message: msg, Warning: err.Error()})
	case err != nil:
		return nil, toStatus(err)
	}
	return reply(ScheduleResponse{Message: msg, Trigger: &h})
}

func (s *Service) CancelMessage(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req IDRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	id, err := parseUUID(req.ID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Cancel(id); err != nil {
		return nil, toStatus(err)
	}
	return reply(Empty{})
}

func (s *Service) ListScheduled(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return reply(ScheduledResponse{Messages: s.store.ScheduledMessages()})
}
