package api

import (
	"context"
	"strings"

	"github.com/matheus3301/knock/internal/deeplink"
	"github.com/matheus3301/knock/internal/delivery"
	"github.com/matheus3301/knock/internal/reveal"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *Service) Deliver(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req DeliverRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	mode, err := delivery.ParseMode(req.Mode)
	if err != nil {
		return nil, grpcstatus.Error(codes.InvalidArgument, err.Error())
	}
	// Reject up front so the caller learns why nothing happened; the
	// handler itself drops malformed payloads silently.
	if _, err := delivery.ParsePayload(req.Payload); err != nil {
		return nil, toStatus(err)
	}

	intent, err := s.dispatcher.Dispatch(ctx, mode, req.Payload)
	if err != nil {
		return nil, grpcstatus.Error(codes.Unavailable, err.Error())
	}
	if intent == nil {
		return reply(DeliverResponse{})
	}
	view := revealView(s.reveal.Current())
	view.Sound = intent.Feedback.Sound
	view.Vibrate = intent.Feedback.Vibrate
	return reply(DeliverResponse{Revealed: true, Reveal: &view})
}

func (s *Service) ListReceived(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return reply(ReceivedResponse{Messages: s.store.ReceivedMessages()})
}

func (s *Service) MarkRead(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req IDRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	if err := s.store.MarkRead(req.ID); err != nil {
		return nil, toStatus(err)
	}
	s.scheduler.ResetBadge(ctx)
	return reply(Empty{})
}

func (s *Service) DeleteReceived(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req IDRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	if err := s.store.DeleteReceived(req.ID); err != nil {
		return nil, toStatus(err)
	}
	if cur := s.reveal.Current(); cur.Message != nil && cur.Message.ID == req.ID {
		s.reveal.Dismiss()
	}
	return reply(Empty{})
}

func (s *Service) RevealTap(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	snap := s.reveal.Tap()
	if snap.State == reveal.Revealed {
		s.scheduler.ResetBadge(ctx)
	}
	return reply(revealView(snap))
}

func (s *Service) RevealDismiss(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	snap := s.reveal.Dismiss()
	s.scheduler.ResetBadge(ctx)
	return reply(revealView(snap))
}

func (s *Service) RevealState(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return reply(revealView(s.reveal.Current()))
}

func (s *Service) OpenLink(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req OpenLinkRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.URL) == "" {
		return nil, grpcstatus.Error(codes.InvalidArgument, "url is required")
	}
	target := s.router.Route(req.URL)
	resp := OpenLinkResponse{
		Destination: string(target.Destination),
		MessageID:   target.MessageID,
		ContactID:   target.ContactID,
	}
	if target.Destination == deeplink.MessageDetail {
		view := revealView(s.reveal.Current())
		resp.Reveal = &view
	}
	return reply(resp)
}

func revealView(snap reveal.Snapshot) RevealView {
	return RevealView{
		State:     string(snap.State),
		Message:   snap.Message,
		AvatarID:  snap.AvatarID,
		Taps:      snap.Taps,
		Threshold: snap.Threshold,
	}
}
