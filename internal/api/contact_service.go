package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/matheus3301/knock/internal/model"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *Service) AddContact(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req AddContactRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	phone := model.NormalizePhone(req.Phone, s.cfg.Contacts.DefaultCountryCode)
	c := model.NewContact(req.Name, phone, req.AvatarID)
	if err := s.store.AddContact(c); err != nil {
		return nil, toStatus(err)
	}
	return reply(c)
}

func (s *Service) ListContacts(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return reply(ContactsResponse{Contacts: s.store.Contacts()})
}

func (s *Service) DeleteContact(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req IDRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	id, err := parseUUID(req.ID)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteContact(id); err != nil {
		return nil, toStatus(err)
	}
	return reply(Empty{})
}

func (s *Service) ValidateContact(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ValidateContactRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	id, err := parseUUID(req.ID)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetValidated(id, req.Validated); err != nil {
		return nil, toStatus(err)
	}
	c, _ := s.store.Contact(id)
	return reply(c)
}

func (s *Service) TakeSelectedContact(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	var resp SelectedContactResponse
	if c, ok := s.store.TakeSelectedContact(); ok {
		resp.Contact = &c
	}
	return reply(resp)
}

func parseUUID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, grpcstatus.Errorf(codes.InvalidArgument, "invalid id %q: %v", raw, err)
	}
	return id, nil
}
