package api

import (
	"context"

	"github.com/matheus3301/knock/internal/scheduler"
	"google.golang.org/protobuf/types/known/structpb"
)

// DeniedWarning is returned when feedback is enabled but notifications are
// blocked at the system level.
const DeniedWarning = "notifications are disabled for knock; enable them in system settings"

func (s *Service) GetSettings(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return reply(SettingsResponse{Settings: s.store.Settings()})
}

func (s *Service) UpdateSettings(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	next := s.store.Settings()
	if err := decodeRequest(in, &next); err != nil {
		return nil, err
	}
	if err := s.store.UpdateSettings(next); err != nil {
		return nil, toStatus(err)
	}

	resp := SettingsResponse{Settings: s.store.Settings()}
	if next.Sound || next.Vibration {
		if auth, err := s.scheduler.Authorization(ctx); err == nil && auth == scheduler.AuthDenied {
			resp.Warning = DeniedWarning
		}
	}
	return reply(resp)
}
