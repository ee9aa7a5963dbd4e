package api

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/matheus3301/knock/internal/delivery"
	"github.com/matheus3301/knock/internal/model"
	"github.com/matheus3301/knock/internal/store"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Encode converts v into its Struct form via JSON. v must encode to an object.
func Encode(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return out, nil
}

// Decode fills v from the Struct. A nil Struct decodes as {}.
func Decode(in *structpb.Struct, v any) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	data, err := protojson.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func decodeRequest(in *structpb.Struct, v any) error {
	if err := Decode(in, v); err != nil {
		return grpcstatus.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	return nil
}

func reply(v any) (*structpb.Struct, error) {
	out, err := Encode(v)
	if err != nil {
		return nil, grpcstatus.Errorf(codes.Internal, "%v", err)
	}
	return out, nil
}

// toStatus maps domain errors onto gRPC codes.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case model.IsValidation(err), errors.Is(err, delivery.ErrMalformedPayload):
		return grpcstatus.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrContactNotFound):
		return grpcstatus.Error(codes.NotFound, err.Error())
	default:
		return grpcstatus.Error(codes.Internal, err.Error())
	}
}
