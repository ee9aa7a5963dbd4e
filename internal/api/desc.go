package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "knock.v1.KnockService"

// Method names.
const (
	MethodGetStatus           = "GetStatus"
	MethodAddContact          = "AddContact"
	MethodListContacts        = "ListContacts"
	MethodDeleteContact       = "DeleteContact"
	MethodValidateContact     = "ValidateContact"
	MethodScheduleMessage     = "ScheduleMessage"
	MethodCancelMessage       = "CancelMessage"
	MethodListScheduled       = "ListScheduled"
	MethodDeliver             = "Deliver"
	MethodListReceived        = "ListReceived"
	MethodMarkRead            = "MarkRead"
	MethodDeleteReceived      = "DeleteReceived"
	MethodRevealTap           = "RevealTap"
	MethodRevealDismiss       = "RevealDismiss"
	MethodRevealState         = "RevealState"
	MethodOpenLink            = "OpenLink"
	MethodTakeSelectedContact = "TakeSelectedContact"
	MethodGetSettings         = "GetSettings"
	MethodUpdateSettings      = "UpdateSettings"
	MethodReset               = "Reset"
	MethodWatchEvents         = "WatchEvents"
)

// FullMethod returns the wire path of method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// KnockServer is the server API for KnockService. Every message is a
// google.protobuf.Struct carrying the JSON form of the types in messages.go.
type KnockServer interface {
	GetStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddContact(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListContacts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteContact(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ValidateContact(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ScheduleMessage(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CancelMessage(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListScheduled(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Deliver(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListReceived(context.Context, *structpb.Struct) (*structpb.Struct, error)
	MarkRead(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteReceived(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RevealTap(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RevealDismiss(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RevealState(context.Context, *structpb.Struct) (*structpb.Struct, error)
	OpenLink(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TakeSelectedContact(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSettings(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateSettings(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Reset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WatchEvents(*structpb.Struct, grpc.ServerStream) error
}

type unaryCall func(KnockServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(KnockServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(KnockServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func watchEventsHandler(srv any, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(KnockServer).WatchEvents(in, stream)
}

// ServiceDesc is the grpc.ServiceDesc for KnockService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*KnockServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodGetStatus, KnockServer.GetStatus),
		unary(MethodAddContact, KnockServer.AddContact),
		unary(MethodListContacts, KnockServer.ListContacts),
		unary(MethodDeleteContact, KnockServer.DeleteContact),
		unary(MethodValidateContact, KnockServer.ValidateContact),
		unary(MethodScheduleMessage, KnockServer.ScheduleMessage),
		unary(MethodCancelMessage, KnockServer.CancelMessage),
		unary(MethodListScheduled, KnockServer.ListScheduled),
		unary(MethodDeliver, KnockServer.Deliver),
		unary(MethodListReceived, KnockServer.ListReceived),
		unary(MethodMarkRead, KnockServer.MarkRead),
		unary(MethodDeleteReceived, KnockServer.DeleteReceived),
		unary(MethodRevealTap, KnockServer.RevealTap),
		unary(MethodRevealDismiss, KnockServer.RevealDismiss),
		unary(MethodRevealState, KnockServer.RevealState),
		unary(MethodOpenLink, KnockServer.OpenLink),
		unary(MethodTakeSelectedContact, KnockServer.TakeSelectedContact),
		unary(MethodGetSettings, KnockServer.GetSettings),
		unary(MethodUpdateSettings, KnockServer.UpdateSettings),
		unary(MethodReset, KnockServer.Reset),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    MethodWatchEvents,
			Handler:       watchEventsHandler,
			ServerStreams: true,
		},
	},
	Metadata: "knock/v1/knock.proto",
}

// RegisterKnockServer registers srv on s.
func RegisterKnockServer(s grpc.ServiceRegistrar, srv KnockServer) {
	s.RegisterService(&ServiceDesc, srv)
}
