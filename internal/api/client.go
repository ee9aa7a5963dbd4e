package api

import (
	"context"
	"fmt"

	"github.com/matheus3301/knock/internal/model"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client is a typed KnockService client.
type Client struct {
	cc   grpc.ClientConnInterface
	conn *grpc.ClientConn
}

// Dial connects to the daemon listening on socketPath.
func Dial(socketPath string) (*Client, error) {
	conn, err := grpc.NewClient(
		"unix://"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon: %w", err)
	}
	return &Client{cc: conn, conn: conn}, nil
}

// NewClient wraps an existing connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Close closes the connection opened by Dial.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *Client) call(ctx context.Context, method string, req, resp any) error {
	if req == nil {
		req = Empty{}
	}
	in, err := Encode(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out); err != nil {
		return err
	}
	if resp == nil {
		return nil
	}
	return Decode(out, resp)
}

func (c *Client) Status(ctx context.Context) (StatusResponse, error) {
	var resp StatusResponse
	err := c.call(ctx, MethodGetStatus, nil, &resp)
	return resp, err
}

func (c *Client) AddContact(ctx context.Context, req AddContactRequest) (model.Contact, error) {
	var resp model.Contact
	err := c.call(ctx, MethodAddContact, req, &resp)
	return resp, err
}

func (c *Client) ListContacts(ctx context.Context) ([]model.Contact, error) {
	var resp ContactsResponse
	err := c.call(ctx, MethodListContacts, nil, &resp)
	return resp.Contacts, err
}

func (c *Client) DeleteContact(ctx context.Context, id string) error {
	return c.call(ctx, MethodDeleteContact, IDRequest{ID: id}, nil)
}

func (c *Client) ValidateContact(ctx context.Context, id string, validated bool) (model.Contact, error) {
	var resp model.Contact
	err := c.call(ctx, MethodValidateContact, ValidateContactRequest{ID: id, Validated: validated}, &resp)
	return resp, err
}

func (c *Client) TakeSelectedContact(ctx context.Context) (*model.Contact, error) {
	var resp SelectedContactResponse
	err := c.call(ctx, MethodTakeSelectedContact, nil, &resp)
	return resp.Contact, err
}

func (c *Client) ScheduleMessage(ctx context.Context, req ScheduleRequest) (ScheduleResponse, error) {
	var resp ScheduleResponse
	err := c.call(ctx, MethodScheduleMessage, req, &resp)
	return resp, err
}

func (c *Client) CancelMessage(ctx context.Context, id string) error {
	return c.call(ctx, MethodCancelMessage, IDRequest{ID: id}, nil)
}

func (c *Client) ListScheduled(ctx context.Context) ([]model.ScheduledMessage, error) {
	var resp ScheduledResponse
	err := c.call(ctx, MethodListScheduled, nil, &resp)
	return resp.Messages, err
}

func (c *Client) Deliver(ctx context.Context, mode string, payload map[string]any) (DeliverResponse, error) {
	var resp DeliverResponse
	err := c.call(ctx, MethodDeliver, DeliverRequest{Mode: mode, Payload: payload}, &resp)
	return resp, err
}

func (c *Client) ListReceived(ctx context.Context) ([]model.ReceivedMessage, error) {
	var resp ReceivedResponse
	err := c.call(ctx, MethodListReceived, nil, &resp)
	return resp.Messages, err
}

func (c *Client) MarkRead(ctx context.Context, id string) error {
	return c.call(ctx, MethodMarkRead, IDRequest{ID: id}, nil)
}

func (c *Client) DeleteReceived(ctx context.Context, id string) error {
	return c.call(ctx, MethodDeleteReceived, IDRequest{ID: id}, nil)
}

func (c *Client) RevealTap(ctx context.Context) (RevealView, error) {
	var resp RevealView
	err := c.call(ctx, MethodRevealTap, nil, &resp)
	return resp, err
}

func (c *Client) RevealDismiss(ctx context.Context) (RevealView, error) {
	var resp RevealView
	err := c.call(ctx, MethodRevealDismiss, nil, &resp)
	return resp, err
}

func (c *Client) RevealState(ctx context.Context) (RevealView, error) {
	var resp RevealView
	err := c.call(ctx, MethodRevealState, nil, &resp)
	return resp, err
}

func (c *Client) OpenLink(ctx context.Context, url string) (OpenLinkResponse, error) {
	var resp OpenLinkResponse
	err := c.call(ctx, MethodOpenLink, OpenLinkRequest{URL: url}, &resp)
	return resp, err
}

func (c *Client) Settings(ctx context.Context) (model.Settings, error) {
	var resp SettingsResponse
	err := c.call(ctx, MethodGetSettings, nil, &resp)
	return resp.Settings, err
}

// UpdateSettings applies patch, a partial settings object keyed by the
// persisted field names.
func (c *Client) UpdateSettings(ctx context.Context, patch map[string]any) (SettingsResponse, error) {
	var resp SettingsResponse
	err := c.call(ctx, MethodUpdateSettings, patch, &resp)
	return resp, err
}

func (c *Client) Reset(ctx context.Context) error {
	return c.call(ctx, MethodReset, nil, nil)
}

// EventStream receives events from WatchEvents.
type EventStream struct {
	stream grpc.ClientStream
}

// Recv blocks for the next event. Returns io.EOF when the daemon ends the stream.
func (s *EventStream) Recv() (EventEnvelope, error) {
	out := new(structpb.Struct)
	if err := s.stream.RecvMsg(out); err != nil {
		return EventEnvelope{}, err
	}
	var env EventEnvelope
	if err := Decode(out, &env); err != nil {
		return EventEnvelope{}, fmt.Errorf("decode event: %w", err)
	}
	return env, nil
}

// WatchEvents streams bus events whose kind starts with prefix until ctx ends.
func (c *Client) WatchEvents(ctx context.Context, prefix string) (*EventStream, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], FullMethod(MethodWatchEvents))
	if err != nil {
		return nil, err
	}
	in, err := Encode(WatchRequest{Prefix: prefix})
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &EventStream{stream: stream}, nil
}

