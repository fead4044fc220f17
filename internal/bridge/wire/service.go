// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package wire declares the DeviceBridge gRPC service by hand.
//
// Requests and responses are protobuf well-known types (StringValue, Struct,
// Empty), so the service needs no generated stubs; the helpers in convert.go
// map them to and from the adb and device domain types.
package wire

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "minimaladb.bridge.v1.DeviceBridge"

const (
	RunCommandMethod     = "/" + ServiceName + "/RunCommand"
	RebootRecoveryMethod = "/" + ServiceName + "/RebootRecovery"
	SideloadMethod       = "/" + ServiceName + "/Sideload"
	ListDevicesMethod    = "/" + ServiceName + "/ListDevices"
	ShellMethod          = "/" + ServiceName + "/Shell"
	RevisionMethod       = "/" + ServiceName + "/Revision"
)

// SideloadStream is the server side of the Sideload stream.
type SideloadStream = grpc.ServerStreamingServer[structpb.Struct]

// Handler is implemented by the bridge server.
type Handler interface {
	RunCommand(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	RebootRecovery(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Sideload(*wrapperspb.StringValue, SideloadStream) error
	ListDevices(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Shell(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
	Revision(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
}

// Register attaches h to s.
func Register(s grpc.ServiceRegistrar, h Handler) {
	s.RegisterService(&ServiceDesc, h)
}

// ServiceDesc describes DeviceBridge for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Handler)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RunCommand", Handler: runCommandHandler},
		{MethodName: "RebootRecovery", Handler: rebootRecoveryHandler},
		{MethodName: "ListDevices", Handler: listDevicesHandler},
		{MethodName: "Shell", Handler: shellHandler},
		{MethodName: "Revision", Handler: revisionHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Sideload", Handler: sideloadHandler, ServerStreams: true},
	},
	Metadata: "minimaladb/bridge/v1/bridge.proto",
}

// unary decodes a request of type Req and dispatches it to call, running the
// server's interceptor chain when one is installed.
func unary[Req any, Res any](
	method string,
	call func(Handler, context.Context, *Req) (*Res, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		h := srv.(Handler)
		if interceptor == nil {
			return call(h, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(h, ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var (
	runCommandHandler = unary(RunCommandMethod, func(h Handler, ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
		return h.RunCommand(ctx, in)
	})
	rebootRecoveryHandler = unary(RebootRecoveryMethod, func(h Handler, ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error) {
		return h.RebootRecovery(ctx, in)
	})
	listDevicesHandler = unary(ListDevicesMethod, func(h Handler, ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error) {
		return h.ListDevices(ctx, in)
	})
	shellHandler = unary(ShellMethod, func(h Handler, ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error) {
		return h.Shell(ctx, in)
	})
	revisionHandler = unary(RevisionMethod, func(h Handler, ctx context.Context, in *emptypb.Empty) (*wrapperspb.StringValue, error) {
		return h.Revision(ctx, in)
	})
)

func sideloadHandler(srv any, stream grpc.ServerStream) error {
	in := new(wrapperspb.StringValue)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(Handler).Sideload(in, &grpc.GenericServerStream[wrapperspb.StringValue, structpb.Struct]{ServerStream: stream})
}

// Client is a thin typed caller for DeviceBridge.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a client connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Req any, Res any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts ...grpc.CallOption) (*Res, error) {
	out := new(Res)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RunCommand(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[wrapperspb.StringValue, structpb.Struct](ctx, c.cc, RunCommandMethod, in, opts...)
}

func (c *Client) RebootRecovery(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[emptypb.Empty, structpb.Struct](ctx, c.cc, RebootRecoveryMethod, in, opts...)
}

func (c *Client) ListDevices(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[emptypb.Empty, structpb.Struct](ctx, c.cc, ListDevicesMethod, in, opts...)
}

func (c *Client) Shell(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return invoke[structpb.Struct, wrapperspb.StringValue](ctx, c.cc, ShellMethod, in, opts...)
}

func (c *Client) Revision(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return invoke[emptypb.Empty, wrapperspb.StringValue](ctx, c.cc, RevisionMethod, in, opts...)
}

// Sideload opens the server stream of sideload events.
func (c *Client) Sideload(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], SideloadMethod, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[wrapperspb.StringValue, structpb.Struct]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
