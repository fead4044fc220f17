// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package grpcserver exposes a controller over the DeviceBridge gRPC service
// so that another process can drive adb through "minimaladb serve".
package grpcserver

import (
	"context"
	"crypto/subtle"
	"net"
	"strings"

	"minimaladb/cli/internal/adb"
	"minimaladb/cli/internal/bridge"
	"minimaladb/cli/internal/bridge/wire"
	"minimaladb/cli/internal/controller"

	"github.com/pterm/pterm"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Server serves one controller to bearer-token authenticated clients.
type Server struct {
	ctrl   *controller.Controller
	token  string
	logger *pterm.Logger
	grpc   *grpc.Server
}

var _ wire.Handler = (*Server)(nil)

// New builds a server for ctrl. Every call must carry
// "authorization: Bearer <token>".
func New(ctrl *controller.Controller, token string, logger *pterm.Logger) *Server {
	if logger == nil {
		logger = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}
	s := &Server{ctrl: ctrl, token: token, logger: logger}
	s.grpc = grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.authUnary),
		grpc.ChainStreamInterceptor(s.authStream),
	)
	wire.Register(s.grpc, s)
	return s
}

// Serve accepts connections on lis until Stop or GracefulStop.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("bridge listening", s.logger.Args("addr", lis.Addr().String()))
	return s.grpc.Serve(lis)
}

// GracefulStop waits for in-flight calls, including open sideload streams.
func (s *Server) GracefulStop() { s.grpc.GracefulStop() }

// Stop closes every connection immediately.
func (s *Server) Stop() { s.grpc.Stop() }

func (s *Server) authorize(ctx context.Context) error {
	md, _ := metadata.FromIncomingContext(ctx)
	for _, v := range md.Get("authorization") {
		tok, ok := strings.CutPrefix(v, "Bearer ")
		if ok && s.token != "" && subtle.ConstantTimeCompare([]byte(tok), []byte(s.token)) == 1 {
			return nil
		}
	}
	return status.Error(codes.Unauthenticated, "missing or invalid bridge token")
}

func (s *Server) authUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if err := s.authorize(ctx); err != nil {
		s.logger.Warn("rejected bridge call", s.logger.Args("method", info.FullMethod))
		return nil, err
	}
	s.logger.Debug("bridge call", s.logger.Args("method", info.FullMethod))
	return handler(ctx, req)
}

func (s *Server) authStream(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	if err := s.authorize(ss.Context()); err != nil {
		s.logger.Warn("rejected bridge stream", s.logger.Args("method", info.FullMethod))
		return err
	}
	s.logger.Debug("bridge stream", s.logger.Args("method", info.FullMethod))
	return handler(srv, ss)
}

func (s *Server) RunCommand(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	res, err := s.ctrl.RunCommand(ctx, in.GetValue())
	if err != nil {
		return nil, wire.StatusError(err)
	}
	return wire.FromResult(res), nil
}

func (s *Server) RebootRecovery(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	res, err := s.ctrl.RebootRecovery(ctx)
	if err != nil {
		return nil, wire.StatusError(err)
	}
	return wire.FromResult(res), nil
}

// Sideload forwards session events until the terminal one. A client that
// goes away cancels the stream context, which kills the adb process.
func (s *Server) Sideload(in *wrapperspb.StringValue, stream wire.SideloadStream) error {
	ctx := stream.Context()
	events := bridge.Subscribe(ctx, func(sink adb.Sink) *adb.Session {
		return s.ctrl.Sideload(ctx, in.GetValue(), sink)
	})
	for ev := range events {
		if err := stream.Send(wire.FromEvent(ev)); err != nil {
			s.logger.Debug("sideload stream closed by client", s.logger.Args("error", err))
			for range events {
			}
			return err
		}
	}
	return nil
}

func (s *Server) ListDevices(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	devices, err := s.ctrl.ListDevices(ctx)
	if err != nil {
		return nil, wire.StatusError(err)
	}
	return wire.FromDevices(devices), nil
}

func (s *Server) Shell(ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error) {
	id, cmd := wire.ParseShellRequest(in)
	out, err := s.ctrl.Shell(ctx, id, cmd)
	if err != nil {
		return nil, wire.StatusError(err)
	}
	return wrapperspb.String(out), nil
}

func (s *Server) Revision(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return wrapperspb.String(s.ctrl.PlatformToolsRevision()), nil
}
