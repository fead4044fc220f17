// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package grpcclient provides a gRPC-backed implementation of the Bridge
// interface. It talks to a "minimaladb serve" daemon over the DeviceBridge
// service and converts wire messages and status errors back into the adb and
// device domain types.
package grpcclient

import (
	"context"
	"errors"
	"io"
	"time"

	"minimaladb/cli/internal/adb"
	"minimaladb/cli/internal/bridge"
	"minimaladb/cli/internal/bridge/wire"
	"minimaladb/cli/internal/device"
	apperrors "minimaladb/cli/internal/errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// DialTimeout bounds the initial connection attempt.
const DialTimeout = 5 * time.Second

// Client implements bridge.Bridge against a remote controller.
type Client struct {
	conn  *grpc.ClientConn
	rpc   *wire.Client
	token string
}

var _ bridge.Bridge = (*Client)(nil)

// Dial connects to a bridge server on addr. The daemon binds to loopback, so
// the channel is plaintext; the token is sent with every call.
func Dial(ctx context.Context, addr, token string) (*Client, error) {
	if token == "" {
		return nil, apperrors.New(apperrors.InvalidRequest, "bridge token is empty")
	}
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.BridgeUnavailable, "dial bridge "+addr, err)
	}
	c := &Client{conn: conn, rpc: wire.NewClient(conn), token: token}

	dctx, cancel := context.WithTimeout(ctx, DialTimeout)
	defer cancel()
	if _, err := c.Revision(dctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) outgoing(ctx context.Context) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+c.token)
}

func (c *Client) RunCommand(ctx context.Context, line string) (adb.Result, error) {
	out, err := c.rpc.RunCommand(c.outgoing(ctx), wrapperspb.String(line))
	if err != nil {
		return adb.Result{}, wire.FromStatus(err)
	}
	return wire.ToResult(out), nil
}

func (c *Client) RebootRecovery(ctx context.Context) (adb.Result, error) {
	out, err := c.rpc.RebootRecovery(c.outgoing(ctx), &emptypb.Empty{})
	if err != nil {
		return adb.Result{}, wire.FromStatus(err)
	}
	return wire.ToResult(out), nil
}

// Sideload opens the event stream. A stream that breaks before a terminal
// event yields a synthetic error event so consumers always see one.
func (c *Client) Sideload(ctx context.Context, file string) (<-chan adb.Event, error) {
	stream, err := c.rpc.Sideload(c.outgoing(ctx), wrapperspb.String(file))
	if err != nil {
		return nil, wire.FromStatus(err)
	}
	events := make(chan adb.Event, bridge.EventBuffer)
	go func() {
		defer close(events)
		send := func(ev adb.Event) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}
		for {
			msg, err := stream.Recv()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					send(adb.Event{Type: adb.EventError, Text: wire.FromStatus(err).Error()})
				} else {
					send(adb.Event{Type: adb.EventError, Text: "sideload stream ended without a result"})
				}
				return
			}
			ev := wire.ToEvent(msg)
			if !send(ev) || ev.Terminal() {
				return
			}
		}
	}()
	return events, nil
}

func (c *Client) ListDevices(ctx context.Context) ([]device.Device, error) {
	out, err := c.rpc.ListDevices(c.outgoing(ctx), &emptypb.Empty{})
	if err != nil {
		return nil, wire.FromStatus(err)
	}
	return wire.ToDevices(out), nil
}

func (c *Client) Shell(ctx context.Context, deviceID, command string) (string, error) {
	out, err := c.rpc.Shell(c.outgoing(ctx), wire.ShellRequest(deviceID, command))
	if err != nil {
		return "", wire.FromStatus(err)
	}
	return out.GetValue(), nil
}

func (c *Client) Revision(ctx context.Context) (string, error) {
	out, err := c.rpc.Revision(c.outgoing(ctx), &emptypb.Empty{})
	if err != nil {
		return "", wire.FromStatus(err)
	}
	return out.GetValue(), nil
}

// Close releases the connection. Remote processes are owned by the daemon.
func (c *Client) Close(ctx context.Context) error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
