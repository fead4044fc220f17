// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package bridge defines the typed message-passing surface between a user
// interface and the adb controller. One-shot operations are request/response
// calls; sideload progress is a subscription delivered over a channel.
//
// The interface is transport-agnostic. NewLocal serves it in-process from a
// controller, and the grpcclient package serves it from a remote
// "minimaladb serve" daemon.
package bridge

import (
	"context"

	"minimaladb/cli/internal/adb"
	"minimaladb/cli/internal/controller"
	"minimaladb/cli/internal/device"
)

// EventBuffer is the capacity of sideload subscription channels.
const EventBuffer = 64

// Bridge represents a connection to an adb controller.
type Bridge interface {
	// RunCommand runs a free-text adb command line and waits for it.
	RunCommand(ctx context.Context, line string) (adb.Result, error)
	// RebootRecovery reboots the device into recovery mode.
	RebootRecovery(ctx context.Context) (adb.Result, error)
	// Sideload starts a sideload and returns its event stream. The channel is
	// closed after the terminal (complete or error) event.
	Sideload(ctx context.Context, file string) (<-chan adb.Event, error)
	// ListDevices returns the attached devices.
	ListDevices(ctx context.Context) ([]device.Device, error)
	// Shell runs a command in a device shell and returns its trimmed output.
	Shell(ctx context.Context, deviceID, command string) (string, error)
	// Revision returns the platform-tools Pkg.Revision, or "" if unknown.
	Revision(ctx context.Context) (string, error)
	Close(ctx context.Context) error
}

// Local serves Bridge directly from a controller in the same process.
type Local struct {
	ctrl *controller.Controller
}

var _ Bridge = (*Local)(nil)

// NewLocal wraps a started controller. Close does not shut it down; the
// owner of the controller does that.
func NewLocal(ctrl *controller.Controller) *Local {
	return &Local{ctrl: ctrl}
}

func (l *Local) RunCommand(ctx context.Context, line string) (adb.Result, error) {
	return l.ctrl.RunCommand(ctx, line)
}

func (l *Local) RebootRecovery(ctx context.Context) (adb.Result, error) {
	return l.ctrl.RebootRecovery(ctx)
}

// Sideload subscribes to a sideload session. If ctx ends before the consumer
// drains the channel, remaining events are dropped; the process itself keeps
// running until it exits or the controller shuts down.
func (l *Local) Sideload(ctx context.Context, file string) (<-chan adb.Event, error) {
	return Subscribe(ctx, func(sink adb.Sink) *adb.Session {
		return l.ctrl.Sideload(ctx, file, sink)
	}), nil
}

func (l *Local) ListDevices(ctx context.Context) ([]device.Device, error) {
	return l.ctrl.ListDevices(ctx)
}

func (l *Local) Shell(ctx context.Context, deviceID, command string) (string, error) {
	return l.ctrl.Shell(ctx, deviceID, command)
}

func (l *Local) Revision(ctx context.Context) (string, error) {
	return l.ctrl.PlatformToolsRevision(), nil
}

func (l *Local) Close(ctx context.Context) error { return nil }

// Subscribe adapts a sink-based session into a channel subscription. The
// channel closes once the session is terminal and every event was delivered.
func Subscribe(ctx context.Context, start func(adb.Sink) *adb.Session) <-chan adb.Event {
	events := make(chan adb.Event, EventBuffer)
	sess := start(func(ev adb.Event) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	})
	go func() {
		<-sess.Done()
		close(events)
	}()
	return events
}
