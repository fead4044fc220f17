// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bridge

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"minimaladb/cli/internal/adb"
	"minimaladb/cli/internal/controller"
	apperrors "minimaladb/cli/internal/errors"
)

func localBridge(t *testing.T, body string) *Local {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
	path := filepath.Join(t.TempDir(), "adb")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	ctrl := controller.New(controller.Options{ADBPath: path})
	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = ctrl.Shutdown(context.Background()) })
	return NewLocal(ctrl)
}

func TestLocalSideloadClosesAfterTerminalEvent(t *testing.T) {
	b := localBridge(t, `printf '(~12%%)'; printf 'adb: failed to read command\n' >&2; exit 1`)

	events, err := b.Sideload(context.Background(), "ota.zip")
	if err != nil {
		t.Fatalf("Sideload: %v", err)
	}
	var got []adb.Event
	for ev := range events {
		got = append(got, ev)
	}
	if len(got) < 2 {
		t.Fatalf("events = %+v", got)
	}
	last := got[len(got)-1]
	if last.Type != adb.EventComplete || last.Success || last.Code != 1 {
		t.Errorf("last event = %+v", last)
	}
	var sawProgress, sawStderr bool
	for _, ev := range got[:len(got)-1] {
		switch ev.Type {
		case adb.EventProgress:
			sawProgress = ev.Percent == 12
		case adb.EventStderr:
			sawStderr = true
		}
	}
	if !sawProgress || !sawStderr {
		t.Errorf("events = %+v", got)
	}
}

func TestLocalPassesErrorsThrough(t *testing.T) {
	b := localBridge(t, `printf 'error: no devices/emulators found' >&2; exit 1`)

	_, err := b.RunCommand(context.Background(), "adb shell ls")
	if err == nil || err.Error() != "error: no devices/emulators found" {
		t.Fatalf("RunCommand error = %v", err)
	}
	if !apperrors.Is(err, apperrors.NonZeroExit) {
		t.Errorf("kind = %q", apperrors.KindOf(err))
	}
}

func TestSubscribeFailedSession(t *testing.T) {
	events := Subscribe(context.Background(), func(sink adb.Sink) *adb.Session {
		return adb.Fail(apperrors.New(apperrors.InvalidRequest, "no file selected to sideload"), sink)
	})
	ev, ok := <-events
	if !ok || ev.Type != adb.EventError {
		t.Fatalf("first event = %+v, ok=%v", ev, ok)
	}
	if _, ok := <-events; ok {
		t.Error("channel should be closed after the error event")
	}
}
