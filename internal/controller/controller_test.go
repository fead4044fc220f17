// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package controller

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"minimaladb/cli/internal/adb"
	"minimaladb/cli/internal/device"
	apperrors "minimaladb/cli/internal/errors"
)

func fakeADB(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
	path := filepath.Join(t.TempDir(), "adb")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func started(t *testing.T, opts Options) *Controller {
	t.Helper()
	c := New(opts)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = c.Shutdown(context.Background()) })
	return c
}

type stubDevices struct {
	devices []device.Device
	out     []byte
	err     error
}

func (s stubDevices) ListDevices(context.Context) ([]device.Device, error) { return s.devices, s.err }
func (s stubDevices) RunShell(context.Context, string, string) ([]byte, error) {
	return s.out, s.err
}

func TestOperationsRequireStart(t *testing.T) {
	c := New(Options{ADBPath: "/nonexistent/adb"})

	if _, err := c.RunCommand(context.Background(), "devices"); !errors.Is(err, ErrNotRunning) {
		t.Errorf("RunCommand before Start: %v", err)
	}
	if _, err := c.ListDevices(context.Background()); !apperrors.Is(err, apperrors.NotRunning) {
		t.Errorf("ListDevices before Start: %v", err)
	}
	var got []adb.Event
	sess := c.Sideload(context.Background(), "rom.zip", func(ev adb.Event) { got = append(got, ev) })
	if sess.Wait() != adb.StateSpawnFailed || len(got) != 1 || got[0].Type != adb.EventError {
		t.Errorf("Sideload before Start: state %s events %+v", sess.State(), got)
	}
}

func TestStartValidatesPathAndShutdownIsFinal(t *testing.T) {
	if err := New(Options{}).Start(context.Background()); !apperrors.Is(err, apperrors.InvalidRequest) {
		t.Errorf("Start with empty path: %v", err)
	}

	if err := New(Options{ADBPath: "/nonexistent/adb"}).Start(context.Background()); !apperrors.Is(err, apperrors.SpawnFailed) {
		t.Errorf("Start with missing adb: %v", err)
	}

	c := New(Options{ADBPath: fakeADB(t, "exit 0")})
	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Errorf("second Start: %v", err)
	}
	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := c.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown: %v", err)
	}
	if err := c.Start(context.Background()); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Start after Shutdown: %v", err)
	}
}

func TestRunCommandStripsPrefix(t *testing.T) {
	c := started(t, Options{ADBPath: fakeADB(t, `printf '%s,' "$@"`)})

	res, err := c.RunCommand(context.Background(), `adb sideload "/tmp/my rom.zip"`)
	if err != nil {
		t.Fatalf("RunCommand: %v", err)
	}
	if res.Stdout != "sideload,/tmp/my rom.zip," {
		t.Errorf("Stdout = %q", res.Stdout)
	}

	if _, err := c.RunCommand(context.Background(), "adb   "); !apperrors.Is(err, apperrors.InvalidRequest) {
		t.Errorf("empty command: %v", err)
	}
}

func TestRebootRecoveryFallback(t *testing.T) {
	c := started(t, Options{ADBPath: fakeADB(t, `exit 0`)})

	res, err := c.RebootRecovery(context.Background())
	if err != nil {
		t.Fatalf("RebootRecovery: %v", err)
	}
	if res.Stdout != RecoveryFallback {
		t.Errorf("Stdout = %q, want fallback", res.Stdout)
	}
}

func TestDeviceErrorsPropagateUnchanged(t *testing.T) {
	upstream := errors.New("device 'R58' not found")
	c := started(t, Options{ADBPath: fakeADB(t, "exit 0"), Devices: stubDevices{err: upstream}})

	if _, err := c.ListDevices(context.Background()); err != upstream {
		t.Errorf("ListDevices error = %v, want upstream error unchanged", err)
	}
	if _, err := c.Shell(context.Background(), "R58", "ls"); err != upstream {
		t.Errorf("Shell error = %v, want upstream error unchanged", err)
	}
}

func TestShellTrimsOutput(t *testing.T) {
	c := started(t, Options{ADBPath: fakeADB(t, "exit 0"), Devices: stubDevices{out: []byte("  Pixel 8\r\n")}})

	out, err := c.Shell(context.Background(), "R58", "getprop ro.product.model")
	if err != nil || out != "Pixel 8" {
		t.Errorf("Shell() = (%q, %v)", out, err)
	}
}

func TestSideloadRequiresFile(t *testing.T) {
	c := started(t, Options{ADBPath: fakeADB(t, "exit 0")})

	var got []adb.Event
	sess := c.Sideload(context.Background(), " ", func(ev adb.Event) { got = append(got, ev) })
	if sess.Wait() != adb.StateSpawnFailed || len(got) != 1 || got[0].Type != adb.EventError {
		t.Errorf("state %s events %+v", sess.State(), got)
	}
}

func TestShutdownTerminatesSideload(t *testing.T) {
	c := New(Options{
		ADBPath:       fakeADB(t, `printf 'serving: rom.zip (~12%%)\n'; exec sleep 30`),
		ShutdownGrace: time.Second,
	})
	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var events []adb.Event
	progress := make(chan struct{}, 1)
	sess := c.Sideload(context.Background(), "rom.zip", func(ev adb.Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
		if ev.Type == adb.EventProgress {
			select {
			case progress <- struct{}{}:
			default:
			}
		}
	})

	select {
	case <-progress:
	case <-time.After(10 * time.Second):
		t.Fatal("no progress event")
	}
	if c.Running() != 1 {
		t.Fatalf("Running() = %d, want 1", c.Running())
	}
	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	select {
	case <-sess.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("sideload survived shutdown")
	}
	if c.Running() != 0 {
		t.Errorf("Running() = %d after shutdown", c.Running())
	}
	mu.Lock()
	defer mu.Unlock()
	last := events[len(events)-1]
	if last.Type != adb.EventComplete || last.Success {
		t.Errorf("last event = %+v, want failed completion", last)
	}
	if events[0].Type != adb.EventProgress || events[0].Percent != 12 {
		t.Errorf("first event = %+v, want 12%% progress", events[0])
	}
}
