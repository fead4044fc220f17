// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"minimaladb/cli/internal/bridge"
	"minimaladb/cli/internal/controller"

	"github.com/pterm/pterm"
)

func localSession(t *testing.T, body string) *session {
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
	s := &session{
		Bridge: bridge.NewLocal(ctrl),
		ctrl:   ctrl,
		logger: pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled),
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestConsoleRunsCommandsAndSavesTranscript(t *testing.T) {
	pterm.DisableColor()
	s := localSession(t, `case "$1" in
devices) printf 'List of devices attached\nR58\tsideload\n' ;;
reboot) exit 0 ;;
*) printf 'adb: unknown command %s\n' "$1" >&2; exit 1 ;;
esac`)

	saved := filepath.Join(t.TempDir(), "session.txt")
	in := strings.NewReader("adb devices\n\nrecovery\nfrobnicate\nsave " + saved + "\nexit\ndevices\n")
	var out bytes.Buffer

	if err := runConsole(context.Background(), s, in, &out); err != nil {
		t.Fatalf("runConsole: %v", err)
	}

	b, err := os.ReadFile(saved)
	if err != nil {
		t.Fatalf("transcript not saved: %v", err)
	}
	want := strings.Join([]string{
		consoleBanner,
		"adb devices",
		"List of devices attached",
		"R58\tsideload",
		"adb reboot recovery",
		controller.RecoveryFallback,
		"adb frobnicate",
		"adb: unknown command frobnicate",
	}, "\n")
	if string(b) != want {
		t.Errorf("transcript = %q, want %q", b, want)
	}
	if strings.Count(out.String(), "List of devices attached") != 1 {
		t.Errorf("commands after exit must not run; output = %q", out.String())
	}
}

func TestConsoleStopsAtEOF(t *testing.T) {
	s := localSession(t, "exit 0")
	var out bytes.Buffer
	if err := runConsole(context.Background(), s, strings.NewReader(""), &out); err != nil {
		t.Fatalf("runConsole: %v", err)
	}
	if !strings.Contains(out.String(), consolePrompt) {
		t.Errorf("output = %q", out.String())
	}
}
