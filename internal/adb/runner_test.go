// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package adb

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"sync"
	"testing"

	apperrors "minimaladb/cli/internal/errors"
)

func shell(script string) Request {
	return Request{Path: "/bin/sh", Args: []string{"-c", script}}
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
}

func TestRunnerSuccessCapturesBothStreams(t *testing.T) {
	requireShell(t)
	runner := NewRunner(nil, nil)

	res, err := runner.Run(context.Background(), shell("printf 'List of devices'; printf ' attached\\n'; printf 'warn' >&2"))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Stdout != "List of devices attached\n" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if res.Stderr != "warn" {
		t.Errorf("Stderr = %q", res.Stderr)
	}
	if runner.Registry().Len() != 0 {
		t.Errorf("registry still holds %d processes", runner.Registry().Len())
	}
}

func TestRunnerNonZeroExitUsesStderr(t *testing.T) {
	requireShell(t)
	runner := NewRunner(nil, nil)

	_, err := runner.Run(context.Background(), shell("printf 'ignored'; printf 'permission denied' >&2; exit 137"))
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "permission denied" {
		t.Errorf("error = %q, want %q", err.Error(), "permission denied")
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %T", err)
	}
	if exitErr.Code != 137 {
		t.Errorf("Code = %d, want 137", exitErr.Code)
	}
	if apperrors.KindOf(err) != apperrors.NonZeroExit {
		t.Errorf("KindOf = %q", apperrors.KindOf(err))
	}
}

func TestRunnerNonZeroExitFallsBackToStdout(t *testing.T) {
	requireShell(t)
	runner := NewRunner(nil, nil)

	_, err := runner.Run(context.Background(), shell("printf 'device offline'; exit 1"))
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "device offline" {
		t.Errorf("error = %q, want %q", err.Error(), "device offline")
	}
}

func TestRunnerSpawnError(t *testing.T) {
	runner := NewRunner(nil, nil)

	_, err := runner.Run(context.Background(), Request{Path: "/nonexistent/adb", Args: []string{"devices"}})
	if err == nil {
		t.Fatal("expected error")
	}
	var spawnErr *SpawnError
	if !errors.As(err, &spawnErr) {
		t.Fatalf("expected *SpawnError, got %T: %v", err, err)
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		t.Error("spawn failure must not look like a non-zero exit")
	}
	if apperrors.KindOf(err) != apperrors.SpawnFailed {
		t.Errorf("KindOf = %q", apperrors.KindOf(err))
	}
	if runner.Registry().Len() != 0 {
		t.Errorf("registry holds %d processes after failed spawn", runner.Registry().Len())
	}
}

func TestRunnerEmptyPath(t *testing.T) {
	_, err := NewRunner(nil, nil).Run(context.Background(), Request{Args: []string{"devices"}})
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("error = %v, want exec.ErrNotFound", err)
	}
}

func TestRunnerConcurrentInvocations(t *testing.T) {
	requireShell(t)
	runner := NewRunner(nil, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := runner.Run(context.Background(), shell("printf ok"))
			if err != nil {
				errs <- err
				return
			}
			if res.Stdout != "ok" {
				errs <- errors.New("unexpected stdout " + res.Stdout)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	if runner.Registry().Len() != 0 {
		t.Errorf("registry still holds %d processes", runner.Registry().Len())
	}
}
