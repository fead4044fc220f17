// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package adb

import (
	"context"
	"os"
	"os/exec"
	"sync"
	"testing"
	"time"
)

func TestRegistryConcurrentAddRemove(t *testing.T) {
	reg := NewRegistry()
	self, err := os.FindProcess(os.Getpid())
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := reg.Add(self)
			reg.Remove(id)
		}()
	}
	wg.Wait()
	if reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", reg.Len())
	}
	reg.Remove(12345)
}

func TestRegistryTerminateStopsStreams(t *testing.T) {
	requireShell(t)
	reg := NewRegistry()
	streamer := NewStreamer(reg, nil)

	var c collector
	sess := streamer.Start(context.Background(), shell("exec sleep 30"), c.sink)
	if sess.State() != StateRunning {
		t.Fatalf("state = %s, want running", sess.State())
	}
	if reg.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", reg.Len())
	}

	if err := reg.Terminate(context.Background(), 2*time.Second); err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	if state := waitSession(t, sess); state != StateCompleted {
		t.Fatalf("state = %s, want completed", state)
	}
	done := c.ofType(EventComplete)
	if len(done) != 1 || done[0].Success {
		t.Errorf("completion = %+v, want a failed completion", done)
	}
	if reg.Len() != 0 {
		t.Errorf("Len() = %d after termination", reg.Len())
	}
}

func TestRegistryTerminateEmpty(t *testing.T) {
	if err := NewRegistry().Terminate(context.Background(), time.Second); err != nil {
		t.Errorf("Terminate on empty registry: %v", err)
	}
}

func TestRegistryKillsProcessesAddedAfterTerminate(t *testing.T) {
	requireShell(t)
	reg := NewRegistry()
	if err := reg.Terminate(context.Background(), time.Second); err != nil {
		t.Fatalf("Terminate: %v", err)
	}

	cmd := exec.Command("/bin/sh", "-c", "exec sleep 30")
	if err := cmd.Start(); err != nil {
		t.Fatal(err)
	}
	id := reg.Add(cmd.Process)

	waited := make(chan error, 1)
	go func() { waited <- cmd.Wait() }()
	select {
	case err := <-waited:
		if err == nil {
			t.Error("process exited cleanly, want it killed")
		}
	case <-time.After(5 * time.Second):
		_ = cmd.Process.Kill()
		t.Fatal("process added after Terminate is still running")
	}
	reg.Remove(id)
	if reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", reg.Len())
	}
}
