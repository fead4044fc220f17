// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package adb

import (
	"context"
	"errors"
	"os"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Registry tracks processes that are currently running so that they can be
// terminated when the host shuts down. It is safe for concurrent use.
type Registry struct {
	mu     sync.Mutex
	next   uint64
	procs  map[uint64]*tracked
	closed bool
}

type tracked struct {
	proc *os.Process
	done chan struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{procs: make(map[uint64]*tracked)}
}

// Add records a freshly spawned process and returns its registry id. Once
// Terminate has run, the process is killed immediately; it stays tracked
// until Remove so that the caller still reaps it.
func (r *Registry) Add(proc *os.Process) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	t := &tracked{proc: proc, done: make(chan struct{})}
	r.procs[r.next] = t
	if r.closed {
		_ = t.kill()
	}
	return r.next
}

// Remove forgets a process after it has been reaped. Unknown ids are ignored.
func (r *Registry) Remove(id uint64) {
	r.mu.Lock()
	t, ok := r.procs[id]
	delete(r.procs, id)
	r.mu.Unlock()
	if ok {
		close(t.done)
	}
}

// Len returns the number of processes still running.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.procs)
}

// Terminate interrupts every tracked process and kills the ones still alive
// after grace. It returns once every process has been signalled; the first
// signalling error, if any, is returned. Processes added afterwards are
// killed on arrival.
func (r *Registry) Terminate(ctx context.Context, grace time.Duration) error {
	r.mu.Lock()
	r.closed = true
	snapshot := make([]*tracked, 0, len(r.procs))
	for _, t := range r.procs {
		snapshot = append(snapshot, t)
	}
	r.mu.Unlock()

	var g errgroup.Group
	for _, t := range snapshot {
		t := t
		g.Go(func() error { return t.stop(ctx, grace) })
	}
	return g.Wait()
}

func (t *tracked) stop(ctx context.Context, grace time.Duration) error {
	// Windows has no interrupt delivery for child processes.
	if runtime.GOOS != "windows" {
		if err := t.proc.Signal(os.Interrupt); err != nil {
			if errors.Is(err, os.ErrProcessDone) {
				return nil
			}
			return t.kill()
		}
		timer := time.NewTimer(grace)
		defer timer.Stop()
		select {
		case <-t.done:
			return nil
		case <-timer.C:
		case <-ctx.Done():
		}
	}
	return t.kill()
}

func (t *tracked) kill() error {
	if err := t.proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
