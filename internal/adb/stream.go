// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package adb

import (
	"context"
	"sync"

	"github.com/pterm/pterm"
)

// State is the lifecycle position of a streaming invocation.
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StateCompleted
	StateSpawnFailed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateSpawnFailed:
		return "spawn_failed"
	}
	return "unknown"
}

// Session follows one streaming invocation from spawn to its terminal state.
type Session struct {
	mu    sync.Mutex
	state State
	code  int
	err   error
	done  chan struct{}
}

func newSession() *Session {
	return &Session{done: make(chan struct{})}
}

// transition moves the session forward; terminal states are final.
func (s *Session) transition(to State, code int, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateNotStarted:
		if to == StateCompleted {
			return false
		}
	case StateRunning:
		if to == StateNotStarted || to == StateRunning {
			return false
		}
	default:
		return false
	}
	s.state, s.code, s.err = to, code, err
	if to == StateCompleted || to == StateSpawnFailed {
		close(s.done)
	}
	return true
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Code returns the exit code once the session has completed.
func (s *Session) Code() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.code
}

// Err returns the spawn error of a session that never ran.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Done is closed once the session reaches a terminal state. Every event has
// been delivered to the sink by then.
func (s *Session) Done() <-chan struct{} { return s.done }

// Wait blocks until the session reaches a terminal state and returns it.
func (s *Session) Wait() State {
	<-s.done
	return s.State()
}

// Streamer runs long adb operations and reports their output as events.
// Unlike Runner, a non-zero exit is not an error: it is reported through the
// completion event's Code and Success fields.
type Streamer struct {
	registry *Registry
	logger   *pterm.Logger
}

// NewStreamer creates a Streamer sharing registry with other runners.
func NewStreamer(registry *Registry, logger *pterm.Logger) *Streamer {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Streamer{registry: registry, logger: orDiscard(logger)}
}

// Start spawns req and returns immediately. Stdout chunks become progress
// events when they contain "<n>%" and raw stdout events otherwise; stderr
// chunks are forwarded verbatim. Exactly one completion event follows the
// exit, or exactly one error event if the process could not be run.
func (s *Streamer) Start(ctx context.Context, req Request, sink Sink) *Session {
	sess := newSession()
	emit := serialize(sink)

	stdout := &chunkWriter{fn: func(chunk string) { emit(classifyStdout(chunk)) }}
	stderr := &chunkWriter{fn: func(chunk string) { emit(Event{Type: EventStderr, Text: chunk}) }}

	s.logger.Debug("starting stream", s.logger.Args("path", req.Path, "args", req.Args))
	p, err := spawn(ctx, s.registry, req, stdout, stderr)
	if err != nil {
		s.logger.Warn("stream failed to start", s.logger.Args("path", req.Path, "error", err))
		emit(Event{Type: EventError, Text: err.Error()})
		sess.transition(StateSpawnFailed, 0, err)
		return sess
	}
	sess.transition(StateRunning, 0, nil)

	go func() {
		code, err := p.wait()
		if err != nil && !isExitStatus(err) {
			serr := &SpawnError{Path: req.Path, Err: err}
			s.logger.Warn("stream execution failed", s.logger.Args("args", req.Args, "error", err))
			emit(Event{Type: EventError, Text: serr.Error()})
			sess.transition(StateSpawnFailed, 0, serr)
			return
		}
		s.logger.Debug("stream finished", s.logger.Args("args", req.Args, "code", code))
		emit(Event{Type: EventComplete, Code: code, Success: code == 0})
		sess.transition(StateCompleted, code, nil)
	}()
	return sess
}

// Fail returns a session that never ran, reporting err to sink as the
// single error event.
func Fail(err error, sink Sink) *Session {
	sess := newSession()
	serialize(sink)(Event{Type: EventError, Text: err.Error()})
	sess.transition(StateSpawnFailed, 0, err)
	return sess
}

// Registry exposes the registry the streamer records its processes in.
func (s *Streamer) Registry() *Registry { return s.registry }

// serialize guards sink so stdout and stderr pumps never call it at once.
func serialize(sink Sink) Sink {
	if sink == nil {
		return func(Event) {}
	}
	var mu sync.Mutex
	return func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		sink(ev)
	}
}
