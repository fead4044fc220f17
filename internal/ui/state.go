// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package ui renders adb results and sideload progress to the terminal.
package ui

import (
	"fmt"
	"strings"
	"sync"

	"minimaladb/cli/internal/adb"
)

// SideloadState tracks what a sideload session has reported so far.
type SideloadState struct {
	// Percent is the last percentage reported by adb
	Percent int
	// Output holds raw stdout and stderr chunks in arrival order
	Output []string
	// Done is set once a terminal event arrived
	Done bool
	// Code and Success come from the complete event
	Code    int
	Success bool
	// Failure is the error text of an error event
	Failure string

	mu sync.Mutex
}

// NewSideloadState creates an empty state.
func NewSideloadState() *SideloadState {
	return &SideloadState{}
}

// Apply folds ev into the state and reports whether the percentage moved.
// Events after the terminal one are ignored.
func (s *SideloadState) Apply(ev adb.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Done {
		return false
	}
	switch ev.Type {
	case adb.EventProgress:
		if ev.Percent == s.Percent {
			return false
		}
		s.Percent = ev.Percent
		return true
	case adb.EventStdout, adb.EventStderr:
		s.Output = append(s.Output, ev.Text)
	case adb.EventComplete:
		s.Done = true
		s.Code = ev.Code
		s.Success = ev.Success
	case adb.EventError:
		s.Done = true
		s.Failure = ev.Text
	}
	return false
}

// Finished reports whether a terminal event was applied.
func (s *SideloadState) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Done
}

// Succeeded is true only for a complete event with exit code 0.
func (s *SideloadState) Succeeded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Done && s.Failure == "" && s.Success
}

// Summary is the closing line printed after the session ends.
func (s *SideloadState) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case !s.Done:
		return "[Process End] sideload did not report a result"
	case s.Failure != "":
		return "[Error] " + s.Failure
	default:
		return fmt.Sprintf("[Process End] adb sideload exited with code %d", s.Code)
	}
}

// Transcript returns the raw output joined as the terminal would show it.
func (s *SideloadState) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.Output, "")
}
