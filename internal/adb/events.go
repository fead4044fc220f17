// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package adb

import (
	"regexp"
	"strconv"
)

// EventType enumerates the notifications emitted by Streamer.
type EventType string

const (
	// EventProgress carries a percentage scraped from a stdout chunk.
	EventProgress EventType = "progress"
	// EventStdout carries a stdout chunk that held no percentage.
	EventStdout EventType = "stdout"
	// EventStderr carries a stderr chunk verbatim.
	EventStderr EventType = "stderr"
	// EventComplete is emitted once when the process exits.
	EventComplete EventType = "complete"
	// EventError is emitted instead of EventComplete when the process could
	// not be started or failed at the execution level.
	EventError EventType = "error"
)

// Event is a generic container for streaming notifications.
// Only a subset of fields is set depending on Type.
type Event struct {
	Type EventType `json:"type"`

	// Progress
	Percent int `json:"percent,omitempty"`

	// Raw stdout/stderr chunk or error message
	Text string `json:"text,omitempty"`

	// Completion
	Code    int  `json:"code"`
	Success bool `json:"success"`
}

// Terminal reports whether no further events follow this one.
func (e Event) Terminal() bool {
	return e.Type == EventComplete || e.Type == EventError
}

// Sink receives streaming events. Calls are never concurrent.
type Sink func(Event)

var rePercent = regexp.MustCompile(`(\d+)%`)

// ParsePercent extracts the first "<digits>%" occurrence from text. A number
// too large for an int reads as 100.
func ParsePercent(text string) (int, bool) {
	m := rePercent.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 100, true
	}
	return n, true
}

// classifyStdout maps one stdout chunk to exactly one event.
func classifyStdout(chunk string) Event {
	if p, ok := ParsePercent(chunk); ok {
		return Event{Type: EventProgress, Percent: p}
	}
	return Event{Type: EventStdout, Text: chunk}
}

// chunkWriter hands every Write call to fn as one chunk.
type chunkWriter struct {
	fn func(chunk string)
}

func (w *chunkWriter) Write(p []byte) (int, error) {
	if len(p) > 0 {
		w.fn(string(p))
	}
	return len(p), nil
}
