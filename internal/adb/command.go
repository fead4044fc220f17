// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package adb runs the Android Debug Bridge executable as a child process.
//
// Two runners share one process registry. Runner executes a command to
// completion and buffers its output, treating a non-zero exit as an error.
// Streamer starts a long-running command (in practice "adb sideload") and
// reports its output incrementally as Events, finishing with a completion
// event that carries the exit code instead of failing.
package adb

import (
	"strings"
)

const sideloadPrefix = "sideload "

// Request describes one adb invocation: the resolved executable and its
// ordered argument list.
type Request struct {
	Path string
	Args []string
}

// ParseCommandLine turns a free-text command line into a Request.
//
// A line starting with "sideload " keeps everything after the prefix as a
// single file-path argument, trimmed and with surrounding quotes removed, so
// paths with spaces survive. Any other line is split on whitespace.
func ParseCommandLine(path, line string) Request {
	if strings.HasPrefix(line, sideloadPrefix) {
		file := strings.TrimSpace(line[len(sideloadPrefix):])
		file = strings.TrimPrefix(file, `"`)
		file = strings.TrimSuffix(file, `"`)
		return Request{Path: path, Args: []string{"sideload", file}}
	}
	return Request{Path: path, Args: strings.Fields(line)}
}

// SideloadRequest builds the request used by the streaming sideload path.
func SideloadRequest(path, file string) Request {
	return Request{Path: path, Args: []string{"sideload", file}}
}

// NormalizeCommandLine trims user input and drops a leading "adb " so that
// "adb devices" and "devices" run the same command.
func NormalizeCommandLine(line string) string {
	line = strings.TrimSpace(line)
	if len(line) >= 4 && strings.EqualFold(line[:4], "adb ") {
		return strings.TrimSpace(line[4:])
	}
	return line
}

// String renders the request the way a user would type it.
func (r Request) String() string {
	parts := make([]string, 0, len(r.Args)+1)
	parts = append(parts, "adb")
	for _, a := range r.Args {
		if strings.ContainsAny(a, " \t") {
			a = `"` + a + `"`
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
