// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"strings"

	"github.com/pterm/pterm"
)

// ParseLevel maps a config or flag value to a pterm log level.
// Unknown values fall back to info.
func ParseLevel(level string) pterm.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return pterm.LogLevelTrace
	case "debug":
		return pterm.LogLevelDebug
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	case "off", "disabled", "none":
		return pterm.LogLevelDisabled
	default:
		return pterm.LogLevelInfo
	}
}

// New returns a leveled logger writing to w.
func New(w io.Writer, level string) *pterm.Logger {
	return pterm.DefaultLogger.
		WithLevel(ParseLevel(level)).
		WithWriter(w).
		WithTime(false)
}
