// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides leveled logging, secret masking, and user-facing
// error presentation for minimaladb.
//
// Anything printed or logged that may carry the bridge token (gRPC metadata,
// environment dumps, command lines typed into the console) goes through Mask
// first.
package logging

import (
	"regexp"
)

var (
	reBearer = regexp.MustCompile(`(?i)(authorization:\s*bearer\s+|bearer\s+)([A-Za-z0-9._~+/=-]+)`)
	reToken  = regexp.MustCompile(`(?i)(token=|--token[ =])([^\s;&]+)`)
)

// Mask replaces sensitive values in the input string with "***".
// MINIMALADB_BRIDGE_TOKEN=... assignments are caught by the token pattern.
func Mask(s string) string {
	out := s
	out = reBearer.ReplaceAllString(out, "$1***")
	out = reToken.ReplaceAllString(out, "$1***")
	return out
}
