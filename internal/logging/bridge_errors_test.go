// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"strings"
	"testing"
)

func TestParseBridgeError(t *testing.T) {
	tests := []struct {
		msg  string
		want BridgeErrorType
	}{
		{msg: "rpc error: code = Unavailable desc = connection error: dial tcp 127.0.0.1:50551: connect: connection refused", want: BridgeErrorNetwork},
		{msg: "rpc error: code = Unauthenticated desc = invalid bridge token", want: BridgeErrorAuth},
		{msg: "context deadline exceeded", want: BridgeErrorTimeout},
		{msg: "rpc error: code = Unavailable desc = transport is closing", want: BridgeErrorUnavailable},
		{msg: "something else", want: BridgeErrorUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			if got := ParseBridgeError(tt.msg); got != tt.want {
				t.Errorf("ParseBridgeError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatBridgeErrorMasksDetails(t *testing.T) {
	out := FormatBridgeError("unauthenticated: authorization: Bearer topsecret")
	if strings.Contains(out, "topsecret") {
		t.Errorf("token leaked: %q", out)
	}
	if !strings.Contains(out, "minimaladb token") {
		t.Errorf("auth hint missing: %q", out)
	}
}
