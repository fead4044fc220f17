// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package wire

import (
	"context"
	"errors"
	"testing"

	"minimaladb/cli/internal/adb"
	apperrors "minimaladb/cli/internal/errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestStatusRoundTripKeepsMessageAndKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode codes.Code
		wantKind apperrors.Kind
	}{
		{
			name:     "non-zero exit",
			err:      &adb.ExitError{Code: 1, Stderr: "error: no devices/emulators found"},
			wantCode: codes.Aborted,
			wantKind: apperrors.NonZeroExit,
		},
		{
			name:     "spawn failure",
			err:      &adb.SpawnError{Path: "/opt/adb", Err: errors.New("fork/exec /opt/adb: permission denied")},
			wantCode: codes.FailedPrecondition,
			wantKind: apperrors.SpawnFailed,
		},
		{
			name:     "invalid request",
			err:      apperrors.New(apperrors.InvalidRequest, "empty command"),
			wantCode: codes.InvalidArgument,
			wantKind: apperrors.InvalidRequest,
		},
		{
			name:     "uncategorized",
			err:      errors.New("device 'R58' not found"),
			wantCode: codes.Unknown,
			wantKind: apperrors.Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serr := StatusError(tt.err)
			if got := status.Code(serr); got != tt.wantCode {
				t.Errorf("code = %v, want %v", got, tt.wantCode)
			}
			back := FromStatus(serr)
			if back.Error() != tt.err.Error() {
				t.Errorf("message = %q, want %q", back.Error(), tt.err.Error())
			}
			if got := apperrors.KindOf(back); got != tt.wantKind {
				t.Errorf("kind = %q, want %q", got, tt.wantKind)
			}
		})
	}
}

func TestFromStatusTransportFailures(t *testing.T) {
	err := FromStatus(status.Error(codes.Unavailable, "connection error: connection refused"))
	if !apperrors.Is(err, apperrors.BridgeUnavailable) {
		t.Errorf("kind = %q", apperrors.KindOf(err))
	}
	if !errors.Is(FromStatus(StatusError(context.Canceled)), context.Canceled) {
		t.Error("cancellation must survive the round trip")
	}
	if StatusError(nil) != nil || FromStatus(nil) != nil {
		t.Error("nil must stay nil")
	}
}
