// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

type exitErr struct{ msg string }

func (e exitErr) Error() string   { return e.msg }
func (e exitErr) ErrorKind() Kind { return NonZeroExit }

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain error", err: stderrors.New("boom"), want: Unknown},
		{name: "typed E", err: New(SpawnFailed, "adb missing"), want: SpawnFailed},
		{name: "wrapped E", err: fmt.Errorf("context: %w", Wrap(UpstreamService, "list", stderrors.New("x"))), want: UpstreamService},
		{name: "kinded domain error", err: exitErr{msg: "device offline"}, want: NonZeroExit},
		{name: "wrapped kinded", err: fmt.Errorf("run: %w", exitErr{msg: "x"}), want: NonZeroExit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEError(t *testing.T) {
	e := Wrap(BridgeUnavailable, "dial bridge", stderrors.New("connection refused"))
	want := "bridge_unavailable: dial bridge: connection refused"
	if e.Error() != want {
		t.Errorf("Error() = %q, want %q", e.Error(), want)
	}
	if !stderrors.Is(e, e.Err) {
		t.Error("expected Unwrap to expose the cause")
	}
	if !Is(e, BridgeUnavailable) {
		t.Error("Is() = false, want true")
	}
}
