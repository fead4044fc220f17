// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages, so that a failed adb invocation can be rendered, logged,
// and carried across the bridge without losing what went wrong.
//
// Error kinds survive wrapping: KindOf walks the chain and recognizes both *E values
// and any error that reports its own kind through an ErrorKind method.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// Unknown is reported for errors that carry no kind.
	Unknown Kind = "unknown"
	// SpawnFailed indicates the adb process could not be launched.
	SpawnFailed Kind = "spawn_failed"
	// NonZeroExit indicates the adb process ran and exited with a non-zero code.
	NonZeroExit Kind = "non_zero_exit"
	// UpstreamService indicates a failure reported by the device-communication service.
	UpstreamService Kind = "upstream_service"
	// BridgeUnavailable indicates the bridge transport could not be reached.
	BridgeUnavailable Kind = "bridge_unavailable"
	// InvalidRequest indicates a malformed request (empty command, missing device id).
	InvalidRequest Kind = "invalid_request"
	// NotRunning indicates the controller has not been started or was shut down.
	NotRunning Kind = "not_running"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// kinded is implemented by domain errors that know their own category
// without being wrapped in *E.
type kinded interface {
	ErrorKind() Kind
}

// KindOf reports the kind of the first categorized error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for cur := err; cur != nil; cur = stderrors.Unwrap(cur) {
		if e, ok := cur.(*E); ok {
			return e.Kind
		}
		if k, ok := cur.(kinded); ok {
			return k.ErrorKind()
		}
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
