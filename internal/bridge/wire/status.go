// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package wire

import (
	"context"
	"errors"

	apperrors "minimaladb/cli/internal/errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorDomain tags ErrorInfo details produced by the bridge.
const ErrorDomain = "minimaladb"

var kindCodes = map[apperrors.Kind]codes.Code{
	apperrors.NonZeroExit:       codes.Aborted,
	apperrors.SpawnFailed:       codes.FailedPrecondition,
	apperrors.UpstreamService:   codes.Unavailable,
	apperrors.InvalidRequest:    codes.InvalidArgument,
	apperrors.NotRunning:        codes.Unavailable,
	apperrors.BridgeUnavailable: codes.Unavailable,
}

// StatusError converts a domain error into a gRPC status error. The message
// is kept verbatim and the kind travels as an ErrorInfo detail.
func StatusError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}
	kind := apperrors.KindOf(err)
	code, ok := kindCodes[kind]
	if !ok {
		return status.Error(codes.Unknown, err.Error())
	}
	st := status.New(code, err.Error())
	if detailed, derr := st.WithDetails(&errdetails.ErrorInfo{Reason: string(kind), Domain: ErrorDomain}); derr == nil {
		st = detailed
	}
	return st.Err()
}

// RemoteError is a domain error rebuilt on the client side of the bridge.
type RemoteError struct {
	Kind    apperrors.Kind
	Code    codes.Code
	Message string
}

func (e *RemoteError) Error() string { return e.Message }

func (e *RemoteError) ErrorKind() apperrors.Kind { return e.Kind }

// FromStatus converts a gRPC error back into a RemoteError carrying the
// server's message and kind. Transport-level failures become BridgeUnavailable.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return apperrors.Wrap(apperrors.BridgeUnavailable, "bridge call failed", err)
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == ErrorDomain {
			return &RemoteError{Kind: apperrors.Kind(info.GetReason()), Code: st.Code(), Message: st.Message()}
		}
	}
	kind := apperrors.Unknown
	switch st.Code() {
	case codes.Canceled:
		return context.Canceled
	case codes.DeadlineExceeded:
		return context.DeadlineExceeded
	case codes.Unavailable, codes.Unauthenticated, codes.PermissionDenied:
		kind = apperrors.BridgeUnavailable
	}
	return &RemoteError{Kind: kind, Code: st.Code(), Message: st.Message()}
}
