// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package adb

import (
	"fmt"

	apperrors "minimaladb/cli/internal/errors"
)

// Result holds everything a finished process wrote, each stream in arrival order.
type Result struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// Output returns stdout, or stderr when stdout is empty.
func (r Result) Output() string {
	if r.Stdout != "" {
		return r.Stdout
	}
	return r.Stderr
}

// SpawnError reports that the process could not be launched or failed at the
// execution level (missing executable, permission denied, broken pipes).
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failed to start %s", e.Path)
	}
	return e.Err.Error()
}

func (e *SpawnError) Unwrap() error { return e.Err }

func (e *SpawnError) ErrorKind() apperrors.Kind { return apperrors.SpawnFailed }

// ExitError reports that the process ran but exited with a non-zero code.
// Its message is the captured stderr text, falling back to stdout.
type ExitError struct {
	Code   int
	Stdout string
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	if e.Stdout != "" {
		return e.Stdout
	}
	return fmt.Sprintf("adb exited with code %d", e.Code)
}

func (e *ExitError) ErrorKind() apperrors.Kind { return apperrors.NonZeroExit }
