// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"

	apperrors "minimaladb/cli/internal/errors"
)

// SpawnHint follows messages about an adb executable that could not start.
const SpawnHint = "Check that adb is installed, or point ADB_PATH or --adb at it."

// PresentError formats an error for user display with masking. An empty
// context yields the masked message alone. Spawn failures get SpawnHint on
// a second line.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	msg := Mask(err.Error())
	if context != "" {
		msg = fmt.Sprintf("%s: %s", context, msg)
	}
	if apperrors.Is(err, apperrors.SpawnFailed) {
		msg += "\n" + SpawnHint
	}
	return msg
}
