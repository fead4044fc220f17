// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package terminal provides console helpers: clearing echoed input and
// keeping a transcript of everything shown in a console session.
package terminal

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

// Width returns the column count of w, or DefaultWidth.
func Width(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return DefaultWidth
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ClearPreviousLines erases textLength characters of input that the user
// just typed and confirmed with Enter, including wrapped rows.
//
// After Enter the cursor sits on a new empty row below the input, so one
// extra row is cleared.
func ClearPreviousLines(w io.Writer, textLength int) {
	width := Width(w)
	lines := (textLength + width - 1) / width
	if lines < 1 {
		lines = 1
	}
	linesToClear := lines + 1

	for i := 0; i < linesToClear; i++ {
		fmt.Fprint(w, "\r\x1b[2K")
		if i < linesToClear-1 {
			fmt.Fprint(w, "\x1b[1A")
		}
	}
}
