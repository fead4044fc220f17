// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"sync"
	"time"

	"minimaladb/cli/internal/terminal"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 120 * time.Millisecond

// startAreaSpinner shows an animated status line while a command runs. The
// returned function stops it. Nothing is drawn when stdout is not a terminal.
func startAreaSpinner(text string) func() {
	if !terminal.IsTerminal(os.Stdout) {
		return func() {}
	}
	return runAreaSpinner(text, spinnerFrames, spinnerInterval)
}

// runAreaSpinner animates frames followed by text in a pterm area with the
// cursor hidden. The returned function stops the animation, removes the area
// and shows the cursor again; calling it more than once is harmless.
func runAreaSpinner(text string, frames []string, interval time.Duration) func() {
	cursor.Hide()
	area, err := pterm.DefaultArea.WithRemoveWhenDone(true).Start(fmt.Sprintf("%s %s", frames[0], text))
	if err != nil {
		cursor.Show()
		return func() {}
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()
		idx := 0
		for {
			select {
			case <-t.C:
				idx++
				area.Update(fmt.Sprintf("%s %s", frames[idx%len(frames)], text))
			case <-stop:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
			_ = area.Stop()
			cursor.Show()
		})
	}
}
