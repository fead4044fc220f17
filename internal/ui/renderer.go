// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package ui

import (
	"fmt"
	"io"
	"strings"

	"minimaladb/cli/internal/adb"
	"minimaladb/cli/internal/device"
	"minimaladb/cli/internal/logging"
	"minimaladb/cli/internal/terminal"

	"github.com/pterm/pterm"
)

var (
	okStyle      = pterm.NewStyle(pterm.FgGreen)
	errStyle     = pterm.NewStyle(pterm.FgRed)
	commandStyle = pterm.NewStyle(pterm.FgLightCyan)
	headerStyle  = pterm.NewStyle(pterm.FgCyan, pterm.Bold)
)

// Renderer writes adb output to the terminal. Successful output is green and
// failures are red. Everything printed is also copied, without colour, to the
// record writer if set.
type Renderer struct {
	w           io.Writer
	record      io.Writer
	interactive bool
}

// NewRenderer renders to w. Live progress bars are used only when w is a
// terminal.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w, interactive: terminal.IsTerminal(w)}
}

// Record copies all rendered text to rec.
func (r *Renderer) Record(rec io.Writer) *Renderer {
	r.record = rec
	return r
}

func (r *Renderer) print(style *pterm.Style, text string) {
	if style != nil {
		fmt.Fprint(r.w, style.Sprint(text))
	} else {
		fmt.Fprint(r.w, text)
	}
	if r.record != nil {
		_, _ = io.WriteString(r.record, text)
	}
}

func withNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// Command echoes the adb invocation about to run.
func (r *Renderer) Command(line string) {
	r.print(commandStyle, "adb "+line+"\n")
}

// Result prints stdout, or stderr when stdout is empty.
func (r *Renderer) Result(res adb.Result) {
	out := res.Output()
	if out == "" {
		return
	}
	r.print(okStyle, withNewline(out))
}

// Text prints a plain green line.
func (r *Renderer) Text(s string) {
	r.print(okStyle, withNewline(s))
}

// Error prints err in red with secrets masked.
func (r *Renderer) Error(err error) {
	if err == nil {
		return
	}
	r.print(errStyle, withNewline(logging.PresentError("", err)))
}

// Devices prints a device table.
func (r *Renderer) Devices(devices []device.Device) {
	if len(devices) == 0 {
		r.print(errStyle, "No devices attached\n")
		return
	}
	data := pterm.TableData{{"Device", "State"}}
	for _, d := range devices {
		data = append(data, []string{d.ID, d.Type})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithHeaderStyle(headerStyle).WithData(data).Srender()
	if err != nil {
		for _, d := range devices {
			r.print(okStyle, d.ID+"\t"+d.Type+"\n")
		}
		return
	}
	fmt.Fprintln(r.w, table)
	if r.record != nil {
		for _, d := range devices {
			_, _ = io.WriteString(r.record, d.ID+"\t"+d.Type+"\n")
		}
	}
}

// Sideload consumes events until the channel closes and returns the final
// state. On a terminal a progress bar tracks the percentage; otherwise each
// change is printed on its own line.
func (r *Renderer) Sideload(events <-chan adb.Event) *SideloadState {
	state := NewSideloadState()

	var bar *pterm.ProgressbarPrinter
	if r.interactive {
		bar, _ = pterm.DefaultProgressbar.
			WithTotal(100).
			WithWriter(r.w).
			WithRemoveWhenDone(true).
			Start("Sideloading")
	}

	var pending []adb.Event
	for ev := range events {
		moved := state.Apply(ev)
		switch ev.Type {
		case adb.EventProgress:
			if !moved {
				continue
			}
			if bar != nil {
				bar.Add(ev.Percent - bar.Current)
				continue
			}
			r.print(nil, fmt.Sprintf("Progress: %d%%\n", ev.Percent))
		case adb.EventStdout, adb.EventStderr:
			if bar != nil {
				pending = append(pending, ev)
				continue
			}
			r.chunk(ev)
		}
	}
	if bar != nil {
		_, _ = bar.Stop()
		for _, ev := range pending {
			r.chunk(ev)
		}
	}

	if state.Succeeded() {
		r.print(okStyle, state.Summary()+"\n")
	} else {
		r.print(errStyle, state.Summary()+"\n")
	}
	return state
}

func (r *Renderer) chunk(ev adb.Event) {
	if ev.Type == adb.EventStderr {
		r.print(errStyle, ev.Text)
		return
	}
	r.print(nil, ev.Text)
}
