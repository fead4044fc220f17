// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"minimaladb/cli/internal/terminal"
	"minimaladb/cli/internal/ui"
	"minimaladb/cli/internal/xdg"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const (
	consoleBanner = "🎉 Welcome to MinimalADB Terminal 🎉"
	consolePrompt = "> "
)

var consoleHelp = []pterm.BulletListItem{
	{Level: 0, Text: "devices                 list connected devices"},
	{Level: 0, Text: "recovery                reboot into recovery mode"},
	{Level: 0, Text: "sideload <file.zip>     sideload with live progress"},
	{Level: 0, Text: "-s <id> shell <command> run a command on one device"},
	{Level: 0, Text: "save [file]             save this session's output"},
	{Level: 0, Text: "exit                    leave the console"},
	{Level: 0, Text: "anything else           passed to adb as is (\"adb \" prefix optional)"},
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive adb terminal",
	Long: `Opens an interactive terminal that runs adb commands one line at a time.
Output is kept in a transcript that "save" writes to a file; without a file name
it goes to terminal_output_<timestamp>.txt in the state directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return runConsole(ctx, s, cmd.InOrStdin(), cmd.OutOrStdout())
		})
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

// runConsole reads commands from in until EOF, "exit", or ctx ends.
func runConsole(ctx context.Context, s *session, in io.Reader, out io.Writer) error {
	transcript := terminal.NewTranscript(consoleBanner)
	r := ui.NewRenderer(out).Record(transcript)
	interactive := terminal.IsTerminal(out)

	pterm.Fprintln(out, consoleBanner)
	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	for {
		fmt.Fprint(out, consolePrompt)
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return nil
			}
			line = l
		}
		if interactive {
			terminal.ClearPreviousLines(out, len(consolePrompt)+len(line))
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		verb, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		switch strings.ToLower(verb) {
		case "exit", "quit":
			return nil
		case "help":
			if help, err := pterm.DefaultBulletList.WithItems(consoleHelp).Srender(); err == nil {
				fmt.Fprint(out, help)
			}
		case "save":
			saveTranscript(r, transcript, rest)
		case "recovery":
			_ = rebootRecovery(ctx, s, r)
		case "sideload":
			_ = sideload(ctx, s, r, strings.TrimSuffix(strings.TrimPrefix(rest, `"`), `"`))
		default:
			_ = runLine(ctx, s, r, line)
		}
	}
}

func saveTranscript(r *ui.Renderer, t *terminal.Transcript, path string) {
	dir := ""
	if path == "" {
		d, err := xdg.StateDir()
		if err != nil {
			r.Error(fmt.Errorf("failed to save terminal contents: %w", err))
			return
		}
		dir = d
	}
	written, err := t.Save(path, dir, time.Now())
	if err != nil {
		r.Error(fmt.Errorf("failed to save terminal contents: %w", err))
		return
	}
	r.Text("Saved terminal output to " + written)
}
