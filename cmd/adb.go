// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"strings"

	"minimaladb/cli/internal/adb"
	"minimaladb/cli/internal/ui"

	"github.com/spf13/cobra"
)

var devicesTable bool

var errSideloadFailed = errors.New("sideload failed")

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List connected devices",
	Long: `Runs "adb devices" and prints its output. With --table the list is parsed
into device ids and states.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			r := ui.NewRenderer(cmd.OutOrStdout())
			if devicesTable {
				devices, err := s.ListDevices(ctx)
				if err != nil {
					r.Error(err)
					return reported(err)
				}
				r.Devices(devices)
				return nil
			}
			return runLine(ctx, s, r, "devices")
		})
	},
}

var recoveryCmd = &cobra.Command{
	Use:   "recovery",
	Short: "Reboot the connected device into recovery mode",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return rebootRecovery(ctx, s, ui.NewRenderer(cmd.OutOrStdout()))
		})
	},
}

var runCmd = &cobra.Command{
	Use:   "run <adb arguments...>",
	Short: "Run an arbitrary adb command",
	Long: `Runs one adb command and prints its output. A leading "adb" is optional:
"minimaladb run adb shell getprop" and "minimaladb run shell getprop" are the same.`,
	Example: `  minimaladb run devices -l
  minimaladb run "adb reboot bootloader"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return runLine(ctx, s, ui.NewRenderer(cmd.OutOrStdout()), strings.Join(args, " "))
		})
	},
}

var shellCmd = &cobra.Command{
	Use:   "shell <device-id> <command...>",
	Short: "Run a shell command on a specific device",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return runShell(ctx, s, ui.NewRenderer(cmd.OutOrStdout()), args[0], strings.Join(args[1:], " "))
		})
	},
}

var sideloadCmd = &cobra.Command{
	Use:   "sideload <file.zip>",
	Short: "Sideload a package to a device in recovery with live progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return sideload(ctx, s, ui.NewRenderer(cmd.OutOrStdout()), args[0])
		})
	},
}

func init() {
	devicesCmd.Flags().BoolVar(&devicesTable, "table", false, "Parse the device list into a table")
	runCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(devicesCmd, recoveryCmd, runCmd, shellCmd, sideloadCmd)
}

// runLine echoes and runs a free-text adb command line.
func runLine(ctx context.Context, s *session, r *ui.Renderer, line string) error {
	r.Command(adb.NormalizeCommandLine(line))
	stop := startAreaSpinner("Running adb")
	res, err := s.RunCommand(ctx, line)
	stop()
	if err != nil {
		r.Error(err)
		return reported(err)
	}
	r.Result(res)
	return nil
}

func rebootRecovery(ctx context.Context, s *session, r *ui.Renderer) error {
	r.Command("reboot recovery")
	stop := startAreaSpinner("Rebooting to recovery")
	res, err := s.RebootRecovery(ctx)
	stop()
	if err != nil {
		r.Error(err)
		return reported(err)
	}
	r.Result(res)
	return nil
}

func runShell(ctx context.Context, s *session, r *ui.Renderer, deviceID, command string) error {
	r.Command("-s " + deviceID + " shell " + command)
	out, err := s.Shell(ctx, deviceID, command)
	if err != nil {
		r.Error(err)
		return reported(err)
	}
	if out != "" {
		r.Text(out)
	}
	return nil
}

// sideload streams a sideload session. A non-zero adb exit is shown in red
// and reported as a failed command.
func sideload(ctx context.Context, s *session, r *ui.Renderer, file string) error {
	r.Command(`sideload "` + file + `"`)
	events, err := s.Sideload(ctx, file)
	if err != nil {
		r.Error(err)
		return reported(err)
	}
	state := r.Sideload(events)
	if !state.Succeeded() {
		return reported(errSideloadFailed)
	}
	return nil
}
