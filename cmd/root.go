// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for minimaladb.
// It wraps the adb executable with device listing, recovery reboot, sideload
// with live progress, free-form commands, and an interactive console. A
// bridge daemon (serve) lets another process drive the same controller over
// gRPC. Commands are built on the Cobra CLI framework.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"minimaladb/cli/internal/bridge"
	"minimaladb/cli/internal/bridge/grpcclient"
	"minimaladb/cli/internal/config"
	"minimaladb/cli/internal/controller"
	apperrors "minimaladb/cli/internal/errors"
	"minimaladb/cli/internal/keychain"
	"minimaladb/cli/internal/logging"
	"minimaladb/cli/internal/platformtools"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// remoteFromConfig is the value of a bare --remote flag.
const remoteFromConfig = "config"

var (
	showVersion bool
	adbFlag     string
	remoteAddr  string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "minimaladb",
	Short: "A small front end for adb: devices, recovery, sideload, and custom commands",
	Long: `minimaladb drives the Android Debug Bridge (adb) executable.

It prefers the platform-tools bundled next to the binary, then ADB_PATH, then
adb on PATH. Use --remote to send commands to a "minimaladb serve" daemon
instead of running adb in this process.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			return printVersion(cmd)
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application. SIGINT and SIGTERM cancel the command
// context, which stops every adb child before the process exits.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}
	var shown *reportedError
	switch {
	case errors.As(err, &shown):
	case apperrors.Is(err, apperrors.BridgeUnavailable):
		logging.PresentBridgeError(err.Error())
	default:
		fmt.Fprintln(os.Stderr, logging.PresentError("", err))
	}
	os.Exit(1)
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI and platform-tools version information")
	rootCmd.PersistentFlags().StringVar(&adbFlag, "adb", "", "Path to the adb executable")
	rootCmd.PersistentFlags().StringVar(&remoteAddr, "remote", "", "Use the bridge daemon at this address (bare flag: address from config)")
	rootCmd.PersistentFlags().Lookup("remote").NoOptDefVal = remoteFromConfig
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose debug output")
}

// reportedError marks an error that was already rendered to the user.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// session is the bridge a command talks to, plus the local controller when
// adb runs in this process.
type session struct {
	bridge.Bridge
	ctrl   *controller.Controller
	logger *pterm.Logger
}

func loadConfig() (config.Config, *pterm.Logger) {
	cfg, err := config.Load()
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger := logging.New(os.Stderr, level)
	if err != nil {
		logger.Warn("using default configuration", logger.Args("error", err))
		cfg = config.Default()
	}
	return cfg, logger
}

// newController builds an unstarted controller for the resolved adb.
func newController(cfg config.Config, logger *pterm.Logger) *controller.Controller {
	toolsDir := platformtools.Dir(cfg.ADB.PlatformToolsDir)
	adbPath := adbFlag
	if adbPath == "" {
		adbPath = platformtools.ResolveADB(cfg.ADB.Path, toolsDir)
	}
	logger.Debug("resolved adb", logger.Args("path", adbPath, "platform_tools", toolsDir))
	return controller.New(controller.Options{
		ADBPath:          adbPath,
		PlatformToolsDir: toolsDir,
		Logger:           logger,
	})
}

// openSession connects to the remote daemon when --remote is set and
// otherwise starts a local controller.
func openSession(ctx context.Context) (*session, error) {
	cfg, logger := loadConfig()
	s := &session{logger: logger}

	if remoteAddr != "" {
		addr := remoteAddr
		if addr == remoteFromConfig {
			addr = cfg.Bridge.Address
		}
		var km *keychain.Manager
		if m, err := keychain.NewManager(); err == nil {
			km = m
		} else {
			logger.Debug("keychain unavailable", logger.Args("error", err))
		}
		token, err := keychain.ResolveToken(km)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.BridgeUnavailable, "no bridge token; run 'minimaladb token' on the daemon host or set "+keychain.EnvBridgeToken, err)
		}
		stop := startAreaSpinner("Connecting to " + addr)
		client, err := grpcclient.Dial(ctx, addr, token)
		stop()
		if err != nil {
			return nil, err
		}
		s.Bridge = client
		return s, nil
	}

	ctrl := newController(cfg, logger)
	if err := ctrl.Start(ctx); err != nil {
		return nil, err
	}
	s.ctrl = ctrl
	s.Bridge = bridge.NewLocal(ctrl)
	return s, nil
}

// Close releases the bridge and terminates any adb process still running.
func (s *session) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), controller.DefaultShutdownGrace*2)
	defer cancel()
	err := s.Bridge.Close(ctx)
	if s.ctrl != nil {
		if n := s.ctrl.Running(); n > 0 {
			s.logger.Debug("stopping adb processes", s.logger.Args("count", n))
		}
		if serr := s.ctrl.Shutdown(ctx); serr != nil && err == nil {
			err = serr
		}
	}
	return err
}

// withSession runs fn with an open session and always closes it.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			s.logger.Warn("shutdown incomplete", s.logger.Args("error", cerr))
		}
	}()
	return fn(ctx, s)
}
