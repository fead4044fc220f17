// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package controller owns the adb runners, the running-process registry, and
// the device service for one host process.
//
// A Controller is constructed explicitly and passed to whatever needs it; it
// must be started before use and shut down on exit so that no adb child
// outlives the host.
package controller

import (
	"context"
	"os/exec"
	"strings"
	"sync"
	"time"

	"minimaladb/cli/internal/adb"
	"minimaladb/cli/internal/device"
	apperrors "minimaladb/cli/internal/errors"
	"minimaladb/cli/internal/platformtools"

	"github.com/pterm/pterm"
)

// DefaultShutdownGrace is how long Shutdown waits for interrupted adb
// processes before killing them.
const DefaultShutdownGrace = 3 * time.Second

// RecoveryFallback is shown when "reboot recovery" succeeds silently.
const RecoveryFallback = "Device is rebooting to recovery mode"

// ErrNotRunning is returned by operations on a controller that is not started.
var ErrNotRunning = apperrors.New(apperrors.NotRunning, "controller is not running")

// Options configures a Controller.
type Options struct {
	// ADBPath is the resolved adb executable.
	ADBPath string
	// PlatformToolsDir holds source.properties; empty means the bundled directory.
	PlatformToolsDir string
	// Logger defaults to a disabled logger.
	Logger *pterm.Logger
	// Devices overrides the adb-backed device service.
	Devices device.Service
	// ShutdownGrace defaults to DefaultShutdownGrace.
	ShutdownGrace time.Duration
}

// Controller is the single entry point to adb for the CLI and the bridge.
type Controller struct {
	adbPath  string
	toolsDir string
	grace    time.Duration
	logger   *pterm.Logger

	registry *adb.Registry
	runner   *adb.Runner
	streamer *adb.Streamer
	devices  device.Service

	mu      sync.Mutex
	running bool
	stopped bool
}

// New constructs a Controller. Nothing is spawned until an operation runs.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}
	grace := opts.ShutdownGrace
	if grace <= 0 {
		grace = DefaultShutdownGrace
	}
	registry := adb.NewRegistry()
	runner := adb.NewRunner(registry, logger)
	c := &Controller{
		adbPath:  opts.ADBPath,
		toolsDir: platformtools.Dir(opts.PlatformToolsDir),
		grace:    grace,
		logger:   logger,
		registry: registry,
		runner:   runner,
		streamer: adb.NewStreamer(registry, logger),
		devices:  opts.Devices,
	}
	if c.devices == nil {
		c.devices = device.NewCLI(runner, opts.ADBPath)
	}
	return c
}

// Start checks that the adb executable resolves and marks the controller
// ready. It is idempotent; a controller that has
// been shut down cannot be restarted.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return ErrNotRunning
	}
	if c.running {
		return nil
	}
	if strings.TrimSpace(c.adbPath) == "" {
		return apperrors.New(apperrors.InvalidRequest, "adb path is empty")
	}
	if _, err := exec.LookPath(c.adbPath); err != nil {
		return apperrors.Wrap(apperrors.SpawnFailed, "adb executable not found: "+c.adbPath, err)
	}
	c.running = true
	if rev, err := platformtools.Revision(c.toolsDir); err == nil {
		c.logger.Debug("controller started", c.logger.Args("adb", c.adbPath, "platform_tools", rev))
	} else {
		c.logger.Debug("controller started", c.logger.Args("adb", c.adbPath))
	}
	return nil
}

// Shutdown terminates every adb process still running and rejects further
// operations. It is idempotent.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return nil
	}
	c.running = false
	c.stopped = true
	c.mu.Unlock()

	if n := c.registry.Len(); n > 0 {
		c.logger.Info("terminating running adb processes", c.logger.Args("count", n))
	}
	return c.registry.Terminate(ctx, c.grace)
}

func (c *Controller) ready() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return ErrNotRunning
	}
	return nil
}

// ADBPath returns the adb executable this controller runs.
func (c *Controller) ADBPath() string { return c.adbPath }

// Running returns the number of adb processes currently alive.
func (c *Controller) Running() int { return c.registry.Len() }

// RunCommand runs a free-text adb command line ("adb " prefix optional).
func (c *Controller) RunCommand(ctx context.Context, line string) (adb.Result, error) {
	if err := c.ready(); err != nil {
		return adb.Result{}, err
	}
	line = adb.NormalizeCommandLine(line)
	if line == "" {
		return adb.Result{}, apperrors.New(apperrors.InvalidRequest, "empty command")
	}
	return c.runner.Run(ctx, adb.ParseCommandLine(c.adbPath, line))
}

// RebootRecovery reboots the connected device into recovery. A silent
// success yields RecoveryFallback as stdout.
func (c *Controller) RebootRecovery(ctx context.Context) (adb.Result, error) {
	res, err := c.RunCommand(ctx, "reboot recovery")
	if err != nil {
		return res, err
	}
	if res.Stdout == "" && res.Stderr == "" {
		res.Stdout = RecoveryFallback
	}
	return res, nil
}

// Sideload streams "adb sideload <file>" progress into sink. A controller
// that is not running reports the failure through a single error event.
func (c *Controller) Sideload(ctx context.Context, file string, sink adb.Sink) *adb.Session {
	if err := c.ready(); err != nil {
		return adb.Fail(err, sink)
	}
	if strings.TrimSpace(file) == "" {
		return adb.Fail(apperrors.New(apperrors.InvalidRequest, "no file selected to sideload"), sink)
	}
	return c.streamer.Start(ctx, adb.SideloadRequest(c.adbPath, file), sink)
}

// ListDevices returns the attached devices. Errors from the device service
// are returned unchanged.
func (c *Controller) ListDevices(ctx context.Context) ([]device.Device, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.devices.ListDevices(ctx)
}

// Shell runs command on deviceID and returns its trimmed output.
func (c *Controller) Shell(ctx context.Context, deviceID, command string) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	out, err := c.devices.RunShell(ctx, deviceID, command)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// PlatformToolsRevision returns Pkg.Revision of the platform-tools bundle,
// or "" when it cannot be read.
func (c *Controller) PlatformToolsRevision() string {
	rev, err := platformtools.Revision(c.toolsDir)
	if err != nil {
		c.logger.Debug("platform-tools revision unavailable", c.logger.Args("dir", c.toolsDir, "error", err))
		return ""
	}
	return rev
}
