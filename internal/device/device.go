// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package device lists attached Android devices and runs shell commands on them.
//
// The Service interface is what the rest of the application consumes; the
// CLI implementation drives the adb executable. Errors from the underlying
// tool are returned unchanged so callers see the device's own message.
package device

import (
	"bufio"
	"context"
	"strings"

	"minimaladb/cli/internal/adb"
	apperrors "minimaladb/cli/internal/errors"
)

// Device is one entry of the adb device table.
type Device struct {
	ID   string `json:"id"`
	Type string `json:"type"` // device|offline|unauthorized|recovery|sideload|...
}

// Service is the device-communication boundary.
type Service interface {
	ListDevices(ctx context.Context) ([]Device, error)
	RunShell(ctx context.Context, deviceID, command string) ([]byte, error)
}

// CLI implements Service on top of the adb executable.
type CLI struct {
	runner  *adb.Runner
	adbPath string
}

var _ Service = (*CLI)(nil)

// NewCLI returns a Service that invokes adbPath through runner.
func NewCLI(runner *adb.Runner, adbPath string) *CLI {
	return &CLI{runner: runner, adbPath: adbPath}
}

// ListDevices runs "adb devices" and parses its table.
func (c *CLI) ListDevices(ctx context.Context) ([]Device, error) {
	res, err := c.runner.Run(ctx, adb.Request{Path: c.adbPath, Args: []string{"devices"}})
	if err != nil {
		return nil, err
	}
	return ParseDevices(res.Stdout), nil
}

// RunShell runs command in the shell of the device identified by deviceID
// and returns its raw stdout.
func (c *CLI) RunShell(ctx context.Context, deviceID, command string) ([]byte, error) {
	if strings.TrimSpace(deviceID) == "" {
		return nil, apperrors.New(apperrors.InvalidRequest, "device id is required")
	}
	if strings.TrimSpace(command) == "" {
		return nil, apperrors.New(apperrors.InvalidRequest, "shell command is required")
	}
	res, err := c.runner.Run(ctx, adb.Request{Path: c.adbPath, Args: []string{"-s", deviceID, "shell", command}})
	if err != nil {
		return nil, err
	}
	return []byte(res.Stdout), nil
}

// ParseDevices parses the output of "adb devices". Daemon chatter such as
// "* daemon started successfully" and the header line are skipped.
func ParseDevices(output string) []Device {
	devices := []Device{}
	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "*") || strings.HasPrefix(line, "List of devices") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		devices = append(devices, Device{ID: fields[0], Type: fields[1]})
	}
	return devices
}
