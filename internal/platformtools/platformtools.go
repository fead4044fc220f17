// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package platformtools locates the Android platform-tools bundle and the adb
// executable inside it.
//
// The adb path is resolved in this order: the ADB_PATH environment variable,
// an explicit configured path, the platform-tools directory (configured or
// shipped next to the minimaladb binary), and finally adb on PATH.
package platformtools

import (
	"bufio"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// EnvADBPath overrides every other source of the adb location.
const EnvADBPath = "ADB_PATH"

// DirName is the conventional name of the platform-tools directory.
const DirName = "platform-tools"

const revisionKey = "Pkg.Revision="

// ErrNoRevision is returned when source.properties has no Pkg.Revision line.
var ErrNoRevision = errors.New("no Pkg.Revision entry in source.properties")

// Executable returns the adb file name for the current OS.
func Executable() string {
	if runtime.GOOS == "windows" {
		return "adb.exe"
	}
	return "adb"
}

// Dir returns the platform-tools directory: configured wins, otherwise the
// directory bundled next to the running binary.
func Dir(configured string) string {
	if configured != "" {
		return configured
	}
	self, err := os.Executable()
	if err != nil {
		return DirName
	}
	return filepath.Join(filepath.Dir(self), DirName)
}

// ResolveADB returns the adb executable path. It never fails: when nothing is
// found it returns the bare executable name and lets the spawn report the error.
func ResolveADB(configuredPath, toolsDir string) string {
	if p := strings.TrimSpace(os.Getenv(EnvADBPath)); p != "" {
		return p
	}
	if configuredPath != "" {
		return configuredPath
	}
	bundled := filepath.Join(Dir(toolsDir), Executable())
	if info, err := os.Stat(bundled); err == nil && !info.IsDir() {
		return bundled
	}
	if p, err := exec.LookPath(Executable()); err == nil {
		return p
	}
	return Executable()
}

// Revision reads the Pkg.Revision value from <toolsDir>/source.properties.
func Revision(toolsDir string) (string, error) {
	f, err := os.Open(filepath.Join(toolsDir, "source.properties"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, revisionKey) {
			return strings.TrimSpace(strings.TrimPrefix(line, revisionKey)), nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", ErrNoRevision
}
