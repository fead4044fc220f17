// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package xdg resolves XDG Base Directory paths for minimaladb.
//
// Configuration lives under the config directory and terminal transcripts
// saved without an explicit path land in the state directory. Both fall back
// to the traditional locations under the home directory when the XDG
// environment variables are unset.
package xdg

import (
	"os"
	"path/filepath"
)

const appDir = "minimaladb"

// ConfigDir returns the XDG config directory for minimaladb.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/minimaladb when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return ensure("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for minimaladb.
// It falls back to ~/.local/state/minimaladb when XDG_STATE_HOME is unset.
func StateDir() (string, error) {
	return ensure("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func ensure(env, homeRel string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, homeRel)
	}
	dir := filepath.Join(base, appDir)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
