// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the bridge token goes to the OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"minimaladb/cli/internal/xdg"

	"github.com/tidwall/jsonc"
)

// DefaultBridgeAddress is where serve listens and where --remote dials by default.
const DefaultBridgeAddress = "127.0.0.1:50551"

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel string       `json:"log_level"`
	ADB      ADBConfig    `json:"adb"`
	Bridge   BridgeConfig `json:"bridge"`
}

// ADBConfig locates the adb executable.
type ADBConfig struct {
	Path             string `json:"path"`
	PlatformToolsDir string `json:"platform_tools_dir"`
}

// BridgeConfig holds gRPC bridge settings.
type BridgeConfig struct {
	Listen  string `json:"listen"`
	Address string `json:"address"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogLevel: "info",
		Bridge: BridgeConfig{
			Listen:  DefaultBridgeAddress,
			Address: DefaultBridgeAddress,
		},
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults. The file may
// carry // and /* */ comments and trailing commas.
func Load() (Config, error) {
	c := Default()
	p, err := Path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &c); err != nil {
		return c, fmt.Errorf("parse %s: %w", p, err)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Bridge.Listen == "" {
		c.Bridge.Listen = DefaultBridgeAddress
	}
	if c.Bridge.Address == "" {
		c.Bridge.Address = DefaultBridgeAddress
	}
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

var setters = map[string]func(*Config, string){
	"log_level":              func(c *Config, v string) { c.LogLevel = v },
	"adb.path":               func(c *Config, v string) { c.ADB.Path = v },
	"adb.platform_tools_dir": func(c *Config, v string) { c.ADB.PlatformToolsDir = v },
	"bridge.listen":          func(c *Config, v string) { c.Bridge.Listen = v },
	"bridge.address":         func(c *Config, v string) { c.Bridge.Address = v },
}

// Keys lists the settings accepted by Set.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns one setting by its dotted JSON name.
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown setting %q (known: %v)", key, Keys())
	}
	set(c, value)
	return nil
}
