// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package xdg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirsHonorEnvironment(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(base, "state"))

	tests := []struct {
		name string
		fn   func() (string, error)
		want string
	}{
		{name: "config", fn: ConfigDir, want: filepath.Join(base, "config", "minimaladb")},
		{name: "state", fn: StateDir, want: filepath.Join(base, "state", "minimaladb")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn()
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("dir = %q, want %q", got, tt.want)
			}
			info, err := os.Stat(got)
			if err != nil || !info.IsDir() {
				t.Fatalf("directory not created: %v", err)
			}
		})
	}
}
