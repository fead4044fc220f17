// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version holds the CLI version information.
	// This value is typically set at build time using -ldflags.
	Version = "0.0.0-dev"
)

// printVersion shows the CLI version and the platform-tools revision of the
// local bundle, or of the daemon with --remote.
func printVersion(cmd *cobra.Command) error {
	rev := ""
	if remoteAddr != "" {
		err := withSession(cmd, func(ctx context.Context, s *session) error {
			var err error
			rev, err = s.Revision(ctx)
			return err
		})
		if err != nil {
			return err
		}
	} else {
		cfg, logger := loadConfig()
		rev = newController(cfg, logger).PlatformToolsRevision()
	}
	if rev == "" {
		rev = "unknown"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "minimaladb %s\nplatform-tools %s\n", Version, rev)
	return nil
}
