// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"minimaladb/cli/internal/keychain"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	rotateToken bool
	clearToken  bool
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Show or rotate the bridge token",
	Long: `Prints the token that bridge clients must present, creating and storing it
in the OS keychain on first use. --rotate replaces it; running daemons keep
the old token until restarted. --clear removes it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keychain.NewManager()
		if err != nil {
			return fmt.Errorf("secure storage is not available on this system: %w", err)
		}
		if clearToken {
			if err := km.ClearBridgeToken(); err != nil {
				return err
			}
			pterm.Success.Println("Removed the bridge token from the OS keychain")
			return nil
		}
		var (
			token   string
			created bool
		)
		if rotateToken {
			token, created, err = keychain.RotateToken(km)
		} else {
			token, created, err = keychain.EnsureToken(km)
		}
		if err != nil {
			return err
		}
		if created {
			pterm.Success.Println("Stored a new bridge token in the OS keychain")
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().BoolVar(&rotateToken, "rotate", false, "Generate and store a new token")
	tokenCmd.Flags().BoolVar(&clearToken, "clear", false, "Remove the stored token")
	tokenCmd.MarkFlagsMutuallyExclusive("rotate", "clear")
	rootCmd.AddCommand(tokenCmd)
}
