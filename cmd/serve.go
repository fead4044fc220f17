// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"minimaladb/cli/internal/bridge/grpcserver"
	"minimaladb/cli/internal/config"
	apperrors "minimaladb/cli/internal/errors"
	"minimaladb/cli/internal/keychain"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bridge daemon that exposes adb over gRPC",
	Long: `Starts a controller and serves it on the bridge address (loopback by
default). Clients connect with "minimaladb --remote <addr> ..." and must present
the bridge token stored in the OS keychain or set in ` + keychain.EnvBridgeToken + `.

Stopping the daemon terminates every adb process it started.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if remoteAddr != "" {
			return apperrors.New(apperrors.InvalidRequest, "serve runs adb locally and cannot be combined with --remote")
		}
		ctx := cmd.Context()
		cfg, logger := loadConfig()
		addr := serveListen
		if addr == "" {
			addr = cfg.Bridge.Listen
		}

		var km *keychain.Manager
		if m, err := keychain.NewManager(); err == nil {
			km = m
		} else {
			logger.Warn("keychain unavailable, using a one-time token", logger.Args("error", err))
		}
		token, created, err := keychain.EnsureToken(km)
		if err != nil {
			return err
		}
		if created && km == nil {
			pterm.Warning.Println("Bridge token for this run: " + token)
			pterm.Println("   Set " + keychain.EnvBridgeToken + " to this value on the client.")
		}

		ctrl := newController(cfg, logger)
		if err := ctrl.Start(ctx); err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := ctrl.Shutdown(sctx); err != nil {
				logger.Warn("shutdown incomplete", logger.Args("error", err))
			}
		}()

		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		srv := grpcserver.New(ctrl, token, logger)
		served := make(chan error, 1)
		go func() { served <- srv.Serve(lis) }()
		pterm.Success.Printf("Bridge listening on %s (adb: %s)\n", lis.Addr(), ctrl.ADBPath())

		select {
		case err := <-served:
			return err
		case <-ctx.Done():
		}

		logger.Info("stopping bridge")
		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(5 * time.Second):
			srv.Stop()
		}
		if err := <-served; err != nil && !errors.Is(err, net.ErrClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Address to listen on (default from config, "+config.DefaultBridgeAddress+")")
	rootCmd.AddCommand(serveCmd)
}
