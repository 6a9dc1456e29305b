// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"btc-sim/internal/api"
	"btc-sim/internal/logger"

	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts an HTTP server exposing simulations as JSON, a server-sent event
stream of ledger rows and Prometheus metrics on /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.Serve.Addr = serveAddr
		}
		return runWebServer(cmd.Context())
	},
}

// runWebServer serves the API until ctx is cancelled.
func runWebServer(ctx context.Context) error {
	server, err := api.NewServer(cfg, nil)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	fmt.Printf("Starting web server on %s\n", identifierColor.Sprint(cfg.Serve.Addr))
	logger.Info("HTTP server listening", "addr", cfg.Serve.Addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address (overrides serve.addr)")
	rootCmd.AddCommand(serveCmd)
}
