// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"btc-sim/internal/config"
	"btc-sim/internal/logger"
	"btc-sim/internal/report"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags "-X btc-sim/cmd/cli.Version=...".
var Version = "dev"

var (
	statusColor     = color.New(color.FgCyan)
	errorColor      = color.New(color.FgRed)
	successColor    = color.New(color.FgGreen)
	identifierColor = color.New(color.FgBlue)
)

// Persistent flag values.
var (
	configPath   string
	logLevel     string
	noColor      bool
	plain        bool
	outputFormat string
)

// cfg is loaded once per invocation by the root PersistentPreRunE.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "bsim",
	Short: "Moving-average crossover simulator",
	Long: `Simulates a synthetic BTC price series, trades it with a short/long
moving-average crossover strategy and prints a ledger in which trades stand
out, followed by a comparison against buy and hold.

Run without arguments to open the interactive viewer.
Defaults are read from the config file (see 'bsim config path').`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			config.SetPath(configPath)
		}

		loaded, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded

		// Flag beats BSIM_LOG_LEVEL beats the config file.
		logger.InitLogger(false)
		switch {
		case cmd.Flags().Changed("log-level"):
			logger.SetLevel(logLevel)
		case os.Getenv("BSIM_LOG_LEVEL") == "":
			logger.SetLevel(cfg.LogLevel)
		}
		logger.Debug("Configuration loaded", "command", cmd.Name())
		return nil
	},
}

// RunCLI executes the command tree and exits non-zero on failure.
func RunCLI() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// printerOptions derives the terminal rendering options from the config and
// the global flags.
func printerOptions() report.Options {
	return report.Options{
		Every: cfg.Display.Every,
		Color: cfg.Display.Color && !noColor && !color.NoColor,
		Emoji: cfg.Display.Emoji && !plain,
	}
}

// statusf prints a progress line for table output. Machine-readable output
// stays clean.
func statusf(w io.Writer, f report.Format, format string, args ...any) {
	if f != report.FormatTable {
		return
	}
	statusColor.Fprintf(w, format, args...)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bsim %s\n", Version)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/btc-sim/config.yaml)")
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")
	pf.BoolVar(&plain, "plain", false, "disable emoji markers")
	pf.StringVarP(&outputFormat, "output", "o", "table", "output format: table, json or yaml")

	_ = rootCmd.RegisterFlagCompletionFunc("output", outputCompletionFunc)
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", logLevelCompletionFunc)

	rootCmd.AddCommand(versionCmd)
}
