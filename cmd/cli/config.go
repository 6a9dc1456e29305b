// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"errors"
	"fmt"
	"os"

	"btc-sim/internal/config"
	"btc-sim/internal/report"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// dimColor is used for less important/secondary text in the CLI output
var dimColor = color.New(color.Faint)

var configInitForce bool

// configCmd is the parent command for all configuration-related subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage btc-sim configuration",
	Long: `Provides subcommands to inspect and change the defaults used by every run:
simulation parameters, display options, the HTTP server and the log level.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  `Prints the configuration after defaults have been applied. Use -o json for JSON.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := report.ParseFormat(outputFormat)
		if err != nil {
			return err
		}
		if format == report.FormatTable {
			format = report.FormatYAML
		}
		return report.Encode(cmd.OutOrStdout(), format, cfg)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the location of the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, path)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			dimColor.Fprintln(cmd.ErrOrStderr(), "(file does not exist yet; defaults are in use)")
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.SaveConfig(config.Default()); err != nil {
			return fmt.Errorf("failed to write configuration: %w", err)
		}
		successColor.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", identifierColor.Sprint(path))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one configuration value",
	Long: `Sets a single dotted key, validates the result and saves the file.
Durations such as display.tick accept Go syntax (e.g. 80ms).`,
	Example:           "  bsim config set simulation.days 120\n  bsim config set display.emoji false",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: configKeyCompletionFunc,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.Set(&cfg, key, value); err != nil {
			return err
		}
		if err := config.SaveConfig(cfg); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
		successColor.Fprintf(cmd.OutOrStdout(), "%s set to %s\n", identifierColor.Sprint(key), value)
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SaveConfig(config.Default()); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
		cfg = config.Default()
		successColor.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the keys accepted by 'config set'",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, k := range config.Keys() {
			fmt.Fprintln(cmd.OutOrStdout(), k)
		}
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configResetCmd)
	configCmd.AddCommand(configKeysCmd)

	rootCmd.AddCommand(configCmd)
}
