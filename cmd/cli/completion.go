// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"strings"

	"btc-sim/internal/config"
	"btc-sim/internal/report"

	"github.com/spf13/cobra"
)

// configKeyCompletionFunc completes the key of 'config set', then offers
// literal values for boolean keys.
func configKeyCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		var completions []string
		for _, k := range config.Keys() {
			if strings.HasPrefix(k, toComplete) {
				completions = append(completions, k)
			}
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	case 1:
		switch args[0] {
		case "display.color", "display.emoji":
			return []string{"true", "false"}, cobra.ShellCompDirectiveNoFileComp
		case "log_level":
			return logLevelCompletionFunc(cmd, nil, toComplete)
		}
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func outputCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{
		string(report.FormatTable),
		string(report.FormatJSON),
		string(report.FormatYAML),
	}, cobra.ShellCompDirectiveNoFileComp
}

func logLevelCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
}
