// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"fmt"
	"time"

	"btc-sim/internal/logger"
	"btc-sim/internal/report"
	"btc-sim/internal/sim"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var (
	batchFlags   simFlags
	batchTrials  int
	batchWorkers int
	batchVerbose bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run many simulations and aggregate the outcome",
	Long: `Runs --trials simulations with consecutive seeds and reports how often the
crossover strategy beat buy and hold, along with the mean, best and worst
profit. A fixed --seed makes the whole batch reproducible.`,
	Example: "  bsim batch --trials 500\n  bsim batch --trials 100 --seed 1 -o yaml",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := report.ParseFormat(outputFormat)
		if err != nil {
			return err
		}

		params := batchFlags.apply(cmd.Flags(), cfg.Simulation)
		if err := params.Validate(); err != nil {
			return err
		}

		errOut := cmd.ErrOrStderr()
		statusf(errOut, format, "Running %d trials...\n", batchTrials)

		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(errOut))
		s.Color("cyan")
		s.Suffix = fmt.Sprintf(" 0/%d trials", batchTrials)
		s.Start()

		started := time.Now()
		res, err := sim.Batch(cmd.Context(), params, batchTrials, batchWorkers, func(done int) {
			s.Lock()
			s.Suffix = fmt.Sprintf(" %d/%d trials", done, batchTrials)
			s.Unlock()
		})
		s.Stop()
		if err != nil {
			return fmt.Errorf("batch failed: %w", err)
		}
		logger.Info("Batch finished", "trials", len(res.Trials), "seed", res.Params.Seed, "duration", time.Since(started))

		out := cmd.OutOrStdout()
		if format == report.FormatTable {
			report.New(out, printerOptions()).Batch(res)
			return nil
		}
		if !batchVerbose {
			res.Trials = nil
		}
		return report.Encode(out, format, res)
	},
}

func init() {
	batchFlags.register(batchCmd.Flags())
	batchCmd.Flags().IntVarP(&batchTrials, "trials", "n", 100, "number of simulations")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "parallel workers (0 uses all CPUs)")
	batchCmd.Flags().BoolVar(&batchVerbose, "trials-detail", false, "include every trial in json/yaml output")
	rootCmd.AddCommand(batchCmd)
}
