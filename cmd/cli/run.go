// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"fmt"

	"btc-sim/internal/config"
	"btc-sim/internal/logger"
	"btc-sim/internal/report"
	"btc-sim/internal/sim"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// simFlags holds the per-run overrides shared by run and batch.
type simFlags struct {
	days        int
	seed        uint64
	price       float64
	volatility  float64
	drift       float64
	short       int
	long        int
	cash        float64
	every       int
	withSignals bool
}

var runFlags simFlags

// register adds the simulation flags to fs. Defaults mirror config.Default;
// only flags set on the command line override the config file.
func (f *simFlags) register(fs *pflag.FlagSet) {
	d := config.DefaultSimulation()
	fs.IntVarP(&f.days, "days", "d", d.Days, "number of simulated days")
	fs.Uint64VarP(&f.seed, "seed", "s", d.Seed, "random seed (0 picks one and reports it)")
	fs.Float64Var(&f.price, "price", d.InitialPrice, "starting price")
	fs.Float64Var(&f.volatility, "volatility", d.Volatility, "daily volatility")
	fs.Float64Var(&f.drift, "drift", d.Drift, "daily drift")
	fs.IntVar(&f.short, "short", d.ShortWindow, "short moving-average window")
	fs.IntVar(&f.long, "long", d.LongWindow, "long moving-average window")
	fs.Float64Var(&f.cash, "cash", d.InitialCash, "starting cash")
}

// apply overlays the flags the user set onto base.
func (f *simFlags) apply(fs *pflag.FlagSet, base config.Simulation) config.Simulation {
	if fs.Changed("days") {
		base.Days = f.days
	}
	if fs.Changed("seed") {
		base.Seed = f.seed
	}
	if fs.Changed("price") {
		base.InitialPrice = f.price
	}
	if fs.Changed("volatility") {
		base.Volatility = f.volatility
	}
	if fs.Changed("drift") {
		base.Drift = f.drift
	}
	if fs.Changed("short") {
		base.ShortWindow = f.short
	}
	if fs.Changed("long") {
		base.LongWindow = f.long
	}
	if fs.Changed("cash") {
		base.InitialCash = f.cash
	}
	return base
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation and print the ledger",
	Long: `Simulates the configured number of days and prints the ledger. Trades,
the first and last day and every n-th day (see --every) are shown, followed by
the performance summary.`,
	Example: "  bsim run\n  bsim run --days 120 --seed 42\n  bsim run -o json --signals",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := report.ParseFormat(outputFormat)
		if err != nil {
			return err
		}

		params := runFlags.apply(cmd.Flags(), cfg.Simulation)
		if err := params.Validate(); err != nil {
			return err
		}

		res, err := sim.Run(cmd.Context(), params)
		if err != nil {
			return fmt.Errorf("simulation failed: %w", err)
		}
		logger.Info("Simulation finished", "id", res.ID, "seed", res.Seed, "trades", res.Summary.Trades)

		if !runFlags.withSignals {
			res.Points = nil
		}

		out := cmd.OutOrStdout()
		if format != report.FormatTable {
			return report.Encode(out, format, res)
		}

		opts := printerOptions()
		if cmd.Flags().Changed("every") {
			opts.Every = runFlags.every
		}
		report.New(out, opts).Result(res)
		return nil
	},
}

func init() {
	runFlags.register(runCmd.Flags())
	runCmd.Flags().IntVar(&runFlags.every, "every", config.Default().Display.Every, "print every n-th day besides trades (0 prints all)")
	runCmd.Flags().BoolVar(&runFlags.withSignals, "signals", false, "include the moving averages and signals in json/yaml output")
	rootCmd.AddCommand(runCmd)
}
