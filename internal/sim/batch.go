// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"btc-sim/internal/config"
	"btc-sim/internal/market"

	"golang.org/x/sync/errgroup"
)

// ErrNoTrials is returned by Batch when asked for fewer than one trial.
var ErrNoTrials = errors.New("batch needs at least one trial")

// Trial is the outcome of one run inside a batch.
type Trial struct {
	Seed             uint64  `json:"seed" yaml:"seed"`
	Profit           float64 `json:"profit" yaml:"profit"`
	BuyAndHoldProfit float64 `json:"buyAndHoldProfit" yaml:"buy_and_hold_profit"`
	Trades           int     `json:"trades" yaml:"trades"`
	BeatBuyAndHold   bool    `json:"beatBuyAndHold" yaml:"beat_buy_and_hold"`
}

// BatchResult aggregates many runs that share parameters but not seeds.
type BatchResult struct {
	Params               config.Simulation `json:"params" yaml:"params"`
	Trials               []Trial           `json:"trials" yaml:"trials"`
	MeanProfit           float64           `json:"meanProfit" yaml:"mean_profit"`
	MinProfit            float64           `json:"minProfit" yaml:"min_profit"`
	MaxProfit            float64           `json:"maxProfit" yaml:"max_profit"`
	MeanBuyAndHoldProfit float64           `json:"meanBuyAndHoldProfit" yaml:"mean_buy_and_hold_profit"`
	WinRate              float64           `json:"winRate" yaml:"win_rate"`
	MeanTrades           float64           `json:"meanTrades" yaml:"mean_trades"`
}

// Batch runs trials simulations with consecutive seeds starting at cfg.Seed
// (resolved first if zero) over at most workers goroutines. progress, when
// non-nil, is called after each finished trial with the number done so far.
func Batch(ctx context.Context, cfg config.Simulation, trials, workers int, progress func(done int)) (*BatchResult, error) {
	if trials < 1 {
		return nil, ErrNoTrials
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, trials)

	cfg.Seed = market.ResolveSeed(cfg.Seed)

	results := make([]Trial, trials)
	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < trials; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			trialCfg := cfg
			trialCfg.Seed = trialSeed(cfg.Seed, i)
			res, err := Run(gctx, trialCfg)
			if err != nil {
				return fmt.Errorf("trial %d (seed %d): %w", i, trialCfg.Seed, err)
			}
			results[i] = Trial{
				Seed:             res.Seed,
				Profit:           res.Summary.Profit,
				BuyAndHoldProfit: res.Summary.BuyAndHoldProfit,
				Trades:           res.Summary.Trades,
				BeatBuyAndHold:   res.Summary.BeatBuyAndHold,
			}

			mu.Lock()
			defer mu.Unlock()
			done++
			if progress != nil {
				progress(done)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// The loop stops early when the caller cancels before every trial started.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return aggregate(cfg, results), nil
}

func aggregate(cfg config.Simulation, trials []Trial) *BatchResult {
	br := &BatchResult{
		Params:    cfg,
		Trials:    trials,
		MinProfit: math.Inf(1),
		MaxProfit: math.Inf(-1),
	}
	var wins, trades int
	for _, t := range trials {
		br.MeanProfit += t.Profit
		br.MeanBuyAndHoldProfit += t.BuyAndHoldProfit
		br.MinProfit = math.Min(br.MinProfit, t.Profit)
		br.MaxProfit = math.Max(br.MaxProfit, t.Profit)
		trades += t.Trades
		if t.BeatBuyAndHold {
			wins++
		}
	}
	n := float64(len(trials))
	br.MeanProfit /= n
	br.MeanBuyAndHoldProfit /= n
	br.WinRate = float64(wins) / n
	br.MeanTrades = float64(trades) / n
	return br
}

// trialSeed returns the seed of trial i in a batch starting at start. The
// sequence steps over zero when it wraps, since zero asks for a random seed.
func trialSeed(start uint64, i int) uint64 {
	s := start + uint64(i)
	if s < start {
		s++
	}
	return s
}
