// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package sim wires the price generator, the crossover strategy and the
// portfolio backtest into complete simulation runs.
package sim

import (
	"context"
	"fmt"
	"time"

	"btc-sim/internal/config"
	"btc-sim/internal/logger"
	"btc-sim/internal/market"
	"btc-sim/internal/portfolio"
	"btc-sim/internal/strategy"

	"github.com/google/uuid"
)

// Result is a finished simulation run.
type Result struct {
	ID        string            `json:"id" yaml:"id"`
	Seed      uint64            `json:"seed" yaml:"seed"`
	Params    config.Simulation `json:"params" yaml:"params"`
	Points    []strategy.Point  `json:"points,omitempty" yaml:"points,omitempty"`
	Entries   []portfolio.Entry `json:"entries" yaml:"entries"`
	Summary   portfolio.Summary `json:"summary" yaml:"summary"`
	StartedAt time.Time         `json:"startedAt" yaml:"started_at"`
	Duration  time.Duration     `json:"duration" yaml:"duration"`
}

// Observer is notified once per ledger entry, in day order. Returning an
// error stops the run.
type Observer func(portfolio.Entry) error

// prepare validates cfg, resolves the seed and produces the analysed series.
func prepare(cfg config.Simulation) (config.Simulation, []strategy.Point, error) {
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}
	cfg.Seed = market.ResolveSeed(cfg.Seed)

	prices, err := market.SimulatePrices(market.Params{
		Days:         cfg.Days,
		InitialPrice: cfg.InitialPrice,
		Volatility:   cfg.Volatility,
		Drift:        cfg.Drift,
		Seed:         cfg.Seed,
	}, nil)
	if err != nil {
		return cfg, nil, fmt.Errorf("simulating prices: %w", err)
	}

	points, err := strategy.Analyze(prices, cfg.ShortWindow, cfg.LongWindow)
	if err != nil {
		return cfg, nil, fmt.Errorf("analyzing prices: %w", err)
	}
	return cfg, points, nil
}

// Run executes a complete simulation.
func Run(ctx context.Context, cfg config.Simulation) (*Result, error) {
	return Stream(ctx, cfg, nil)
}

// Stream executes a simulation and calls fn for every ledger entry as it is
// produced. The returned Result holds the entries seen before any stop.
func Stream(ctx context.Context, cfg config.Simulation, fn Observer) (*Result, error) {
	start := time.Now()

	cfg, points, err := prepare(cfg)
	if err != nil {
		return nil, err
	}

	ledger, err := portfolio.NewLedger(cfg.InitialCash)
	if err != nil {
		return nil, err
	}

	res := &Result{
		ID:        uuid.NewString(),
		Seed:      cfg.Seed,
		Params:    cfg,
		Points:    points,
		Entries:   make([]portfolio.Entry, 0, len(points)),
		StartedAt: start.UTC(),
	}

	for _, p := range points {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		entry := ledger.Step(p)
		res.Entries = append(res.Entries, entry)
		if fn != nil {
			if err := fn(entry); err != nil {
				return res, err
			}
		}
	}

	res.Summary = portfolio.Summarize(res.Entries, cfg.InitialCash)
	res.Duration = time.Since(start)

	logger.Debug("Simulation finished",
		"id", res.ID,
		"seed", res.Seed,
		"days", cfg.Days,
		"trades", res.Summary.Trades,
		"profit", res.Summary.Profit,
	)
	return res, nil
}
