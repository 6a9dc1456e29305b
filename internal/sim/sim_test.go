// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"btc-sim/internal/config"
	"btc-sim/internal/market"
	"btc-sim/internal/portfolio"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) config.Simulation {
	cfg := config.DefaultSimulation()
	cfg.Seed = seed
	return cfg
}

func TestRunProducesFullLedger(t *testing.T) {
	res, err := Run(context.Background(), seeded(11))
	require.NoError(t, err)

	_, err = uuid.Parse(res.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), res.Seed)
	require.Len(t, res.Entries, 60)
	require.Len(t, res.Points, 60)

	assert.Equal(t, 50000.0, res.Entries[0].Price)
	assert.Equal(t, 10000.0, res.Entries[0].Total)
	assert.InDelta(t, res.Entries[59].Total, res.Summary.FinalValue, 1e-9)

	wantBH := 10000.0 / res.Entries[0].Price * res.Entries[59].Price
	assert.InDelta(t, wantBH, res.Summary.BuyAndHoldValue, 1e-6)
}

func TestRunIsReproducibleForSeed(t *testing.T) {
	a, err := Run(context.Background(), seeded(5))
	require.NoError(t, err)
	b, err := Run(context.Background(), seeded(5))
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Entries, b.Entries)
	assert.Equal(t, a.Summary, b.Summary)
}

func TestRunResolvesZeroSeed(t *testing.T) {
	res, err := Run(context.Background(), seeded(0))
	require.NoError(t, err)
	assert.NotZero(t, res.Seed)
	assert.Equal(t, res.Seed, res.Params.Seed)

	again, err := Run(context.Background(), seeded(res.Seed))
	require.NoError(t, err)
	assert.Equal(t, res.Entries, again.Entries)
}

func TestRunTradesAlternate(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		res, err := Run(context.Background(), seeded(seed))
		require.NoError(t, err)

		var last portfolio.Action
		for _, e := range res.Entries {
			if !e.Traded() {
				continue
			}
			assert.NotEqual(t, last, e.Action, "seed %d day %d repeats %s", seed, e.Day, e.Action)
			last = e.Action
			if e.Action == portfolio.ActionBuy {
				assert.InDelta(t, 0, e.Cash, 1e-6)
			} else {
				assert.Zero(t, e.BTC)
			}
		}
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := seeded(1)
	cfg.LongWindow = 3
	_, err := Run(context.Background(), cfg)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestStreamCallsObserverInOrder(t *testing.T) {
	var days []int
	res, err := Stream(context.Background(), seeded(3), func(e portfolio.Entry) error {
		days = append(days, e.Day)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, days, len(res.Entries))
	for i, d := range days {
		assert.Equal(t, i, d)
	}
}

func TestStreamStopsOnObserverError(t *testing.T) {
	stop := errors.New("stop")
	res, err := Stream(context.Background(), seeded(3), func(e portfolio.Entry) error {
		if e.Day == 9 {
			return stop
		}
		return nil
	})
	require.ErrorIs(t, err, stop)
	assert.Len(t, res.Entries, 10)
}

func TestStreamHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Stream(ctx, seeded(3), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBatchIsIndependentOfWorkerCount(t *testing.T) {
	one, err := Batch(context.Background(), seeded(100), 12, 1, nil)
	require.NoError(t, err)
	many, err := Batch(context.Background(), seeded(100), 12, 8, nil)
	require.NoError(t, err)

	assert.Equal(t, one.Trials, many.Trials)
	assert.Equal(t, one.MeanProfit, many.MeanProfit)
	assert.Equal(t, one.WinRate, many.WinRate)
}

func TestRunRejectsDivergingPrices(t *testing.T) {
	cfg := seeded(5)
	cfg.Days = 1000
	cfg.Drift = config.MaxDrift
	cfg.Volatility = 0
	require.NoError(t, cfg.Validate())

	_, err := Run(context.Background(), cfg)
	assert.ErrorIs(t, err, market.ErrInvalidParams)
}

func TestBatchSeedsSkipZeroWhenWrapping(t *testing.T) {
	first, err := Batch(context.Background(), seeded(math.MaxUint64), 3, 2, nil)
	require.NoError(t, err)
	second, err := Batch(context.Background(), seeded(math.MaxUint64), 3, 1, nil)
	require.NoError(t, err)

	require.Len(t, first.Trials, 3)
	assert.Equal(t, uint64(math.MaxUint64), first.Trials[0].Seed)
	assert.Equal(t, uint64(1), first.Trials[1].Seed)
	assert.Equal(t, uint64(2), first.Trials[2].Seed)
	assert.Equal(t, first.Trials, second.Trials)
}

func TestTrialSeed(t *testing.T) {
	assert.Equal(t, uint64(12), trialSeed(10, 2))
	assert.Equal(t, uint64(math.MaxUint64), trialSeed(math.MaxUint64, 0))
	assert.Equal(t, uint64(1), trialSeed(math.MaxUint64, 1))
	assert.Equal(t, uint64(1), trialSeed(math.MaxUint64-1, 2))
}

func TestBatchAggregates(t *testing.T) {
	var calls []int
	br, err := Batch(context.Background(), seeded(40), 5, 2, func(done int) {
		calls = append(calls, done)
	})
	require.NoError(t, err)
	require.Len(t, br.Trials, 5)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, calls)

	var sum float64
	wins := 0
	for i, tr := range br.Trials {
		assert.Equal(t, uint64(40+i), tr.Seed)
		sum += tr.Profit
		assert.LessOrEqual(t, br.MinProfit, tr.Profit)
		assert.GreaterOrEqual(t, br.MaxProfit, tr.Profit)
		if tr.BeatBuyAndHold {
			wins++
		}
	}
	assert.InDelta(t, sum/5, br.MeanProfit, 1e-6)
	assert.InDelta(t, float64(wins)/5, br.WinRate, 1e-12)

	single, err := Run(context.Background(), seeded(42))
	require.NoError(t, err)
	assert.InDelta(t, single.Summary.Profit, br.Trials[2].Profit, 1e-9)
}

func TestBatchRejectsBadInput(t *testing.T) {
	_, err := Batch(context.Background(), seeded(1), 0, 1, nil)
	assert.ErrorIs(t, err, ErrNoTrials)

	cfg := seeded(1)
	cfg.Days = 0
	_, err = Batch(context.Background(), cfg, 3, 1, nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Batch(ctx, seeded(1), 50, 4, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
