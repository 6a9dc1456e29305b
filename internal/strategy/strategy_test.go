// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollingMeanMinPeriods(t *testing.T) {
	got := RollingMean([]float64{1, 2, 3, 4, 5}, 3)
	assert.InDeltaSlice(t, []float64{1, 1.5, 2, 3, 4}, got, 1e-12)
}

func TestRollingMeanWindowLargerThanSeries(t *testing.T) {
	got := RollingMean([]float64{2, 4, 6}, 30)
	assert.InDeltaSlice(t, []float64{2, 3, 4}, got, 1e-12)
}

func TestRollingMeanNonPositiveWindowIsIdentity(t *testing.T) {
	in := []float64{3, 1, 4}
	assert.Equal(t, in, RollingMean(in, 0))
}

func TestSignalFor(t *testing.T) {
	assert.Equal(t, GoldenCross, SignalFor(2, 1))
	assert.Equal(t, DeathCross, SignalFor(1, 2))
	assert.Equal(t, Neutral, SignalFor(1, 1))
}

func TestAnalyzeRejectsBadWindows(t *testing.T) {
	prices := []float64{1, 2, 3}
	for _, w := range [][2]int{{0, 5}, {5, 5}, {6, 5}, {1, 0}} {
		_, err := Analyze(prices, w[0], w[1])
		assert.ErrorIs(t, err, ErrInvalidWindows, "windows %v", w)
	}
}

func TestAnalyzeFlatSeriesNeverTrades(t *testing.T) {
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 100
	}
	points, err := Analyze(prices, 7, 30)
	require.NoError(t, err)
	for _, p := range points {
		assert.Equal(t, Neutral, p.Signal)
		assert.Equal(t, Hold, p.Position)
	}
}

func TestAnalyzeFlipTradesOneDayLater(t *testing.T) {
	// Rising then falling then rising again with short=1 long=2 so the
	// signal is simply the sign of the daily move.
	prices := []float64{10, 11, 12, 11, 10, 11, 12}
	points, err := Analyze(prices, 1, 2)
	require.NoError(t, err)

	signals := make([]Signal, len(points))
	positions := make([]Position, len(points))
	for i, p := range points {
		assert.Equal(t, i, p.Day)
		signals[i] = p.Signal
		positions[i] = p.Position
	}

	assert.Equal(t, []Signal{Neutral, GoldenCross, GoldenCross, DeathCross, DeathCross, GoldenCross, GoldenCross}, signals)
	// Day 3 flips golden->death, so the sell lands on day 4; day 5 flips back,
	// so the buy lands on day 6. Neutral->golden on day 1 is not a trade.
	assert.Equal(t, []Position{Hold, Hold, Hold, Hold, Sell, Hold, Buy}, positions)
}

func TestAnalyzeFirstTwoDaysAlwaysHold(t *testing.T) {
	points, err := Analyze([]float64{5, 1}, 1, 2)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, Hold, points[0].Position)
	assert.Equal(t, Hold, points[1].Position)
}

func TestAnalyzeEmpty(t *testing.T) {
	points, err := Analyze(nil, 7, 30)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "golden", GoldenCross.String())
	assert.Equal(t, "death", DeathCross.String())
	assert.Equal(t, "neutral", Neutral.String())
	assert.Equal(t, "buy", Buy.String())
	assert.Equal(t, "sell", Sell.String())
	assert.Equal(t, "hold", Hold.String())
}
