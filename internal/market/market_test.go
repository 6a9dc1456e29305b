// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package market

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultParams() Params {
	return Params{Days: 60, InitialPrice: 50000, Volatility: 0.02, Seed: 7}
}

func TestSimulatePricesLengthAndStart(t *testing.T) {
	prices, err := SimulatePrices(defaultParams(), nil)
	require.NoError(t, err)
	require.Len(t, prices, 60)
	assert.Equal(t, 50000.0, prices[0])
	for i, p := range prices {
		assert.GreaterOrEqual(t, p, MinPrice, "day %d", i)
	}
}

func TestSimulatePricesDeterministicPerSeed(t *testing.T) {
	a, err := SimulatePrices(defaultParams(), nil)
	require.NoError(t, err)
	b, err := SimulatePrices(defaultParams(), nil)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other := defaultParams()
	other.Seed = 8
	c, err := SimulatePrices(other, nil)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestSimulatePricesZeroVolatilityFollowsDrift(t *testing.T) {
	p := Params{Days: 4, InitialPrice: 100, Volatility: 0, Drift: 0.1, Seed: 1}
	prices, err := SimulatePrices(p, nil)
	require.NoError(t, err)

	want := []float64{100, 110, 121, 133.1}
	for i := range want {
		assert.InDelta(t, want[i], prices[i], 1e-9)
	}
}

func TestSimulatePricesFlatWithoutDriftOrVolatility(t *testing.T) {
	p := Params{Days: 10, InitialPrice: 42, Seed: 3}
	prices, err := SimulatePrices(p, nil)
	require.NoError(t, err)
	for _, price := range prices {
		assert.Equal(t, 42.0, price)
	}
}

func TestSimulatePricesNeverDropsBelowFloor(t *testing.T) {
	p := Params{Days: 50, InitialPrice: 1, Volatility: 0, Drift: -5, Seed: 1}
	prices, err := SimulatePrices(p, nil)
	require.NoError(t, err)
	assert.Equal(t, MinPrice, prices[len(prices)-1])
}

func TestSimulatePricesSingleDay(t *testing.T) {
	p := defaultParams()
	p.Days = 1
	prices, err := SimulatePrices(p, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{50000}, prices)
}

func TestSimulatePricesRejectsInvalidParams(t *testing.T) {
	cases := map[string]Params{
		"no days":        {Days: 0, InitialPrice: 1},
		"zero price":     {Days: 5, InitialPrice: 0},
		"negative vol":   {Days: 5, InitialPrice: 1, Volatility: -1},
		"infinite drift": {Days: 5, InitialPrice: 1, Drift: math.Inf(1)},
		"infinite vol":   {Days: 5, InitialPrice: 1, Volatility: math.Inf(1)},
		"NaN vol":        {Days: 5, InitialPrice: 1, Volatility: math.NaN()},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := SimulatePrices(p, nil)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestSimulatePricesRejectsDivergingSeries(t *testing.T) {
	p := Params{Days: 60, InitialPrice: 50000, Volatility: 1e200, Seed: 42}
	prices, err := SimulatePrices(p, nil)
	assert.ErrorIs(t, err, ErrInvalidParams)
	assert.Nil(t, prices)

	p = Params{Days: 200, InitialPrice: 50000, Drift: 1, Seed: 42}
	_, err = SimulatePrices(p, nil)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestSimulatePricesStayFinite(t *testing.T) {
	p := Params{Days: 500, InitialPrice: 50000, Volatility: 0.05, Drift: 0.001, Seed: 3}
	prices, err := SimulatePrices(p, nil)
	require.NoError(t, err)
	for _, v := range prices {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		assert.GreaterOrEqual(t, v, MinPrice)
		assert.LessOrEqual(t, v, MaxPrice)
	}
}

func TestResolveSeed(t *testing.T) {
	assert.Equal(t, uint64(99), ResolveSeed(99))
	assert.NotZero(t, ResolveSeed(0))
}
