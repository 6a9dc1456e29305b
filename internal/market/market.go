// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package market generates synthetic daily price series.
//
// Prices follow a discretised geometric Brownian motion: every day the
// previous close moves by close*(drift*dt + shock*sqrt(dt)) where shock is
// drawn from a normal distribution with the configured volatility.
package market

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// MinPrice is the floor applied to every simulated close.
const MinPrice = 0.01

// MaxPrice is the largest close a series may reach before it is treated as
// diverged.
const MaxPrice = 1e15

// ErrInvalidParams is returned when the generator parameters are out of range.
var ErrInvalidParams = errors.New("invalid price parameters")

// Params describes one price series.
type Params struct {
	Days         int
	InitialPrice float64
	Volatility   float64
	Drift        float64
	Seed         uint64
}

// Validate reports the first invalid field.
func (p Params) Validate() error {
	switch {
	case p.Days < 1:
		return fmt.Errorf("%w: days must be at least 1, got %d", ErrInvalidParams, p.Days)
	case p.InitialPrice <= 0 || math.IsNaN(p.InitialPrice) || math.IsInf(p.InitialPrice, 0):
		return fmt.Errorf("%w: initial price must be positive, got %g", ErrInvalidParams, p.InitialPrice)
	case p.Volatility < 0 || math.IsNaN(p.Volatility) || math.IsInf(p.Volatility, 0):
		return fmt.Errorf("%w: volatility must be finite and not negative, got %g", ErrInvalidParams, p.Volatility)
	case math.IsNaN(p.Drift) || math.IsInf(p.Drift, 0):
		return fmt.Errorf("%w: drift must be finite", ErrInvalidParams)
	}
	return nil
}

// NewSource returns a deterministic generator for seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// ResolveSeed returns seed unchanged unless it is zero, in which case a fresh
// non-zero seed is derived from the clock.
func ResolveSeed(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}
	s := uint64(time.Now().UnixNano()) ^ rand.Uint64()
	if s == 0 {
		s = 1
	}
	return s
}

// SimulatePrices returns p.Days closing prices starting at p.InitialPrice.
// When rng is nil a generator seeded with p.Seed is used. A series whose
// closes leave the finite range up to MaxPrice fails with ErrInvalidParams.
func SimulatePrices(p Params, rng *rand.Rand) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewSource(p.Seed)
	}

	const dt = 1.0
	prices := make([]float64, p.Days)
	prices[0] = p.InitialPrice
	for i := 1; i < p.Days; i++ {
		shock := rng.NormFloat64() * p.Volatility
		prev := prices[i-1]
		next := prev + prev*(p.Drift*dt+shock*math.Sqrt(dt))
		if math.IsNaN(next) || next > MaxPrice {
			return nil, fmt.Errorf("%w: price series diverged on day %d", ErrInvalidParams, i+1)
		}
		prices[i] = math.Max(next, MinPrice)
	}
	return prices, nil
}
