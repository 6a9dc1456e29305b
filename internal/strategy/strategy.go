// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package strategy implements the moving-average crossover strategy.
//
// A golden cross (short average above the long one) is bullish, a death
// cross bearish. Trades are taken only when the signal flips from one side
// to the other, one day after the flip is observed.
package strategy

import (
	"errors"
	"fmt"
)

// ErrInvalidWindows is returned for window lengths that cannot form a crossover.
var ErrInvalidWindows = errors.New("invalid moving average windows")

// Signal is the side of the crossover on a given day.
type Signal int

const (
	DeathCross  Signal = -1
	Neutral     Signal = 0
	GoldenCross Signal = 1
)

func (s Signal) String() string {
	switch s {
	case GoldenCross:
		return "golden"
	case DeathCross:
		return "death"
	default:
		return "neutral"
	}
}

// Position is the trading action scheduled for a day.
type Position int

const (
	Hold Position = iota
	Buy
	Sell
)

func (p Position) String() string {
	switch p {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "hold"
	}
}

// Point is one analysed day.
type Point struct {
	Day      int      `json:"day" yaml:"day"`
	Price    float64  `json:"price" yaml:"price"`
	ShortMA  float64  `json:"shortMA" yaml:"short_ma"`
	LongMA   float64  `json:"longMA" yaml:"long_ma"`
	Signal   Signal   `json:"signal" yaml:"signal"`
	Position Position `json:"position" yaml:"position"`
}

// RollingMean returns the trailing mean of values over window entries. The
// first window-1 entries average whatever is available so far.
func RollingMean(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	for i := range values {
		// Equal windows must yield bit-identical means, so no running total.
		start := max(0, i-window+1)
		var sum float64
		for _, v := range values[start : i+1] {
			sum += v
		}
		out[i] = sum / float64(i+1-start)
	}
	return out
}

// SignalFor compares the two averages.
func SignalFor(shortMA, longMA float64) Signal {
	switch {
	case shortMA > longMA:
		return GoldenCross
	case shortMA < longMA:
		return DeathCross
	default:
		return Neutral
	}
}

// positionFor maps a signal change to a trade. Only a full flip trades.
func positionFor(delta Signal) Position {
	switch delta {
	case 2:
		return Buy
	case -2:
		return Sell
	default:
		return Hold
	}
}

// Analyze computes averages, signals and positions for prices.
func Analyze(prices []float64, short, long int) ([]Point, error) {
	if short < 1 || long < 1 || short >= long {
		return nil, fmt.Errorf("%w: short=%d long=%d", ErrInvalidWindows, short, long)
	}

	shortMA := RollingMean(prices, short)
	longMA := RollingMean(prices, long)

	points := make([]Point, len(prices))
	for i, price := range prices {
		points[i] = Point{
			Day:     i,
			Price:   price,
			ShortMA: shortMA[i],
			LongMA:  longMA[i],
			Signal:  SignalFor(shortMA[i], longMA[i]),
		}
		if i >= 2 {
			points[i].Position = positionFor(points[i-1].Signal - points[i-2].Signal)
		}
	}
	return points, nil
}
