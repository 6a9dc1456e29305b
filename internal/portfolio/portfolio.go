// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package portfolio backtests an all-in/all-out portfolio against the
// positions produced by the strategy package.
package portfolio

import (
	"errors"
	"fmt"
	"math"

	"btc-sim/internal/strategy"
)

// ErrInvalidCash is returned for a non-positive starting balance.
var ErrInvalidCash = errors.New("initial cash must be positive")

// Action is what the portfolio actually did on a day.
type Action string

const (
	ActionNone Action = ""
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

// Entry is one row of the daily ledger.
type Entry struct {
	Day    int     `json:"day" yaml:"day"`
	Action Action  `json:"action,omitempty" yaml:"action,omitempty"`
	Price  float64 `json:"price" yaml:"price"`
	BTC    float64 `json:"btc" yaml:"btc"`
	Cash   float64 `json:"cash" yaml:"cash"`
	Total  float64 `json:"total" yaml:"total"`
}

// Traded reports whether the entry carries a buy or a sell.
func (e Entry) Traded() bool {
	return e.Action != ActionNone
}

// Summary is the end-of-run performance report.
type Summary struct {
	InitialCash      float64 `json:"initialCash" yaml:"initial_cash"`
	FinalValue       float64 `json:"finalValue" yaml:"final_value"`
	Profit           float64 `json:"profit" yaml:"profit"`
	ReturnPct        float64 `json:"returnPct" yaml:"return_pct"`
	BuyAndHoldValue  float64 `json:"buyAndHoldValue" yaml:"buy_and_hold_value"`
	BuyAndHoldProfit float64 `json:"buyAndHoldProfit" yaml:"buy_and_hold_profit"`
	Trades           int     `json:"trades" yaml:"trades"`
	MaxDrawdownPct   float64 `json:"maxDrawdownPct" yaml:"max_drawdown_pct"`
	BeatBuyAndHold   bool    `json:"beatBuyAndHold" yaml:"beat_buy_and_hold"`
}

// Ledger replays positions day by day. Callers that want to observe each
// entry as it is produced use Step; Backtest drives it to completion.
type Ledger struct {
	cash float64
	btc  float64
}

// NewLedger starts a ledger holding only cash.
func NewLedger(initialCash float64) (*Ledger, error) {
	if initialCash <= 0 || math.IsNaN(initialCash) || math.IsInf(initialCash, 0) {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidCash, initialCash)
	}
	return &Ledger{cash: initialCash}, nil
}

// Step applies the day's position and returns the resulting entry.
func (l *Ledger) Step(p strategy.Point) Entry {
	var action Action
	switch p.Position {
	case strategy.Buy:
		l.btc += l.cash / p.Price
		l.cash = 0
		action = ActionBuy
	case strategy.Sell:
		if l.btc > 0 {
			l.cash += l.btc * p.Price
			l.btc = 0
			action = ActionSell
		}
	}

	return Entry{
		Day:    p.Day,
		Action: action,
		Price:  p.Price,
		BTC:    l.btc,
		Cash:   l.cash,
		Total:  l.cash + l.btc*p.Price,
	}
}

// Backtest runs the whole series through a fresh ledger.
func Backtest(points []strategy.Point, initialCash float64) ([]Entry, error) {
	l, err := NewLedger(initialCash)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(points))
	for _, p := range points {
		entries = append(entries, l.Step(p))
	}
	return entries, nil
}

// Summarize compares the ledger against buying on the first day and holding.
func Summarize(entries []Entry, initialCash float64) Summary {
	s := Summary{
		InitialCash:     initialCash,
		FinalValue:      initialCash,
		BuyAndHoldValue: initialCash,
	}
	if len(entries) == 0 {
		return s
	}

	first, last := entries[0], entries[len(entries)-1]
	s.FinalValue = last.Total
	s.Profit = s.FinalValue - initialCash
	s.ReturnPct = s.Profit / initialCash * 100
	s.BuyAndHoldValue = initialCash / first.Price * last.Price
	s.BuyAndHoldProfit = s.BuyAndHoldValue - initialCash
	s.BeatBuyAndHold = s.FinalValue > s.BuyAndHoldValue

	peak := math.Inf(-1)
	for _, e := range entries {
		if e.Traded() {
			s.Trades++
		}
		peak = math.Max(peak, e.Total)
		if peak > 0 {
			s.MaxDrawdownPct = math.Max(s.MaxDrawdownPct, (peak-e.Total)/peak*100)
		}
	}
	return s
}
