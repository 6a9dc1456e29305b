// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package report renders simulation results for humans and machines.
//
// The terminal ledger highlights trades with color and emoji markers so they
// stand out in a long stream of daily rows; everything else stays neutral.
package report

import (
	"fmt"
	"io"
	"strings"

	"btc-sim/internal/portfolio"
	"btc-sim/internal/sim"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const ruleWidth = 75

// Options controls the terminal rendering.
type Options struct {
	// Every prints each n-th day besides trades and the first/last day.
	// Zero or less prints every day.
	Every int

	// Color enables ANSI colors. The caller decides, usually from the
	// config, NO_COLOR and whether stdout is a terminal.
	Color bool

	// Emoji enables the trade markers and section glyphs.
	Emoji bool
}

// Printer writes ledgers and summaries to w.
type Printer struct {
	w    io.Writer
	opts Options

	header *color.Color
	buy    *color.Color
	sell   *color.Color
	gain   *color.Color
	loss   *color.Color
	dim    *color.Color
}

// moneyPrinter groups thousands the way en-US readers expect.
var moneyPrinter = message.NewPrinter(language.English)

// Money formats v as dollars with thousands separators and two decimals.
func Money(v float64) string {
	return "$" + moneyPrinter.Sprintf("%.2f", v)
}

// New returns a Printer for w.
func New(w io.Writer, opts Options) *Printer {
	p := &Printer{
		w:      w,
		opts:   opts,
		header: color.New(color.FgHiCyan),
		buy:    color.New(color.FgHiGreen),
		sell:   color.New(color.FgHiRed),
		gain:   color.New(color.FgHiGreen),
		loss:   color.New(color.FgHiRed),
		dim:    color.New(color.FgHiYellow),
	}
	for _, c := range []*color.Color{p.header, p.buy, p.sell, p.gain, p.loss, p.dim} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Visible reports whether the entry at index i of a ledger with last index
// last is printed: trades always are, as are the first and last day and
// every n-th day.
func Visible(e portfolio.Entry, i, last, every int) bool {
	if every <= 0 || e.Traded() || i == 0 || i == last {
		return true
	}
	return i%every == 0
}

// ActionLabel is the text shown in the Action column.
func ActionLabel(a portfolio.Action, emoji bool) string {
	switch a {
	case portfolio.ActionBuy:
		if emoji {
			return "🟢 BUY"
		}
		return "BUY"
	case portfolio.ActionSell:
		if emoji {
			return "🔴 SELL"
		}
		return "SELL"
	default:
		return ""
	}
}

// pad left-aligns s in a column of width terminal cells.
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// Header writes the column titles and the rule under them.
func (p *Printer) Header() {
	title := fmt.Sprintf("%s | %s | %s | %s | %s | %s",
		pad("Day", 4), pad("Action", 8), pad("Price", 12), pad("BTC Held", 10), pad("Cash", 12), pad("Portfolio Value", 15))
	fmt.Fprintln(p.w)
	p.header.Fprintln(p.w, title)
	fmt.Fprintln(p.w, strings.Repeat("-", ruleWidth))
}

// Row writes a single ledger entry.
func (p *Printer) Row(e portfolio.Entry) {
	action := pad(ActionLabel(e.Action, p.opts.Emoji), 8)
	switch e.Action {
	case portfolio.ActionBuy:
		action = p.buy.Sprint(action)
	case portfolio.ActionSell:
		action = p.sell.Sprint(action)
	}

	fmt.Fprintf(p.w, "%-4d | %s | $%-11.2f | %-10.4f | $%-11.2f | $%-14.2f\n",
		e.Day, action, e.Price, e.BTC, e.Cash, e.Total)
}

// Ledger writes the header and every visible entry.
func (p *Printer) Ledger(entries []portfolio.Entry) {
	p.Header()
	last := len(entries) - 1
	for i, e := range entries {
		if Visible(e, i, last, p.opts.Every) {
			p.Row(e)
		}
	}
}

func (p *Printer) signed(v float64, text string) string {
	if v >= 0 {
		return p.gain.Sprint(text)
	}
	return p.loss.Sprint(text)
}

func (p *Printer) title(glyph, text string) string {
	if p.opts.Emoji && glyph != "" {
		text = glyph + " " + text
	}
	return fmt.Sprintf("------ %s ------", text)
}

// Summary writes the end-of-run performance block.
func (p *Printer) Summary(s portfolio.Summary) {
	heading := p.title("📊", "Final Portfolio Performance")
	fmt.Fprintf(p.w, "\n%s\n", heading)
	fmt.Fprintf(p.w, "Initial Cash:            %s\n", Money(s.InitialCash))
	fmt.Fprintf(p.w, "Final Portfolio Value:   %s\n", Money(s.FinalValue))
	fmt.Fprintf(p.w, "Profit/Loss:             %s\n", p.signed(s.Profit, Money(s.Profit)))
	fmt.Fprintf(p.w, "Return:                  %s\n", p.signed(s.ReturnPct, fmt.Sprintf("%.2f%%", s.ReturnPct)))
	fmt.Fprintf(p.w, "Buy and Hold Value:      %s\n", Money(s.BuyAndHoldValue))
	fmt.Fprintf(p.w, "Trades:                  %d\n", s.Trades)
	fmt.Fprintf(p.w, "Max Drawdown:            %.2f%%\n", s.MaxDrawdownPct)

	verdict := "Strategy trailed buy and hold"
	if s.BeatBuyAndHold {
		verdict = "Strategy beat buy and hold"
	}
	fmt.Fprintf(p.w, "Verdict:                 %s\n", p.signed(boolSign(s.BeatBuyAndHold), verdict))
	fmt.Fprintln(p.w, strings.Repeat("-", runewidth.StringWidth(heading)))
}

func boolSign(b bool) float64 {
	if b {
		return 1
	}
	return -1
}

// Result writes the full ledger followed by the summary.
func (p *Printer) Result(r *sim.Result) {
	fmt.Fprintf(p.w, "Run %s (seed %s)\n", r.ID, p.dim.Sprint(r.Seed))
	p.Ledger(r.Entries)
	p.Summary(r.Summary)
}

// Batch writes the aggregate of a batch run.
func (p *Printer) Batch(b *sim.BatchResult) {
	heading := p.title("🎲", fmt.Sprintf("Batch of %d Trials", len(b.Trials)))
	fmt.Fprintf(p.w, "\n%s\n", heading)
	fmt.Fprintf(p.w, "Starting Seed:           %d\n", b.Params.Seed)
	fmt.Fprintf(p.w, "Mean Profit/Loss:        %s\n", p.signed(b.MeanProfit, Money(b.MeanProfit)))
	fmt.Fprintf(p.w, "Best / Worst:            %s / %s\n",
		p.signed(b.MaxProfit, Money(b.MaxProfit)), p.signed(b.MinProfit, Money(b.MinProfit)))
	fmt.Fprintf(p.w, "Mean Buy and Hold P/L:   %s\n", p.signed(b.MeanBuyAndHoldProfit, Money(b.MeanBuyAndHoldProfit)))
	fmt.Fprintf(p.w, "Beat Buy and Hold:       %.1f%%\n", b.WinRate*100)
	fmt.Fprintf(p.w, "Mean Trades:             %.2f\n", b.MeanTrades)
	fmt.Fprintln(p.w, strings.Repeat("-", runewidth.StringWidth(heading)))
}
