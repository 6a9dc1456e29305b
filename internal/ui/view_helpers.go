// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"fmt"
	"strings"

	"btc-sim/internal/portfolio"
	"btc-sim/internal/report"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// --- View Helpers ---

func (m Model) View() string {
	if !m.ready {
		return statusStyle.Render("Initializing...")
	}

	var b strings.Builder
	b.WriteString(m.renderTitle())
	b.WriteString("\n")

	switch m.state {
	case stateLoading:
		b.WriteString(statusStyle.Render("Simulating prices..."))
		b.WriteString("\n")

	case stateError:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Simulation failed: %v", m.err)))
		b.WriteString("\n\nPress e to edit the parameters or q to quit.\n")

	case stateEditing:
		b.WriteString(m.renderForm())

	default:
		b.WriteString(headerStyle.Render(ledgerHeader()))
		b.WriteString("\n")
		b.WriteString(strings.Repeat("-", 75))
		b.WriteString("\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		if m.state == stateFinished {
			b.WriteString(m.renderSummary())
			b.WriteString("\n")
		}
	}

	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	if m.state == stateEditing {
		b.WriteString(m.help.View(formKeys{m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m Model) renderTitle() string {
	title := "BTC Crossover Simulator"
	if m.cfg.Display.Emoji {
		title = "📈 " + title
	}
	seed := ""
	if m.result != nil {
		seed = " " + dimStyle.Render("seed") + " " + seedStyle.Render(fmt.Sprint(m.result.Seed))
	}
	windows := dimStyle.Render(fmt.Sprintf(" MA %d/%d", m.params.ShortWindow, m.params.LongWindow))
	return titleStyle.Render(title) + seed + windows
}

func ledgerHeader() string {
	return fmt.Sprintf("%s | %s | %s | %s | %s | %s",
		runewidth.FillRight("Day", 4),
		runewidth.FillRight("Action", 8),
		runewidth.FillRight("Price", 12),
		runewidth.FillRight("BTC Held", 10),
		runewidth.FillRight("Cash", 12),
		"Portfolio Value")
}

// renderRow formats one ledger entry with the trade highlighted.
func (m Model) renderRow(e portfolio.Entry) string {
	action := runewidth.FillRight(report.ActionLabel(e.Action, m.cfg.Display.Emoji), 8)
	switch e.Action {
	case portfolio.ActionBuy:
		action = buyStyle.Render(action)
	case portfolio.ActionSell:
		action = sellStyle.Render(action)
	}
	return fmt.Sprintf("%-4d | %s | $%-11.2f | %-10.4f | $%-11.2f | $%.2f",
		e.Day, action, e.Price, e.BTC, e.Cash, e.Total)
}

// ledgerContent renders every revealed row that passes the display filter.
// Trades are always shown.
func (m Model) ledgerContent() string {
	if m.result == nil {
		return ""
	}
	entries := m.result.Entries[:m.revealed]
	last := len(m.result.Entries) - 1
	var lines []string
	for i, e := range entries {
		if report.Visible(e, i, last, m.cfg.Display.Every) {
			lines = append(lines, m.renderRow(e))
		}
	}
	return strings.Join(lines, "\n")
}

// refreshViewport rewrites the ledger and follows the newest row unless the
// user scrolled away from the bottom.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	follow := m.viewport.AtBottom() || m.viewport.TotalLineCount() == 0
	m.viewport.SetContent(m.ledgerContent())
	if follow {
		m.viewport.GotoBottom()
	}
}

func (m Model) renderSummary() string {
	s := m.result.Summary
	money := report.Money
	signed := func(v float64, text string) string {
		if v >= 0 {
			return gainStyle.Render(text)
		}
		return lossStyle.Render(text)
	}

	heading := "Final Portfolio Performance"
	if m.cfg.Display.Emoji {
		heading = "📊 " + heading
	}
	verdict := lossStyle.Render("trailed buy and hold")
	if s.BeatBuyAndHold {
		verdict = gainStyle.Render("beat buy and hold")
	}

	rows := []string{
		titleStyle.Render(heading),
		fmt.Sprintf("Initial Cash:          %s", money(s.InitialCash)),
		fmt.Sprintf("Final Portfolio Value: %s", money(s.FinalValue)),
		fmt.Sprintf("Profit/Loss:           %s", signed(s.Profit, money(s.Profit))),
		fmt.Sprintf("Buy and Hold Value:    %s", money(s.BuyAndHoldValue)),
		fmt.Sprintf("Trades / Drawdown:     %d / %.2f%%", s.Trades, s.MaxDrawdownPct),
		fmt.Sprintf("Verdict:               strategy %s", verdict),
	}
	return summaryStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderForm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Simulation Parameters"))
	b.WriteString("\n\n")
	for i, in := range m.formInputs {
		cursor := "  "
		if i == m.formCursor {
			cursor = cursorStyle.Render("> ")
		}
		b.WriteString(cursor + in.View() + "\n")
	}
	if m.formError != nil {
		b.WriteString("\n" + errorStyle.Render(m.formError.Error()) + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderStatusLine() string {
	switch m.state {
	case stateLoading:
		return statusStyle.Render("Loading...")
	case stateEditing:
		return statusStyle.Render("Editing parameters")
	case stateError:
		return errorStyle.Render("Error")
	}

	total := len(m.result.Entries)
	progress := fmt.Sprintf("Day %d/%d", m.revealed, total)
	speed := dimStyle.Render(fmt.Sprintf("  %s/day", m.tick))
	switch {
	case m.state == stateFinished:
		return statusStyle.Render(progress+" · finished") + speed
	case m.paused:
		return pausedStyle.Render(progress+" · paused") + speed
	default:
		return statusStyle.Render(progress) + speed
	}
}
